package svcmc

import (
	"log/slog"
	"runtime"

	"github.com/pkg/errors"

	"github.com/deepteams/svcmc/internal/dsp"
	"github.com/deepteams/svcmc/internal/plane"
)

// MinPad is the smallest reference border PredictFrame accepts. The 6-tap
// filter needs three samples on each side of a block plus one for the
// quarter-sample average.
const MinPad = 8

// MaxWorkers caps the number of row workers. Beyond it the per-row work is
// too small to amortize goroutine scheduling.
const MaxWorkers = 16

// Options controls a Layer.
type Options struct {
	// ISA selects the kernel binding: "auto" (default), "generic" or
	// "wide64".
	ISA string

	// Workers is the number of goroutines compensating macroblock rows.
	// 0 uses GOMAXPROCS, capped at MaxWorkers and at the frame height.
	Workers int

	// Pad is the border, in luma samples, Import adds around pictures
	// (default plane.DefaultPad). It must be even and at least MinPad.
	// Motion vectors may point up to Pad-4 samples outside the picture.
	Pad int

	// Isolate forces every inter prediction into worker storage instead of
	// borrowing reference samples. Output is identical either way.
	Isolate bool

	// Residual makes PredictFrame return the luma residual against the
	// source picture.
	Residual bool

	// Logger receives debug records. nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns options with automatic ISA selection, one worker
// per CPU and the default picture border.
func DefaultOptions() *Options {
	return &Options{
		ISA: dsp.ISAAuto.String(),
		Pad: plane.DefaultPad,
	}
}

// validate checks option ranges and returns the first invalid one,
// wrapping ErrInvalidOptions.
func (o *Options) validate() error {
	if _, err := dsp.ParseISA(o.ISA); err != nil {
		return errors.Wrapf(ErrInvalidOptions, "ISA %q", o.ISA)
	}
	if o.Workers < 0 {
		return errors.Wrapf(ErrInvalidOptions, "Workers %d (must be >= 0)", o.Workers)
	}
	if o.Pad < MinPad || o.Pad%2 != 0 {
		return errors.Wrapf(ErrInvalidOptions, "Pad %d (must be even and >= %d)", o.Pad, MinPad)
	}
	return nil
}

// workers resolves the worker count for a frame of mbh macroblock rows.
func (o *Options) workers(mbh int) int {
	n := o.Workers
	if n == 0 {
		n = runtime.GOMAXPROCS(0)
	}
	n = min(n, MaxWorkers, mbh)
	return max(n, 1)
}
