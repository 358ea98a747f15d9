package svcmc

import (
	"image"
	"log/slog"

	"github.com/google/uuid"

	"github.com/deepteams/svcmc/internal/dsp"
	"github.com/deepteams/svcmc/internal/plane"
)

// Layer is the inter-prediction context of one encoding layer. Its kernel
// table is bound once, in NewLayer, and never changes, so a Layer may
// predict frames from several goroutines.
type Layer struct {
	// ID tags every log record of the layer.
	ID uuid.UUID

	opts  Options
	table *dsp.Table
	log   *slog.Logger
}

// NewLayer validates opts and binds the kernel table. nil opts uses
// DefaultOptions.
func NewLayer(opts *Options) (*Layer, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	isa, _ := dsp.ParseISA(opts.ISA)

	l := &Layer{
		ID:    uuid.New(),
		opts:  *opts,
		table: dsp.Select(isa),
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	l.log = log.With("layer", l.ID.String())
	l.log.Debug("svcmc: layer created",
		"isa", l.table.ISA.String(),
		"requested", isa.String(),
		"pad", opts.Pad,
		"isolate", opts.Isolate)
	return l, nil
}

// ISA returns the binding the layer's table resolved to.
func (l *Layer) ISA() dsp.ISA { return l.table.ISA }

// Import converts img into a padded picture usable as a reference, source
// or base-layer intra picture of this layer. Dimensions are rounded up to
// whole macroblocks.
func (l *Layer) Import(img image.Image) *plane.Picture {
	return plane.FromImage(img, l.opts.Pad)
}
