// Package dsp holds the ISA capability table used by the inter-prediction
// engine: the interpolation kernels (copy, 6-tap half-pel filters, rounded
// averaging, chroma bilinear) and the residual kernels that run on the
// prediction it produces.
//
// Kernel convention: every kernel receives full buffers plus an offset so
// that buf[off] is the top-left sample of the block. Filters read samples
// before off (up to two rows and two columns for the 6-tap filters), so
// callers must hand in padded planes. Reads outside a buffer panic; that is
// a caller bug, not a runtime condition.
package dsp

import "fmt"

// ISA names a kernel binding target.
type ISA int

const (
	// ISAAuto resolves to the best target for the running CPU.
	ISAAuto ISA = iota
	// ISAGeneric is the scalar baseline. Every other binding must match it
	// byte for byte.
	ISAGeneric
	// ISAWide64 processes several samples per 64-bit word.
	ISAWide64
)

func (isa ISA) String() string {
	switch isa {
	case ISAAuto:
		return "auto"
	case ISAGeneric:
		return "generic"
	case ISAWide64:
		return "wide64"
	default:
		return fmt.Sprintf("ISA(%d)", int(isa))
	}
}

// ParseISA maps a name accepted by String back to an ISA.
func ParseISA(s string) (ISA, error) {
	switch s {
	case "", "auto":
		return ISAAuto, nil
	case "generic":
		return ISAGeneric, nil
	case "wide64":
		return ISAWide64, nil
	}
	return ISAAuto, fmt.Errorf("dsp: unknown ISA %q", s)
}

// InterPred is the set of interpolation slots.
//
// Luma kernels work on wd x ht samples. Chroma works on interleaved CbCr
// rows: wd counts sample pairs and 2*wd bytes are written per row.
type InterPred interface {
	// CopyLuma copies a block unchanged.
	CopyLuma(src []byte, srcOff, srcStride int, dst []byte, dstOff, dstStride, wd, ht int)

	// HorzLuma writes the half-pel samples between src[x] and src[x+1].
	HorzLuma(src []byte, srcOff, srcStride int, dst []byte, dstOff, dstStride, wd, ht int)

	// VertLuma writes the half-pel samples between rows y and y+1.
	VertLuma(src []byte, srcOff, srcStride int, dst []byte, dstOff, dstStride, wd, ht int)

	// CenterLuma writes the half-pel samples in both directions.
	CenterLuma(src []byte, srcOff, srcStride int, dst []byte, dstOff, dstStride, wd, ht int)

	// Bilinear writes the rounded average (a+b+1)>>1 of two blocks.
	Bilinear(src1 []byte, off1, stride1 int, src2 []byte, off2, stride2 int,
		dst []byte, dstOff, dstStride, wd, ht int)

	// Chroma applies the eighth-sample bilinear filter at phase (dx, dy),
	// both in [0, 7].
	Chroma(src []byte, srcOff, srcStride int, dst []byte, dstOff, dstStride, dx, dy, wd, ht int)
}

// Residual is the set of residual slots consumed after prediction.
type Residual interface {
	// SSE returns the sum of squared differences of two blocks.
	SSE(a []byte, aOff, aStride int, b []byte, bOff, bStride, wd, ht int) int

	// Subtract writes src-pred row-major into out (len >= wd*ht).
	Subtract(src []byte, srcOff, srcStride int, pred []byte, predOff, predStride int,
		out []int16, wd, ht int)
}

// Table is a bound set of kernels. A bound table is immutable; rebinding
// replaces every slot and must not race with calls through the table.
type Table struct {
	ISA   ISA
	Inter InterPred
	Resid Residual
}

// Bind fills every slot of t with the implementation for isa. ISAAuto is
// resolved with Detect. Unknown targets fall back to the baseline.
func Bind(t *Table, isa ISA) {
	if isa == ISAAuto {
		isa = Detect()
	}
	switch isa {
	case ISAWide64:
		*t = Table{ISA: ISAWide64, Inter: wide64{}, Resid: wideResidual{}}
	default:
		*t = Table{ISA: ISAGeneric, Inter: generic{}, Resid: genericResidual{}}
	}
}

// Select returns a freshly bound table.
func Select(isa ISA) *Table {
	t := new(Table)
	Bind(t, isa)
	return t
}
