package mc

import (
	"fmt"

	"github.com/deepteams/svcmc/internal/dsp"
	"github.com/deepteams/svcmc/internal/plane"
)

// LumaArgs is the input of Luma. Every view is positioned at the top-left
// luma sample of the current macroblock.
type LumaArgs struct {
	MB   *MBInfo
	Refs *Refs

	// SubPel is the sub-pel block produced upstream for this macroblock:
	// the half-sample interpolation of uni-predicted PUs and the averaged
	// prediction of bi-predicted ones. It must be complete before Luma runs.
	SubPel plane.View

	// BaseIntra is the upsampled base-layer intra prediction.
	BaseIntra plane.View

	// Dst is the worker's destination block.
	Dst plane.View

	// Isolate forces the prediction into Dst even for a single partition,
	// for consumers that cannot read the reference in place.
	Isolate bool
}

// Luma produces the luma prediction of a macroblock and returns a view of
// it. The returned view borrows BaseIntra, a reference or SubPel when no
// copy is needed; otherwise it is Dst.
func Luma(t *dsp.Table, a *LumaArgs) plane.View {
	mb := a.MB
	if mb.IsBaseIntra() {
		return a.BaseIntra
	}
	n := len(mb.PUs)
	checkPUs(n)

	out := a.Dst
	for i := range mb.PUs {
		pu := &mb.PUs[i]
		list, bi := pu.Dir, false
		if list == Bi {
			// The averaging of both lists already happened upstream into
			// SubPel; List0 only supplies the (unused) full-sample source.
			list, bi = List0, true
		}
		mv := pu.MV[list]
		x, y := Decompose(int(mv.X)), Decompose(int(mv.Y))
		factor := SubpelFactor(x, y)
		px, py := 4*int(pu.X), 4*int(pu.Y)

		src := a.Refs[list].Luma.Shift(px+x.Full, py+y.Full)
		if HasHalf(factor) || bi {
			src = a.SubPel.Shift(px, py)
		}

		if n == 1 && !a.Isolate {
			out = src
			continue
		}
		t.Inter.CopyLuma(src.Buf, src.Off, src.Stride,
			a.Dst.Buf, a.Dst.At(px, py), a.Dst.Stride, pu.Width(), pu.Height())
	}
	return out
}

// ChromaArgs is the input of Chroma. Chroma views are interleaved CbCr,
// positioned at the first Cb sample of the current macroblock.
type ChromaArgs struct {
	MB        *MBInfo
	Refs      *Refs
	BaseIntra plane.View
	Dst       plane.View
	Scratch   *Scratch
}

// Chroma produces the chroma prediction of a macroblock. It returns
// BaseIntra for base-mode intra macroblocks and Dst otherwise; chroma
// always runs a filter, so it never borrows a reference.
func Chroma(t *dsp.Table, a *ChromaArgs) plane.View {
	mb := a.MB
	if len(mb.PUs) > MaxPUs {
		panic(fmt.Sprintf("mc: %d partitions exceed the maximum of %d", len(mb.PUs), MaxPUs))
	}
	if mb.IsBaseIntra() {
		return a.BaseIntra
	}
	checkPUs(len(mb.PUs))

	dst := a.Dst
	for i := range mb.PUs {
		pu := &mb.PUs[i]
		// Chroma rows of a PU: 2 per 4 luma rows; bytes: 4 per 4 luma
		// columns (2 pairs).
		dstOff := dst.At(4*int(pu.X), 2*int(pu.Y))
		wd, ht := pu.Width()/2, pu.Height()/2

		if pu.Dir != Bi {
			interpChroma(t, a.Refs[pu.Dir].Chroma, pu, pu.MV[pu.Dir], dst.Buf, dstOff, dst.Stride)
			continue
		}

		// No combined sub-pel plane exists for chroma: interpolate each
		// list into scratch and average.
		s := a.Scratch
		for l := List0; l <= List1; l++ {
			interpChroma(t, a.Refs[l].Chroma, pu, pu.MV[l], s.Bi[l], 0, MBSize)
		}
		t.Inter.Bilinear(s.Bi[List0], 0, MBSize, s.Bi[List1], 0, MBSize,
			dst.Buf, dstOff, dst.Stride, 2*wd, ht)
	}
	return dst
}

// interpChroma filters one PU from ref into dst at dstOff.
func interpChroma(t *dsp.Table, ref plane.View, pu *PU, mv MV, dst []byte, dstOff, dstStride int) {
	ox, fx := ChromaAxis(int(mv.X))
	oy, fy := ChromaAxis(int(mv.Y))
	// Horizontal offsets double: Cb and Cr alternate.
	src := ref.Shift(4*int(pu.X)+2*ox, 2*int(pu.Y)+oy)
	t.Inter.Chroma(src.Buf, src.Off, src.Stride, dst, dstOff, dstStride,
		fx.Phase(), fy.Phase(), pu.Width()/2, pu.Height()/2)
}

func checkPUs(n int) {
	if n < 1 || n > MaxPUs {
		panic(fmt.Sprintf("mc: inter macroblock with %d partitions (want 1..%d)", n, MaxPUs))
	}
}
