// Package halfpel produces the sub-pel luma data motion compensation reads:
// the three half-sample planes of a reference picture, computed once per
// frame, and the per-macroblock best sub-pel block built from them.
//
// Generate for every reference of a frame must return before any
// macroblock of that frame is compensated.
package halfpel

import (
	"github.com/deepteams/svcmc/internal/dsp"
	"github.com/deepteams/svcmc/internal/mc"
	"github.com/deepteams/svcmc/internal/plane"
	"github.com/deepteams/svcmc/internal/pool"
)

// Planes holds the half-sample interpolations of one reference picture.
// All four views share the reference's luma geometry and are positioned at
// luma sample (0, 0). X[x, y] lies between full samples (x, y) and
// (x+1, y); Y[x, y] between (x, y) and (x, y+1); XY in the middle of the
// four.
type Planes struct {
	Full, X, Y, XY plane.View

	slab []byte
}

// margin is the border, in samples, where the 6-tap filter has no input.
const margin = 3

// Generate computes the half-sample planes of ref over its whole padded
// area except a 3-sample margin, which reads as zero. ref must be
// edge-padded. Call Release once no macroblock reads the planes.
func Generate(t *dsp.Table, ref *plane.Picture) *Planes {
	stride := ref.YStride
	rows := len(ref.Y) / stride
	size := len(ref.Y)
	slab := pool.GetZeroed(3 * size)
	full := ref.Luma()
	p := &Planes{
		slab: slab,
		Full: full,
		X:    plane.View{Buf: slab[:size:size], Off: full.Off, Stride: stride},
		Y:    plane.View{Buf: slab[size : 2*size : 2*size], Off: full.Off, Stride: stride},
		XY:   plane.View{Buf: slab[2*size:], Off: full.Off, Stride: stride},
	}
	if rows <= 2*margin || stride <= 2*margin {
		return p
	}
	ip := t.Inter
	// Rows 2 .. rows-4 have all six vertical taps; columns 2 .. stride-4
	// have all six horizontal taps.
	off := (margin-1)*stride + margin - 1
	wd := stride - 2*margin + 1
	ht := rows - 2*margin + 1
	ip.HorzLuma(ref.Y, off, stride, p.X.Buf, off, stride, wd, ht)
	ip.VertLuma(ref.Y, off, stride, p.Y.Buf, off, stride, wd, ht)
	ip.CenterLuma(ref.Y, off, stride, p.XY.Buf, off, stride, wd, ht)
	return p
}

// Release returns the plane storage to the pool. p must not be used
// afterwards.
func (p *Planes) Release() {
	if p.slab != nil {
		pool.Put(p.slab)
	}
	*p = Planes{}
}

// Ref is a reference's planes positioned at one macroblock.
type Ref struct {
	Full, X, Y, XY plane.View
}

// At positions the planes at macroblock (mbx, mby).
func (p *Planes) At(mbx, mby int) Ref {
	dx, dy := mc.MBSize*mbx, mc.MBSize*mby
	return Ref{
		Full: p.Full.Shift(dx, dy),
		X:    p.X.Shift(dx, dy),
		Y:    p.Y.Shift(dx, dy),
		XY:   p.XY.Shift(dx, dy),
	}
}

// Temp is worker-owned storage for the two list predictions of a
// bi-predicted PU.
type Temp [2][mc.MBSize * mc.MBSize]byte

// Best fills dst, an MBSize-strided block for the current macroblock, with
// the sub-pel prediction of every PU that motion compensation reads from
// it: uni-predicted PUs with a half-sample component, and bi-predicted
// PUs, whose two list predictions are averaged here.
func Best(t *dsp.Table, mb *mc.MBInfo, refs *[2]Ref, dst plane.View, tmp *Temp) {
	for i := range mb.PUs {
		pu := &mb.PUs[i]
		px, py := 4*int(pu.X), 4*int(pu.Y)
		wd, ht := pu.Width(), pu.Height()
		dstOff := dst.At(px, py)

		if pu.Dir != mc.Bi {
			mv := pu.MV[pu.Dir]
			x, y := mc.Decompose(int(mv.X)), mc.Decompose(int(mv.Y))
			if !mc.HasHalf(mc.SubpelFactor(x, y)) {
				continue
			}
			Predict(t, &refs[pu.Dir], mv, px, py, wd, ht, dst.Buf, dstOff, dst.Stride)
			continue
		}
		for l := mc.List0; l <= mc.List1; l++ {
			Predict(t, &refs[l], pu.MV[l], px, py, wd, ht, tmp[l][:], 0, mc.MBSize)
		}
		t.Inter.Bilinear(tmp[0][:], 0, mc.MBSize, tmp[1][:], 0, mc.MBSize,
			dst.Buf, dstOff, dst.Stride, wd, ht)
	}
}

type planeID uint8

const (
	none planeID = iota
	full
	horz
	vert
	center
)

// tap names a plane sample relative to the full-sample position.
type tap struct {
	id     planeID
	dx, dy int
}

// quarterTaps lists, for each (xFrac, yFrac), the one or two samples
// whose rounded average is the H.264 luma sample at that position.
var quarterTaps = [4][4][2]tap{
	// yFrac 0
	{{{full, 0, 0}, {}}, {{full, 0, 0}, {horz, 0, 0}}, {{horz, 0, 0}, {}}, {{horz, 0, 0}, {full, 1, 0}}},
	// yFrac 1
	{{{full, 0, 0}, {vert, 0, 0}}, {{horz, 0, 0}, {vert, 0, 0}}, {{horz, 0, 0}, {center, 0, 0}}, {{horz, 0, 0}, {vert, 1, 0}}},
	// yFrac 2
	{{{vert, 0, 0}, {}}, {{vert, 0, 0}, {center, 0, 0}}, {{center, 0, 0}, {}}, {{center, 0, 0}, {vert, 1, 0}}},
	// yFrac 3
	{{{vert, 0, 0}, {full, 0, 1}}, {{vert, 0, 0}, {horz, 0, 1}}, {{center, 0, 0}, {horz, 0, 1}}, {{vert, 1, 0}, {horz, 0, 1}}},
}

func (r *Ref) view(id planeID) plane.View {
	switch id {
	case horz:
		return r.X
	case vert:
		return r.Y
	case center:
		return r.XY
	}
	return r.Full
}

// Predict writes the quarter-sample luma prediction of a wd x ht block at
// (px, py) inside the macroblock, displaced by mv, into dst.
func Predict(t *dsp.Table, r *Ref, mv mc.MV, px, py, wd, ht int, dst []byte, dstOff, dstStride int) {
	x, y := int(mv.X), int(mv.Y)
	bx, by := px+(x>>2), py+(y>>2)
	taps := quarterTaps[y&3][x&3]

	a := r.view(taps[0].id).Shift(bx+taps[0].dx, by+taps[0].dy)
	if taps[1].id == none {
		t.Inter.CopyLuma(a.Buf, a.Off, a.Stride, dst, dstOff, dstStride, wd, ht)
		return
	}
	b := r.view(taps[1].id).Shift(bx+taps[1].dx, by+taps[1].dy)
	t.Inter.Bilinear(a.Buf, a.Off, a.Stride, b.Buf, b.Off, b.Stride, dst, dstOff, dstStride, wd, ht)
}
