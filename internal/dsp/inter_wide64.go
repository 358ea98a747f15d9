package dsp

import "encoding/binary"

// Word-parallel interpolation kernels. Averages run on eight bytes per
// uint64; the chroma filter runs on four 16-bit lanes, which cannot carry
// into each other because a weighted sum never exceeds 64*255+32.
// The 6-tap filters reuse intermediates instead of recomputing them and
// clip through a table. Output must stay identical to the generic kernels.

type wide64 struct{}

const (
	lanes16Lo  = 0x00ff00ff00ff00ff
	pairMask   = 0x0000ffff0000ffff
	avgMask    = 0x7f7f7f7f7f7f7f7f
	chromaRnd  = 0x0020002000200020
	centerTile = 16
)

// spread4 unpacks four bytes into four 16-bit lanes.
func spread4(b []byte, i int) uint64 {
	x := uint64(binary.LittleEndian.Uint32(b[i:]))
	x = (x | x<<16) & pairMask
	return (x | x<<8) & lanes16Lo
}

// pack4 is the inverse of spread4 for lanes holding values <= 255.
func pack4(v uint64, b []byte, i int) {
	x := (v | v>>8) & pairMask
	binary.LittleEndian.PutUint32(b[i:], uint32(x|x>>16))
}

func (wide64) CopyLuma(src []byte, srcOff, srcStride int, dst []byte, dstOff, dstStride, wd, ht int) {
	for y := 0; y < ht; y++ {
		copy(dst[dstOff:dstOff+wd], src[srcOff:srcOff+wd])
		srcOff += srcStride
		dstOff += dstStride
	}
}

func (wide64) HorzLuma(src []byte, srcOff, srcStride int, dst []byte, dstOff, dstStride, wd, ht int) {
	for y := 0; y < ht; y++ {
		row := src[srcOff-2 : srcOff+wd+3]
		out := dst[dstOff : dstOff+wd]
		// Sliding window over p[x-2] .. p[x+3].
		p0, p1, p2 := int(row[0]), int(row[1]), int(row[2])
		p3, p4 := int(row[3]), int(row[4])
		for x := range out {
			p5 := int(row[x+5])
			v := p0 + p5 - 5*(p1+p4) + 20*(p2+p3)
			out[x] = Kclip1((v + 16) >> 5)
			p0, p1, p2, p3, p4 = p1, p2, p3, p4, p5
		}
		srcOff += srcStride
		dstOff += dstStride
	}
}

func (wide64) VertLuma(src []byte, srcOff, srcStride int, dst []byte, dstOff, dstStride, wd, ht int) {
	for y := 0; y < ht; y++ {
		r0 := src[srcOff-2*srcStride:]
		r1 := src[srcOff-srcStride:]
		r2 := src[srcOff:]
		r3 := src[srcOff+srcStride:]
		r4 := src[srcOff+2*srcStride:]
		r5 := src[srcOff+3*srcStride:]
		_ = r5[wd-1]
		out := dst[dstOff : dstOff+wd]
		for x := range out {
			v := int(r0[x]) + int(r5[x]) - 5*(int(r1[x])+int(r4[x])) + 20*(int(r2[x])+int(r3[x]))
			out[x] = Kclip1((v + 16) >> 5)
		}
		srcOff += srcStride
		dstOff += dstStride
	}
}

func (wide64) CenterLuma(src []byte, srcOff, srcStride int, dst []byte, dstOff, dstStride, wd, ht int) {
	// Horizontal intermediates for a tile plus the five extra rows the
	// vertical taps need; they fit in int16.
	var tmp [(centerTile + 5) * centerTile]int16
	for ty := 0; ty < ht; ty += centerTile {
		th := min(centerTile, ht-ty)
		for tx := 0; tx < wd; tx += centerTile {
			tw := min(centerTile, wd-tx)
			s := srcOff + (ty-2)*srcStride + tx
			for r := 0; r < th+5; r++ {
				row := src[s-2 : s+tw+3]
				t := tmp[r*centerTile : r*centerTile+tw]
				for x := range t {
					t[x] = int16(int(row[x]) + int(row[x+5]) -
						5*(int(row[x+1])+int(row[x+4])) + 20*(int(row[x+2])+int(row[x+3])))
				}
				s += srcStride
			}
			d := dstOff + ty*dstStride + tx
			for r := 0; r < th; r++ {
				h0 := tmp[r*centerTile:]
				h1 := tmp[(r+1)*centerTile:]
				h2 := tmp[(r+2)*centerTile:]
				h3 := tmp[(r+3)*centerTile:]
				h4 := tmp[(r+4)*centerTile:]
				h5 := tmp[(r+5)*centerTile:]
				out := dst[d : d+tw]
				for x := range out {
					v := int(h0[x]) + int(h5[x]) - 5*(int(h1[x])+int(h4[x])) + 20*(int(h2[x])+int(h3[x]))
					out[x] = Kclip1((v + 512) >> 10)
				}
				d += dstStride
			}
		}
	}
}

func (wide64) Bilinear(src1 []byte, off1, stride1 int, src2 []byte, off2, stride2 int,
	dst []byte, dstOff, dstStride, wd, ht int) {
	for y := 0; y < ht; y++ {
		x := 0
		for ; x+8 <= wd; x += 8 {
			a := binary.LittleEndian.Uint64(src1[off1+x:])
			b := binary.LittleEndian.Uint64(src2[off2+x:])
			// Per byte: (a|b) - ((a^b)>>1) == (a+b+1)>>1.
			binary.LittleEndian.PutUint64(dst[dstOff+x:], (a|b)-((a^b)>>1)&avgMask)
		}
		for ; x < wd; x++ {
			dst[dstOff+x] = uint8((int(src1[off1+x]) + int(src2[off2+x]) + 1) >> 1)
		}
		off1 += stride1
		off2 += stride2
		dstOff += dstStride
	}
}

func (wide64) Chroma(src []byte, srcOff, srcStride int, dst []byte, dstOff, dstStride, dx, dy, wd, ht int) {
	n := 2 * wd
	switch {
	case dx == 0:
		chromaTwoTap(src, srcOff, srcStride, srcStride, dst, dstOff, dstStride, 8*(8-dy), 8*dy, n, ht)
	case dy == 0:
		chromaTwoTap(src, srcOff, srcStride, 2, dst, dstOff, dstStride, 8*(8-dx), 8*dx, n, ht)
	default:
		chromaFourTap(src, srcOff, srcStride, dst, dstOff, dstStride, dx, dy, n, ht)
	}
}

// chromaTwoTap handles phases where one of dx, dy is zero: the two taps on
// the zero axis carry no weight, so only A and the sample next at step are
// read.
func chromaTwoTap(src []byte, srcOff, srcStride, step int, dst []byte, dstOff, dstStride, w0, w1, n, ht int) {
	m0, m1 := uint64(w0), uint64(w1)
	for y := 0; y < ht; y++ {
		x := 0
		for ; x+4 <= n; x += 4 {
			s := srcOff + x
			v := m0*spread4(src, s) + m1*spread4(src, s+step) + chromaRnd
			pack4((v>>6)&lanes16Lo, dst, dstOff+x)
		}
		for ; x < n; x++ {
			s := srcOff + x
			dst[dstOff+x] = uint8((w0*int(src[s]) + w1*int(src[s+step]) + 32) >> 6)
		}
		srcOff += srcStride
		dstOff += dstStride
	}
}

func chromaFourTap(src []byte, srcOff, srcStride int, dst []byte, dstOff, dstStride, dx, dy, n, ht int) {
	wA := (8 - dx) * (8 - dy)
	wB := dx * (8 - dy)
	wC := (8 - dx) * dy
	wD := dx * dy
	mA, mB, mC, mD := uint64(wA), uint64(wB), uint64(wC), uint64(wD)
	for y := 0; y < ht; y++ {
		x := 0
		for ; x+4 <= n; x += 4 {
			s := srcOff + x
			v := mA*spread4(src, s) + mB*spread4(src, s+2) +
				mC*spread4(src, s+srcStride) + mD*spread4(src, s+srcStride+2) + chromaRnd
			pack4((v>>6)&lanes16Lo, dst, dstOff+x)
		}
		for ; x < n; x++ {
			s := srcOff + x
			v := wA*int(src[s]) + wB*int(src[s+2]) + wC*int(src[s+srcStride]) + wD*int(src[s+srcStride+2])
			dst[dstOff+x] = uint8((v + 32) >> 6)
		}
		srcOff += srcStride
		dstOff += dstStride
	}
}
