package dsp

// Baseline interpolation kernels. These are the reference every other
// binding is tested against: one sample at a time, no lookup tables.

type generic struct{}

// tap6 applies the (1, -5, 20, 20, -5, 1) filter centred between p[i] and
// p[i+step]. The result is the unrounded, unscaled intermediate.
func tap6(p []byte, i, step int) int {
	return int(p[i-2*step]) - 5*int(p[i-step]) + 20*int(p[i]) +
		20*int(p[i+step]) - 5*int(p[i+2*step]) + int(p[i+3*step])
}

func (generic) CopyLuma(src []byte, srcOff, srcStride int, dst []byte, dstOff, dstStride, wd, ht int) {
	for y := 0; y < ht; y++ {
		s := srcOff + y*srcStride
		d := dstOff + y*dstStride
		for x := 0; x < wd; x++ {
			dst[d+x] = src[s+x]
		}
	}
}

func (generic) HorzLuma(src []byte, srcOff, srcStride int, dst []byte, dstOff, dstStride, wd, ht int) {
	for y := 0; y < ht; y++ {
		s := srcOff + y*srcStride
		d := dstOff + y*dstStride
		for x := 0; x < wd; x++ {
			dst[d+x] = Clip8b((tap6(src, s+x, 1) + 16) >> 5)
		}
	}
}

func (generic) VertLuma(src []byte, srcOff, srcStride int, dst []byte, dstOff, dstStride, wd, ht int) {
	for y := 0; y < ht; y++ {
		s := srcOff + y*srcStride
		d := dstOff + y*dstStride
		for x := 0; x < wd; x++ {
			dst[d+x] = Clip8b((tap6(src, s+x, srcStride) + 16) >> 5)
		}
	}
}

func (generic) CenterLuma(src []byte, srcOff, srcStride int, dst []byte, dstOff, dstStride, wd, ht int) {
	for y := 0; y < ht; y++ {
		s := srcOff + y*srcStride
		d := dstOff + y*dstStride
		for x := 0; x < wd; x++ {
			// Vertical taps over the horizontal intermediates of rows
			// y-2 .. y+3.
			var h [6]int
			for k := 0; k < 6; k++ {
				h[k] = tap6(src, s+x+(k-2)*srcStride, 1)
			}
			v := h[0] - 5*h[1] + 20*h[2] + 20*h[3] - 5*h[4] + h[5]
			dst[d+x] = Clip8b((v + 512) >> 10)
		}
	}
}

func (generic) Bilinear(src1 []byte, off1, stride1 int, src2 []byte, off2, stride2 int,
	dst []byte, dstOff, dstStride, wd, ht int) {
	for y := 0; y < ht; y++ {
		a := off1 + y*stride1
		b := off2 + y*stride2
		d := dstOff + y*dstStride
		for x := 0; x < wd; x++ {
			dst[d+x] = uint8((int(src1[a+x]) + int(src2[b+x]) + 1) >> 1)
		}
	}
}

func (generic) Chroma(src []byte, srcOff, srcStride int, dst []byte, dstOff, dstStride, dx, dy, wd, ht int) {
	wA := (8 - dx) * (8 - dy)
	wB := dx * (8 - dy)
	wC := (8 - dx) * dy
	wD := dx * dy
	for y := 0; y < ht; y++ {
		s := srcOff + y*srcStride
		d := dstOff + y*dstStride
		for x := 0; x < 2*wd; x++ {
			// Neighbours of the same component sit two bytes apart.
			v := wA*int(src[s+x]) + wB*int(src[s+x+2]) +
				wC*int(src[s+srcStride+x]) + wD*int(src[s+srcStride+x+2])
			dst[d+x] = Clip8b((v + 32) >> 6)
		}
	}
}
