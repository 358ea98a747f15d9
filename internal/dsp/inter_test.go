package dsp

import "testing"

// rampPlane returns a plane whose sample at (x, y) is (x*ax + y*ay) & 0xff.
func rampPlane(stride, rows, ax, ay int) []byte {
	p := make([]byte, stride*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < stride; x++ {
			p[y*stride+x] = byte(x*ax + y*ay)
		}
	}
	return p
}

func TestFlatPlaneIsFixedPoint(t *testing.T) {
	src := make([]byte, srcStride*srcStride)
	for i := range src {
		src[i] = 77
	}
	for _, tbl := range []*Table{Select(ISAGeneric), Select(ISAWide64)} {
		ip := tbl.Inter
		dst := make([]byte, dstStride*16)
		for name, run := range map[string]func(){
			"copy":   func() { ip.CopyLuma(src, srcOrigin, srcStride, dst, 0, dstStride, 16, 16) },
			"horz":   func() { ip.HorzLuma(src, srcOrigin, srcStride, dst, 0, dstStride, 16, 16) },
			"vert":   func() { ip.VertLuma(src, srcOrigin, srcStride, dst, 0, dstStride, 16, 16) },
			"center": func() { ip.CenterLuma(src, srcOrigin, srcStride, dst, 0, dstStride, 16, 16) },
			"chroma": func() { ip.Chroma(src, srcOrigin, srcStride, dst, 0, dstStride, 5, 3, 8, 8) },
		} {
			for i := range dst {
				dst[i] = 0
			}
			run()
			for y := 0; y < 8; y++ {
				for x := 0; x < 16; x++ {
					if dst[y*dstStride+x] != 77 {
						t.Fatalf("%v %s: dst(%d,%d) = %d, want 77", tbl.ISA, name, x, y, dst[y*dstStride+x])
					}
				}
			}
		}
	}
}

// TestHalfPelOnRamp checks the 6-tap filter against hand-computed values:
// on a linear ramp the half-pel sample is the midpoint.
func TestHalfPelOnRamp(t *testing.T) {
	src := rampPlane(srcStride, srcStride, 4, 0)
	for _, tbl := range []*Table{Select(ISAGeneric), Select(ISAWide64)} {
		dst := make([]byte, dstStride*4)
		tbl.Inter.HorzLuma(src, srcOrigin, srcStride, dst, 0, dstStride, 4, 4)
		// Sample x=8 is 32, x=9 is 36; the half-pel sample is 34.
		for x := 0; x < 4; x++ {
			want := byte((8+x)*4 + 2)
			if dst[x] != want {
				t.Errorf("%v: HorzLuma[%d] = %d, want %d", tbl.ISA, x, dst[x], want)
			}
		}
	}
}

// TestHalfPelStepClips checks over- and undershoot at a hard edge.
func TestHalfPelStepClips(t *testing.T) {
	// Row: ... 0 0 0 255 255 255 ...; edge between x=9 and x=10.
	src := make([]byte, srcStride*srcStride)
	for y := 0; y < srcStride; y++ {
		for x := 10; x < srcStride; x++ {
			src[y*srcStride+x] = 255
		}
	}
	dst := make([]byte, dstStride)
	generic{}.HorzLuma(src, srcOrigin, srcStride, dst, 0, dstStride, 4, 1)
	// x=8: taps at 6..11 = 0 0 0 0 255 255 -> (-5*255 + 255 + 16) >> 5 < 0.
	// x=9: taps at 7..12 = 0 0 0 255 255 255 -> (20-5+1)*255 = 4080 -> 128.
	// x=10: taps at 8..13 = 0 0 255 255 255 255 -> (40-5+1)*255 = 9180 -> 287 -> 255.
	// x=11: taps at 9..14 = 0 255 255 255 255 255 -> 31*255 = 7905 -> 247.
	want := []byte{0, 128, 255, 247}
	for x, w := range want {
		if dst[x] != w {
			t.Errorf("HorzLuma[%d] = %d, want %d", x, dst[x], w)
		}
	}
}

// TestChromaPhaseZeroIsCopy: phase (0,0) reproduces the source block.
func TestChromaPhaseZeroIsCopy(t *testing.T) {
	src := rampPlane(srcStride, srcStride, 3, 7)
	for _, tbl := range []*Table{Select(ISAGeneric), Select(ISAWide64)} {
		dst := make([]byte, dstStride*8)
		tbl.Inter.Chroma(src, srcOrigin, srcStride, dst, 0, dstStride, 0, 0, 8, 8)
		for y := 0; y < 8; y++ {
			for x := 0; x < 16; x++ {
				if got, want := dst[y*dstStride+x], src[srcOrigin+y*srcStride+x]; got != want {
					t.Fatalf("%v: (%d,%d) = %d, want %d", tbl.ISA, x, y, got, want)
				}
			}
		}
	}
}

// TestChromaInterleaved checks that the filter blends same-component
// neighbours two bytes apart and never mixes Cb with Cr.
func TestChromaInterleaved(t *testing.T) {
	src := make([]byte, srcStride*srcStride)
	for y := 0; y < srcStride; y++ {
		for x := 0; x < srcStride; x += 2 {
			src[y*srcStride+x] = byte(8 * (x / 2)) // Cb ramps
			src[y*srcStride+x+1] = 200             // Cr flat
		}
	}
	for _, tbl := range []*Table{Select(ISAGeneric), Select(ISAWide64)} {
		dst := make([]byte, dstStride)
		tbl.Inter.Chroma(src, srcOrigin, srcStride, dst, 0, dstStride, 3, 0, 4, 1)
		for i := 0; i < 4; i++ {
			// Cb at pair 4+i: 8*(4+i) + 3/8 * 8 = 32 + 8i + 3.
			if got, want := dst[2*i], byte(35+8*i); got != want {
				t.Errorf("%v: Cb[%d] = %d, want %d", tbl.ISA, i, got, want)
			}
			if got := dst[2*i+1]; got != 200 {
				t.Errorf("%v: Cr[%d] = %d, want 200", tbl.ISA, i, got)
			}
		}
	}
}

func TestBilinearRoundsUp(t *testing.T) {
	a := []byte{0, 1, 254, 255, 10, 11, 100, 0, 3}
	b := []byte{1, 2, 255, 255, 11, 10, 0, 255, 4}
	want := []byte{1, 2, 255, 255, 11, 11, 50, 128, 4}
	for _, tbl := range []*Table{Select(ISAGeneric), Select(ISAWide64)} {
		dst := make([]byte, len(a))
		tbl.Inter.Bilinear(a, 0, len(a), b, 0, len(b), dst, 0, len(dst), len(a), 1)
		for i := range want {
			if dst[i] != want[i] {
				t.Errorf("%v: avg(%d,%d) = %d, want %d", tbl.ISA, a[i], b[i], dst[i], want[i])
			}
		}
	}
}

func TestSSEAndSubtract(t *testing.T) {
	a := []byte{10, 20, 30, 40}
	b := []byte{12, 20, 25, 44}
	for _, tbl := range []*Table{Select(ISAGeneric), Select(ISAWide64)} {
		if got := tbl.Resid.SSE(a, 0, 2, b, 0, 2, 2, 2); got != 4+0+25+16 {
			t.Errorf("%v: SSE = %d, want 45", tbl.ISA, got)
		}
		out := make([]int16, 4)
		tbl.Resid.Subtract(a, 0, 2, b, 0, 2, out, 2, 2)
		want := []int16{-2, 0, 5, -4}
		for i := range want {
			if out[i] != want[i] {
				t.Errorf("%v: residual[%d] = %d, want %d", tbl.ISA, i, out[i], want[i])
			}
		}
	}
}
