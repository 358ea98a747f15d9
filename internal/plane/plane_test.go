package plane

import (
	"image"
	"testing"
)

func TestViewShiftAndSame(t *testing.T) {
	buf := make([]byte, 100)
	v := View{Buf: buf, Off: 22, Stride: 10}
	s := v.Shift(3, -1)
	if s.Off != 15 {
		t.Fatalf("Shift(3,-1).Off = %d, want 15", s.Off)
	}
	if v.At(3, -1) != s.Off {
		t.Errorf("At(3,-1) = %d, want %d", v.At(3, -1), s.Off)
	}
	if !s.Same(View{Buf: buf, Off: 15, Stride: 10}) {
		t.Error("Same: identical views reported different")
	}
	if s.Same(View{Buf: make([]byte, 100), Off: 15, Stride: 10}) {
		t.Error("Same: views over different buffers reported equal")
	}
	if s.Same(View{Buf: buf, Off: 15, Stride: 16}) {
		t.Error("Same: different strides reported equal")
	}
}

func TestNewPictureGeometry(t *testing.T) {
	p := NewPicture(32, 16, 8)
	if p.YStride != 48 || len(p.Y) != 48*32 {
		t.Errorf("luma stride %d len %d", p.YStride, len(p.Y))
	}
	if p.CStride != 48 || len(p.C) != 48*16 {
		t.Errorf("chroma stride %d len %d", p.CStride, len(p.C))
	}
	if p.MBW() != 2 || p.MBH() != 1 {
		t.Errorf("MBW/MBH = %d/%d", p.MBW(), p.MBH())
	}
	if got := p.LumaMB(1, 0).Off; got != 8*48+8+16 {
		t.Errorf("LumaMB(1,0).Off = %d", got)
	}
	if got := p.ChromaMB(1, 0).Off; got != 4*48+8+16 {
		t.Errorf("ChromaMB(1,0).Off = %d", got)
	}
}

func TestNewPicturePanics(t *testing.T) {
	for _, tc := range []struct{ w, h, pad int }{{15, 16, 0}, {16, 0, 0}, {16, 16, 3}, {16, 16, -2}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewPicture(%d, %d, %d) did not panic", tc.w, tc.h, tc.pad)
				}
			}()
			NewPicture(tc.w, tc.h, tc.pad)
		}()
	}
}

func TestPadEdgesReplicates(t *testing.T) {
	p := NewPicture(16, 16, 4)
	l := p.Luma()
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			p.Y[l.At(x, y)] = byte(10*y + x)
		}
	}
	c := p.Chroma()
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p.C[c.At(2*x, y)] = byte(100 + y)
			p.C[c.At(2*x+1, y)] = byte(200 + x)
		}
	}
	p.PadEdges()

	checks := []struct {
		name      string
		got, want byte
	}{
		{"luma top-left corner", p.Y[0], p.Y[l.At(0, 0)]},
		{"luma left", p.Y[l.At(-3, 5)], p.Y[l.At(0, 5)]},
		{"luma right", p.Y[l.At(19, 5)], p.Y[l.At(15, 5)]},
		{"luma bottom", p.Y[l.At(7, 19)], p.Y[l.At(7, 15)]},
		{"luma bottom-right", p.Y[l.At(19, 19)], p.Y[l.At(15, 15)]},
		{"cb left", p.C[c.At(-4, 3)], p.C[c.At(0, 3)]},
		{"cr left", p.C[c.At(-3, 3)], p.C[c.At(1, 3)]},
		{"cb right", p.C[c.At(18, 3)], p.C[c.At(14, 3)]},
		{"cr right", p.C[c.At(19, 3)], p.C[c.At(15, 3)]},
		{"cr top", p.C[c.At(5, -2)], p.C[c.At(5, 0)]},
		{"cb bottom", p.C[c.At(4, 9)], p.C[c.At(4, 7)]},
	}
	for _, tc := range checks {
		if tc.got != tc.want {
			t.Errorf("%s: %d, want %d", tc.name, tc.got, tc.want)
		}
	}
}

func TestYCbCrRoundTrip(t *testing.T) {
	img := image.NewYCbCr(image.Rect(0, 0, 32, 16), image.YCbCrSubsampleRatio420)
	for i := range img.Y {
		img.Y[i] = byte(i * 7)
	}
	for i := range img.Cb {
		img.Cb[i] = byte(i * 3)
		img.Cr[i] = byte(255 - i)
	}
	p := FromYCbCr(img, DefaultPad)
	out := p.ToYCbCr()
	for i := range img.Y {
		if out.Y[i] != img.Y[i] {
			t.Fatalf("Y[%d] = %d, want %d", i, out.Y[i], img.Y[i])
		}
	}
	for i := range img.Cb {
		if out.Cb[i] != img.Cb[i] || out.Cr[i] != img.Cr[i] {
			t.Fatalf("C[%d] = (%d,%d), want (%d,%d)", i, out.Cb[i], out.Cr[i], img.Cb[i], img.Cr[i])
		}
	}
}

func TestFromYCbCrRoundsUpToMacroblocks(t *testing.T) {
	img := image.NewYCbCr(image.Rect(0, 0, 20, 9), image.YCbCrSubsampleRatio420)
	for y := 0; y < 9; y++ {
		for x := 0; x < 20; x++ {
			img.Y[y*img.YStride+x] = byte(x + 20*y)
		}
	}
	p := FromYCbCr(img, 0)
	if p.Width != 32 || p.Height != 16 {
		t.Fatalf("size %dx%d, want 32x16", p.Width, p.Height)
	}
	l := p.Luma()
	if got, want := p.Y[l.At(31, 15)], img.Y[8*img.YStride+19]; got != want {
		t.Errorf("replicated corner = %d, want %d", got, want)
	}
}

func TestFromImageGray(t *testing.T) {
	img := image.NewGray(image.Rect(3, 5, 19, 21))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	p := FromImage(img, 8)
	if p.Width != 16 || p.Height != 16 {
		t.Fatalf("size %dx%d, want 16x16", p.Width, p.Height)
	}
	l, c := p.Luma(), p.Chroma()
	for y := -8; y < 24; y++ {
		for x := -8; x < 24; x++ {
			if got := p.Y[l.At(x, y)]; got != 128 {
				t.Fatalf("luma (%d,%d) = %d, want 128", x, y, got)
			}
		}
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			if got := p.C[c.At(x, y)]; got != 128 {
				t.Fatalf("chroma byte (%d,%d) = %d, want 128", x, y, got)
			}
		}
	}
}

func TestFromImageKeepsYCbCr(t *testing.T) {
	img := image.NewYCbCr(image.Rect(0, 0, 16, 16), image.YCbCrSubsampleRatio420)
	img.Y[5] = 200
	img.Cr[3] = 17
	p := FromImage(img, 0)
	if p.Y[5] != 200 || p.C[7] != 17 {
		t.Errorf("samples not copied: Y[5]=%d C[7]=%d", p.Y[5], p.C[7])
	}
}
