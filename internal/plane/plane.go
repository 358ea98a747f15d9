// Package plane describes sample planes: borrowed views over a buffer and
// padded pictures holding a luma plane and an interleaved CbCr plane
// (4:2:0, NV12 layout).
package plane

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// View is a borrowed window into a sample buffer. Buf[Off] is the sample at
// the view's origin and rows are Stride bytes apart. A View never owns its
// samples; it is valid for as long as the buffer's owner keeps them.
type View struct {
	Buf    []byte
	Off    int
	Stride int
}

// At returns the buffer offset of sample (x, y) relative to the origin.
func (v View) At(x, y int) int { return v.Off + y*v.Stride + x }

// Shift returns the view moved by (dx, dy) samples.
func (v View) Shift(dx, dy int) View {
	v.Off += dy*v.Stride + dx
	return v
}

// Same reports whether v and o address the same origin sample of the same
// buffer with the same stride.
func (v View) Same(o View) bool {
	if v.Stride != o.Stride || v.Off != o.Off || len(v.Buf) == 0 || len(o.Buf) == 0 {
		return false
	}
	return &v.Buf[0] == &o.Buf[0]
}

// Row returns n samples of row y starting at the origin column.
func (v View) Row(y, n int) []byte {
	o := v.At(0, y)
	return v.Buf[o : o+n]
}

// DefaultPad is the border, in luma samples, added around every side of a
// picture. It bounds the motion vectors a picture can serve.
const DefaultPad = 32

// Picture is a padded 4:2:0 picture. Width and Height are multiples of 16.
// The luma border is Pad samples on each side; the chroma border is Pad/2
// pairs horizontally and Pad/2 rows vertically, so one luma sample of motion
// reaches the same relative distance into the border of both planes.
type Picture struct {
	Width, Height int
	Pad           int

	Y       []byte
	YStride int
	C       []byte // interleaved Cb, Cr
	CStride int
}

// NewPicture allocates a picture of w x h luma samples. Both dimensions
// must be positive multiples of 16 and pad must be even and non-negative.
func NewPicture(w, h, pad int) *Picture {
	if w <= 0 || h <= 0 || w%16 != 0 || h%16 != 0 {
		panic(fmt.Sprintf("plane: picture size %dx%d is not a positive multiple of 16", w, h))
	}
	if pad < 0 || pad%2 != 0 {
		panic(fmt.Sprintf("plane: invalid pad %d", pad))
	}
	yStride := w + 2*pad
	ySize := yStride * (h + 2*pad)
	cStride := w + 2*pad
	cSize := cStride * (h/2 + pad)
	// Single slab for both planes.
	slab := make([]byte, ySize+cSize)
	return &Picture{
		Width:   w,
		Height:  h,
		Pad:     pad,
		Y:       slab[:ySize:ySize],
		YStride: yStride,
		C:       slab[ySize:],
		CStride: cStride,
	}
}

// MBW returns the width in macroblocks.
func (p *Picture) MBW() int { return p.Width / 16 }

// MBH returns the height in macroblocks.
func (p *Picture) MBH() int { return p.Height / 16 }

// Luma returns a view whose origin is luma sample (0, 0).
func (p *Picture) Luma() View {
	return View{Buf: p.Y, Off: p.Pad*p.YStride + p.Pad, Stride: p.YStride}
}

// Chroma returns a view whose origin is the Cb sample of chroma pair (0, 0).
func (p *Picture) Chroma() View {
	return View{Buf: p.C, Off: (p.Pad/2)*p.CStride + p.Pad, Stride: p.CStride}
}

// LumaMB returns the luma view at the top-left of macroblock (mbx, mby).
func (p *Picture) LumaMB(mbx, mby int) View {
	return p.Luma().Shift(16*mbx, 16*mby)
}

// ChromaMB returns the chroma view at the top-left of macroblock (mbx, mby).
// A macroblock spans 8 chroma pairs, 16 bytes, per row.
func (p *Picture) ChromaMB(mbx, mby int) View {
	return p.Chroma().Shift(16*mbx, 8*mby)
}

// PadEdges replicates the outermost samples of both planes into the border.
func (p *Picture) PadEdges() {
	if p.Pad == 0 {
		return
	}
	padPlane(p.Y, p.YStride, p.Pad, p.Pad, p.Width, p.Height, 1)
	padPlane(p.C, p.CStride, p.Pad, p.Pad/2, p.Width, p.Height/2, 2)
}

// padPlane extends a plane whose interior starts at (padX, padY) and spans
// w bytes by h rows. step is the distance between samples of one component.
func padPlane(buf []byte, stride, padX, padY, w, h, step int) {
	for y := 0; y < h; y++ {
		row := buf[(padY+y)*stride:]
		for x := 0; x < padX; x++ {
			row[x] = row[padX+x%step]
			row[padX+w+x] = row[padX+w-step+x%step]
		}
	}
	top := buf[padY*stride : padY*stride+stride]
	bot := buf[(padY+h-1)*stride : (padY+h)*stride]
	for y := 0; y < padY; y++ {
		copy(buf[y*stride:], top)
		copy(buf[(padY+h+y)*stride:], bot)
	}
}

// FromYCbCr copies a 4:2:0 image into a new padded picture. Dimensions are
// rounded up to whole macroblocks by replicating the last row and column,
// and the border is filled with PadEdges.
func FromYCbCr(img *image.YCbCr, pad int) *Picture {
	b := img.Rect
	w, h := b.Dx(), b.Dy()
	p := NewPicture((w+15)&^15, (h+15)&^15, pad)

	luma := p.Luma()
	for y := 0; y < p.Height; y++ {
		sy := min(y, h-1)
		row := luma.Row(y, p.Width)
		for x := range row {
			sx := min(x, w-1)
			row[x] = img.Y[img.YOffset(b.Min.X+sx, b.Min.Y+sy)]
		}
	}

	chroma := p.Chroma()
	uvW, uvH := (w+1)>>1, (h+1)>>1
	for y := 0; y < p.Height/2; y++ {
		sy := min(y, uvH-1)
		row := chroma.Row(y, p.Width)
		for x := 0; x < p.Width/2; x++ {
			sx := min(x, uvW-1)
			i := img.COffset(b.Min.X+2*sx, b.Min.Y+2*sy)
			row[2*x] = img.Cb[i]
			row[2*x+1] = img.Cr[i]
		}
	}
	p.PadEdges()
	return p
}

// FromImage converts any image into a new padded picture. 4:2:0 YCbCr
// images are copied as is; anything else goes through RGB and the JFIF
// conversion of image/color, each chroma pair taken from the average of
// its 2x2 RGB block.
func FromImage(img image.Image, pad int) *Picture {
	if y, ok := img.(*image.YCbCr); ok && y.SubsampleRatio == image.YCbCrSubsampleRatio420 {
		return FromYCbCr(y, pad)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rgba, ok := img.(*image.RGBA)
	if !ok || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}

	yc := image.NewYCbCr(image.Rect(0, 0, w, h), image.YCbCrSubsampleRatio420)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := rgba.PixOffset(x, y)
			p := rgba.Pix[o : o+3 : o+3]
			yc.Y[y*yc.YStride+x], _, _ = color.RGBToYCbCr(p[0], p[1], p[2])
		}
	}
	for cy := 0; cy < (h+1)/2; cy++ {
		for cx := 0; cx < (w+1)/2; cx++ {
			var r, g, bl, n int
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					x, y := 2*cx+dx, 2*cy+dy
					if x >= w || y >= h {
						continue
					}
					o := rgba.PixOffset(x, y)
					r += int(rgba.Pix[o])
					g += int(rgba.Pix[o+1])
					bl += int(rgba.Pix[o+2])
					n++
				}
			}
			_, cb, cr := color.RGBToYCbCr(uint8((r+n/2)/n), uint8((g+n/2)/n), uint8((bl+n/2)/n))
			yc.Cb[cy*yc.CStride+cx] = cb
			yc.Cr[cy*yc.CStride+cx] = cr
		}
	}
	return FromYCbCr(yc, pad)
}

// ToYCbCr copies the picture interior into a new 4:2:0 image.
func (p *Picture) ToYCbCr() *image.YCbCr {
	img := image.NewYCbCr(image.Rect(0, 0, p.Width, p.Height), image.YCbCrSubsampleRatio420)
	luma := p.Luma()
	for y := 0; y < p.Height; y++ {
		copy(img.Y[y*img.YStride:y*img.YStride+p.Width], luma.Row(y, p.Width))
	}
	chroma := p.Chroma()
	for y := 0; y < p.Height/2; y++ {
		row := chroma.Row(y, p.Width)
		for x := 0; x < p.Width/2; x++ {
			img.Cb[y*img.CStride+x] = row[2*x]
			img.Cr[y*img.CStride+x] = row[2*x+1]
		}
	}
	return img
}
