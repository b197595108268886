package model

import (
	"image"
)

// Buffer is the in-memory pixel representation every pipeline operation
// works on: 8-bit RGBA, non-premultiplied, row-major with no padding.
// Decoders normalize into this form at the codec boundary, so operations
// never have to care about the source format.
//
// A Buffer is owned by exactly one job and is never shared between jobs.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8 // 4*Width*Height bytes, RGBA order

	// ICC holds the embedded color profile of the source image, if any.
	ICC []byte
}

// NewBuffer allocates a zeroed buffer of the given dimensions.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, 4*width*height),
	}
}

// FromNRGBA wraps a decoded image as a Buffer. The pixel data is copied
// when the image uses a sub-rectangle or padded stride, otherwise the
// backing slice is reused.
func FromNRGBA(img *image.NRGBA) *Buffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if b.Min.X == 0 && b.Min.Y == 0 && img.Stride == 4*w {
		return &Buffer{Width: w, Height: h, Pix: img.Pix[:4*w*h]}
	}

	out := NewBuffer(w, h)
	for y := 0; y < h; y++ {
		src := img.Pix[(y+b.Min.Y-img.Rect.Min.Y)*img.Stride+(b.Min.X-img.Rect.Min.X)*4:]
		copy(out.Pix[y*4*w:(y+1)*4*w], src[:4*w])
	}
	return out
}

// NRGBA exposes the buffer as an *image.NRGBA without copying pixels.
// Mutations through the returned image are visible in the buffer.
func (b *Buffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: 4 * b.Width,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}
