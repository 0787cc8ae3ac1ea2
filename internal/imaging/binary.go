package imaging

import "image"

// Binary is a two-level image mask with a (0,0) origin.
//
// Ink marks dark (text) pixels. Every stage after binarization works on this
// type: dilation grows ink, segmentation groups it, and recognition renders
// it back to black-on-white pixels with Image.
type Binary struct {
	Width  int
	Height int
	Ink    []bool // row-major, len == Width*Height
}

// NewBinary returns an all-background mask of the given size.
func NewBinary(width, height int) *Binary {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Binary{
		Width:  width,
		Height: height,
		Ink:    make([]bool, width*height),
	}
}

// At reports whether (x, y) is ink. Coordinates outside the mask are background.
func (b *Binary) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Ink[y*b.Width+x]
}

// Set marks (x, y) as ink or background. Out-of-range coordinates are ignored.
func (b *Binary) Set(x, y int, ink bool) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	b.Ink[y*b.Width+x] = ink
}

// Count returns the number of ink pixels.
func (b *Binary) Count() int {
	n := 0
	for _, v := range b.Ink {
		if v {
			n++
		}
	}
	return n
}

// Bounds returns the mask rectangle.
func (b *Binary) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// Clone returns an independent copy of the mask.
func (b *Binary) Clone() *Binary {
	c := &Binary{Width: b.Width, Height: b.Height, Ink: make([]bool, len(b.Ink))}
	copy(c.Ink, b.Ink)
	return c
}

// Image renders the mask as black ink on a white background, the polarity OCR
// engines expect.
func (b *Binary) Image() *image.Gray {
	img := image.NewGray(b.Bounds())
	for i, ink := range b.Ink {
		if ink {
			img.Pix[i] = 0
		} else {
			img.Pix[i] = 255
		}
	}
	return img
}

// BinaryFromGray builds a mask from a thresholded gray image: pixels at or
// below the midpoint are ink.
func BinaryFromGray(img *image.Gray) *Binary {
	bounds := img.Bounds()
	b := NewBinary(bounds.Dx(), bounds.Dy())
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if img.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y < 128 {
				b.Ink[y*b.Width+x] = true
			}
		}
	}
	return b
}
