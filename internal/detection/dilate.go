package detection

import (
	"fmt"

	"github.com/ironsheep/imagetext/internal/imaging"
)

// Kernel is a rectangular structuring element anchored at its centre.
type Kernel struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// DefaultKernel is the 5×5 element used unless configured otherwise.
var DefaultKernel = Kernel{Width: 5, Height: 5}

// Validate reports whether the kernel can be applied.
func (k Kernel) Validate() error {
	if k.Width < 1 || k.Height < 1 {
		return fmt.Errorf("kernel must be at least 1x1, got %dx%d", k.Width, k.Height)
	}
	return nil
}

// Dilate grows the ink of mask with a rectangular structuring element, applied
// iterations times. The input is not modified.
//
// A pixel becomes ink when any pixel under the kernel, placed with its anchor
// (Width/2, Height/2) on that pixel, is ink. Pixels outside the mask count as
// background. A 1×1 kernel or zero iterations returns an unchanged copy.
//
// A rectangle is separable, so each iteration is a horizontal pass followed by
// a vertical pass.
func Dilate(mask *imaging.Binary, k Kernel, iterations int) (*imaging.Binary, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	if iterations < 0 {
		return nil, fmt.Errorf("iterations must be >= 0, got %d", iterations)
	}

	out := mask.Clone()
	for i := 0; i < iterations; i++ {
		out = dilateRows(out, k.Width)
		out = dilateCols(out, k.Height)
	}
	return out, nil
}

// dilateRows applies a 1×size element along each row.
func dilateRows(src *imaging.Binary, size int) *imaging.Binary {
	if size == 1 {
		return src
	}
	anchor := size / 2
	dst := imaging.NewBinary(src.Width, src.Height)

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			if !src.At(x, y) {
				continue
			}
			// Ink at x lights every output pixel whose window covers it.
			for dx := x - (size - 1 - anchor); dx <= x+anchor; dx++ {
				dst.Set(dx, y, true)
			}
		}
	}
	return dst
}

// dilateCols applies a size×1 element along each column.
func dilateCols(src *imaging.Binary, size int) *imaging.Binary {
	if size == 1 {
		return src
	}
	anchor := size / 2
	dst := imaging.NewBinary(src.Width, src.Height)

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			if !src.At(x, y) {
				continue
			}
			for dy := y - (size - 1 - anchor); dy <= y+anchor; dy++ {
				dst.Set(x, dy, true)
			}
		}
	}
	return dst
}
