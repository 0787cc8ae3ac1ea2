package detection

import (
	"fmt"
	"image"
)

// Region is an axis-aligned bounding box around one candidate text blob.
//
// X and Y are the top-left corner (inclusive); Width and Height are in pixels.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect returns the region as an image.Rectangle (Max exclusive).
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Area returns Width × Height.
func (r Region) Area() int {
	return r.Width * r.Height
}

// Pad grows the region by n pixels on every side, clamped to bounds.
func (r Region) Pad(n int, bounds image.Rectangle) Region {
	rect := image.Rect(r.X-n, r.Y-n, r.X+r.Width+n, r.Y+r.Height+n).Intersect(bounds)
	return Region{X: rect.Min.X, Y: rect.Min.Y, Width: rect.Dx(), Height: rect.Dy()}
}

func (r Region) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.Width, r.Height, r.X, r.Y)
}
