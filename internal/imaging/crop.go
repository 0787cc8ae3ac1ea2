package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// CropOptions controls how a region crop is prepared for recognition.
type CropOptions struct {
	// Border is the width in pixels of the white margin added around the crop.
	// Tesseract recognizes glyphs touching the image edge poorly.
	Border int

	// Scale resizes the crop before the border is added. Values <= 0 or 1
	// leave the crop at its native size.
	Scale float64
}

// CropRegion extracts rect from src and prepares it for OCR.
//
// rect is clamped to the source bounds. The result always has a (0,0) origin.
func CropRegion(src image.Image, rect image.Rectangle, opts CropOptions) (*image.NRGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", rect, src.Bounds())
	}

	cropped := imaging.Crop(src, rect)

	if opts.Scale > 0 && opts.Scale != 1.0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * opts.Scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * opts.Scale)
		if newWidth > 0 && newHeight > 0 {
			cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
		}
	}

	if opts.Border > 0 {
		w := cropped.Bounds().Dx() + 2*opts.Border
		h := cropped.Bounds().Dy() + 2*opts.Border
		canvas := imaging.New(w, h, color.White)
		cropped = imaging.Paste(canvas, cropped, image.Pt(opts.Border, opts.Border))
	}

	return cropped, nil
}
