package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/histogram"
	"github.com/anthonynsimon/bild/segment"
)

// Preprocess converts a decoded image into a binary ink mask.
//
// The image is reduced to grayscale, a global threshold is chosen with Otsu's
// method and every pixel is mapped to exactly one of two levels. A uniform
// image (a single gray level) has no foreground and yields an empty mask.
func Preprocess(img image.Image) *Binary {
	gray := Grayscale(img)
	level, ok := OtsuThreshold(gray)
	if !ok {
		b := gray.Bounds()
		return NewBinary(b.Dx(), b.Dy())
	}
	return Binarize(gray, level)
}

// Grayscale converts img to a single-channel 8-bit image with a (0,0) origin.
func Grayscale(img image.Image) *image.Gray {
	rgba := effect.Grayscale(img)
	bounds := rgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		row := rgba.Pix[y*rgba.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			// All three channels hold the same luminance after effect.Grayscale.
			gray.Pix[y*gray.Stride+x] = row[x*4]
		}
	}
	return gray
}

// OtsuThreshold picks the global threshold that maximizes between-class
// variance of the gray-level histogram.
//
// Pixels at or below the returned level belong to the dark class. ok is false
// when the histogram has a single occupied bin, in which case no split exists.
func OtsuThreshold(gray *image.Gray) (level uint8, ok bool) {
	bins := histogram.NewRGBAHistogram(gray).R.Bins

	occupied := 0
	total := 0
	sum := 0
	for i, n := range bins {
		if n > 0 {
			occupied++
		}
		total += n
		sum += i * n
	}
	if occupied < 2 {
		return 0, false
	}

	sumB := 0
	wB := 0
	maxVariance := -1.0

	for t := 0; t < len(bins); t++ {
		wB += bins[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}

		sumB += t * bins[t]
		mB := float64(sumB) / float64(wB)
		mF := float64(sum-sumB) / float64(wF)

		variance := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if variance > maxVariance {
			maxVariance = variance
			level = uint8(t)
		}
	}

	return level, true
}

// Binarize maps gray to a mask where pixels at or below level are ink.
func Binarize(gray *image.Gray, level uint8) *Binary {
	bounds := gray.Bounds()
	if level == 255 {
		b := NewBinary(bounds.Dx(), bounds.Dy())
		for i := range b.Ink {
			b.Ink[i] = true
		}
		return b
	}

	// segment.Threshold maps values below its level to black, the rest to white.
	return BinaryFromGray(segment.Threshold(gray, level+1))
}
