package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestCropRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)
	fillRect(img, 20, 30, 40, 50, color.Black)

	cropped, err := CropRegion(img, image.Rect(20, 30, 40, 50), CropOptions{})
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}
	if cropped.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Errorf("bounds: got %v, want (0,0)-(20,20)", cropped.Bounds())
	}

	r, _, _, _ := cropped.At(0, 0).RGBA()
	if r != 0 {
		t.Error("crop should start at the black rectangle")
	}
}

func TestCropRegion_Border(t *testing.T) {
	img := createInMemoryImage(50, 50, color.Black)

	cropped, err := CropRegion(img, image.Rect(10, 10, 20, 20), CropOptions{Border: 3})
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}
	if cropped.Bounds().Dx() != 16 || cropped.Bounds().Dy() != 16 {
		t.Errorf("dimensions: got %dx%d, want 16x16", cropped.Bounds().Dx(), cropped.Bounds().Dy())
	}

	corner, _, _, _ := cropped.At(0, 0).RGBA()
	if corner != 0xffff {
		t.Error("border should be white")
	}
	inner, _, _, _ := cropped.At(3, 3).RGBA()
	if inner != 0 {
		t.Error("crop content should follow the border")
	}
}

func TestCropRegion_WithScale(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	cropped, err := CropRegion(img, image.Rect(0, 0, 50, 50), CropOptions{Scale: 2.0})
	if err != nil {
		t.Fatalf("CropRegion with scale failed: %v", err)
	}
	if cropped.Bounds().Dx() != 100 || cropped.Bounds().Dy() != 100 {
		t.Errorf("scaled dimensions: got %dx%d, want 100x100", cropped.Bounds().Dx(), cropped.Bounds().Dy())
	}
}

func TestCropRegion_ClampsToBounds(t *testing.T) {
	img := createInMemoryImage(30, 30, color.White)

	cropped, err := CropRegion(img, image.Rect(20, 20, 60, 60), CropOptions{})
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}
	if cropped.Bounds().Dx() != 10 || cropped.Bounds().Dy() != 10 {
		t.Errorf("clamped dimensions: got %dx%d, want 10x10", cropped.Bounds().Dx(), cropped.Bounds().Dy())
	}
}

func TestCropRegion_OutsideBounds(t *testing.T) {
	img := createInMemoryImage(30, 30, color.White)

	if _, err := CropRegion(img, image.Rect(40, 40, 50, 50), CropOptions{}); err == nil {
		t.Error("CropRegion should fail when the region misses the image")
	}
}
