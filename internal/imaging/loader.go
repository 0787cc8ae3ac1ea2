package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WEBP format decoder
)

// ErrImageDecode is returned when input cannot be read as a raster image.
var ErrImageDecode = errors.New("image could not be decoded")

// DecodeError wraps a decoding failure with the source that was being read.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports a match against ErrImageDecode so callers can test the category
// without caring about the underlying cause.
func (e *DecodeError) Is(target error) bool {
	return target == ErrImageDecode
}

// allowedExtensions mirrors what the upload form accepts.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// AllowedExtension reports whether name carries an extension accepted for upload.
// The comparison is case-insensitive.
func AllowedExtension(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Decode reads a raster image from r.
//
// PNG, JPEG and GIF are the primary formats; BMP, TIFF and WEBP are also
// registered. JPEG EXIF orientation is applied so that text is upright before
// segmentation. Any failure is reported as a *DecodeError matching ErrImageDecode.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, &DecodeError{Err: errors.New("image has no pixels")}
	}
	return img, nil
}

// Load opens the file at path and decodes it.
//
// A file that cannot be opened is reported the same way as one that cannot be
// decoded: in both cases there is no raster to work with.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Source = path
		}
		return nil, err
	}
	return img, nil
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format reported by the decoder, e.g. "png" or "jpeg".
	Format string `json:"format"`

	// HasAlpha indicates whether the decoded image carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// Allowed reports whether the extension is accepted for upload.
	Allowed bool `json:"allowed"`
}

// Inspect returns metadata for the image at path without keeping the pixels.
func Inspect(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}

	// A model that can represent full transparency carries alpha.
	hasAlpha := false
	if cfg.ColorModel != nil {
		_, _, _, a := cfg.ColorModel.Convert(image.Transparent.C).RGBA()
		hasAlpha = a == 0
	}

	return &ImageInfo{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Format:        format,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
		Allowed:       AllowedExtension(path),
	}, nil
}
