// Package imaging decodes uploaded images and turns them into binary ink masks.
//
// This package is the first stage of text extraction: it reads a raster,
// converts it to grayscale, picks a global threshold with Otsu's method and
// produces a Binary mask in which every pixel is either ink or background.
// It also prepares per-region crops for the OCR engine.
//
// # Coordinate System
//
// All coordinates are 0-based with the origin at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For rectangles, Min is inclusive and Max is exclusive
//
// Decoded images may have a non-zero origin; Grayscale and the Binary type
// normalize to (0,0).
//
// # Polarity
//
// Ink is the dark class of the Otsu split. Dilation in the detection package
// grows ink, so nearby glyphs merge into text blobs rather than the background
// swallowing them. Binary.Image renders ink as black on white, the polarity
// Tesseract expects.
//
// # Formats
//
// PNG, JPEG and GIF are accepted for upload (see AllowedExtension). BMP, TIFF
// and WEBP decoders are registered as well so that files arriving through the
// CLI or the MCP server can still be processed.
//
// # Error Handling
//
// Decode, Load and Inspect report unreadable input as *DecodeError, which
// matches ErrImageDecode under errors.Is.
package imaging
