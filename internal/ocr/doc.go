// Package ocr recognizes text in image regions.
//
// An Engine turns one image into text. Three backends are available:
//
//   - tesseract: runs the tesseract executable per image (default)
//   - gosseract: libtesseract bindings, built with cgo on Linux unless -tags nogosseract
//   - vision: Google Cloud Vision TEXT_DETECTION
//
// Recognizer drives an engine over the regions produced by the detection
// package. Each region is cropped from the binarized image, padded with a
// white border and recognized on its own; no layout context is shared between
// regions.
//
// # Prerequisites
//
// The tesseract backend needs the program and its language data:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The executable path is configurable; a bare name is looked up in PATH.
//
// The gosseract backend links libtesseract and needs its headers at build
// time (libtesseract-dev and libleptonica-dev). Build with -tags nogosseract
// where they are missing.
//
// # Supported Languages
//
// The default language is English ("eng"). Other Tesseract language codes
// ("deu", "fra", "spa", "chi_sim", ...) work when their data is installed.
//
// # Error Handling
//
// Errors are *OCRError values wrapping one of two sentinels:
//   - ErrEngineUnavailable: the backend cannot run at all. Fatal.
//   - ErrRecognition: one image failed. The recognizer skips that region.
package ocr
