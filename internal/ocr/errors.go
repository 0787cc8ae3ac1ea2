package ocr

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineUnavailable is returned when the OCR backend cannot be located,
	// started or authenticated. No text can be produced without it, so callers
	// treat it as fatal.
	ErrEngineUnavailable = errors.New("OCR engine unavailable")

	// ErrRecognition is returned when the engine ran but failed on one image.
	// The recognizer skips the affected region and continues.
	ErrRecognition = errors.New("text recognition failed")

	// ErrUnknownBackend is returned by NewEngine for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown OCR backend")
)

// OCRError wraps errors with the engine and operation that produced them.
type OCRError struct {
	// Op is the operation that failed (e.g., "Recognize", "NewTesseractEngine").
	Op string

	// Engine is the backend name.
	Engine string

	// Err is the underlying error, usually one of the sentinels above.
	Err error

	// Details provides additional context such as engine stderr.
	Details string
}

// Error implements the error interface.
func (e *OCRError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s %s failed: %v: %s", e.Engine, e.Op, e.Err, e.Details)
	}
	return fmt.Sprintf("ocr: %s %s failed: %v", e.Engine, e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *OCRError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *OCRError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newError(engine, op string, err error, details string) *OCRError {
	return &OCRError{Op: op, Engine: engine, Err: err, Details: details}
}
