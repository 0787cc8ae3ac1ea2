//go:build !cgo || !linux || nogosseract

package ocr

// NewGosseractEngine reports the backend as unavailable: libtesseract bindings
// need cgo on Linux and are left out by the nogosseract tag.
func NewGosseractEngine(language string, pageSegMode int) (Engine, error) {
	return nil, newError(BackendGosseract, "NewGosseractEngine", ErrEngineUnavailable, "built without cgo libtesseract bindings")
}
