package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"
)

// Backend names accepted by NewEngine.
const (
	BackendTesseract = "tesseract"
	BackendGosseract = "gosseract"
	BackendVision    = "vision"
)

// Engine recognizes the text in a single image.
//
// Implementations must be safe for concurrent use: one engine is created at
// startup and shared by every pipeline run.
type Engine interface {
	// Name identifies the backend in logs and results.
	Name() string

	// Recognize returns the text found in img. A backend that cannot be
	// reached returns an error matching ErrEngineUnavailable; a failure
	// specific to img matches ErrRecognition.
	Recognize(ctx context.Context, img image.Image) (string, error)

	// Close releases backend resources.
	Close() error
}

// Options selects and configures an engine.
type Options struct {
	Backend         string
	TesseractPath   string // executable for the tesseract backend
	Language        string // tesseract language code, e.g. "eng"
	PageSegMode     int
	CredentialsFile string // vision backend; empty uses application default credentials
}

// NewEngine creates the engine named by opts.Backend.
func NewEngine(ctx context.Context, opts Options) (Engine, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendTesseract:
		engine, err := NewTesseractEngine(opts.TesseractPath, opts.Language, opts.PageSegMode)
		if err != nil {
			return nil, err
		}
		return engine, nil
	case BackendGosseract:
		return NewGosseractEngine(opts.Language, opts.PageSegMode)
	case BackendVision:
		engine, err := NewVisionEngine(ctx, opts.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return engine, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// Info describes the configured engine for diagnostics.
type Info struct {
	Available bool   `json:"available"`
	Backend   string `json:"backend"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Describe reports on engine. A nil engine is reported as unavailable with
// the construction error, if any.
func Describe(ctx context.Context, engine Engine, constructErr error) Info {
	if engine == nil {
		info := Info{Available: false, Backend: "none"}
		if constructErr != nil {
			info.Error = constructErr.Error()
		}
		return info
	}

	info := Info{Available: true, Backend: engine.Name()}
	if v, ok := engine.(interface {
		Version(context.Context) (string, error)
	}); ok {
		version, err := v.Version(ctx)
		if err != nil {
			info.Available = false
			info.Error = err.Error()
		}
		info.Version = version
	}
	return info
}
