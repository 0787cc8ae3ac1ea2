//go:build cgo && linux && !nogosseract

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// GosseractEngine recognizes text through the libtesseract bindings.
//
// A gosseract client is not safe for concurrent use, so each call gets its
// own client.
type GosseractEngine struct {
	language    string
	pageSegMode int
}

// NewGosseractEngine checks that libtesseract is usable.
func NewGosseractEngine(language string, pageSegMode int) (Engine, error) {
	if language == "" {
		language = "eng"
	}

	client := gosseract.NewClient()
	defer client.Close()
	if client.Version() == "" {
		return nil, newError(BackendGosseract, "NewGosseractEngine", ErrEngineUnavailable, "libtesseract did not report a version")
	}

	return &GosseractEngine{language: language, pageSegMode: pageSegMode}, nil
}

// Name implements Engine.
func (e *GosseractEngine) Name() string {
	return BackendGosseract
}

// Recognize implements Engine.
func (e *GosseractEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", newError(BackendGosseract, "Recognize", ErrRecognition, fmt.Sprintf("encode: %v", err))
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return "", newError(BackendGosseract, "Recognize", ErrEngineUnavailable, err.Error())
	}
	if e.pageSegMode > 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(e.pageSegMode)); err != nil {
			return "", newError(BackendGosseract, "Recognize", ErrEngineUnavailable, err.Error())
		}
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", newError(BackendGosseract, "Recognize", ErrRecognition, err.Error())
	}

	text, err := client.Text()
	if err != nil {
		return "", newError(BackendGosseract, "Recognize", ErrRecognition, err.Error())
	}
	return strings.TrimSpace(text), nil
}

// Close implements Engine.
func (e *GosseractEngine) Close() error {
	return nil
}
