package main

import (
	"context"
	"image"

	"github.com/ironsheep/imagetext/internal/ocr"
)

// segmentOnly satisfies ocr.Engine for commands that never recognize text.
type segmentOnly struct{}

func (segmentOnly) Name() string { return "none" }

func (segmentOnly) Recognize(context.Context, image.Image) (string, error) {
	return "", ocr.ErrEngineUnavailable
}

func (segmentOnly) Close() error { return nil }
