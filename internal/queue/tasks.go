// Package queue runs extractions asynchronously on asynq.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/ironsheep/imagetext/internal/imaging"
	"github.com/ironsheep/imagetext/internal/service"
	"github.com/ironsheep/imagetext/internal/transform"
)

// TypeExtractImage is the asynq task type for one extraction.
const TypeExtractImage = "extract:image"

const (
	defaultMaxRetry = 3
	defaultTimeout  = 5 * time.Minute
)

// NewExtractTask encodes req as an extraction task.
func NewExtractTask(req service.Request) (*asynq.Task, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}
	return asynq.NewTask(TypeExtractImage, payload,
		asynq.MaxRetry(defaultMaxRetry),
		asynq.Timeout(defaultTimeout),
	), nil
}

// Extractor is the part of service.Extractor the handler needs.
type Extractor interface {
	Extract(ctx context.Context, req service.Request) (*service.Response, error)
}

// Handler processes extraction tasks.
type Handler struct {
	extractor Extractor
	log       zerolog.Logger
}

// NewHandler creates a task handler backed by extractor.
func NewHandler(extractor Extractor, log zerolog.Logger) *Handler {
	return &Handler{extractor: extractor, log: log}
}

// ProcessTask implements asynq.Handler.
//
// Malformed payloads and inputs that can never succeed (unsupported file,
// undecodable image, translate without target) are wrapped in
// asynq.SkipRetry. Everything else is returned as-is and retried.
func (h *Handler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var req service.Request
	if err := json.Unmarshal(task.Payload(), &req); err != nil {
		return fmt.Errorf("invalid %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
	}

	start := time.Now()
	resp, err := h.extractor.Extract(ctx, req)
	if err != nil {
		h.log.Error().
			Err(err).
			Str("user", req.UserID).
			Str("path", req.ImagePath).
			Dur("elapsed", time.Since(start)).
			Msg("Extraction task failed")
		if permanent(err) {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}

	h.log.Info().
		Str("id", resp.Record.ID).
		Str("user", req.UserID).
		Bool("cached", resp.Cached).
		Dur("elapsed", time.Since(start)).
		Msg("Extraction task completed")
	return nil
}

func permanent(err error) bool {
	return errors.Is(err, service.ErrUnsupportedFile) ||
		errors.Is(err, imaging.ErrImageDecode) ||
		errors.Is(err, transform.ErrTargetLanguageRequired)
}
