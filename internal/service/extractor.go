// Package service ties the pipeline to the result cache and extraction
// history. It is the entry point shared by the CLI, the MCP server and the
// queue worker.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ironsheep/imagetext/internal/cache"
	"github.com/ironsheep/imagetext/internal/imaging"
	"github.com/ironsheep/imagetext/internal/pipeline"
	"github.com/ironsheep/imagetext/internal/store"
	"github.com/ironsheep/imagetext/internal/transform"
)

// ErrUnsupportedFile is returned for images whose extension is not accepted.
var ErrUnsupportedFile = errors.New("unsupported file type")

// Request is one extraction job.
type Request struct {
	UserID    string              `json:"user_id"`
	ImagePath string              `json:"image_path"`
	Operation transform.Operation `json:"operation"`
}

// Response pairs the pipeline result with the stored history record.
type Response struct {
	Record *store.Record    `json:"record"`
	Result *pipeline.Result `json:"result"`
	Cached bool             `json:"cached"`
}

// Extractor runs extractions and records them.
type Extractor struct {
	pipeline *pipeline.Pipeline
	store    store.Store
	cache    cache.Cache
	log      zerolog.Logger
	now      func() time.Time
}

// New creates an Extractor. A nil store keeps history in memory; a nil cache
// disables caching.
func New(p *pipeline.Pipeline, st store.Store, c cache.Cache, log zerolog.Logger) *Extractor {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if c == nil {
		c = cache.NopCache{}
	}
	return &Extractor{pipeline: p, store: st, cache: c, log: log, now: time.Now}
}

// Extract runs the pipeline on req.ImagePath and saves a history record.
//
// Pipeline failures are returned unchanged (*pipeline.StageError). Cache
// failures only degrade to a miss. Results carrying recognize or transform
// warnings are not cached. A result served from cache is still recorded in
// the user's history.
func (e *Extractor) Extract(ctx context.Context, req Request) (*Response, error) {
	if req.UserID == "" {
		return nil, errors.New("user ID is required")
	}
	if !imaging.AllowedExtension(req.ImagePath) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(req.ImagePath))
	}

	data, err := os.ReadFile(req.ImagePath)
	if err != nil {
		return nil, &pipeline.StageError{
			Stage: pipeline.StageLoad,
			Err:   &imaging.DecodeError{Source: req.ImagePath, Err: err},
		}
	}

	key := cache.Key(data, req.Operation)
	res, err := e.cache.Get(ctx, key)
	if err != nil {
		e.log.Warn().Err(err).Msg("Cache lookup failed")
	}
	cached := res != nil

	if !cached {
		res, err = e.pipeline.Run(ctx, bytes.NewReader(data), req.Operation)
		if err != nil {
			return nil, err
		}
		if cacheable(res) {
			if err := e.cache.Set(ctx, key, res); err != nil {
				e.log.Warn().Err(err).Msg("Cache store failed")
			}
		}
	}

	rec := &store.Record{
		ID:               uuid.NewString(),
		UserID:           req.UserID,
		ImagePath:        filepath.ToSlash(req.ImagePath),
		Operation:        req.Operation.String(),
		Text:             res.Text,
		DetectedLanguage: res.DetectedLanguage,
		CreatedAt:        e.now().UTC(),
	}
	if err := e.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save history: %w", err)
	}

	e.log.Info().
		Str("id", rec.ID).
		Str("user", rec.UserID).
		Str("operation", rec.Operation).
		Bool("cached", cached).
		Msg("Extraction recorded")

	return &Response{Record: rec, Result: res, Cached: cached}, nil
}

// cacheable reports whether res is free of provider or engine degradations.
// Those can clear up on retry; language warnings depend only on the text.
func cacheable(res *pipeline.Result) bool {
	for _, w := range res.Warnings {
		if w.Stage == pipeline.StageRecognize || w.Stage == pipeline.StageTransform {
			return false
		}
	}
	return true
}

// History lists a user's past extractions, oldest first.
func (e *Extractor) History(ctx context.Context, userID string) ([]*store.Record, error) {
	return e.store.ListByUser(ctx, userID)
}

// Lookup returns one of the user's records.
func (e *Extractor) Lookup(ctx context.Context, id, userID string) (*store.Record, error) {
	return e.store.Get(ctx, id, userID)
}

// Close releases the store and cache.
func (e *Extractor) Close() error {
	return errors.Join(e.store.Close(), e.cache.Close())
}

// ExportText writes the record's text to dir/text_<id>.txt and returns the path.
func ExportText(rec *store.Record, dir string) (string, error) {
	if rec == nil {
		return "", store.ErrNotFound
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("text_%s.txt", rec.ID))
	if err := os.WriteFile(path, []byte(rec.Text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
