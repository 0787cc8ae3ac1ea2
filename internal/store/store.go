// Package store persists extraction history per user.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist or belongs to another user.
var ErrNotFound = errors.New("record not found")

// Record is one completed extraction.
type Record struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	ImagePath        string    `json:"image_path"`
	Operation        string    `json:"operation"`
	Text             string    `json:"text"`
	DetectedLanguage string    `json:"detected_language"`
	CreatedAt        time.Time `json:"created_at"`
}

// Store is the history backend.
type Store interface {
	// Save inserts rec. ID and CreatedAt must already be set.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record only if it belongs to userID.
	Get(ctx context.Context, id, userID string) (*Record, error)

	// ListByUser returns a user's records, oldest first.
	ListByUser(ctx context.Context, userID string) ([]*Record, error)

	Close() error
}

func validate(rec *Record) error {
	switch {
	case rec == nil:
		return errors.New("record is nil")
	case rec.ID == "":
		return errors.New("record ID is required")
	case rec.UserID == "":
		return errors.New("user ID is required")
	}
	return nil
}
