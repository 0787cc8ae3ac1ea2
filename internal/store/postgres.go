package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS extractions (
	id                UUID PRIMARY KEY,
	user_id           TEXT NOT NULL,
	image_path        TEXT NOT NULL,
	operation         TEXT NOT NULL,
	extracted_text    TEXT NOT NULL,
	detected_language TEXT NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS extractions_user_idx ON extractions (user_id, created_at);
`

// PostgresStore keeps history in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to databaseURL and verifies the connection.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("database URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Migrate creates the history table if it does not exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (p *PostgresStore) Save(ctx context.Context, rec *Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO extractions (id, user_id, image_path, operation, extracted_text, detected_language, created_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.UserID, rec.ImagePath, rec.Operation, rec.Text, rec.DetectedLanguage, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save record %s: %w", rec.ID, err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id, userID string) (*Record, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, user_id, image_path, operation, extracted_text, detected_language, created_at
		FROM extractions WHERE id = $1::uuid AND user_id = $2`, id, userID)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", id, err)
	}
	return rec, nil
}

func (p *PostgresStore) ListByUser(ctx context.Context, userID string) ([]*Record, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, image_path, operation, extracted_text, detected_language, created_at
		FROM extractions WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*Record, error) {
	var rec Record
	if err := s.Scan(&rec.ID, &rec.UserID, &rec.ImagePath, &rec.Operation, &rec.Text, &rec.DetectedLanguage, &rec.CreatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}
