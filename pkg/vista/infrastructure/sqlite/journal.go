package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Register the "sqlite" driver

	"kgeyst.com/vista/pkg/vista/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	capture_id TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	request TEXT NOT NULL,
	category TEXT NOT NULL,
	prompt TEXT NOT NULL,
	model TEXT NOT NULL,
	original_bytes INTEGER NOT NULL,
	optimized_bytes INTEGER NOT NULL,
	description TEXT NOT NULL,
	elapsed_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC);
`

// Journal keeps the history of analyses in a SQLite database, so that the user can ask what was on the label
// they photographed earlier.
type Journal struct {
	db *sql.DB
}

func NewJournal(dbPath string) (*Journal, error) {
	err := os.MkdirAll(filepath.Dir(dbPath), 0o755)
	if err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer anyway.
	db.SetMaxOpenConns(1)
	_, err = db.Exec(schema)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Record(ctx context.Context, analysis *domain.Analysis) error {
	if analysis == nil {
		return errors.New("analysis cannot be nil")
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO analyses (
			capture_id, created_at, request, category, prompt, model,
			original_bytes, optimized_bytes, description, elapsed_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		analysis.CaptureID,
		analysis.CreatedAt.UnixNano(),
		analysis.Request,
		analysis.Category.String(),
		analysis.Prompt,
		analysis.Model,
		analysis.OriginalBytes,
		analysis.OptimizedBytes,
		analysis.Description,
		analysis.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record analysis: %w", err)
	}
	return nil
}

func (j *Journal) Recent(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT capture_id, created_at, request, category, prompt, model,
			original_bytes, optimized_bytes, description, elapsed_ms
		FROM analyses
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*domain.Analysis
	for rows.Next() {
		var (
			analysis  domain.Analysis
			createdAt int64
			category  string
			elapsedMs int64
		)
		err = rows.Scan(
			&analysis.CaptureID,
			&createdAt,
			&analysis.Request,
			&category,
			&analysis.Prompt,
			&analysis.Model,
			&analysis.OriginalBytes,
			&analysis.OptimizedBytes,
			&analysis.Description,
			&elapsedMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		analysis.CreatedAt = time.Unix(0, createdAt)
		analysis.Category = domain.ParseCategory(category)
		analysis.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		result = append(result, &analysis)
	}
	return result, rows.Err()
}

func (j *Journal) Close() error {
	return j.db.Close()
}
