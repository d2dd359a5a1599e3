// Package db provides PostgreSQL database access for artifact storage.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the rebuild tables if they do not exist yet
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS rebuild_runs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			source_filename TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ
		);
		CREATE TABLE IF NOT EXISTS artifacts (
			run_id UUID NOT NULL REFERENCES rebuild_runs(id) ON DELETE CASCADE,
			step TEXT NOT NULL,
			category TEXT NOT NULL,
			content JSONB,
			text_content TEXT,
			binary_content BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (run_id, step)
		);`)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// CreateRun creates a new rebuild run record and returns its ID
func (db *DB) CreateRun(ctx context.Context, sourceFilename string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO rebuild_runs (source_filename, status)
		 VALUES ($1, 'running')
		 RETURNING id`,
		sourceFilename,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a rebuild run as completed
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE rebuild_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a run record by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, source_filename, status, created_at, completed_at
		 FROM rebuild_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.SourceFilename, &run.Status, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// SaveArtifact stores a JSON artifact for a rebuild run
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, step, category string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO artifacts (run_id, step, category, content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, content = $4, created_at = NOW()`,
		runID, step, category, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return nil
}

// SaveTextArtifact stores a text artifact (like extracted resume text) for a rebuild run
func (db *DB) SaveTextArtifact(ctx context.Context, runID uuid.UUID, step, category, text string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO artifacts (run_id, step, category, text_content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, text_content = $4, created_at = NOW()`,
		runID, step, category, text,
	)
	if err != nil {
		return fmt.Errorf("failed to save text artifact %s: %w", step, err)
	}
	return nil
}

// SaveBinaryArtifact stores a binary artifact (the generated DOCX) for a rebuild run
func (db *DB) SaveBinaryArtifact(ctx context.Context, runID uuid.UUID, step, category string, data []byte) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO artifacts (run_id, step, category, binary_content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, binary_content = $4, created_at = NOW()`,
		runID, step, category, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save binary artifact %s: %w", step, err)
	}
	return nil
}

// GetArtifact retrieves a JSON artifact by run ID and step
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}

// GetTextArtifact retrieves a text artifact by run ID and step
func (db *DB) GetTextArtifact(ctx context.Context, runID uuid.UUID, step string) (string, error) {
	var text string
	err := db.pool.QueryRow(ctx,
		`SELECT text_content FROM artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&text)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get text artifact %s: %w", step, err)
	}
	return text, nil
}

// GetBinaryArtifact retrieves a binary artifact by run ID and step
func (db *DB) GetBinaryArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT binary_content FROM artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get binary artifact %s: %w", step, err)
	}
	return data, nil
}

// ListArtifacts returns metadata for every artifact of a run
func (db *DB) ListArtifacts(ctx context.Context, runID uuid.UUID) ([]ArtifactMeta, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT step, category, created_at FROM artifacts
		 WHERE run_id = $1 ORDER BY created_at`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var metas []ArtifactMeta
	for rows.Next() {
		var meta ArtifactMeta
		if err := rows.Scan(&meta.Step, &meta.Category, &meta.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact row: %w", err)
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}
