// Package storage persists completed analysis results. Writes happen off the
// pipeline's critical path: a failed persist is logged, never surfaced to the
// caller of analyze.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/192005chandrakant/credlens/internal/model"
)

// Store writes results to SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the result database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open result db: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		content_id TEXT PRIMARY KEY,
		language TEXT,
		model_tier TEXT,
		score INTEGER NOT NULL,
		badge TEXT NOT NULL,
		escalated BOOLEAN NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_results_created_at ON results(created_at);
	CREATE INDEX IF NOT EXISTS idx_results_badge ON results(badge);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate result db: %w", err)
	}
	return nil
}

// Persist writes one result, replacing any previous row for the same content.
func (s *Store) Persist(result model.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO results (content_id, language, model_tier, score, badge, escalated, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_id) DO UPDATE SET
			language=excluded.language, model_tier=excluded.model_tier,
			score=excluded.score, badge=excluded.badge, escalated=excluded.escalated,
			payload=excluded.payload, created_at=excluded.created_at`,
		result.ContentID, result.Language, result.ModelTier, result.Score,
		string(result.Badge), result.ModelEscalated, string(payload), result.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// PersistAsync writes the result on a separate goroutine, fire-and-forget.
func (s *Store) PersistAsync(result model.AnalysisResult) {
	go func() {
		if err := s.Persist(result); err != nil {
			s.logger.Warn("result persistence failed", "content_id", result.ContentID, "err", err)
		}
	}()
}

// Recent returns the newest results, most recent first.
func (s *Store) Recent(limit int) ([]model.AnalysisResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT payload FROM results ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []model.AnalysisResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var r model.AnalysisResult
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			s.logger.Warn("skipping unreadable persisted result", "err", err)
			continue
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
