package index

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists an index to SQLite. Vectors and their metadata rows are
// written in one transaction: a partial write would desynchronize the two and
// corrupt every later lookup, so save is all-or-nothing.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the snapshot database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}

	s := &Store{db: db}
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
	CREATE TABLE IF NOT EXISTS index_info (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		dimension INTEGER NOT NULL,
		entry_count INTEGER NOT NULL,
		saved_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS index_entries (
		claim_id TEXT PRIMARY KEY,
		embedding BLOB NOT NULL,
		metadata TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate snapshot db: %w", err)
	}
	return nil
}

// Save writes the full index state, replacing any previous snapshot.
func (s *Store) Save(idx *Index) error {
	entries := idx.Entries()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM index_entries`); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO index_info (id, dimension, entry_count, saved_at)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET dimension=excluded.dimension,
		   entry_count=excluded.entry_count, saved_at=excluded.saved_at`,
		idx.Dimension(), len(entries), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("write index info: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO index_entries (claim_id, embedding, metadata, updated_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		metaJSON, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for %s: %w", e.ClaimID, err)
		}
		if _, err := stmt.Exec(e.ClaimID, encodeVector(e.Embedding), string(metaJSON), e.Metadata.UpdatedAt); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ClaimID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Load reconstructs an index from the latest snapshot. Returns an empty index
// when no snapshot has been saved yet, and ErrCorrupt when the stored
// dimension or entry count disagrees with the vector data.
func (s *Store) Load(dim int, logger *slog.Logger) (*Index, error) {
	idx, err := New(dim, logger)
	if err != nil {
		return nil, err
	}

	var storedDim, storedCount int
	err = s.db.QueryRow(`SELECT dimension, entry_count FROM index_info WHERE id = 1`).
		Scan(&storedDim, &storedCount)
	if err == sql.ErrNoRows {
		return idx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index info: %w", err)
	}
	if storedDim != dim {
		return nil, fmt.Errorf("%w: snapshot dimension %d, configured %d", ErrCorrupt, storedDim, dim)
	}

	rows, err := s.db.Query(`SELECT claim_id, embedding, metadata FROM index_entries`)
	if err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			claimID  string
			blob     []byte
			metaJSON string
		)
		if err := rows.Scan(&claimID, &blob, &metaJSON); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("%w: claim %s: %v", ErrCorrupt, claimID, err)
		}
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: claim %s has dimension %d, expected %d",
				ErrCorrupt, claimID, len(vec), dim)
		}
		var meta Metadata
		if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
			return nil, fmt.Errorf("%w: claim %s metadata: %v", ErrCorrupt, claimID, err)
		}
		entries = append(entries, Entry{ClaimID: claimID, Embedding: vec, Metadata: meta})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	if len(entries) != storedCount {
		return nil, fmt.Errorf("%w: info records %d entries, found %d", ErrCorrupt, storedCount, len(entries))
	}

	if err := idx.BatchAdd(entries); err != nil {
		return nil, err
	}
	return idx, nil
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	return buf
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d not a multiple of 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
