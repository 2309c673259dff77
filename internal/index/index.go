// Package index provides an in-process nearest-neighbor index over claim
// embeddings. The backing structure is a flat inner-product index: vectors are
// normalized on insert so inner product equals cosine similarity. The flat
// layout cannot mutate vectors in place, so update and remove rebuild the
// search snapshot from the full entry set and swap it in atomically. Reads
// always run against an immutable snapshot and never block behind a rebuild.
package index

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrDimensionMismatch indicates an embedding of the wrong length.
	// This is a programming or data-migration bug, never recovered silently.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNotFound indicates the claim ID is not present in the index.
	ErrNotFound = errors.New("claim not found in index")

	// ErrCorrupt indicates the persisted index and its metadata table disagree.
	ErrCorrupt = errors.New("index corrupt")
)

// Metadata describes the claim behind an indexed vector.
type Metadata struct {
	Text      string    `json:"text"`
	Language  string    `json:"language,omitempty"`
	SourceURL string    `json:"source_url,omitempty"`
	Verdict   string    `json:"verdict,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entry pairs a claim ID with its embedding and metadata.
type Entry struct {
	ClaimID   string
	Embedding []float32
	Metadata  Metadata
}

// Result is a single similarity hit.
type Result struct {
	ClaimID    string
	Similarity float64
	Metadata   Metadata
}

// snapshot is the immutable structure searches run against.
type snapshot struct {
	ids     []string
	vectors [][]float32 // normalized, parallel to ids
	meta    []Metadata
}

// Index is a flat inner-product similarity index of fixed dimension.
// Mutations are serialized by a single-writer lock; searches read the current
// snapshot without locking.
type Index struct {
	dim    int
	logger *slog.Logger

	mu      sync.Mutex // serializes mutations and snapshot rebuilds
	entries map[string]*Entry
	snap    atomic.Pointer[snapshot]
}

// New creates an empty index for embeddings of the given dimension.
func New(dim int, logger *slog.Logger) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("index dimension must be positive, got %d", dim)
	}
	if logger == nil {
		logger = slog.Default()
	}
	idx := &Index{
		dim:     dim,
		logger:  logger,
		entries: make(map[string]*Entry),
	}
	idx.snap.Store(&snapshot{})
	return idx, nil
}

// Dimension returns the fixed embedding dimension.
func (idx *Index) Dimension() int { return idx.dim }

// Len returns the number of indexed claims.
func (idx *Index) Len() int {
	return len(idx.snap.Load().ids)
}

// Add inserts one vector. Fails with ErrDimensionMismatch if the embedding has
// the wrong length; replaces the existing entry when the claim ID is already
// present.
func (idx *Index) Add(claimID string, embedding []float32, meta Metadata) error {
	return idx.BatchAdd([]Entry{{ClaimID: claimID, Embedding: embedding, Metadata: meta}})
}

// BatchAdd inserts all entries with a single snapshot rebuild. Callers adding
// many vectors must prefer this over repeated Add since every mutation pays
// the O(N) rebuild.
func (idx *Index) BatchAdd(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if len(e.Embedding) != idx.dim {
			return fmt.Errorf("%w: claim %s has dimension %d, index requires %d",
				ErrDimensionMismatch, e.ClaimID, len(e.Embedding), idx.dim)
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, e := range entries {
		stored := Entry{
			ClaimID:   e.ClaimID,
			Embedding: normalize(e.Embedding),
			Metadata:  e.Metadata,
		}
		idx.entries[e.ClaimID] = &stored
	}
	idx.rebuildLocked()
	return nil
}

// Update replaces an entry's embedding and metadata. The flat backing
// structure has no in-place vector mutation, so the snapshot is rebuilt from
// the full entry set. Fails with ErrNotFound if the claim is absent.
func (idx *Index) Update(claimID string, embedding []float32, meta Metadata) error {
	if len(embedding) != idx.dim {
		return fmt.Errorf("%w: claim %s has dimension %d, index requires %d",
			ErrDimensionMismatch, claimID, len(embedding), idx.dim)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, ok := idx.entries[claimID]; !ok {
		return fmt.Errorf("update claim %s: %w", claimID, ErrNotFound)
	}
	stored := Entry{ClaimID: claimID, Embedding: normalize(embedding), Metadata: meta}
	idx.entries[claimID] = &stored
	idx.rebuildLocked()
	return nil
}

// Remove deletes an entry and rebuilds the snapshot. Removing an absent claim
// is not an error: index population is at-most-once, so a double remove is
// logged and ignored.
func (idx *Index) Remove(claimID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, ok := idx.entries[claimID]; !ok {
		idx.logger.Warn("remove of absent claim ignored", "claim_id", claimID)
		return
	}
	delete(idx.entries, claimID)
	idx.rebuildLocked()
}

// BatchRemove deletes several entries with a single rebuild.
func (idx *Index) BatchRemove(claimIDs []string) {
	if len(claimIDs) == 0 {
		return
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	changed := false
	for _, id := range claimIDs {
		if _, ok := idx.entries[id]; !ok {
			idx.logger.Warn("remove of absent claim ignored", "claim_id", id)
			continue
		}
		delete(idx.entries, id)
		changed = true
	}
	if changed {
		idx.rebuildLocked()
	}
}

// Search returns up to k entries with cosine similarity >= minSimilarity,
// sorted by similarity descending, ties broken by most recent metadata
// update. An empty index yields an empty slice, not an error.
func (idx *Index) Search(query []float32, k int, minSimilarity float64) ([]Result, error) {
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index requires %d",
			ErrDimensionMismatch, len(query), idx.dim)
	}
	if k <= 0 {
		return []Result{}, nil
	}

	snap := idx.snap.Load()
	if len(snap.ids) == 0 {
		return []Result{}, nil
	}

	q := normalize(query)
	results := make([]Result, 0, len(snap.ids))
	for i, vec := range snap.vectors {
		sim := dot(q, vec)
		if sim < minSimilarity {
			continue
		}
		results = append(results, Result{
			ClaimID:    snap.ids[i],
			Similarity: sim,
			Metadata:   snap.meta[i],
		})
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].Similarity != results[b].Similarity {
			return results[a].Similarity > results[b].Similarity
		}
		return results[a].Metadata.UpdatedAt.After(results[b].Metadata.UpdatedAt)
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Entries returns a copy of all stored entries, for persistence.
func (idx *Index) Entries() []Entry {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	out := make([]Entry, 0, len(idx.entries))
	for _, e := range idx.entries {
		out = append(out, *e)
	}
	return out
}

// rebuildLocked constructs a fresh snapshot from the entry set and swaps it
// in. Searches in flight keep reading the previous snapshot. Caller holds mu.
func (idx *Index) rebuildLocked() {
	snap := &snapshot{
		ids:     make([]string, 0, len(idx.entries)),
		vectors: make([][]float32, 0, len(idx.entries)),
		meta:    make([]Metadata, 0, len(idx.entries)),
	}
	for _, e := range idx.entries {
		snap.ids = append(snap.ids, e.ClaimID)
		snap.vectors = append(snap.vectors, e.Embedding)
		snap.meta = append(snap.meta, e.Metadata)
	}
	idx.snap.Store(snap)
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// normalize returns a unit-length copy of v. Zero vectors are returned as-is
// so they match nothing rather than everything.
func normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)
	out := make([]float32, len(v))
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
