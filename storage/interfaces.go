package storage

import (
	"context"
	"time"

	"github.com/hwany-ai/patentguard/core"
)

// HistoryEntry is one persisted analysis run. Entries are append-only:
// once written they are never mutated, only read back or cleared wholesale.
type HistoryEntry struct {
	// ID is assigned from a sequence on append.
	ID core.ID `json:"id"`

	// Requester scopes the entry for history listing and cache lookups.
	Requester string `json:"requester"`

	// Idea is the exact idea text the analysis ran against.
	Idea string `json:"idea"`

	// Result is the full analysis outcome, stored as a durable contract
	// that other tooling may read.
	Result core.AnalysisResult `json:"result"`

	// RiskLevel and SimilarityScore are denormalized from the verdict so
	// history listings don't need to decode the full result.
	RiskLevel       core.RiskLevel `json:"risk_level"`
	SimilarityScore int            `json:"similarity_score"`

	// Embedding is the idea's embedding vector. Empty when embedding was
	// unavailable at analysis time; such entries still serve exact-match
	// lookups but are skipped by similarity scans.
	Embedding []float32 `json:"embedding,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Repository provides common storage operations shared across repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// HistoryRepository provides operations for the append-only analysis history.
type HistoryRepository interface {
	Repository

	// Append stores a new history entry.
	// Assigns a sequence ID and sets CreatedAt if unset.
	// Returns the entry with the generated ID and timestamp populated.
	Append(ctx context.Context, entry *HistoryEntry) (*HistoryEntry, error)

	// Get retrieves a single entry by ID.
	// Returns ErrNotFound if the entry doesn't exist.
	Get(ctx context.Context, id core.ID) (*HistoryEntry, error)

	// Recent retrieves the requester's most recent entries, newest first.
	// Returns up to limit entries.
	Recent(ctx context.Context, requester string, limit int) ([]*HistoryEntry, error)

	// RecentWithEmbedding retrieves the requester's most recent entries that
	// carry an embedding vector, newest first. Entries stored without an
	// embedding are skipped and do not count toward limit.
	RecentWithEmbedding(ctx context.Context, requester string, limit int) ([]*HistoryEntry, error)

	// FindExact retrieves the most recent entry whose idea text is byte-for-byte
	// identical to idea, scoped to the requester.
	// Returns ErrNotFound if no such entry exists.
	FindExact(ctx context.Context, requester, idea string) (*HistoryEntry, error)

	// Clear removes all of the requester's entries and their index keys.
	// Returns the number of entries removed.
	Clear(ctx context.Context, requester string) (int, error)
}
