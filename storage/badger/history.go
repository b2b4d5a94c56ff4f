package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/hwany-ai/patentguard/core"
	"github.com/hwany-ai/patentguard/storage"
)

// HistoryRepository implements storage.HistoryRepository for BadgerDB.
type HistoryRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(backend *Backend) (*HistoryRepository, error) {
	idSeq, err := backend.GetSequence(historyIDSeq)
	if err != nil {
		return nil, err
	}

	return &HistoryRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *HistoryRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *HistoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Append stores a new history entry with its index keys.
func (r *HistoryRepository) Append(ctx context.Context, entry *storage.HistoryEntry) (*storage.HistoryEntry, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Always generate new ID from sequence
		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		entry.ID = core.ID(nextID)

		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now().UTC()
		}
		if entry.RiskLevel == "" {
			entry.RiskLevel = entry.Result.Verdict.Infringement.RiskLevel
		}
		if entry.SimilarityScore == 0 {
			entry.SimilarityScore = entry.Result.Verdict.Similarity.Score
		}

		if err := writeEntry(tx, entry); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return entry, err
}

// Get retrieves a single entry by ID.
func (r *HistoryRepository) Get(ctx context.Context, id core.ID) (*storage.HistoryEntry, error) {
	var result *storage.HistoryEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readEntry(tx, makeHistoryKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// Recent retrieves the requester's most recent entries, newest first.
func (r *HistoryRepository) Recent(ctx context.Context, requester string, limit int) ([]*storage.HistoryEntry, error) {
	return r.scanRecent(requester, limit, false)
}

// RecentWithEmbedding retrieves the requester's most recent embedded entries,
// newest first. Entries without an embedding are skipped.
func (r *HistoryRepository) RecentWithEmbedding(ctx context.Context, requester string, limit int) ([]*storage.HistoryEntry, error) {
	return r.scanRecent(requester, limit, true)
}

func (r *HistoryRepository) scanRecent(requester string, limit int, embeddedOnly bool) ([]*storage.HistoryEntry, error) {
	var results []*storage.HistoryEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent entries first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = makeRequesterScanPrefix(requester)

		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makeRequesterSeekKey(requester)

		for iter.Seek(startKey); iter.Valid() && len(results) < limit; iter.Next() {
			// Read the ID from the index
			var entryID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				entryID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full entry
			entry, err := readEntry(tx, makeHistoryKey(entryID))
			if err != nil {
				return err
			}
			if entry == nil || entry.Requester != requester {
				continue
			}
			if embeddedOnly && len(entry.Embedding) == 0 {
				continue
			}
			results = append(results, entry)
		}
		return nil
	}, false)

	return results, err
}

// FindExact retrieves the most recent entry with idea text identical to idea.
func (r *HistoryRepository) FindExact(ctx context.Context, requester, idea string) (*storage.HistoryEntry, error) {
	var result *storage.HistoryEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeExactKey(requester, core.IDFromContent(idea))
		item, err := tx.Get(key)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var entryID core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			entryID, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		entry, err := readEntry(tx, makeHistoryKey(entryID))
		if err != nil {
			return err
		}
		// The index keys on content hashes; confirm the stored requester and
		// text match before treating this as an exact hit.
		if entry == nil || entry.Requester != requester || entry.Idea != idea {
			return storage.ErrNotFound
		}
		result = entry
		return nil
	}, false)
	return result, err
}

// Clear removes all of the requester's entries and their index keys.
func (r *HistoryRepository) Clear(ctx context.Context, requester string) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeRequesterScanPrefix(requester)

		iter := tx.NewIterator(opts)

		var indexKeys [][]byte
		var entryIDs []core.ID
		for iter.Rewind(); iter.Valid(); iter.Next() {
			indexKeys = append(indexKeys, iter.Item().KeyCopy(nil))

			var entryID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				entryID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				iter.Close()
				return err
			}
			entryIDs = append(entryIDs, entryID)
		}
		iter.Close()

		for i, entryID := range entryIDs {
			entryKey := makeHistoryKey(entryID)
			entry, err := readEntry(tx, entryKey)
			if err != nil {
				return err
			}
			if entry != nil {
				if entry.Requester != requester {
					continue
				}
				if err := tx.Delete(makeExactKey(requester, core.IDFromContent(entry.Idea))); err != nil {
					return err
				}
				if err := tx.Delete(entryKey); err != nil {
					return err
				}
				count++
			}
			if err := tx.Delete(indexKeys[i]); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return 0, err
	}
	return count, nil
}

// Helper methods

// writeEntry stores the primary record and both index keys.
// The entry must already carry its ID and CreatedAt.
func writeEntry(tx *badger.Txn, entry *storage.HistoryEntry) error {
	value, err := storage.MarshalHistoryEntry(entry)
	if err != nil {
		return err
	}
	if err := tx.Set(makeHistoryKey(entry.ID), value); err != nil {
		return err
	}

	idValue := storage.MarshalID(entry.ID)
	if err := tx.Set(makeRequesterKey(entry.Requester, entry.CreatedAt, entry.ID), idValue); err != nil {
		return err
	}
	// Newest entry wins the exact-text slot for identical idea text.
	return tx.Set(makeExactKey(entry.Requester, core.IDFromContent(entry.Idea)), idValue)
}

// readEntry reads a history entry from the transaction.
// Returns nil without error when the key is absent.
func readEntry(tx *badger.Txn, key []byte) (*storage.HistoryEntry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry *storage.HistoryEntry
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		entry, unmarshalErr = storage.UnmarshalHistoryEntry(val)
		return unmarshalErr
	})
	return entry, err
}
