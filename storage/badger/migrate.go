// Copyright 2025 Patent Guard Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/hwany-ai/patentguard/core"
	"github.com/hwany-ai/patentguard/storage"
)

// currentSchemaVersion is the schema this build reads and writes.
const currentSchemaVersion = 3

// legacyRequester is assigned to history entries written before the
// requester column existed.
const legacyRequester = "legacy_user"

// migration is one step in the schema ledger. Steps are applied in order,
// each in its own transaction, and the recorded version advances only after
// a step commits. Re-running against an up-to-date store is a no-op.
type migration struct {
	version int
	name    string
	apply   func(b *Backend) error
}

var migrations = []migration{
	{1, "base-keyspace", migrateBaseKeyspace},
	{2, "requester-backfill", migrateRequesterBackfill},
	{3, "exact-text-index", migrateExactTextIndex},
}

// Migrate brings the backend's schema up to currentSchemaVersion.
// Stores written by a newer schema are rejected rather than rewritten.
func Migrate(b *Backend) error {
	version, err := b.SchemaVersion()
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrMigrationFailed, err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("%w: store has v%d, this build understands v%d",
			storage.ErrSchemaTooNew, version, currentSchemaVersion)
	}

	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		b.logger.Info("applying schema migration", "version", m.version, "name", m.name)
		if err := m.apply(b); err != nil {
			return fmt.Errorf("%w: v%d %s: %w", storage.ErrMigrationFailed, m.version, m.name, err)
		}
		if err := b.writeSchemaVersion(m.version); err != nil {
			return fmt.Errorf("%w: v%d %s: %w", storage.ErrMigrationFailed, m.version, m.name, err)
		}
	}
	return nil
}

// SchemaVersion returns the recorded schema version, 0 for a fresh store.
func (b *Backend) SchemaVersion() (int, error) {
	version := 0
	err := b.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(schemaVersionKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) < 8 {
				return fmt.Errorf("schema version needs 8 bytes, got %d", len(val))
			}
			version = int(binary.BigEndian.Uint64(val))
			return nil
		})
	}, false)
	return version, err
}

func (b *Backend) writeSchemaVersion(version int) error {
	return b.WithTx(func(tx *badger.Txn) error {
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(version))
		if err := tx.Set([]byte(schemaVersionKey), buf); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// migrateBaseKeyspace establishes the initial keyspace. A fresh store has
// nothing to transform; recording v1 marks it as owned by this schema.
func migrateBaseKeyspace(b *Backend) error {
	return nil
}

// migrateRequesterBackfill assigns legacyRequester to entries stored before
// requesters existed and builds the per-requester time index for every entry.
func migrateRequesterBackfill(b *Backend) error {
	return b.forEachEntry(func(tx *badger.Txn, entry *storage.HistoryEntry) error {
		if entry.Requester == "" {
			entry.Requester = legacyRequester
			value, err := storage.MarshalHistoryEntry(entry)
			if err != nil {
				return err
			}
			if err := tx.Set(makeHistoryKey(entry.ID), value); err != nil {
				return err
			}
		}
		key := makeRequesterKey(entry.Requester, entry.CreatedAt, entry.ID)
		return tx.Set(key, storage.MarshalID(entry.ID))
	})
}

// migrateExactTextIndex builds the exact-text index over existing entries.
// When several entries share idea text, iteration order decides the winner;
// newly appended entries overwrite the slot anyway.
func migrateExactTextIndex(b *Backend) error {
	return b.forEachEntry(func(tx *badger.Txn, entry *storage.HistoryEntry) error {
		key := makeExactKey(entry.Requester, core.IDFromContent(entry.Idea))
		return tx.Set(key, storage.MarshalID(entry.ID))
	})
}

// forEachEntry runs fn for every primary history entry in one write
// transaction and commits.
func (b *Backend) forEachEntry(fn func(tx *badger.Txn, entry *storage.HistoryEntry) error) error {
	return b.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(historyPrefix + ":")

		iter := tx.NewIterator(opts)

		var entries []*storage.HistoryEntry
		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *storage.HistoryEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalHistoryEntry(val)
				return err
			})
			if err != nil {
				iter.Close()
				return err
			}
			entries = append(entries, entry)
		}
		iter.Close()

		for _, entry := range entries {
			if err := fn(tx, entry); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
