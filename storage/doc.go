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

// Package storage provides the storage abstraction layer for Patent Guard.
//
// This package defines the history repository interface that decouples
// persistence from the analysis pipeline. It allows for different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple backends:
//
//	repo, err := badger.NewHistoryRepository(backend)  // returns storage.HistoryRepository
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - Repository: Transaction support and lifecycle shared by all repositories
//   - HistoryRepository: The append-only analysis history
//
// History entries are append-only. New analysis runs append, listings read,
// and the only destructive operation is a wholesale per-requester Clear.
// Entries are serialized as JSON so the stored rows are readable by tooling
// outside this module.
//
// # Schema Versioning
//
// Backends carry a recorded schema version. Opening a store written by an
// older schema applies the pending migrations before any repository is
// constructed; opening one written by a newer schema fails with
// ErrSchemaTooNew. See the badger subpackage for the migration ledger.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
