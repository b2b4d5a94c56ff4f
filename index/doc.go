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

// Package index provides the searchable views over the patent corpus.
//
// Two index types back retrieval:
//
//   - LexicalIndex: BM25 keyword search over title, abstract, and claims,
//     built on bleve
//   - DenseIndex: in-memory cosine similarity over embedding vectors
//
// Both support hard pre-filtering by classification code prefix: a filter
// like "G06N" admits documents carrying any code that starts with it, such
// as "G06N 3". Filtering happens inside the index, so excluded documents
// never reach ranking.
package index
