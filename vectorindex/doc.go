// Copyright 2025 Poiesic Systems
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


// Package vectorindex defines the vector storage abstraction used by the
// semantic search service.
//
// An Index stores {id, vector, payload} points in a named collection ranked
// by cosine similarity. The search service provisions the collection on
// first use, uploads movie-plot embeddings in batches, and runs top-k
// similarity queries against it.
//
// # Implementation Packages
//
//   - vectorindex/qdrant: Production implementation backed by Qdrant
//   - vectorindex/mock: In-memory brute-force index for unit tests
package vectorindex
