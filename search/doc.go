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


// Package search provides the semantic search service over movie plots.
//
// The service composes an ai.Embedder with a vectorindex.Index into a single
// "search by text" operation, provisioning the backing collection on first
// use. It also owns vector ingestion: plots are embedded and uploaded in
// fixed-size batches guarded by a bounded retry policy, with partial success
// accepted — ingestion is a maintenance operation, not a user-facing request.
package search
