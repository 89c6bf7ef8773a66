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

// Package recommend implements the hybrid recommendation pipeline.
//
// A request flows through three stages. Semantic search ranks seed movies by
// plot similarity to the query. Each seed is then expanded through the
// relationship graph (shared directors, cast and genres), with expansions
// running concurrently and a per-seed failure budget: a seed whose traversal
// fails contributes nothing instead of failing the request. Finally the
// merged, title-deduplicated candidate list is enriched with poster and
// external links in a single pass.
package recommend
