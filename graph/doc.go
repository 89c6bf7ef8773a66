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


// Package graph defines the knowledge-graph abstraction used for
// recommendation expansion.
//
// The graph holds Movie, Director, Actor and Genre nodes connected by
// DIRECTED_BY, ACTED_IN and HAS_GENRE relationships. The Expander interface
// covers the traversal the recommendation pipeline needs; the Loader
// interface covers graph population during ingestion.
//
// # Implementation Packages
//
//   - graph/neo4j: Production implementation on the Neo4j Bolt driver
//   - graph/mock: Test doubles with call counting for unit tests
package graph
