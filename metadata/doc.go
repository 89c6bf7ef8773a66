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


// Package metadata defines the external enrichment abstraction of the
// recommendation pipeline.
//
// An Enricher decorates candidates with presentation metadata (poster image,
// cross-reference link) fetched from a third-party provider, and serves the
// provider's trending list. Enrichment is a total operation: provider
// failures degrade individual candidates to explicit "not found" markers
// instead of failing the request, and a missing credential turns the whole
// stage into a passthrough.
//
// # Implementation Packages
//
//   - metadata/tmdb: Production implementation against The Movie Database
//   - metadata/badgercache: Badger-backed LookupCache for memoizing lookups
//   - metadata/mock: Test doubles with call counting for unit tests
package metadata
