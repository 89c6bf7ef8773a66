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


// Package ai provides abstractions for the embedding services used in Cinegraph.
//
// The package defines the Embedder interface, which turns free text into
// fixed-length numeric vectors for the semantic search service. It follows
// the dependency inversion principle: business logic depends on the
// abstraction, not on a concrete embedding backend.
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewEmbedder) return the interface type to
// enforce abstraction. Test utility constructors (mock.NewMockEmbedder)
// return concrete types to enable test assertions and behavior injection
// via the mock's public fields (EmbedTextFunc, CallCount, Reset).
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithModel("all-minilm"))
//	embedder, err := openai.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vector, err := embedder.EmbedText(ctx, "a heist movie inside dreams")
package ai
