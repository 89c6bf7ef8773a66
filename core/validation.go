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


package core

import "fmt"

// ValidateMovie validates a Movie according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//
// NOT validated:
//   - Plot (plotless movies are valid; the vector indexer skips them)
//   - ID (0 is valid; ingestion derives one from the title)
//   - Year (0 means unknown)
func ValidateMovie(movie *Movie) error {
	if movie == nil {
		return fmt.Errorf("%w: movie is nil", ErrInvalidMovie)
	}

	if movie.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMovie, ErrEmptyTitle)
	}

	return nil
}

// ValidateSource validates a candidate Source value.
func ValidateSource(source Source) error {
	switch source {
	case SourceVector, SourceGraph, SourceTrending:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSource, source)
	}
}
