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


package vectorindex

import "errors"

var (
	// ErrCollectionRequired is returned when a collection name is not configured.
	ErrCollectionRequired = errors.New("collection name required")

	// ErrURLRequired is returned when the index service URL is not configured.
	ErrURLRequired = errors.New("vector index URL required")

	// ErrInvalidDimension is returned when a collection is created with a
	// non-positive vector dimensionality.
	ErrInvalidDimension = errors.New("vector dimension must be greater than 0")
)
