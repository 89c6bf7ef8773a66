package core

import (
	"encoding/binary"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is either carried over from the source dataset or derived from content.
type ID uint64

// IDFromTitle generates a deterministic ID from a movie title using BLAKE2b
// hashing. Dataset rows without an explicit id get a stable identity this way,
// which keeps vector-index upserts idempotent across re-ingestion runs.
func IDFromTitle(title string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(title))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Source identifies which pipeline stage produced a Candidate.
type Source string

const (
	// SourceVector marks candidates returned by the vector similarity stage.
	SourceVector Source = "vector"
	// SourceGraph marks candidates discovered through knowledge-graph expansion.
	SourceGraph Source = "graph"
	// SourceTrending marks candidates from the metadata provider's trending list.
	SourceTrending Source = "trending"
)

// Movie represents an item from the ingested catalog.
// Movies are created during ingestion and read-only afterwards.
type Movie struct {
	ID       ID       `json:"id"`
	Title    string   `json:"title"`
	Genre    string   `json:"genre"` // may encode multiple genres delimited by comma/semicolon
	Director string   `json:"director"`
	Year     int      `json:"year"` // 0 means unknown
	Plot     string   `json:"plot"` // embedding source; may be empty
	Cast     []string `json:"cast"` // used by graph ingestion only
}

// movieJSON mirrors Movie but tolerates the dataset's loose typing:
// years arrive as ints, floats ("2005.0") or strings, and the original
// column name "release_year" is accepted alongside "year".
type movieJSON struct {
	ID       uint64          `json:"id"`
	Title    string          `json:"title"`
	Genre    string          `json:"genre"`
	Director string          `json:"director"`
	Year     json.RawMessage `json:"year"`
	Release  json.RawMessage `json:"release_year"`
	Plot     string          `json:"plot"`
	Cast     []string        `json:"cast"`
}

// UnmarshalJSON decodes a Movie, coercing the year field from whatever
// representation the dataset used. Unparseable years become 0 (unknown)
// rather than failing the whole record.
func (m *Movie) UnmarshalJSON(data []byte) error {
	var raw movieJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.ID = ID(raw.ID)
	m.Title = raw.Title
	m.Genre = raw.Genre
	m.Director = raw.Director
	m.Plot = raw.Plot
	m.Cast = raw.Cast

	year := raw.Year
	if len(year) == 0 {
		year = raw.Release
	}
	m.Year = ParseYear(string(year))
	return nil
}

// ParseYear coerces a loosely typed year value ("2005", "2005.0", quoted or
// not) into an int. Returns 0 if the value is absent or unparseable.
func ParseYear(raw string) int {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		return 0
	}
	// Tolerate fractional years from float-typed dataset columns.
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return year
}

// Candidate is a transient recommendation record produced by the pipeline.
// Candidates live for the duration of one request and are discarded after
// the response is returned.
//
// Score is populated only for vector-origin candidates (cosine similarity,
// rounded to 4 decimal places). Graph hits are not on the same scale, so no
// unified ranking metric is attempted and their Score stays nil. PosterURL
// and ExternalURL are set by enrichment: nil is the explicit "not found"
// marker, serialized as JSON null so consumers see a stable schema.
type Candidate struct {
	Title       string   `json:"title"`
	Genre       string   `json:"genre"`
	Director    string   `json:"director,omitempty"`
	Year        int      `json:"year"`
	Score       *float64 `json:"score"`
	Source      Source   `json:"source"`
	PosterURL   *string  `json:"poster_url"`
	ExternalURL *string  `json:"imdb_url"`
}

// Float64Ptr returns a pointer to v. Convenience for building candidates.
func Float64Ptr(v float64) *float64 { return &v }

// StringPtr returns a pointer to s. Convenience for building candidates.
func StringPtr(s string) *string { return &s }
