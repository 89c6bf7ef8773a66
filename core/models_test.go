package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
	}{
		{name: "same title produces same ID", title: "Inception"},
		{name: "empty string", title: ""},
		{name: "long title", title: "Dr. Strangelove or: How I Learned to Stop Worrying and Love the Bomb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromTitle(tt.title)
			id2 := IDFromTitle(tt.title)
			assert.Equal(t, id1, id2)
		})
	}
}

func TestIDFromTitle_Different(t *testing.T) {
	assert.NotEqual(t, IDFromTitle("Inception"), IDFromTitle("Interstellar"))
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "plain integer", raw: "1999", want: 1999},
		{name: "fractional year", raw: "2005.0", want: 2005},
		{name: "quoted year", raw: `"2010"`, want: 2010},
		{name: "quoted fractional", raw: `"2005.0"`, want: 2005},
		{name: "empty", raw: "", want: 0},
		{name: "null", raw: "null", want: 0},
		{name: "garbage", raw: "N/A", want: 0},
		{name: "whitespace", raw: "  1987 ", want: 1987},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseYear(tt.raw))
		})
	}
}

func TestMovieUnmarshalJSON(t *testing.T) {
	t.Run("release_year as float", func(t *testing.T) {
		data := `{"id": 7, "title": "Metropolis", "genre": "Sci-Fi", "director": "Fritz Lang", "release_year": 1927.0, "plot": "A futuristic city."}`
		var movie Movie
		require.NoError(t, json.Unmarshal([]byte(data), &movie))
		assert.Equal(t, ID(7), movie.ID)
		assert.Equal(t, "Metropolis", movie.Title)
		assert.Equal(t, 1927, movie.Year)
	})

	t.Run("year as string", func(t *testing.T) {
		data := `{"title": "Alien", "year": "1979"}`
		var movie Movie
		require.NoError(t, json.Unmarshal([]byte(data), &movie))
		assert.Equal(t, 1979, movie.Year)
	})

	t.Run("year precedence over release_year", func(t *testing.T) {
		data := `{"title": "Alien", "year": 1979, "release_year": 1980}`
		var movie Movie
		require.NoError(t, json.Unmarshal([]byte(data), &movie))
		assert.Equal(t, 1979, movie.Year)
	})

	t.Run("missing year", func(t *testing.T) {
		data := `{"title": "Unknown Film"}`
		var movie Movie
		require.NoError(t, json.Unmarshal([]byte(data), &movie))
		assert.Equal(t, 0, movie.Year)
	})

	t.Run("cast list", func(t *testing.T) {
		data := `{"title": "Heat", "cast": ["Al Pacino", "Robert De Niro"]}`
		var movie Movie
		require.NoError(t, json.Unmarshal([]byte(data), &movie))
		assert.Equal(t, []string{"Al Pacino", "Robert De Niro"}, movie.Cast)
	})
}

func TestCandidateJSON_NullMarkers(t *testing.T) {
	// Unenriched fields must serialize as explicit nulls, not be omitted.
	candidate := Candidate{Title: "Tenet", Genre: "Action", Year: 2020, Source: SourceGraph}
	data, err := json.Marshal(candidate)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"score":null`)
	assert.Contains(t, string(data), `"poster_url":null`)
	assert.Contains(t, string(data), `"imdb_url":null`)
	assert.Contains(t, string(data), `"source":"graph"`)
}

func TestValidateMovie(t *testing.T) {
	t.Run("valid movie", func(t *testing.T) {
		assert.NoError(t, ValidateMovie(&Movie{Title: "Dune"}))
	})

	t.Run("nil movie", func(t *testing.T) {
		err := ValidateMovie(nil)
		assert.ErrorIs(t, err, ErrInvalidMovie)
	})

	t.Run("empty title", func(t *testing.T) {
		err := ValidateMovie(&Movie{Plot: "has a plot but no title"})
		assert.ErrorIs(t, err, ErrInvalidMovie)
		assert.ErrorIs(t, err, ErrEmptyTitle)
	})
}

func TestValidateSource(t *testing.T) {
	assert.NoError(t, ValidateSource(SourceVector))
	assert.NoError(t, ValidateSource(SourceGraph))
	assert.NoError(t, ValidateSource(SourceTrending))
	assert.ErrorIs(t, ValidateSource(Source("llm")), ErrInvalidSource)
}
