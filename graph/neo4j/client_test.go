package neo4j

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/cinegraph/core"
	"github.com/poiesic/cinegraph/graph"
)

func TestNew_Validation(t *testing.T) {
	t.Run("missing URI", func(t *testing.T) {
		_, err := New(Config{Password: "secret"})
		assert.ErrorIs(t, err, graph.ErrURIRequired)
	})

	t.Run("missing password", func(t *testing.T) {
		_, err := New(Config{URI: "neo4j://localhost:7687"})
		assert.ErrorIs(t, err, graph.ErrCredentialsRequired)
	})
}

func TestSplitGenres(t *testing.T) {
	tests := []struct {
		name  string
		genre string
		want  []string
	}{
		{name: "single genre", genre: "Drama", want: []string{"Drama"}},
		{name: "comma separated", genre: "Drama, Thriller", want: []string{"Drama", "Thriller"}},
		{name: "semicolon separated", genre: "Drama; Thriller", want: []string{"Drama", "Thriller"}},
		{name: "mixed delimiters", genre: "Drama, Thriller; Crime", want: []string{"Drama", "Thriller", "Crime"}},
		{name: "unknown dropped", genre: "unknown", want: []string{}},
		{name: "empty pieces dropped", genre: "Drama,, ,Thriller", want: []string{"Drama", "Thriller"}},
		{name: "empty string", genre: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitGenres(tt.genre))
		})
	}
}

func TestMakeBatch(t *testing.T) {
	movies := []core.Movie{
		{
			ID:       42,
			Title:    "Heat",
			Genre:    "Crime; Thriller",
			Director: "Michael Mann",
			Year:     1995,
			Cast:     []string{"Al Pacino", "Robert De Niro"},
		},
	}

	batch := makeBatch(movies)
	require.Len(t, batch, 1)

	row := batch[0]
	assert.Equal(t, int64(42), row["id"])
	assert.Equal(t, "Heat", row["title"])
	assert.Equal(t, "Michael Mann", row["director"])
	assert.Equal(t, 1995, row["release_year"])
	assert.Equal(t, []string{"Al Pacino", "Robert De Niro"}, row["cast"])
	assert.Equal(t, []string{"Crime", "Thriller"}, row["genres"])
}
