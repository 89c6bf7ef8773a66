package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/cinegraph/core"
	graphmock "github.com/poiesic/cinegraph/graph/mock"
)

type stubIndexer struct {
	indexed []core.Movie
	err     error
}

func (s *stubIndexer) Index(ctx context.Context, movies []core.Movie) error {
	if s.err != nil {
		return s.err
	}
	s.indexed = append(s.indexed, movies...)
	return nil
}

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewPipeline_Validation(t *testing.T) {
	t.Run("nil indexer", func(t *testing.T) {
		_, err := NewPipeline(nil, graphmock.NewMockLoader())
		assert.ErrorIs(t, err, ErrIndexerRequired)
	})

	t.Run("nil loader", func(t *testing.T) {
		_, err := NewPipeline(&stubIndexer{}, nil)
		assert.ErrorIs(t, err, ErrLoaderRequired)
	})
}

func TestReadDataset(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := writeDataset(t, `[
			{"id": 1, "title": "Inception", "genre": "Sci-Fi", "director": "Christopher Nolan", "release_year": 2010, "plot": "Dream heists."},
			{"id": 2, "title": "Heat", "genre": "Crime", "director": "Michael Mann", "release_year": "1995", "plot": "Cops and robbers."}
		]`)

		movies, err := ReadDataset(path)
		require.NoError(t, err)
		require.Len(t, movies, 2)
		assert.Equal(t, "Inception", movies[0].Title)
		assert.Equal(t, 1995, movies[1].Year, "string years must be coerced")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadDataset(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ReadDataset(writeDataset(t, `{"not": "a list"`))
		assert.Error(t, err)
	})

	t.Run("empty dataset", func(t *testing.T) {
		_, err := ReadDataset(writeDataset(t, `[]`))
		assert.ErrorIs(t, err, ErrEmptyDataset)
	})
}

func TestPipeline_Run(t *testing.T) {
	movies := []core.Movie{
		{ID: 1, Title: "Inception", Plot: "Dream heists."},
		{ID: 2, Title: "Heat", Plot: "Cops and robbers."},
	}

	t.Run("loads graph and index", func(t *testing.T) {
		indexer := &stubIndexer{}
		loader := graphmock.NewMockLoader()
		p, err := NewPipeline(indexer, loader)
		require.NoError(t, err)

		require.NoError(t, p.Run(context.Background(), movies, false))
		assert.Len(t, loader.Loaded(), 2)
		assert.Len(t, indexer.indexed, 2)
		assert.Equal(t, 0, loader.ClearCalls())
	})

	t.Run("reset clears graph first", func(t *testing.T) {
		indexer := &stubIndexer{}
		loader := graphmock.NewMockLoader()
		p, err := NewPipeline(indexer, loader)
		require.NoError(t, err)

		require.NoError(t, p.Run(context.Background(), movies, true))
		assert.Equal(t, 1, loader.ClearCalls())
	})

	t.Run("empty input", func(t *testing.T) {
		p, err := NewPipeline(&stubIndexer{}, graphmock.NewMockLoader())
		require.NoError(t, err)
		assert.ErrorIs(t, p.Run(context.Background(), nil, false), ErrEmptyDataset)
	})

	t.Run("loader error stops before indexing", func(t *testing.T) {
		wantErr := errors.New("graph unreachable")
		indexer := &stubIndexer{}
		loader := graphmock.NewMockLoader()
		loader.LoadMoviesFunc = func(ctx context.Context, movies []core.Movie) error {
			return wantErr
		}
		p, err := NewPipeline(indexer, loader)
		require.NoError(t, err)

		assert.ErrorIs(t, p.Run(context.Background(), movies, false), wantErr)
		assert.Empty(t, indexer.indexed)
	})

	t.Run("indexer error propagates", func(t *testing.T) {
		wantErr := errors.New("embedding service down")
		p, err := NewPipeline(&stubIndexer{err: wantErr}, graphmock.NewMockLoader())
		require.NoError(t, err)
		assert.ErrorIs(t, p.Run(context.Background(), movies, false), wantErr)
	})
}

func TestPipeline_RunFile(t *testing.T) {
	path := writeDataset(t, `[{"id": 1, "title": "Inception", "plot": "Dream heists."}]`)

	indexer := &stubIndexer{}
	loader := graphmock.NewMockLoader()
	p, err := NewPipeline(indexer, loader)
	require.NoError(t, err)

	require.NoError(t, p.RunFile(context.Background(), path, false))
	assert.Len(t, indexer.indexed, 1)
}
