package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestEngineFlags(t *testing.T) {
	flags := engineFlags()

	find := func(name string) *cli.StringFlag {
		for _, flag := range flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
				return f
			}
		}
		return nil
	}

	t.Run("qdrant-url has local default", func(t *testing.T) {
		f := find("qdrant-url")
		require.NotNil(t, f)
		assert.Equal(t, "http://localhost:6334", f.Value)
	})

	t.Run("collection defaults to movies", func(t *testing.T) {
		f := find("collection")
		require.NotNil(t, f)
		assert.Equal(t, "movies", f.Value)
	})

	t.Run("tmdb key is optional", func(t *testing.T) {
		f := find("tmdb-api-key")
		require.NotNil(t, f)
		assert.Empty(t, f.Value)
	})

	t.Run("credentials come from the environment", func(t *testing.T) {
		f := find("neo4j-password")
		require.NotNil(t, f)
		assert.Contains(t, f.EnvVars, "NEO4J_PASSWORD")
	})
}

func TestSetupLogger(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	newContext := func(level string) *cli.Context {
		app := &cli.App{
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "info"},
			},
		}
		var captured *cli.Context
		app.Action = func(c *cli.Context) error {
			captured = c
			return nil
		}
		require.NoError(t, app.Run([]string{"cinegraph", "--log-level", level}))
		return captured
	}

	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG"} {
			assert.NoError(t, setupLogger(newContext(level)), level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := setupLogger(newContext("verbose"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
