package qdrant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		host    string
		port    int
		useTLS  bool
		wantErr bool
	}{
		{name: "cloud https", raw: "https://xyz.eu-central.cloud.qdrant.io:6334", host: "xyz.eu-central.cloud.qdrant.io", port: 6334, useTLS: true},
		{name: "local http", raw: "http://localhost:6334", host: "localhost", port: 6334},
		{name: "default port", raw: "https://qdrant.internal", host: "qdrant.internal", port: 6334, useTLS: true},
		{name: "custom port", raw: "http://10.0.0.5:7000", host: "10.0.0.5", port: 7000},
		{name: "missing host", raw: "not a url", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, useTLS, err := splitEndpoint(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.port, port)
			assert.Equal(t, tt.useTLS, useTLS)
		})
	}
}

func TestNew_Validation(t *testing.T) {
	t.Run("missing URL", func(t *testing.T) {
		_, err := New(Config{Collection: "movies"})
		assert.Error(t, err)
	})

	t.Run("missing collection", func(t *testing.T) {
		_, err := New(Config{URL: "http://localhost:6334"})
		assert.Error(t, err)
	})
}
