package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DB_PATH", "SERVER_PORT", "LOG_LEVEL", "DATA_SOURCES", "SNAPSHOT_URL", "SEED_FILE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "volley-rank.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{SourceEmbedded}, cfg.DataSources)
	assert.True(t, cfg.HasSource(SourceEmbedded))
	assert.False(t, cfg.HasSource(SourceArchive))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/rank.db")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATA_SOURCES", " Archive, snapshot ")
	t.Setenv("SNAPSHOT_URL", "http://example.test/snapshot.json")
	t.Setenv("SEED_FILE", "")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/rank.db", cfg.DBPath)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, []string{SourceArchive, SourceSnapshot}, cfg.DataSources)
	assert.Equal(t, "http://example.test/snapshot.json", cfg.SnapshotURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"embedded only", Config{LogLevel: "info", DataSources: []string{SourceEmbedded}}, false},
		{"no sources", Config{LogLevel: "info"}, true},
		{"unknown source", Config{LogLevel: "info", DataSources: []string{"ftp"}}, true},
		{"duplicate source", Config{LogLevel: "info", DataSources: []string{SourceArchive, SourceArchive}}, true},
		{"snapshot without url", Config{LogLevel: "info", DataSources: []string{SourceSnapshot}}, true},
		{"snapshot with url", Config{LogLevel: "info", DataSources: []string{SourceSnapshot}, SnapshotURL: "http://x"}, false},
		{"bad log level", Config{LogLevel: "loud", DataSources: []string{SourceEmbedded}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
