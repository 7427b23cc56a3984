package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Data sources replayed into the engine at startup.
const (
	SourceEmbedded = "embedded"
	SourceArchive  = "archive"
	SourceSnapshot = "snapshot"
)

type Config struct {
	DBPath      string
	ServerPort  string
	LogLevel    string
	DataSources []string
	SnapshotURL string
	SeedFile    string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:      getEnv("DB_PATH", "volley-rank.db"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DataSources: splitList(getEnv("DATA_SOURCES", SourceEmbedded)),
		SnapshotURL: getEnv("SNAPSHOT_URL", ""),
		SeedFile:    getEnv("SEED_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Strs("data_sources", cfg.DataSources).
		Str("seed_file", cfg.SeedFile).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.DataSources) == 0 {
		return fmt.Errorf("DATA_SOURCES must list at least one source")
	}
	seen := make(map[string]bool, len(c.DataSources))
	for _, s := range c.DataSources {
		switch s {
		case SourceEmbedded, SourceArchive, SourceSnapshot:
		default:
			return fmt.Errorf("unknown data source %q", s)
		}
		if seen[s] {
			return fmt.Errorf("data source %q listed twice", s)
		}
		seen[s] = true
	}
	if seen[SourceSnapshot] && c.SnapshotURL == "" {
		return fmt.Errorf("SNAPSHOT_URL is required when the snapshot source is enabled")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return nil
}

func (c *Config) HasSource(name string) bool {
	for _, s := range c.DataSources {
		if s == name {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var Module = fx.Provide(Load)
