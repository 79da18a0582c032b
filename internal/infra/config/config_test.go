package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "9020", cfg.Port)
	assert.True(t, cfg.DBEnabled)

	assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
	assert.Equal(t, "all-minilm", cfg.EmbeddingModel)
	assert.Equal(t, 384, cfg.EmbeddingDimension)
	assert.Equal(t, 2000, cfg.MaxInputChars)
	assert.Equal(t, 256, cfg.EmbedCacheSize)

	assert.Equal(t, 5, cfg.TopK)
	assert.InDelta(t, 0.2, cfg.MinScore, 1e-9)
	assert.Equal(t, 2, cfg.OverfetchFactor)
	assert.True(t, cfg.EnrichQuery)

	assert.Equal(t, "data", cfg.SnapshotDir)
	assert.Equal(t, "corpus", cfg.SnapshotName)
	assert.Equal(t, 30, cfg.RebuildPollSeconds)
	assert.False(t, cfg.OTelEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_ENABLED", "false")
	t.Setenv("EMBEDDING_DIMENSION", "768")
	t.Setenv("RANK_TOP_K", "10")
	t.Setenv("RANK_MIN_SCORE", "0.35")
	t.Setenv("RANK_ENRICH_QUERY", "false")
	t.Setenv("EMBEDDING_RATE_PER_SECOND", "2.5")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.DBEnabled)
	assert.Equal(t, 768, cfg.EmbeddingDimension)
	assert.Equal(t, 10, cfg.TopK)
	assert.InDelta(t, 0.35, cfg.MinScore, 1e-9)
	assert.False(t, cfg.EnrichQuery)
	assert.InDelta(t, 2.5, cfg.EmbedRatePerSecond, 1e-9)
}

func TestLoad_UnparsableValuesFallBack(t *testing.T) {
	t.Setenv("EMBEDDING_DIMENSION", "not-a-number")
	t.Setenv("DB_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 384, cfg.EmbeddingDimension)
	assert.True(t, cfg.DBEnabled)
}

func TestGetSecret(t *testing.T) {
	t.Run("direct env wins", func(t *testing.T) {
		t.Setenv("DB_PASSWORD", "from-env")

		assert.Equal(t, "from-env", getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "fallback"))
	})

	t.Run("file env is read and trimmed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "secret")
		require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))
		t.Setenv("DB_PASSWORD_FILE", path)

		assert.Equal(t, "from-file", getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "fallback"))
	})

	t.Run("unreadable file falls back", func(t *testing.T) {
		t.Setenv("DB_PASSWORD_FILE", filepath.Join(t.TempDir(), "missing"))

		assert.Equal(t, "fallback", getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "fallback"))
	})
}
