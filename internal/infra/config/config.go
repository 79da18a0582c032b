package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env        string
	Port       string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBEnabled  bool

	OllamaURL          string
	EmbeddingModel     string
	EmbeddingDimension int
	EmbeddingTimeout   int
	MaxInputChars      int
	EmbedRatePerSecond float64
	EmbedCacheSize     int

	TopK            int
	MinScore        float64
	OverfetchFactor int
	MaxKeywords     int
	EnrichQuery     bool

	IngestBatchSize   int
	IngestConcurrency int

	SnapshotDir  string
	SnapshotName string

	RebuildPollSeconds int

	OTelEnabled  bool
	OTelEndpoint string
}

func Load() *Config {
	return &Config{
		Env:        getEnv("ENV", "development"),
		Port:       getEnv("PORT", "9020"),
		DBHost:     getEnv("DB_HOST", "corpus-db"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "adcontext_user"),
		DBPassword: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "adcontext_password"),
		DBName:     getEnv("DB_NAME", "adcontext_db"),
		DBEnabled:  getEnvBool("DB_ENABLED", true),

		OllamaURL:          getEnv("EMBEDDING_URL", "http://localhost:11434"),
		EmbeddingModel:     getEnv("EMBEDDING_MODEL", "all-minilm"),
		EmbeddingDimension: getEnvInt("EMBEDDING_DIMENSION", 384),
		EmbeddingTimeout:   getEnvInt("EMBEDDING_TIMEOUT_SECONDS", 30),
		MaxInputChars:      getEnvInt("EMBEDDING_MAX_INPUT_CHARS", 2000),
		EmbedRatePerSecond: getEnvFloat("EMBEDDING_RATE_PER_SECOND", 0),
		EmbedCacheSize:     getEnvInt("EMBEDDING_CACHE_SIZE", 256),

		TopK:            getEnvInt("RANK_TOP_K", 5),
		MinScore:        getEnvFloat("RANK_MIN_SCORE", 0.2),
		OverfetchFactor: getEnvInt("RANK_OVERFETCH_FACTOR", 2),
		MaxKeywords:     getEnvInt("RANK_MAX_KEYWORDS", 5),
		EnrichQuery:     getEnvBool("RANK_ENRICH_QUERY", true),

		IngestBatchSize:   getEnvInt("INGEST_BATCH_SIZE", 32),
		IngestConcurrency: getEnvInt("INGEST_CONCURRENCY", 4),

		SnapshotDir:  getEnv("SNAPSHOT_DIR", "data"),
		SnapshotName: getEnv("SNAPSHOT_NAME", "corpus"),

		RebuildPollSeconds: getEnvInt("REBUILD_POLL_SECONDS", 30),

		OTelEnabled:  getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
