// Package config loads the service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/unikit/regent/pkg/knowledge"
)

// Vector store backends.
const (
	VectorStoreQdrant   = "qdrant"
	VectorStorePostgres = "postgres"
)

// Config holds everything the server needs to start.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// SecretToken is the bearer token callers must present.
	SecretToken string
	// DeployMode selects the startup ingestion policy ("stable" or
	// "development").
	DeployMode string
	// LogJSON switches the logger to JSON output.
	LogJSON bool

	// VectorStore selects the vector backend, qdrant or postgres.
	VectorStore string
	QdrantHost  string
	QdrantPort  int
	PostgresDSN string

	ChunkSize    int
	ChunkOverlap int
	TopK         int

	EmbedModel string
	ChatModel  string

	HistoryBackend string
	HistoryDSN     string
	HistoryDBName  string
	HistoryLimit   int

	RateMaxRequests int
	RateWindow      time.Duration
	RedisURL        string

	// AWSBucket enables the S3 document source when set; otherwise the
	// server reads documents from DocsDir.
	AWSBucket string
	DocsDir   string

	// Document keys within the source.
	HandbookUGKey  string
	HandbookPGTKey string
	HandbookPGRKey string
	AcademicKey    string
}

// Load reads the configuration from the environment. A missing .env file is
// not an error; a missing API secret is.
func Load() (*Config, error) {
	_ = godotenv.Load()

	secret := os.Getenv("API_SECRET_TOKEN")
	if secret == "" {
		return nil, fmt.Errorf("API_SECRET_TOKEN is required")
	}

	cfg := &Config{
		Addr:        getEnv("ADDR", ":8080"),
		SecretToken: secret,
		DeployMode:  getEnv("DEPLOY_MODE", "stable"),
		LogJSON:     getBool("LOG_JSON", false),

		VectorStore: getEnv("VECTOR_STORE", VectorStoreQdrant),
		QdrantHost:  getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:  getInt("QDRANT_PORT", 6334),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		ChunkSize:    getInt("CHUNK_SIZE", knowledge.DefaultChunkSize),
		ChunkOverlap: getInt("CHUNK_OVERLAP", knowledge.DefaultChunkOverlap),
		TopK:         getInt("TOP_K", knowledge.DefaultTopK),

		EmbedModel: os.Getenv("EMBED_MODEL"),
		ChatModel:  os.Getenv("CHAT_MODEL"),

		HistoryBackend: os.Getenv("HISTORY_BACKEND"),
		HistoryDSN:     os.Getenv("HISTORY_DSN"),
		HistoryDBName:  os.Getenv("HISTORY_DB_NAME"),
		HistoryLimit:   getInt("HISTORY_LIMIT", 20),

		RateMaxRequests: getInt("RATE_MAX_REQUESTS", 20),
		RateWindow:      time.Duration(getInt("RATE_WINDOW_SECONDS", 60)) * time.Second,
		RedisURL:        os.Getenv("REDIS_URL"),

		AWSBucket: os.Getenv("AWS_BUCKET_NAME"),
		DocsDir:   getEnv("DOCS_DIR", "docs"),

		HandbookUGKey:  getEnv("AWS_UG_KEY", "extracted/handbook-ug.txt"),
		HandbookPGTKey: getEnv("AWS_PGT_KEY", "extracted/handbook-pgt.txt"),
		HandbookPGRKey: getEnv("AWS_PGR_KEY", "extracted/handbook-pgr.txt"),
		AcademicKey:    getEnv("AWS_ACADEMIC_KEY", "extracted/academic-integrity.txt"),
	}

	if cfg.VectorStore == VectorStorePostgres && cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required when VECTOR_STORE=postgres")
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
