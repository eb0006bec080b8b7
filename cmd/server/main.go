// Command server runs the student support assistant: it ingests the
// handbook and academic integrity documents on startup, then serves the
// question-answering API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unikit/regent/pkg/api"
	"github.com/unikit/regent/pkg/assistant"
	"github.com/unikit/regent/pkg/auth"
	"github.com/unikit/regent/pkg/classify"
	"github.com/unikit/regent/pkg/config"
	"github.com/unikit/regent/pkg/history"
	"github.com/unikit/regent/pkg/ingest"
	"github.com/unikit/regent/pkg/knowledge"
	knowledgeopenai "github.com/unikit/regent/pkg/knowledge/openai"
	knowledgepostgres "github.com/unikit/regent/pkg/knowledge/postgres"
	knowledgeqdrant "github.com/unikit/regent/pkg/knowledge/qdrant"
	llmopenai "github.com/unikit/regent/pkg/llm/openai"
	"github.com/unikit/regent/pkg/ratelimit"
	"github.com/unikit/regent/pkg/source"
)

// embeddingDimensions matches text-embedding-3-small.
const embeddingDimensions = 1536

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.LogJSON)
	slog.SetDefault(logger)

	embedder := knowledgeopenai.NewEmbedder()
	if cfg.EmbedModel != "" {
		embedder.SetModel(cfg.EmbedModel)
	}

	store, err := newVectorStore(cfg)
	if err != nil {
		return fmt.Errorf("vector store: %w", err)
	}

	index := knowledge.NewIndex(embedder, store,
		knowledge.WithChunking(cfg.ChunkSize, cfg.ChunkOverlap),
		knowledge.WithLogger(logger),
	)

	src, err := newSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("document source: %w", err)
	}

	runner := ingest.NewRunner(index, src, ingest.ParsePolicy(cfg.DeployMode), logger)
	for _, res := range runner.IngestAll(ctx, ingest.Defaults(ingest.Keys{
		HandbookUG:  cfg.HandbookUGKey,
		HandbookPGT: cfg.HandbookPGTKey,
		HandbookPGR: cfg.HandbookPGRKey,
		Academic:    cfg.AcademicKey,
	})) {
		if res.Err != nil && !res.Skipped {
			logger.Warn("startup ingestion incomplete",
				"doc_type", res.Document.DocType,
				"level", res.Document.Level,
				"error", res.Err,
			)
		}
	}

	histStore, err := history.NewFactory(ctx, history.Config{
		Type:             history.Type(cfg.HistoryBackend),
		ConnectionString: cfg.HistoryDSN,
		DBName:           cfg.HistoryDBName,
		Limit:            cfg.HistoryLimit,
	})
	if err != nil {
		return fmt.Errorf("history store: %w", err)
	}

	admission, err := newAdmission(cfg)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	provider := llmopenai.New()
	if cfg.ChatModel != "" {
		provider.SetModel(cfg.ChatModel)
	}

	classifierProvider := llmopenai.New()
	if cfg.ChatModel != "" {
		classifierProvider.SetModel(cfg.ChatModel)
	}
	classifierProvider.SetTemperature(0)

	a := assistant.New(provider, index,
		assistant.WithClassifier(classify.New(classifierProvider)),
		assistant.WithHistory(histStore),
		assistant.WithTopK(cfg.TopK),
		assistant.WithLogger(logger),
	)

	authenticator, err := auth.New(cfg.SecretToken)
	if err != nil {
		return fmt.Errorf("authenticator: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewServer(a, authenticator, admission, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newLogger(jsonOutput bool) *slog.Logger {
	if jsonOutput {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newVectorStore(cfg *config.Config) (knowledge.VectorStore, error) {
	switch cfg.VectorStore {
	case config.VectorStorePostgres:
		return knowledgepostgres.New(cfg.PostgresDSN)
	case config.VectorStoreQdrant:
		return knowledgeqdrant.New(cfg.QdrantHost, cfg.QdrantPort, embeddingDimensions)
	default:
		return nil, fmt.Errorf("unknown vector store %q", cfg.VectorStore)
	}
}

func newSource(ctx context.Context, cfg *config.Config) (source.Source, error) {
	if cfg.AWSBucket != "" {
		return source.NewS3(ctx, cfg.AWSBucket)
	}
	return source.NewDir(cfg.DocsDir), nil
}

func newAdmission(cfg *config.Config) (ratelimit.Admission, error) {
	if cfg.RedisURL == "" {
		return ratelimit.New(cfg.RateMaxRequests, cfg.RateWindow), nil
	}
	opts, err := goredis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return ratelimit.NewRedis(goredis.NewClient(opts), cfg.RateMaxRequests, cfg.RateWindow), nil
}
