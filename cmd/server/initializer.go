package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"unified-thinking/internal/applog"
	"unified-thinking/internal/bias"
	"unified-thinking/internal/confidence"
	"unified-thinking/internal/config"
	"unified-thinking/internal/coordinator"
	"unified-thinking/internal/embeddings"
	"unified-thinking/internal/evidence"
	"unified-thinking/internal/insight"
	"unified-thinking/internal/knowledge"
	"unified-thinking/internal/memory"
	"unified-thinking/internal/patterns"
	"unified-thinking/internal/server"
	"unified-thinking/internal/storage"
)

// components bundles every constructed dependency needed to build a
// *server.Server, plus the pieces that must be torn down on shutdown.
type components struct {
	cfg    *config.Config
	logger *zap.SugaredLogger

	store   *storage.SQLiteStore
	links   storage.LinkStore
	vectors *knowledge.VectorStore

	server *server.Server
}

// initComponents wires config, logging, storage, the embedding/vector
// index, the memory service, and every reasoning component into a running
// set of components, in the teacher's build-then-wire initializer idiom.
func initComponents(ctx context.Context, cfg *config.Config) (*components, error) {
	logger, err := applog.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	logger.Infow("starting reasoning engine", "environment", cfg.Server.Environment, "version", cfg.Server.Version)

	store, err := storage.Open(ctx, cfg.Storage.DSN, cfg.Storage.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	var links storage.LinkStore
	switch cfg.Storage.LinkBackend {
	case "neo4j":
		links, err = storage.NewNeo4jLinkStore(ctx, storage.Neo4jLinkStoreConfig{
			URI:      cfg.Storage.Neo4jURI,
			Username: cfg.Storage.Neo4jUser,
			Password: cfg.Storage.Neo4jPassword,
			Timeout:  10 * time.Second,
		})
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("open neo4j link store: %w", err)
		}
	default:
		links = storage.NewSQLiteLinkStore(store.DB())
	}
	logger.Infow("storage ready", "dsn", cfg.Storage.DSN, "link_backend", cfg.Storage.LinkBackend)

	var vectors *knowledge.VectorStore
	if cfg.Embeddings.Enabled {
		embedder := embeddings.New(cfg.Embeddings.Provider, cfg.Embeddings.Dimension)
		vectors, err = knowledge.NewVectorStore(knowledge.Config{Embedder: embedder})
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("open vector store: %w", err)
		}
		logger.Infow("semantic index ready", "provider", embedder.Provider(), "dimension", embedder.Dimension())
	} else {
		logger.Info("semantic indexing disabled")
	}

	memSvc := memory.NewService(store, links, vectors)

	registry := patterns.NewRegistry()
	if cfg.Patterns.CataloguePath != "" {
		if err := registry.LoadDir(cfg.Patterns.CataloguePath); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("load pattern catalogue: %w", err)
		}
		logger.Infow("pattern catalogue loaded", "path", cfg.Patterns.CataloguePath, "count", len(registry.All()))
	}
	matcher := patterns.NewMatcher(registry, cfg.Patterns.MinMatchScore)
	generator := insight.NewGenerator(cfg.Patterns.MinInsightConf, 2)

	coord := coordinator.NewCoordinator(
		coordinator.WithCheckpointInterval(time.Duration(cfg.Streams.CheckpointIntervalMs) * time.Millisecond),
	)

	srv := server.New(
		memSvc,
		evidence.NewExtractor(),
		bias.NewDetector(),
		confidence.NewAssessor(confidence.Identity()),
		registry,
		matcher,
		generator,
		coord,
	)

	return &components{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		links:   links,
		vectors: vectors,
		server:  srv,
	}, nil
}

// Close releases every resource opened by initComponents.
func (c *components) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
