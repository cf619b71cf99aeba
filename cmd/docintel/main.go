package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"docintel/internal/api"
	"docintel/internal/config"
	"docintel/internal/database/milvus"
	"docintel/internal/embedding"
	"docintel/internal/index"
	"docintel/internal/llm"
	"docintel/internal/rag/pipeline"
	"docintel/internal/rag/splitters"
	"docintel/internal/registry"
	"docintel/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize Logger
	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	appLogger := logger.New("DocIntel")
	appLogger.Info(fmt.Sprintf("Starting %s %s...", cfg.App.Name, cfg.App.Version))

	// 3. Resolve provider credentials before serving anything, so a missing
	// API key fails at startup instead of on the first query.
	if err := cfg.ResolveCredentials(); err != nil {
		appLogger.Fatal(fmt.Sprintf("Credential check failed: %v", err))
	}

	if err := os.MkdirAll(cfg.Storage.UploadDir, 0o755); err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to create upload directory: %v", err))
	}

	// 4. Initialize Dependencies
	ctx := context.Background()
	db, err := milvus.Connect(ctx, &cfg.Milvus)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to connect to Milvus: %v", err))
	}
	defer db.Close()

	if err := db.EnsureCollection(ctx); err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to prepare Milvus collection: %v", err))
	}

	embedder, err := embedding.NewModel(cfg.Embedding)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to create embedding client: %v", err))
	}

	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to create LLM client: %v", err))
	}

	splitter, err := splitters.NewCharacterSplitter(cfg.Splitter.ChunkSize, cfg.Splitter.ChunkOverlap)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Invalid splitter configuration: %v", err))
	}

	// 5. Wire the pipelines and the HTTP surface
	vectorIndex := index.NewMilvusIndex(db, embedder, appLogger)
	reg := registry.New()
	ingestion := pipeline.NewIngestionPipeline(splitter, vectorIndex, appLogger)
	query := pipeline.NewQueryPipeline(vectorIndex, llmClient, cfg.Retrieval.TopK, appLogger)

	handler := api.NewHandler(reg, ingestion, query, vectorIndex, cfg.Storage.UploadDir, cfg.App.Name, cfg.App.Version, appLogger)

	gin.SetMode(gin.ReleaseMode)
	router := api.SetupRouter(handler, cfg.Middleware, appLogger)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		appLogger.Info(fmt.Sprintf("HTTP server listening at %s", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(fmt.Sprintf("Failed to serve HTTP: %v", err))
		}
	}()

	// 6. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(fmt.Sprintf("Forced shutdown: %v", err))
	}

	appLogger.Info("Server gracefully stopped")
}
