package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"classmind.io/agentic-rag/internal/api"
	"classmind.io/agentic-rag/internal/config"
	"classmind.io/agentic-rag/internal/core"
	"classmind.io/agentic-rag/internal/store"
)

func newLogger(level string) (*zap.Logger, error) {
	if strings.EqualFold(level, "DEBUG") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	// Load configuration
	config.LoadConfig()

	logger, err := newLogger(config.AppConfig.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Durable chat log
	chatLog, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer chatLog.Close()

	// Fragment index (written by the ingestion pipeline, read-only here)
	qdrant := store.NewQdrantStore(store.QdrantConfig{
		URL:        config.AppConfig.QdrantURL,
		APIKey:     config.AppConfig.QdrantAPIKey,
		Collection: config.AppConfig.QdrantCollection,
		Timeout:    config.AppConfig.SearchTimeout,
	})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := qdrant.Ping(pingCtx); err != nil {
		// The index may come up later; queries will fail with a retrieval
		// error until it does.
		logger.Warn("qdrant not reachable at startup", zap.Error(err))
	}
	pingCancel()

	// Gemini client behind the Embedder and Generator capabilities
	llmService, err := core.NewLLMService(logger)
	if err != nil {
		logger.Fatal("failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	// Pipeline stages
	retriever := core.NewRetriever(llmService, qdrant, logger)
	classifier := core.NewClassifier(llmService, logger)
	responder := core.NewResponseGenerator(llmService)
	pipeline := core.NewPipeline(retriever, classifier, responder, chatLog, logger)

	// API handler and router
	apiHandler := api.NewAPIHandler(pipeline, retriever, qdrant, chatLog, logger)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		logger.Info("starting server", zap.String("addr", serverAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.String("addr", serverAddr), zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting gracefully")
}
