package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eightynine/talentbot/internal/agent"
	"github.com/eightynine/talentbot/internal/auth"
	"github.com/eightynine/talentbot/internal/config"
	"github.com/eightynine/talentbot/internal/embedder"
	"github.com/eightynine/talentbot/internal/llm"
	"github.com/eightynine/talentbot/internal/memory"
	"github.com/eightynine/talentbot/internal/repository"
	"github.com/eightynine/talentbot/internal/repository/postgres"
	"github.com/eightynine/talentbot/internal/reranker"
	"github.com/eightynine/talentbot/internal/retriever"
	"github.com/eightynine/talentbot/internal/server"
	"github.com/eightynine/talentbot/internal/service"
	"github.com/eightynine/talentbot/internal/vectorstore"
)

func main() {
	// Set up structured logging
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("failed to run server", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("starting talentbot service",
		"http_port", cfg.HTTPPort,
		"environment", cfg.Environment,
	)

	// Initialize PostgreSQL
	db, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	slog.Info("connected to PostgreSQL")

	resumeRepo := postgres.NewResumeRepo(db)

	// Initialize Ollama embedder
	embed := embedder.NewOllamaEmbedder(embedder.OllamaConfig{
		BaseURL: cfg.OllamaURL,
		Model:   cfg.OllamaEmbeddingModel,
	})
	slog.Info("initialized Ollama embedder", "model", cfg.OllamaEmbeddingModel)

	// Initialize Qdrant vector store
	store, err := vectorstore.NewQdrantStore(ctx, cfg.QdrantGRPCURL, cfg.ResumeCollection, embed)
	if err != nil {
		return fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	defer store.Close()
	if err := store.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}
	slog.Info("connected to Qdrant", "collection", cfg.ResumeCollection)

	// Completion providers, selectable per request by key
	llms := llm.NewRegistry(cfg.DefaultLLM)
	ollamaClient := llm.NewOllamaClient(
		llm.WithBaseURL(cfg.OllamaURL),
		llm.WithModel(cfg.OllamaLLMModel),
		llm.WithBatchConcurrency(cfg.RerankConcurrency),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.LLMTimeout}),
	)
	llms.Register("ollama_llama3", ollamaClient)
	slog.Info("initialized Ollama LLM", "model", cfg.OllamaLLMModel)

	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey,
			llm.WithGeminiModel(cfg.GeminiModel),
			llm.WithGeminiBatchConcurrency(cfg.RerankConcurrency),
		)
		if err != nil {
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		defer geminiClient.Close()
		llms.Register("gemini_flash", geminiClient)
		slog.Info("initialized Gemini LLM", "model", cfg.GeminiModel)
	}

	searchLLM, err := llms.Default()
	if err != nil {
		return fmt.Errorf("default llm: %w", err)
	}

	// Search pipeline
	expander := retriever.NewQueryExpander(searchLLM,
		retriever.WithExpansions(cfg.QueryExpansions),
	)
	multiQuery := retriever.NewMultiQueryRetriever(expander, store,
		retriever.WithTopK(cfg.SearchTopK),
		retriever.WithIncludeOriginal(cfg.IncludeOriginalQuery),
	)
	rerank := reranker.NewLLMReranker(searchLLM)

	searchSvc := service.NewSearchService(multiQuery, resumeRepo, rerank, cfg.BaseURL, cfg.RerankThreshold)
	indexSvc := service.NewIndexService(resumeRepo, store)

	// Conversational agent
	tools := []agent.Tool{
		agent.NewSearchTool(searchSvc),
		agent.NewSummarizationTool(resumeRepo),
		agent.NewDetailsTool(resumeRepo),
	}
	chatAgent := agent.New(llms, tools, memory.DefaultStore())

	tokens := auth.NewSessionTokens(cfg.JWTSecret, cfg.JWTExpiry)

	httpServer := server.New(server.Config{
		Port:           cfg.HTTPPort,
		APIKey:         cfg.APIKey,
		Logger:         slog.Default(),
		AllowedOrigins: []string{"*"}, // Configure in production
	}, server.Services{
		Search:  searchSvc,
		Index:   indexSvc,
		Resumes: resumeRepo,
		Agent:   chatAgent,
		Tokens:  tokens,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown HTTP server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}

// Ensure interfaces are satisfied at compile time
var (
	_ repository.ResumeRepository = (*postgres.ResumeRepo)(nil)
	_ vectorstore.VectorStore     = (*vectorstore.QdrantStore)(nil)
	_ embedder.Embedder           = (*embedder.OllamaEmbedder)(nil)
	_ llm.LLM                     = (*llm.OllamaClient)(nil)
)
