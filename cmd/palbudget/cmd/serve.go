package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pal-budget/internal/ai"
	"pal-budget/internal/api"
	"pal-budget/internal/assistant"
	"pal-budget/internal/config"
	"pal-budget/internal/infer"
	"pal-budget/internal/logger"
	"pal-budget/internal/store"
)

// aiWorkerCount is the fixed size of the pool running blocking AI calls.
// Created once at startup, never resized.
const aiWorkerCount = 4

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if !cfg.AI.Enabled() {
		log.Warn().Msg("No AI backend configured - running with rule-based parsing only")
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.EnsureDefaultUser(); err != nil {
		return err
	}

	pool := ai.NewPool(aiWorkerCount)
	defer pool.Close()

	gateway := ai.NewGateway(newCompleter(cfg.AI, log), pool, log)
	inferencer := infer.New(gateway, cfg.AI.Model, cfg.AI.VisionModel, cfg.AI.VisionEnabled(), log)
	asst := assistant.New(gateway, cfg.AI.Model, log)

	handler := api.NewRouter(api.Handlers{
		AI:           api.NewAIHandler(inferencer, asst, cfg.AI, log),
		Transactions: api.NewTransactionsHandler(db, log),
		Statistics:   api.NewStatisticsHandler(db, log),
		User:         api.NewUserHandler(db, log),
	}, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // AI calls can hold a response for a while
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("db", cfg.DatabasePath).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("Server exited")
	return nil
}
