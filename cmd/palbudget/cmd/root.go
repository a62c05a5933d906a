package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pal-budget/internal/ai"
	"pal-budget/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "palbudget",
	Short: "PalBudget - a cute bookkeeping service with AI-assisted entry",
	Long: `PalBudget turns free-text utterances and photographed receipts into
structured transactions, with an AI-backed primary path and deterministic
rule-based fallback, plus a conversational finance assistant.

Configuration comes from the environment: AI_API_KEY, AI_API_BASE, AI_MODEL,
AI_VISION_MODEL, USE_OLLAMA, AI_BACKEND, DATABASE_PATH, PORT.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newCompleter picks the Completer strategy once at startup. Returns nil
// when no AI backend is configured; the engine then runs rule-based only.
func newCompleter(cfg config.AIConfig, log zerolog.Logger) ai.Completer {
	switch {
	case cfg.Backend == config.BackendGemini:
		return ai.NewGeminiClient(log)
	case cfg.UseOllama:
		return ai.NewChatClient(cfg.OllamaBase, "", log)
	case cfg.APIKey != "":
		return ai.NewChatClient(cfg.APIBase, cfg.APIKey, log)
	default:
		return nil
	}
}
