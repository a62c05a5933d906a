package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pal-budget/internal/ai"
	"pal-budget/internal/assistant"
	"pal-budget/internal/config"
	"pal-budget/internal/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the finance assistant in the terminal",
	Long: `Starts an interactive session with the 小猪 assistant. History lives
only in the session; quit with "exit" or Ctrl-D.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Terminal use is interactive and strictly sequential, so calls run
	// inline instead of through the worker pool.
	log := logger.Nop()
	gateway := ai.NewGateway(newCompleter(cfg.AI, log), ai.SyncRunner{}, log)
	asst := assistant.New(gateway, cfg.AI.Model, log)

	piggy := color.New(color.FgMagenta, color.Bold)
	you := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	piggy.Println("小猪 🐷")
	if cfg.AI.Enabled() {
		dim.Println("AI 已启用，输入问题开始对话（exit 退出）")
	} else {
		dim.Println("未配置 AI_API_KEY，使用预设回复（exit 退出）")
	}
	fmt.Println()

	var history []assistant.Turn
	scanner := bufio.NewScanner(os.Stdin)
	for {
		you.Print("你> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			return nil
		}

		reply := asst.Reply(cmd.Context(), query, history)
		piggy.Print("小猪> ")
		fmt.Println(reply.Text)
		if !reply.AIPowered {
			dim.Println("(预设回复)")
		}
		fmt.Println()

		history = append(history,
			assistant.Turn{Role: "user", Content: query},
			assistant.Turn{Role: "assistant", Content: reply.Text},
		)
	}
}
