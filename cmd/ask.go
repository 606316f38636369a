package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atu-portal/assistant/internal/app"
	"github.com/atu-portal/assistant/internal/chat"
	"github.com/atu-portal/assistant/internal/config"
	"github.com/atu-portal/assistant/internal/log"
)

var askNoRAG bool

var askCmd = &cobra.Command{
	Use:   "ask [вопрос]",
	Short: "Задать один вопрос и выйти",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askNoRAG, "no-rag", false, "отключить поиск по контексту")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.Setup(ctx, cfg, log.New(log.Config{Level: slog.LevelWarn}))
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}

	if askNoRAG {
		a.Orchestrator.EnableRAG(false)
	}

	question := strings.Join(args, " ")
	reply, err := a.Orchestrator.HandleMessage(ctx, question, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", chat.LocalizedError(err), err)
	}

	fmt.Println(reply)
	return nil
}
