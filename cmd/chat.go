package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/atu-portal/assistant/internal/app"
	"github.com/atu-portal/assistant/internal/chat"
	"github.com/atu-portal/assistant/internal/config"
	"github.com/atu-portal/assistant/internal/log"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Интерактивный чат с ассистентом",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

var exitWords = map[string]struct{}{
	"exit": {}, "quit": {}, "выход": {}, "пока": {},
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := log.New(log.Config{Level: slog.LevelWarn})
	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}

	fmt.Println(a.Orchestrator.Status())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, quit := exitWords[strings.ToLower(line)]; quit {
			break
		}

		// Replies are printed whole: generation output still goes through
		// cleanup, so raw deltas would not match the final text.
		reply, err := a.Orchestrator.HandleMessage(ctx, line, nil)
		switch {
		case errors.Is(err, chat.ErrEmptyQuestion):
			continue
		case err != nil:
			fmt.Println(chat.LocalizedError(err))
			continue
		}
		fmt.Println(reply)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
