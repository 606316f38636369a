package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atu-portal/assistant/internal/config"
	"github.com/atu-portal/assistant/internal/corpus"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Построить индекс корпуса и показать статистику",
	RunE:  runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

// runIndex builds the corpus index without touching any models, useful for
// checking a corpus file before deploying it.
func runIndex(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var source corpus.Source
	if cfg.Corpus.Path != "" {
		source = corpus.FileSource{Path: cfg.Corpus.Path}
	} else {
		source = corpus.HTTPSource{URL: cfg.Corpus.URL}
	}

	raw, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}

	ix := corpus.BuildIndex(raw)
	fmt.Printf("Корпус: %d байт, %d чанков\n\n", len(raw), ix.Len())
	for _, c := range ix.Chunks {
		fmt.Printf("%-40s %4d ключевых слов  %s\n", c.ID, len(c.Keywords), c.Title)
	}
	return nil
}
