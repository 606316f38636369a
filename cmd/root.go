package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Чат-ассистент портала АТУ",
	Long: `Ассистент портала АТУ отвечает на вопросы о портале, опираясь на
корпус знаний: сначала поиском по контексту, затем генерацией.

Запуск без аргументов открывает интерактивный чат в терминале.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
