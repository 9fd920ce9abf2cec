package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sophistic/Quack/internal/bridge"
	"github.com/sophistic/Quack/internal/client"
	"github.com/sophistic/Quack/internal/config"
	"github.com/sophistic/Quack/internal/logger"
	"github.com/sophistic/Quack/internal/services"
	"github.com/sophistic/Quack/internal/tui"
)

var chatModel string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open a terminal chat session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatModel, "model", "", "model id from the catalog")
	rootCmd.AddCommand(chatCmd)
}

func runChat() error {
	// Keep log noise out of the alternate screen
	logger.Configure(logger.LevelError, false)
	cfg := config.Runtime

	bus := bridge.NewBus()
	magic := client.NewMagicService(cfg.MagicBaseURL, cfg.MagicAPIKey)
	chat := services.NewChatService(magic, bus)
	chat.SetAccount(cfg.AccountEmail)

	if chatModel != "" {
		if err := chat.SelectModel(chatModel); err != nil {
			return err
		}
	}

	program := tea.NewProgram(tui.NewModel(chat), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
