package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamhockemeyer/BotPlayground-v4/internal/demo"
	mcpadapter "github.com/adamhockemeyer/BotPlayground-v4/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the bot as an MCP server on stdio",
	Long:  `Starts an MCP server so agent hosts can converse with the demo bot through the send_message tool.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		store, locker, err := buildPersistence(cfg, logger)
		if err != nil {
			return err
		}

		bot, err := demo.NewBot(botOptions(store, locker, logger)...)
		if err != nil {
			return fmt.Errorf("failed to build bot: %w", err)
		}

		server := mcpadapter.NewServer(bot, demo.NewRegistry())
		return server.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
