package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adamhockemeyer/BotPlayground-v4/internal/demo"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/adapters/console"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Chat with the bot in the terminal",
	Long:  `Starts an interactive conversation with the demo bot on stdin/stdout.`,
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

		userID, _ := cmd.Flags().GetString("user")

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c := console.New(bot, console.WithLogger(logger), console.WithUserID(userID))
		if err := c.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().StringP("user", "u", "console-user", "User ID for the conversation")
}
