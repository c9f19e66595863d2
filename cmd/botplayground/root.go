package main

import (
	"fmt"
	"log/slog"
	"os"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	botplayground "github.com/adamhockemeyer/BotPlayground-v4"
	fileadapter "github.com/adamhockemeyer/BotPlayground-v4/internal/adapters/file"
	redisadapter "github.com/adamhockemeyer/BotPlayground-v4/internal/adapters/redis"
	"github.com/adamhockemeyer/BotPlayground-v4/internal/config"
	"github.com/adamhockemeyer/BotPlayground-v4/internal/logging"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/persistence/middleware"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "botplayground",
	Short: "BotPlayground runs a dialog-driven conversational bot",
	Long:  `BotPlayground hosts a stack-based dialog engine behind HTTP, console, and MCP channels, with pluggable state persistence.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "botplayground.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")
}

// loadConfig reads the config file and applies the log-level flag override.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	return logging.New(logging.ParseLevel(cfg.LogLevel))
}

// buildPersistence assembles the configured store, optional encryption
// middleware, and optional distributed locker.
func buildPersistence(cfg config.Config, logger *slog.Logger) (ports.StateStore, ports.DistributedLocker, error) {
	var store ports.StateStore
	var locker ports.DistributedLocker

	switch cfg.State.Backend {
	case "", "memory":
		// The default bot store is in-memory already; nil lets the facade
		// wire its own.
	case "file":
		store = fileadapter.New(cfg.State.Path)
		logger.Info("using file state store", "path", cfg.State.Path)
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.State.Redis.Address,
			Password: cfg.State.Redis.Password,
			DB:       cfg.State.Redis.DB,
		})
		store = redisadapter.NewFromClient(client)
		if cfg.State.Redis.Lock {
			locker = redisadapter.NewLocker(client, "botplayground:")
		}
		logger.Info("using redis state store", "address", cfg.State.Redis.Address, "lock", cfg.State.Redis.Lock)
	default:
		return nil, nil, fmt.Errorf("unknown state backend %q", cfg.State.Backend)
	}

	key, err := cfg.State.DecodeEncryptionKey()
	if err != nil {
		return nil, nil, err
	}
	if key != nil {
		if store == nil {
			return nil, nil, fmt.Errorf("state encryption requires a file or redis backend")
		}
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
		logger.Info("state encryption enabled")
	}

	return store, locker, nil
}

// botOptions translates the assembled persistence into facade options.
func botOptions(store ports.StateStore, locker ports.DistributedLocker, logger *slog.Logger) []botplayground.Option {
	opts := []botplayground.Option{botplayground.WithLogger(logger)}
	if store != nil {
		opts = append(opts, botplayground.WithStore(store))
	}
	if locker != nil {
		opts = append(opts, botplayground.WithLocker(locker))
	}
	return opts
}
