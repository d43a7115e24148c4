package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/noughts-crosses/internal"
	"github.com/rocketscienceinc/noughts-crosses/internal/config"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:          "noughts-crosses",
		Short:        "Noughts and crosses on a shared board",
		SilenceUsage: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the game page, the websocket endpoint and the metrics",
		RunE: func(_ *cobra.Command, _ []string) error {
			conf := initConfig()

			return app.RunApp(initLogger(conf, os.Stdout), conf)
		},
	}

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play a hot-seat game in the terminal",
		RunE: func(_ *cobra.Command, _ []string) error {
			// log lines would tear the board apart
			return app.RunTerminal(initLogger(initConfig(), io.Discard))
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "path to the config file")
	rootCmd.AddCommand(serveCmd, playCmd)
}

// main - is the entry point of the application. It dispatches to the serve and play commands.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// initialize config.
func initConfig() *config.Config {
	if filepath.IsAbs(configPath) {
		return config.MustLoad(configPath)
	}

	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	return config.MustLoad(filepath.Join(baseDir, configPath))
}

// initialize logger.
func initLogger(conf *config.Config, out io.Writer) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}
