package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	appName = "squeezerun"
	version = "v1.2.0"
)

var configPath string

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Short-squeeze candidate scoring and requalification engine",
		Version: version,
		Long: `squeezerun scores short-interest snapshots into a ranked, tiered
candidate list and re-checks generated recommendations against live price
action.

Subcommands:
  scan     score one snapshot batch and print the ranked list
  serve    expose the latest cycle and verdicts over HTTP
  monitor  poll live quotes and requalify recommendations`,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config (defaults apply when empty)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace|debug|info|warn|error)")

	cobra.OnInitialize(func() {
		levelName, _ := rootCmd.PersistentFlags().GetString("log-level")
		if level, err := zerolog.ParseLevel(levelName); err == nil {
			zerolog.SetGlobalLevel(level)
		}
	})

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMonitorCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
