package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcanaland/deckspawn/internal/config"
	"github.com/arcanaland/deckspawn/internal/deckapi"
	"github.com/arcanaland/deckspawn/internal/logging"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "deckspawn",
	Short: "Import remote deck lists onto a tabletop",
	Long: `Deckspawn fetches a deck list from the deck builder site, lays its zones out
on the table and spawns one object per physical card, stacking each zone into a
single deck object.`,
	SilenceUsage: true,
}

var (
	envFile  string
	logLevel string
)

func init() {
	RootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load DECKSPAWN_* variables from this .env file")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	RootCmd.AddCommand(importCmd)
	RootCmd.AddCommand(planCmd)
	RootCmd.AddCommand(validateCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// runtime bundles what every deck command needs
type runtime struct {
	cfg    *config.Config
	logger *slog.Logger
	client *deckapi.Client
}

func loadRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", config.GetConfigFilePath(), err)
	}

	logger := logging.NewLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	client, err := deckapi.NewClient(logger, cfg.BaseURL, nil)
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, logger: logger, client: client}, nil
}
