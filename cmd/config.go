package cmd

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/arcanaland/deckspawn/internal/config"
)

// configCmd represents the config command group
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the deckspawn configuration",
	Long:  `Commands for creating and inspecting the deckspawn config file.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.GetConfigFilePath()
		force, _ := cmd.Flags().GetBool("force")

		if force {
			cfg := config.Default()
			if err := config.Save(configPath, &cfg); err != nil {
				return fmt.Errorf("error writing config: %w", err)
			}
		} else if _, err := config.LoadConfigFrom(configPath, ""); err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Config file initialized at:", configPath)
		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Show prints the configuration after the config file, the optional env file
and DECKSPAWN_* environment variables have been applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(envFile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", config.GetConfigFilePath())
		if err := toml.NewEncoder(out).Encode(cfg); err != nil {
			return fmt.Errorf("error encoding config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
