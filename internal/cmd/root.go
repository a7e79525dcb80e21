package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grumpygabe/TeragonPOIParser/internal/config"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for poiparser
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poiparser",
		Short: "Build the Teragon POI list from 7 Days to Die prefab XML",
		Long: `poiparser walks a directory of prefab XML definitions and writes the
semicolon-delimited POI list Teragon uses for world generation.

Each directory that contains POIs gets its own section, split into
City POIs, Wilderness POIs and RWG tiles. Directories and files can be
excluded with anchored regular expressions in .poiparser/config.yaml.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewInspectCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// loadConfig reads --config when given, otherwise .poiparser/config.yaml in
// the working directory
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
		return cfg, nil
	}

	cfg, err := config.LoadConfigFromDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
