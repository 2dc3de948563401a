package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/OpenTraceLab/at45/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var initFile bool
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
		Long: `Print the location of the configuration file and the settings it holds.
With --init a file with the built-in defaults is written when none exists yet,
ready to be edited.

Examples:
  at45 config
  at45 config --init`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			path, err := config.Path()
			if err != nil {
				return fmt.Errorf("locate config: %w", err)
			}
			out := cmd.OutOrStdout()

			if initFile {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("config %s already exists", path)
				}
				if err := config.Save(path, config.Default()); err != nil {
					return fmt.Errorf("write config %s: %w", path, err)
				}
				fmt.Fprintf(out, "Wrote %s\n", path)
			}

			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config %s: %w", path, err)
			}
			fmt.Fprintf(out, "Config: %s\n", path)
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(cfg)
		},
	}
	configCmd.Flags().BoolVar(&initFile, "init", false, "write a default config file if none exists")
	return configCmd
}
