package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/corefit/internal/config"
)

var forceInit bool

var initSetupCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(rt.configPath); err == nil && !forceInit {
			return fmt.Errorf("Config already exists at %s (use --force to overwrite)", rt.configPath)
		}

		cfg := config.Default()
		cfg.Cache.ConnectionString = "file:" + rt.configDir + "/cache.db"
		if err := config.Save(rt.configPath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Config written to %s\n", rt.configPath)
		fmt.Fprintln(cmd.OutOrStdout(), faint("Next: corefit login"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initSetupCmd)
	initSetupCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing config")
}
