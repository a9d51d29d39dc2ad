package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/corefit/internal/history"
	"github.com/misterclayt0n/corefit/internal/storage"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the offline cache with your workouts and trainings",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := rt.loader.Sync(cmd.Context())
		if errors.Is(err, history.ErrNoCache) {
			return fmt.Errorf("No cache configured. Set [cache] connection_string in %s", rt.configPath)
		}
		if err != nil {
			return fmt.Errorf("Failed to sync: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Cached %d workouts and %d trainings\n", report.Workouts, report.Trainings)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [output-file]",
	Short: "Export the offline cache to a TOML file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if rt.cache == nil {
			return fmt.Errorf("No cache configured. Set [cache] connection_string in %s", rt.configPath)
		}

		outputFile := storage.DefaultExportPath(rt.configDir)
		if len(args) == 1 {
			outputFile = args[0]
		}

		path, err := rt.cache.ExportTOML(cmd.Context(), outputFile)
		if err != nil {
			return fmt.Errorf("Failed to export cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Cache exported successfully to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(exportCmd)
}
