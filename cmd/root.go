package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	apiURL  string
	verbose bool

	rt *runtime
)

var rootCmd = &cobra.Command{
	Use:           "corefit",
	Short:         "Run CoreFit workouts from the terminal: log sets, finish sessions, check progress",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		rt = r
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if rt == nil {
			return nil
		}
		return rt.Close()
	},
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.config/corefit/config.toml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Override the API base URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Also write logs to stderr")
}
