package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/matheuskafuri/hnbest/internal/update"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagCount       int
	flagFormat      string
	flagConfig      string
	flagTTL         string
	flagWorkers     int
	flagTiming      bool
	flagLogLevel    string
	flagMetricsFile string
	flagCheck       bool
)

var rootCmd = &cobra.Command{
	Use:   "hnbest",
	Short: "Rank the current Hacker News best stories",
	Long: `hnbest fetches the Hacker News best stories list, resolves every story
through a short-lived cache and prints the top N by score.

Without -n the count comes from the config file, or is asked for interactively.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runBest,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVarP(&flagCount, "count", "n", 0, "number of top stories to show")
	pf.StringVar(&flagFormat, "format", "", "output format: text, json or table")
	pf.StringVar(&flagConfig, "config", "", "path to config file (overrides HNBEST_CONFIG)")
	pf.StringVar(&flagTTL, "ttl", "", "cache freshness window (e.g., 5m)")
	pf.IntVar(&flagWorkers, "workers", 0, "concurrent item fetches")
	pf.BoolVar(&flagTiming, "timing", false, "print total execution time after the listing")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&flagMetricsFile, "metrics-file", "", "write Prometheus metrics to this file after each run")

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "hnbest %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheck {
			return nil
		}

		res, err := update.Checker{}.Check(cmd.Context(), version)
		if err != nil {
			return err
		}
		if res == nil {
			fmt.Fprintln(out, "You are running the latest version.")
			return nil
		}
		fmt.Fprintf(out, "A newer version is available: %s\n", res.LatestVersion)
		return nil
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
