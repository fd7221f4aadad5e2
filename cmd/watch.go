package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var flagInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-rank the best stories on an interval",
	Long: `Run the ranking repeatedly until interrupted. Stories stay cached between
runs, so only entries older than the TTL are fetched again.

A failed run is reported and the next tick tries again.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&flagInterval, "interval", time.Minute, "time between runs")
}

func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if flagInterval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", flagInterval)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := notifyContext(cmd.Context())
	defer stop()

	n, err := storyCount(ctx, cmd, a.cfg)
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	return watchLoop(ctx, flagInterval, func(ctx context.Context) error {
		return a.runOnce(ctx, n, out, errOut)
	}, func(err error) {
		a.logger.Error("run failed", "error", err)
		fmt.Fprintf(errOut, "[error] %v\n", err)
	})
}

// watchLoop calls run immediately and then on every tick. Errors go to
// onErr; cancellation ends the loop without an error.
func watchLoop(ctx context.Context, interval time.Duration, run func(context.Context) error, onErr func(error)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := run(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			onErr(err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
