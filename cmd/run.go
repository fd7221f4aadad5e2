package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/matheuskafuri/hnbest/internal/cache"
	"github.com/matheuskafuri/hnbest/internal/config"
	"github.com/matheuskafuri/hnbest/internal/feed"
	"github.com/matheuskafuri/hnbest/internal/hn"
	"github.com/matheuskafuri/hnbest/internal/metrics"
	"github.com/matheuskafuri/hnbest/internal/pipeline"
	"github.com/matheuskafuri/hnbest/internal/prompt"
	"github.com/matheuskafuri/hnbest/internal/render"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// app holds everything one invocation wires together. The cache lives as long
// as the app, so repeated runs in watch mode share it.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	client   *hn.Client
	cache    *cache.Cache
	pipeline *pipeline.Pipeline
	renderer render.Renderer
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	m := metrics.New()

	client := hn.NewClient(hn.Options{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.RequestTimeoutDuration(),
		RateLimit: cfg.RateLimit,
		Retries:   cfg.Retries,
		Metrics:   m,
		Logger:    logger,
	})
	c := cache.New(cfg.CacheTTLDuration())
	fetcher := feed.NewFetcher(client, c, feed.WithLogger(logger), feed.WithMetrics(m))

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		client:  client,
		cache:   c,
		pipeline: pipeline.New(fetcher, pipeline.Options{
			Workers: cfg.GetWorkers(),
			Logger:  logger,
			Metrics: m,
		}),
		renderer: render.New(format, nil),
	}, nil
}

func (a *app) Close() {
	a.client.Close()
}

// loadConfig reads the config file and layers any explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = flagFormat
	}
	if flags.Changed("ttl") {
		cfg.CacheTTL = flagTTL
	}
	if flags.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = flagMetricsFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

// storyCount resolves N from the flag, then the config, then the operator.
func storyCount(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (int, error) {
	if cmd.Flags().Changed("count") {
		return prompt.ParseCount(strconv.Itoa(flagCount))
	}
	if cfg.Count > 0 {
		return cfg.Count, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return prompt.Interactive(ctx, in, cmd.OutOrStdout())
	}
	return prompt.Ask(in, cmd.OutOrStdout())
}

// runOnce executes the pipeline and prints its outcome. Nothing is written to
// out unless the run completes.
func (a *app) runOnce(ctx context.Context, n int, out, errOut io.Writer) error {
	res, err := a.pipeline.Run(ctx, n)
	if err != nil {
		return err
	}

	if err := a.renderer.Render(out, res.Stories); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	reportFailures(errOut, res)
	if flagTiming {
		fmt.Fprintf(out, "Total execution time: %d ms\n", res.Elapsed.Milliseconds())
	}

	if path := a.cfg.MetricsFile; path != "" {
		if err := a.metrics.WriteFile(path); err != nil {
			a.logger.Warn("writing metrics", "path", path, "error", err)
		}
	}
	return nil
}

func reportFailures(w io.Writer, res pipeline.Result) {
	if len(res.Failures) == 0 {
		return
	}
	fmt.Fprintf(w, "%d of %d stories could not be fetched:\n", len(res.Failures), res.Candidates)
	for _, f := range res.Failures {
		fmt.Fprintf(w, "  [warn] %v\n", f)
	}
}

func runBest(cmd *cobra.Command, args []string) error {
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
	return a.runOnce(ctx, n, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
