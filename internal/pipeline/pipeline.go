package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/matheuskafuri/hnbest/internal/metrics"
	"github.com/matheuskafuri/hnbest/internal/rank"
	"github.com/matheuskafuri/hnbest/internal/story"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent item resolutions.
const DefaultWorkers = 8

// Resolver is the fetch side of the pipeline.
type Resolver interface {
	FetchBestIDs(ctx context.Context) ([]int, error)
	Resolve(ctx context.Context, id int) (story.Story, error)
}

// Failure records an id that was dropped from a run.
type Failure struct {
	ID  int
	Err error
}

func (f Failure) Error() string {
	return fmt.Sprintf("story %d: %v", f.ID, f.Err)
}

// Result is the outcome of one run.
type Result struct {
	Stories    story.Ranked
	Candidates int
	Failures   []Failure
	Elapsed    time.Duration
}

type Options struct {
	Workers int
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

type Pipeline struct {
	resolver Resolver
	workers  int
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func New(r Resolver, opts Options) *Pipeline {
	p := &Pipeline{
		resolver: r,
		workers:  opts.Workers,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
	if p.workers <= 0 {
		p.workers = DefaultWorkers
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

type slot struct {
	story story.Story
	err   error
}

// Run fetches the best story ids, resolves each one and returns the n highest
// scoring stories. Failing to fetch the id list or a cancelled context aborts
// the run; an item that cannot be resolved is reported in Result.Failures and
// left out of the ranking.
func (p *Pipeline) Run(ctx context.Context, n int) (Result, error) {
	if n < 1 {
		return Result{}, fmt.Errorf("story count must be positive, got %d", n)
	}
	start := time.Now()

	ids, err := p.resolver.FetchBestIDs(ctx)
	if err != nil {
		return Result{}, err
	}
	p.logger.Debug("fetched story ids", "count", len(ids))

	slots := make([]slot, len(ids))
	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, id := range ids {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				slots[i].err = err
				return nil
			}
			s, err := p.resolver.Resolve(ctx, id)
			slots[i] = slot{story: s, err: err}
			return nil
		})
	}
	// Workers record their error in slots and always return nil.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("run interrupted: %w", err)
	}

	res := Result{Candidates: len(ids)}
	pairs := make([]story.Pair, 0, len(ids))
	for i, id := range ids {
		if err := slots[i].err; err != nil {
			p.logger.Warn("dropping story", "id", id, "error", err)
			p.metrics.ItemFailed()
			res.Failures = append(res.Failures, Failure{ID: id, Err: err})
			continue
		}
		pairs = append(pairs, story.Pair{ID: id, Story: slots[i].story})
	}

	res.Stories = rank.Rank(pairs, n)
	res.Elapsed = time.Since(start)
	p.metrics.ObserveRun(res.Elapsed, len(res.Stories))
	p.logger.Info("run complete",
		"candidates", res.Candidates,
		"ranked", len(res.Stories),
		"failed", len(res.Failures),
		"elapsed", res.Elapsed)
	return res, nil
}
