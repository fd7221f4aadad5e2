package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/matheuskafuri/hnbest/internal/metrics"
	"github.com/matheuskafuri/hnbest/internal/story"
	"golang.org/x/sync/singleflight"
)

// Source returns raw payloads from the upstream API.
type Source interface {
	BestStories(ctx context.Context) ([]byte, error)
	Item(ctx context.Context, id int) ([]byte, error)
}

// Store is the story cache the Fetcher reads through.
type Store interface {
	Get(id int) (story.Story, bool)
	Put(id int, s story.Story, fetchedAt time.Time)
}

// Fetcher resolves story ids through a Store, going to the Source only on a
// miss. Concurrent resolutions of the same id share one upstream call.
type Fetcher struct {
	source  Source
	store   Store
	group   singleflight.Group
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type Option func(*Fetcher)

func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Fetcher) { f.metrics = m }
}

// WithClock overrides the time recorded for cache writes.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

func NewFetcher(src Source, store Store, opts ...Option) *Fetcher {
	f := &Fetcher{
		source: src,
		store:  store,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchBestIDs returns the current best story ids in upstream order.
// Malformed ids are logged and skipped.
func (f *Fetcher) FetchBestIDs(ctx context.Context) ([]int, error) {
	body, err := f.source.BestStories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching best stories: %w", err)
	}

	ids, warnings := story.DecodeIDs(body)
	for _, w := range warnings {
		f.logger.Warn("skipping malformed story id", "token", w.Token, "error", w.Err)
	}
	f.metrics.DecodeWarned("ids", len(warnings))
	return ids, nil
}

// Resolve returns the story for id, from cache when fresh.
func (f *Fetcher) Resolve(ctx context.Context, id int) (story.Story, error) {
	if s, ok := f.store.Get(id); ok {
		f.metrics.CacheHit()
		f.logger.Debug("cache hit", "id", id)
		return s, nil
	}
	f.metrics.CacheMiss()

	ch := f.group.DoChan(strconv.Itoa(id), func() (any, error) {
		// Another caller may have filled the entry while we queued.
		if s, ok := f.store.Get(id); ok {
			return s, nil
		}
		return f.fetch(ctx, id)
	})

	select {
	case <-ctx.Done():
		return story.Story{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return story.Story{}, res.Err
		}
		return res.Val.(story.Story), nil
	}
}

func (f *Fetcher) fetch(ctx context.Context, id int) (story.Story, error) {
	body, err := f.source.Item(ctx, id)
	if err != nil {
		return story.Story{}, fmt.Errorf("fetching item %d: %w", id, err)
	}

	s, warnings := story.DecodeItem(id, body)
	for _, w := range warnings {
		f.logger.Warn("item field not decoded", "id", id, "field", w.Field, "error", w.Err)
	}
	f.metrics.DecodeWarned("item", len(warnings))

	f.store.Put(id, s, f.now().UTC())
	return s, nil
}
