package services

import (
	"context"
	"errors"
	"fmt"
	"streakd/internal/models"
	"streakd/internal/platforms"
	"streakd/internal/providers"
	"streakd/internal/structures"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

var ErrRefreshRunning = errors.New("refresh already running")

type RefreshServiceInterface interface {
	RefreshAll(ctx context.Context) error
	RefreshSubject(ctx context.Context, id string) error
}

// RefreshService pulls fresh calendars from the platforms. A failed fetch
// leaves the previously stored calendar in place. Cached responses are
// purged once a run has stored new data.
type RefreshService struct {
	activity    ActivityServiceInterface
	fetchers    platforms.Registry
	cache       providers.CacheProviderInterface
	concurrency int
	timeout     time.Duration
	running     atomic.Bool
	logger      providers.Logger
}

func NewRefreshService(conf *structures.Config, activity ActivityServiceInterface, fetchers platforms.Registry, cache providers.CacheProviderInterface, logger providers.Logger) RefreshServiceInterface {
	concurrency := conf.Refresh.Concurrency
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}
	return &RefreshService{
		activity:    activity,
		fetchers:    fetchers,
		cache:       cache,
		concurrency: concurrency,
		timeout:     conf.Refresh.Timeout,
		logger:      logger,
	}
}

// RefreshAll fetches every subject's accounts. It returns ErrRefreshRunning
// when a previous run has not finished yet.
func (rs *RefreshService) RefreshAll(ctx context.Context) error {
	if !rs.running.CompareAndSwap(false, true) {
		return ErrRefreshRunning
	}
	defer rs.running.Store(false)

	if rs.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rs.timeout)
		defer cancel()
	}

	start := time.Now()
	subjects := rs.activity.GetSubjects()
	failed := atomic.NewInt64(0)
	stored := atomic.NewInt64(0)

	var g errgroup.Group
	g.SetLimit(rs.concurrency)
	for _, sub := range subjects {
		g.Go(func() error {
			n, errs := rs.refresh(ctx, sub)
			stored.Add(int64(n))
			failed.Add(int64(len(errs)))
			return nil
		})
	}
	_ = g.Wait()

	if stored.Load() > 0 {
		rs.cache.Purge()
	}
	rs.logger.Infof(providers.TypeFetch, "refreshed %d subjects in %s, %d calendars stored, %d fetches failed", len(subjects), time.Since(start), stored.Load(), failed.Load())
	return ctx.Err()
}

func (rs *RefreshService) RefreshSubject(ctx context.Context, id string) error {
	sub, err := rs.activity.GetSubject(id)
	if err != nil {
		return err
	}
	if rs.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rs.timeout)
		defer cancel()
	}
	n, errs := rs.refresh(ctx, sub)
	if n > 0 {
		rs.cache.Purge()
	}
	return errors.Join(errs...)
}

// refresh fetches every account of sub and returns how many calendars were
// stored along with the errors of the others.
func (rs *RefreshService) refresh(ctx context.Context, sub models.Subject) (int, []error) {
	var errs []error
	stored := 0
	for p, username := range sub.Accounts() {
		fetcher, ok := rs.fetchers[p]
		if !ok {
			continue
		}
		raw, err := fetcher.FetchCalendar(ctx, username)
		if err != nil {
			rs.logger.Warnf(providers.TypeFetch, "fetch %s/%s for %s: %v", p, username, sub.ID, err)
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
			continue
		}
		if err := rs.activity.PutCalendar(sub.ID, p, raw); err != nil {
			rs.logger.Errorf(providers.TypeFetch, "store %s calendar for %s: %v", p, sub.ID, err)
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
			continue
		}
		stored++
	}
	return stored, errs
}
