package services

import (
	"context"
	"errors"
	"fmt"
	"streakd/internal/calendar"
	"streakd/internal/models"
	"streakd/internal/providers"
	"streakd/internal/structures"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	ErrSubjectNotFound = errors.New("subject not found")
	ErrUnknownPlatform = errors.New("unknown platform")
)

const defaultConcurrency = 4

type ActivityServiceInterface interface {
	PutSubject(sub models.Subject) (bool, error)
	GetSubject(id string) (models.Subject, error)
	GetSubjects() []models.Subject
	GetSubjectCount() int
	PutCalendar(id string, p models.Platform, raw calendar.RawCalendar) error
	GetProfile(id string, ref time.Time) (*models.Profile, error)
	GetCalendar(id string, p models.Platform, ref time.Time) (*calendar.Report, error)
	GetLeaderboard(ctx context.Context, by models.LeaderboardSort, ref time.Time) ([]models.LeaderboardEntry, error)
	GetSnapshot() *models.Snapshot
	PutSnapshot(snap *models.Snapshot)
	Now() time.Time
}

type ActivityService struct {
	store       *models.SubjectStore
	opts        calendar.Options
	staleAfter  time.Duration
	concurrency int
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface

	clockMu sync.RWMutex
	clock   func() time.Time
}

func NewActivityService(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) ActivityServiceInterface {
	opts := calendar.DefaultOptions()
	if conf.Calendar.DailyWindow > 0 {
		opts.DailyWindow = conf.Calendar.DailyWindow
	}
	if conf.Calendar.WeeklyWindow > 0 {
		opts.WeeklyWindow = conf.Calendar.WeeklyWindow
	}
	opts.WeekStart = providers.WeekStart(conf)

	concurrency := conf.Refresh.Concurrency
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}

	as := &ActivityService{
		store:       models.NewSubjectStore(),
		opts:        opts,
		staleAfter:  conf.Calendar.StaleAfter,
		concurrency: concurrency,
		logger:      logger,
		metrics:     metrics,
		clock:       time.Now,
	}
	metrics.RegisterSubjectGauge(as.store.Len)
	return as
}

// SetClock replaces the time source used when no reference date is given.
func (as *ActivityService) SetClock(clock func() time.Time) {
	as.clockMu.Lock()
	defer as.clockMu.Unlock()
	as.clock = clock
}

func (as *ActivityService) Now() time.Time {
	as.clockMu.RLock()
	defer as.clockMu.RUnlock()
	return as.clock().UTC()
}

func (as *ActivityService) PutSubject(sub models.Subject) (bool, error) {
	if err := sub.Validate(); err != nil {
		return false, err
	}
	created := as.store.Put(sub)
	if created {
		as.logger.Infof(providers.TypeApp, "subject %s registered", sub.ID)
	}
	return created, nil
}

func (as *ActivityService) GetSubject(id string) (models.Subject, error) {
	sub, ok := as.store.Get(id)
	if !ok {
		return models.Subject{}, fmt.Errorf("%w: %s", ErrSubjectNotFound, id)
	}
	return sub, nil
}

func (as *ActivityService) GetSubjects() []models.Subject {
	return as.store.List()
}

func (as *ActivityService) GetSubjectCount() int {
	return as.store.Len()
}

func (as *ActivityService) PutCalendar(id string, p models.Platform, raw calendar.RawCalendar) error {
	if _, err := models.ParsePlatform(string(p)); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlatform, p)
	}
	skipped := 0
	for key, count := range raw {
		if count < 0 {
			return &calendar.DataIntegrityError{Key: key, Reason: fmt.Sprintf("negative count %d", count)}
		}
		if calendar.ParseDayKey(key).Kind == calendar.KeyUnparseable {
			skipped++
		}
	}
	if !as.store.SetCalendar(id, p, raw, as.Now()) {
		return fmt.Errorf("%w: %s", ErrSubjectNotFound, id)
	}
	if skipped > 0 {
		as.metrics.AddSkippedKeys(string(p), skipped)
	}
	return nil
}

// GetProfile builds the merged report plus one summary per platform. A
// platform whose calendar cannot be processed is listed with zeroed
// statistics and the error text, and left out of the merged report.
func (as *ActivityService) GetProfile(id string, ref time.Time) (*models.Profile, error) {
	sub, err := as.GetSubject(id)
	if err != nil {
		return nil, err
	}
	cals, fetched, _ := as.store.Calendars(id)

	profile := &models.Profile{
		Subject:   sub,
		Platforms: make([]models.PlatformSummary, 0, len(cals)),
	}
	usable := make([]calendar.RawCalendar, 0, len(cals))
	for _, p := range models.Platforms {
		raw, ok := cals[p]
		if !ok {
			continue
		}
		summary := models.PlatformSummary{Platform: p, FetchedAt: fetched[p]}
		r, err := as.analyze(raw, ref)
		if err != nil {
			as.logger.Warnf(providers.TypeApp, "profile %s: %s calendar skipped: %v", id, p, err)
			as.metrics.IncSubjectFailures(failureReason(err))
			summary.Error = err.Error()
		} else {
			summary.Streak = r.Streak
			summary.Skipped = r.Skipped
			usable = append(usable, raw)
		}
		profile.Platforms = append(profile.Platforms, summary)
	}

	profile.Report, err = as.analyze(calendar.Merge(usable...), ref)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", id, err)
	}
	profile.History, _ = as.store.History(id)

	as.store.SetResult(id, models.StreakRecord{
		Result:     profile.Report.Streak,
		Reference:  profile.Report.Reference,
		ComputedAt: as.Now(),
	})
	return profile, nil
}

// GetCalendar analyzes one platform's calendar, or all of them merged when p
// is empty. A platform without data yields an empty report.
func (as *ActivityService) GetCalendar(id string, p models.Platform, ref time.Time) (*calendar.Report, error) {
	if p != "" {
		if _, err := models.ParsePlatform(string(p)); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, p)
		}
	}
	cals, _, ok := as.store.Calendars(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSubjectNotFound, id)
	}

	raw := cals[p]
	if p == "" {
		raw = mergeCalendars(cals)
	}
	report, err := as.analyze(raw, ref)
	if err != nil {
		return nil, fmt.Errorf("calendar %s: %w", id, err)
	}
	return report, nil
}

// GetLeaderboard computes every subject's merged streaks concurrently. A
// subject whose data cannot be processed is listed with zeroed statistics and
// the error text instead of failing the whole board.
func (as *ActivityService) GetLeaderboard(ctx context.Context, by models.LeaderboardSort, ref time.Time) ([]models.LeaderboardEntry, error) {
	subjects := as.store.List()
	entries := make([]models.LeaderboardEntry, len(subjects))
	end := calendar.DateOf(ref)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(as.concurrency)
	for i, sub := range subjects {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entries[i].Subject = sub
			res, err := as.subjectStreak(sub.ID, end)
			if err != nil {
				as.logger.Warnf(providers.TypeApp, "leaderboard: subject %s failed: %v", sub.ID, err)
				as.metrics.IncSubjectFailures(failureReason(err))
				entries[i].Error = err.Error()
				return nil
			}
			entries[i].Streak = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	models.SortLeaderboard(entries, by)
	return entries, nil
}

// subjectStreak returns the stored result when it was computed for the same
// reference date within staleAfter, otherwise it recomputes and stores it.
func (as *ActivityService) subjectStreak(id string, end calendar.Date) (calendar.StreakResult, error) {
	now := as.Now()
	if rec, ok := as.store.Result(id); ok && rec.Reference == end && now.Sub(rec.ComputedAt) < as.staleAfter {
		return rec.Result, nil
	}

	cals, _, ok := as.store.Calendars(id)
	if !ok {
		return calendar.StreakResult{}, fmt.Errorf("%w: %s", ErrSubjectNotFound, id)
	}
	n, err := calendar.NormalizeAt(mergeCalendars(cals), end, as.opts.DailyWindow)
	if err != nil {
		return calendar.StreakResult{}, err
	}
	res, err := calendar.Streaks(n.Days)
	if err != nil {
		return calendar.StreakResult{}, err
	}

	as.store.SetResult(id, models.StreakRecord{Result: res, Reference: end, ComputedAt: now})
	return res, nil
}

func (as *ActivityService) GetSnapshot() *models.Snapshot {
	return as.store.GetData()
}

func (as *ActivityService) PutSnapshot(snap *models.Snapshot) {
	as.store.PutData(snap)
}

func (as *ActivityService) analyze(raw calendar.RawCalendar, ref time.Time) (*calendar.Report, error) {
	return calendar.Analyze(raw, ref, as.opts)
}

func mergeCalendars(cals map[models.Platform]calendar.RawCalendar) calendar.RawCalendar {
	list := make([]calendar.RawCalendar, 0, len(cals))
	for _, raw := range cals {
		list = append(list, raw)
	}
	return calendar.Merge(list...)
}

func failureReason(err error) string {
	var integrityErr *calendar.DataIntegrityError
	var shapeErr *calendar.InputShapeError
	switch {
	case errors.As(err, &integrityErr):
		return "integrity"
	case errors.As(err, &shapeErr):
		return "shape"
	case errors.Is(err, ErrSubjectNotFound):
		return "not_found"
	default:
		return "other"
	}
}
