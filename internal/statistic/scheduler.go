package statistic

import (
	"context"
	"errors"
	"github.com/roylee0704/gron"
	"streakd/internal/providers"
	"streakd/internal/services"
	"streakd/internal/statistic/interfaces"
	"streakd/internal/structures"
	"sync"
	"time"
)

// Scheduler runs the periodic jobs: platform refresh and snapshot persistence.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	refresh     services.RefreshServiceInterface
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		if err := s.Persist(); err != nil {
			return
		}
		s.logger.Infof(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
	})

	s.cron.AddFunc(gron.Every(s.config.Refresh.Interval), s.runRefresh)

	s.cron.Start()
	go s.runRefresh()
}

func (s *Scheduler) runRefresh() {
	s.logger.Infof(providers.TypeFetch, "Refreshing platform calendars...")
	err := s.refresh.RefreshAll(s.ctx)
	switch {
	case errors.Is(err, services.ErrRefreshRunning):
		s.logger.Debugf(providers.TypeFetch, "Previous refresh still running, skipped")
	case errors.Is(err, context.Canceled):
		s.logger.Infof(providers.TypeFetch, "Refresh cancelled")
	case err != nil:
		s.logger.Errorf(providers.TypeFetch, "Refresh failed: %s", err)
	}
}

func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, refresh services.RefreshServiceInterface, fileManager *FileManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		refresh:     refresh,
		fileManager: fileManager,
		metrics:     metrics,
	}
}
