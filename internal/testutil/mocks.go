package testutil

import (
	"context"
	"streakd/internal/calendar"
	"streakd/internal/models"
	"streakd/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface and keeps counters.
type MockMetrics struct {
	mu              sync.Mutex
	Requests        int
	CacheHits       int
	CacheMisses     int
	CachePurges     int
	Persists        int
	SkippedKeys     map[string]int
	SubjectFailures map[string]int
	Fetches         map[string]int // key: "platform:result"
	SubjectGauge    func() int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		SkippedKeys:     make(map[string]int),
		SubjectFailures: make(map[string]int),
		Fetches:         make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncCachePurges() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CachePurges++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
}
func (m *MockMetrics) AddSkippedKeys(platform string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SkippedKeys[platform] += count
}
func (m *MockMetrics) IncSubjectFailures(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubjectFailures[reason]++
}
func (m *MockMetrics) IncFetch(platform, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fetches[platform+":"+result]++
}
func (m *MockMetrics) ObserveFetchDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) RegisterSubjectGauge(count func() int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubjectGauge = count
}

func (m *MockMetrics) FetchCount(platform, result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Fetches[platform+":"+result]
}

// MockActivityService implements services.ActivityServiceInterface.
type MockActivityService struct {
	mu          sync.Mutex
	Subjects    []models.Subject
	PutSubjects []models.Subject
	PutCalls    []PutCalendarCall
	Profile     *models.Profile
	Report      *calendar.Report
	Leaderboard []models.LeaderboardEntry
	Snapshot    *models.Snapshot
	Err         error
	Clock       time.Time
	LastRef     time.Time
	LastSort    models.LeaderboardSort
}

type PutCalendarCall struct {
	ID       string
	Platform models.Platform
	Raw      calendar.RawCalendar
}

func (m *MockActivityService) PutSubject(sub models.Subject) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	m.PutSubjects = append(m.PutSubjects, sub)
	return true, nil
}

func (m *MockActivityService) GetSubject(id string) (models.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Subjects {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Subject{}, m.Err
}

func (m *MockActivityService) GetSubjects() []models.Subject {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Subjects
}

func (m *MockActivityService) GetSubjectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Subjects)
}

func (m *MockActivityService) PutCalendar(id string, p models.Platform, raw calendar.RawCalendar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.PutCalls = append(m.PutCalls, PutCalendarCall{ID: id, Platform: p, Raw: raw})
	return nil
}

func (m *MockActivityService) GetProfile(_ string, ref time.Time) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRef = ref
	return m.Profile, m.Err
}

func (m *MockActivityService) GetCalendar(_ string, _ models.Platform, ref time.Time) (*calendar.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRef = ref
	return m.Report, m.Err
}

func (m *MockActivityService) GetLeaderboard(_ context.Context, by models.LeaderboardSort, ref time.Time) ([]models.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRef = ref
	m.LastSort = by
	return m.Leaderboard, m.Err
}

func (m *MockActivityService) GetSnapshot() *models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Snapshot != nil {
		return m.Snapshot
	}
	return &models.Snapshot{Version: models.SnapshotVersion, Subjects: make(map[string]*models.SubjectData)}
}

func (m *MockActivityService) PutSnapshot(snap *models.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Snapshot = snap
}

func (m *MockActivityService) Now() time.Time {
	if m.Clock.IsZero() {
		return time.Now().UTC()
	}
	return m.Clock
}

// MockRefreshService implements services.RefreshServiceInterface.
type MockRefreshService struct {
	mu         sync.Mutex
	AllCalls   int
	SubjectIDs []string
	Err        error
	BlockUntil chan struct{}
}

func (m *MockRefreshService) RefreshAll(ctx context.Context) error {
	if m.BlockUntil != nil {
		select {
		case <-m.BlockUntil:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AllCalls++
	return m.Err
}

func (m *MockRefreshService) RefreshSubject(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubjectIDs = append(m.SubjectIDs, id)
	return m.Err
}

func (m *MockRefreshService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.AllCalls
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu     sync.Mutex
	Data   map[string][]byte
	Purges int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Purges++
	m.Data = make(map[string][]byte)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	CloseErr     error
	Closed       bool
}

func (m *MockCompressor) Close() error {
	m.Closed = true
	return m.CloseErr
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}
