package providers

import (
	"sync"
	"time"
)

// local mocks to avoid an import cycle with testutil

type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (m *testLogger) add(format string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, format)
}

func (m *testLogger) Errorf(_ TypeEnum, format string, _ ...interface{}) { m.add(format) }
func (m *testLogger) Warnf(_ TypeEnum, format string, _ ...interface{})  { m.add(format) }
func (m *testLogger) Debugf(_ TypeEnum, format string, _ ...interface{}) { m.add(format) }
func (m *testLogger) Infof(_ TypeEnum, format string, _ ...interface{})  { m.add(format) }
func (m *testLogger) Fatalf(_ TypeEnum, format string, _ ...interface{}) { m.add(format) }
func (m *testLogger) Close()                                             {}

type testMetrics struct {
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
	hits            int
	misses          int
	purges          int
}

func (m *testMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *testMetrics) ObserveRequestDuration(_ string, _ time.Duration) { m.durationCalls++ }
func (m *testMetrics) IncCacheHits()                                    { m.hits++ }
func (m *testMetrics) IncCacheMisses()                                  { m.misses++ }
func (m *testMetrics) IncCachePurges()                                  { m.purges++ }
func (m *testMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (m *testMetrics) AddSkippedKeys(_ string, _ int)                   {}
func (m *testMetrics) IncSubjectFailures(_ string)                      {}
func (m *testMetrics) IncFetch(_, _ string)                             {}
func (m *testMetrics) ObserveFetchDuration(_ string, _ time.Duration)   {}
func (m *testMetrics) RegisterSubjectGauge(_ func() int)                {}
