package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"streakd/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncCachePurges()
	ObservePersistenceDuration(duration time.Duration)
	AddSkippedKeys(platform string, count int)
	IncSubjectFailures(reason string)
	IncFetch(platform, result string)
	ObserveFetchDuration(platform string, duration time.Duration)
	RegisterSubjectGauge(count func() int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	cachePurges         prometheus.Counter
	persistenceDuration prometheus.Histogram
	skippedKeys         *prometheus.CounterVec
	subjectFailures     *prometheus.CounterVec
	fetchTotal          *prometheus.CounterVec
	fetchDuration       *prometheus.HistogramVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncCachePurges() {
	m.cachePurges.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) AddSkippedKeys(platform string, count int) {
	if count <= 0 {
		return
	}
	m.skippedKeys.WithLabelValues(platform).Add(float64(count))
}

func (m *MetricsProvider) IncSubjectFailures(reason string) {
	m.subjectFailures.WithLabelValues(reason).Inc()
}

func (m *MetricsProvider) IncFetch(platform, result string) {
	m.fetchTotal.WithLabelValues(platform, result).Inc()
}

func (m *MetricsProvider) ObserveFetchDuration(platform string, duration time.Duration) {
	m.fetchDuration.WithLabelValues(platform).Observe(duration.Seconds())
}

func (m *MetricsProvider) RegisterSubjectGauge(count func() int) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "streakd_subjects_total",
		Help: "Number of tracked subjects",
	}, func() float64 {
		return float64(count())
	})
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "streakd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "streakd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "streakd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "streakd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		cachePurges: promauto.NewCounter(prometheus.CounterOpts{
			Name: "streakd_cache_purges_total",
			Help: "Total number of cache purges after writes",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "streakd_persistence_duration_seconds",
			Help:    "Duration of snapshot persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		skippedKeys: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "streakd_unparseable_keys_total",
			Help: "Ingested raw calendar keys that name no date",
		}, []string{"platform"}),

		subjectFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "streakd_subject_failures_total",
			Help: "Subjects substituted with zeroed statistics",
		}, []string{"reason"}),

		fetchTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "streakd_fetch_total",
			Help: "Platform calendar fetches by result",
		}, []string{"platform", "result"}),

		fetchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "streakd_fetch_duration_seconds",
			Help:    "Platform calendar fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"platform"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncCachePurges()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) AddSkippedKeys(_ string, _ int)                   {}
func (n *noopMetrics) IncSubjectFailures(_ string)                      {}
func (n *noopMetrics) IncFetch(_, _ string)                             {}
func (n *noopMetrics) ObserveFetchDuration(_ string, _ time.Duration)   {}
func (n *noopMetrics) RegisterSubjectGauge(_ func() int)                {}
