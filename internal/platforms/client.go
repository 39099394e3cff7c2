package platforms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"streakd/internal/calendar"
	"streakd/internal/models"
	"streakd/internal/providers"
	"streakd/internal/structures"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 15 * time.Second
	maxBodySize      = 8 << 20
	maxErrorBodySize = 64 * 1024
	userAgent        = "streakd/1.0"
)

var ErrUserNotFound = errors.New("user not found")

// Fetcher retrieves the raw activity calendar of one account.
type Fetcher interface {
	Platform() models.Platform
	FetchCalendar(ctx context.Context, username string) (calendar.RawCalendar, error)
}

// client is the HTTP transport shared by the platform fetchers. Requests are
// rate limited per platform and pass through a circuit breaker.
type client struct {
	platform models.Platform
	http     *http.Client
	limiter  *rate.Limiter
	cb       *gobreaker.CircuitBreaker[[]byte]
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func newClient(p models.Platform, conf structures.PlatformConfig, logger providers.Logger, metrics providers.MetricsProviderInterface) *client {
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := rate.Inf
	if conf.RatePerSecond > 0 {
		limit = rate.Limit(conf.RatePerSecond)
	}
	burst := conf.Burst
	if burst < 1 {
		burst = 1
	}

	c := &client{
		platform: p,
		http:     &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(limit, burst),
		logger:   logger,
		metrics:  metrics,
	}
	c.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        string(p) + "-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUserNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf(providers.TypeFetch, "circuit breaker %s: %s -> %s", name, from, to)
		},
	})
	return c
}

// do sends req and returns the response body of a 200 reply.
func (c *client) do(ctx context.Context, req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.IncFetch(string(c.platform), "rejected")
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	body, err := c.cb.Execute(func() ([]byte, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
		case http.StatusNotFound:
			return nil, ErrUserNotFound
		default:
			return nil, fmt.Errorf("%s request failed with status %d: %s", c.platform, resp.StatusCode, readBodyForError(resp.Body))
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	})
	c.metrics.ObserveFetchDuration(string(c.platform), time.Since(start))
	c.metrics.IncFetch(string(c.platform), fetchResult(err))
	return body, err
}

func fetchResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrUserNotFound):
		return "not_found"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	default:
		return "failure"
	}
}

// readBodyForError reads at most maxErrorBodySize bytes of an error reply.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}
