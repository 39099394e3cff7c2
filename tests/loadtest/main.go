package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numSubjects  = 200
	calendarDays = 365
)

var platformNames = []string{"leetcode", "github"}
var sortKeys = []string{"total", "current", "longest"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== streakd Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Subjects: %d | Calendar days: %d\n\n", numSubjects, calendarDays)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Registering subjects (POST /subjects) ---")
	for i := 0; i < numSubjects; i++ {
		if r := doPutSubject(i); r.err {
			fmt.Printf("subject %d: status %d\n", i, r.status)
		}
	}

	fmt.Println("\n--- Phase 2: Ingesting calendars (POST /calendar) ---")
	runPhase(testDuration, doPostCalendar)

	fmt.Println("\n--- Phase 3: Mixed load (20% POST, 80% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.20:
			return doPostCalendar(rng)
		case r < 0.55:
			return doGetProfile(rng)
		case r < 0.80:
			return doGetCalendar(rng)
		default:
			return doGetLeaderboard(rng)
		}
	})

	fmt.Println("\n--- Phase 4: Read-only load ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.5 {
			return doGetProfile(rng)
		}
		return doGetLeaderboard(rng)
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Inc()
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func subjectID(i int) string {
	return fmt.Sprintf("user_%d", i)
}

func do(endpoint string, method, url string, body []byte, want int) result {
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return result{endpoint, 0, 0, true}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != want}
}

func doPutSubject(i int) result {
	data, _ := json.Marshal(map[string]string{
		"id":   subjectID(i),
		"name": fmt.Sprintf("User %d", i),
	})
	r := do("POST /subjects", http.MethodPost, baseURL+"/subjects", data, http.StatusCreated)
	if r.status == http.StatusOK {
		r.err = false
	}
	return r
}

// doPostCalendar sends a year of random activity keyed by date strings or
// epoch seconds, the two shapes the platforms return.
func doPostCalendar(rng *rand.Rand) result {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	cal := make(map[string]int, calendarDays)
	for d := 0; d < calendarDays; d++ {
		if rng.Float64() < 0.4 {
			continue
		}
		day := today.AddDate(0, 0, -d)
		if rng.Intn(2) == 0 {
			cal[day.Format(time.DateOnly)] = rng.Intn(8) + 1
		} else {
			cal[fmt.Sprintf("%d", day.Unix())] = rng.Intn(8) + 1
		}
	}
	data, _ := json.Marshal(cal)
	url := fmt.Sprintf("%s/calendar?id=%s&platform=%s", baseURL, subjectID(rng.Intn(numSubjects)), platformNames[rng.Intn(len(platformNames))])
	return do("POST /calendar", http.MethodPost, url, data, http.StatusCreated)
}

func doGetProfile(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/profile?id=%s", baseURL, subjectID(rng.Intn(numSubjects)))
	return do("GET /profile", http.MethodGet, url, nil, http.StatusOK)
}

func doGetCalendar(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/calendar?id=%s&platform=%s", baseURL, subjectID(rng.Intn(numSubjects)), platformNames[rng.Intn(len(platformNames))])
	return do("GET /calendar", http.MethodGet, url, nil, http.StatusOK)
}

func doGetLeaderboard(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/leaderboard?sort=%s", baseURL, sortKeys[rng.Intn(len(sortKeys))])
	return do("GET /leaderboard", http.MethodGet, url, nil, http.StatusOK)
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
