package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps in-process request counters. It is not a metrics backend:
// the numbers reset on restart and are served as a JSON snapshot from the
// metrics endpoint.
type Collector struct {
	requests        uint64
	serverErrors    uint64
	throttled       uint64
	durationMsTotal uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.requests, 1)
	atomic.AddUint64(&c.durationMsTotal, uint64(duration.Milliseconds()))
	switch {
	case status >= 500:
		atomic.AddUint64(&c.serverErrors, 1)
	case status == 429:
		atomic.AddUint64(&c.throttled, 1)
	}
}

func (c *Collector) Snapshot() map[string]any {
	requests := atomic.LoadUint64(&c.requests)
	totalMs := atomic.LoadUint64(&c.durationMsTotal)
	avg := 0.0
	if requests > 0 {
		avg = float64(totalMs) / float64(requests)
	}
	return map[string]any{
		"requestsTotal":    requests,
		"errorsTotal":      atomic.LoadUint64(&c.serverErrors),
		"rateLimitedTotal": atomic.LoadUint64(&c.throttled),
		"avgDurationMs":    avg,
		"totalDurationMs":  totalMs,
	}
}
