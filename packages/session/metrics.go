package session

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// LatencyRecorder aggregates transfer latencies across calls. Attach one
// to a Client with WithRecorder and read it out with Snapshot.
type LatencyRecorder struct {
	mu sync.Mutex

	// Latency histogram (in microseconds for precision)
	histogram *hdrhistogram.Histogram
}

// LatencySnapshot is a point-in-time summary of recorded latencies.
type LatencySnapshot struct {
	Count int64
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
}

func NewLatencyRecorder() *LatencyRecorder {
	return &LatencyRecorder{
		histogram: hdrhistogram.New(1, 60_000_000, 3),
	}
}

func (r *LatencyRecorder) Record(latency time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.histogram.RecordValue(latency.Microseconds())
}

func (r *LatencyRecorder) Snapshot() LatencySnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return LatencySnapshot{
		Count: r.histogram.TotalCount(),
		Min:   time.Duration(r.histogram.Min()) * time.Microsecond,
		Max:   time.Duration(r.histogram.Max()) * time.Microsecond,
		Mean:  time.Duration(r.histogram.Mean()) * time.Microsecond,
		P50:   time.Duration(r.histogram.ValueAtQuantile(50)) * time.Microsecond,
		P95:   time.Duration(r.histogram.ValueAtQuantile(95)) * time.Microsecond,
		P99:   time.Duration(r.histogram.ValueAtQuantile(99)) * time.Microsecond,
	}
}

// Reset clears all recorded values.
func (r *LatencyRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histogram.Reset()
}
