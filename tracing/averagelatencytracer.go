package tracing

import (
	"sync"

	"github.com/sarchlab/regsim/sim"
)

// AverageLatencyTracer measures the average time from the start of an
// access to its completion.
type AverageLatencyTracer struct {
	timeTeller sim.TimeTeller
	filter     AccessFilter

	lock        sync.Mutex
	inflight    map[string]Access
	averageTime sim.VTimeInSec
	accessCount uint64
}

// NewAverageLatencyTracer creates a new AverageLatencyTracer. The filter
// can be nil to trace every access.
func NewAverageLatencyTracer(
	timeTeller sim.TimeTeller,
	filter AccessFilter,
) *AverageLatencyTracer {
	return &AverageLatencyTracer{
		timeTeller: timeTeller,
		filter:     filter,
		inflight:   make(map[string]Access),
	}
}

// AverageLatency returns the average access latency observed so far.
func (t *AverageLatencyTracer) AverageLatency() sim.VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.averageTime
}

// TotalCount returns the number of completed accesses.
func (t *AverageLatencyTracer) TotalCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.accessCount
}

// StartAccess records the access start time.
func (t *AverageLatencyTracer) StartAccess(access Access) {
	access.StartTime = t.timeTeller.CurrentTime()

	if t.filter != nil && !t.filter(access) {
		return
	}

	t.lock.Lock()
	t.inflight[access.ID] = access
	t.lock.Unlock()
}

// EndAccess folds the access latency into the running average.
func (t *AverageLatencyTracer) EndAccess(access Access) {
	access.EndTime = t.timeTeller.CurrentTime()

	t.lock.Lock()
	defer t.lock.Unlock()

	original, ok := t.inflight[access.ID]
	if !ok {
		return
	}

	latency := access.EndTime - original.StartTime
	t.averageTime = sim.VTimeInSec(
		(float64(t.averageTime)*float64(t.accessCount) + float64(latency)) /
			float64(t.accessCount+1))
	delete(t.inflight, access.ID)
	t.accessCount++
}
