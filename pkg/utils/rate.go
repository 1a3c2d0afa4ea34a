package utils

import (
	"container/heap"
	"sync"
	"time"
)

type rateEntry struct {
	timestamp time.Time
	count     uint64
}

type rateEntries []*rateEntry

func (h rateEntries) Len() int           { return len(h) }
func (h rateEntries) Less(i, j int) bool { return h[i].timestamp.Before(h[j].timestamp) }
func (h rateEntries) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *rateEntries) Push(x interface{}) {
	*h = append(*h, x.(*rateEntry))
}

func (h *rateEntries) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// RateMeter measures the rate of events within a sliding time window.
type RateMeter struct {
	mutex   sync.Mutex
	window  time.Duration
	entries rateEntries
	total   uint64
}

// NewRateMeter creates a RateMeter averaging over the given window.
func NewRateMeter(window time.Duration) *RateMeter {
	return &RateMeter{window: window}
}

// Mark records count events at the current time.
func (m *RateMeter) Mark(count uint64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	heap.Push(&m.entries, &rateEntry{timestamp: time.Now(), count: count})
	m.total += count
}

// PerSecond returns the average number of events per second within the window.
// Entries older than the window are dropped.
func (m *RateMeter) PerSecond() float64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for m.entries.Len() > 0 && time.Since(m.entries[0].timestamp) >= m.window {
		oldest := heap.Pop(&m.entries).(*rateEntry)
		m.total -= oldest.count
	}

	return float64(m.total) / m.window.Seconds()
}
