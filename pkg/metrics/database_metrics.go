package metrics

import (
	"go.uber.org/atomic"
)

// DatabaseMetrics defines database metrics over the entire runtime of the node.
type DatabaseMetrics struct {
	// The total number of started compactions.
	CompactionCount atomic.Uint64
	// Whether a compaction is running.
	CompactionRunning atomic.Bool
}
