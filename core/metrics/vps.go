package metrics

// VPSMetrics holds the votes per second of the last measurement.
type VPSMetrics struct {
	Accepted uint64 `json:"accepted"`
	Rejected uint64 `json:"rejected"`
}

func VPSMetricsCaller(handler interface{}, params ...interface{}) {
	handler.(func(*VPSMetrics))(params[0].(*VPSMetrics))
}

var (
	lastAcceptedCnt uint64
	lastRejectedCnt uint64
)

// measures the VPS values
func measureVPS() {
	acceptedCnt := deps.PollMetrics.VotesAccepted.Load()
	rejectedCnt := deps.PollMetrics.VotesDuplicate.Load() +
		deps.PollMetrics.VotesUnauthorized.Load() +
		deps.PollMetrics.VotesFailed.Load()

	vpsMetrics := &VPSMetrics{
		Accepted: acceptedCnt - lastAcceptedCnt,
		Rejected: rejectedCnt - lastRejectedCnt,
	}

	// store the new counters
	lastAcceptedCnt = acceptedCnt
	lastRejectedCnt = rejectedCnt

	// trigger events for outside listeners
	Events.VPSMetricsUpdated.Trigger(vpsMetrics)
}
