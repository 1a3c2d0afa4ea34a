package shutdown

// Please add the dependencies if you add your own priority here.
// Otherwise investigating deadlocks at shutdown is much more complicated.

const (
	PriorityCloseDatabase    = iota // no dependencies
	PriorityFlushToDatabase         // depends on PriorityCloseDatabase
	PriorityPoll                    // depends on PriorityFlushToDatabase
	PriorityRestAPI                 // depends on PriorityPoll
	PriorityMQTTBroker              // triggered by PriorityPoll
	PriorityMetricsPublishers       // depends on PriorityMQTTBroker
	PriorityTalliesStream           // triggered by PriorityPoll
	PriorityMetricsUpdater
	PriorityPrometheus
	PriorityUpdateCheck
)
