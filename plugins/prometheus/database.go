package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gohornet/tally/pkg/database"
	"github.com/gohornet/tally/pkg/metrics"
	"github.com/gohornet/tally/pkg/utils"
)

var (
	databaseSizeBytes prometheus.Gauge
	compactionCount   prometheus.Gauge
	compactionRunning prometheus.Gauge
)

func configureDatabase(db *database.Database, databaseMetrics *metrics.DatabaseMetrics) {

	databaseSizeBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tally",
			Subsystem: "database",
			Name:      "size_bytes",
			Help:      "Database size in bytes.",
		})

	compactionCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tally",
			Subsystem: "database",
			Name:      "compaction_count",
			Help:      "The total amount of database compactions.",
		},
	)

	compactionRunning = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tally",
		Subsystem: "database",
		Name:      "compaction_running",
		Help:      "Current state of database compaction process.",
	})

	registry.MustRegister(databaseSizeBytes)
	registry.MustRegister(compactionCount)
	registry.MustRegister(compactionRunning)

	addCollect(func() {
		collectDatabase(db, databaseMetrics)
	})
}

func collectDatabase(db *database.Database, databaseMetrics *metrics.DatabaseMetrics) {
	databaseSizeBytes.Set(0)
	if db.Path() != "" {
		if dbSize, err := utils.FolderSize(db.Path()); err == nil {
			databaseSizeBytes.Set(float64(dbSize))
		}
	}

	compactionCount.Set(float64(databaseMetrics.CompactionCount.Load()))

	compactionRunning.Set(0)
	if databaseMetrics.CompactionRunning.Load() {
		compactionRunning.Set(1)
	}
}
