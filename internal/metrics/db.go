package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
)

// RegisterDBStats exposes pool counters of db as gauges on the default registry.
func RegisterDBStats(db *sql.DB) {
	gauge := func(state string, read func(sql.DBStats) int) prometheus.Collector {
		return prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name:        "db_pool_connections",
				Help:        "Current state of the database connection pool.",
				ConstLabels: prometheus.Labels{"state": state},
			},
			func() float64 { return float64(read(db.Stats())) },
		)
	}
	prometheus.MustRegister(
		gauge("open", func(s sql.DBStats) int { return s.OpenConnections }),
		gauge("idle", func(s sql.DBStats) int { return s.Idle }),
		gauge("in_use", func(s sql.DBStats) int { return s.InUse }),
	)
}
