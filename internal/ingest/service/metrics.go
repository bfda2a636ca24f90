package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "happytown",
		Subsystem: "ingest",
		Name:      "runs_total",
		Help:      "Ingestion runs by terminal ledger status.",
	}, []string{"status"})

	rowsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "happytown",
		Subsystem: "ingest",
		Name:      "rows_processed_total",
		Help:      "Rows successfully matched and upserted.",
	})

	rowsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "happytown",
		Subsystem: "ingest",
		Name:      "rows_failed_total",
		Help:      "Rows rejected during parsing or matching.",
	})
)
