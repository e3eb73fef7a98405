package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	datasetsParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eta_datasets_parsed_total",
		Help: "Number of uploaded files parsed into datasets.",
	})
	parseCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eta_parse_cache_hits_total",
		Help: "Number of uploads served from the parse memoization cache.",
	})
	reportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eta_reports_generated_total",
		Help: "Number of filtered reports generated.",
	})
	rowsDroppedMissingID = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eta_rows_dropped_missing_id_total",
		Help: "Rows dropped during deduplication for lacking a shipment identifier.",
	})
)
