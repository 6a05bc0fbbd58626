// Package metrics provides centralized Prometheus metrics for the exporter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Entity level label values used across the pipeline metrics.
const (
	LevelUsers    = "users"
	LevelPosts    = "posts"
	LevelComments = "comments"
)

// API client metrics track calls against the remote data source
var (
	// APIRequestsTotal counts data source requests by path and outcome.
	// Outcome is one of: success, transient, fatal.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of data source requests",
		},
		[]string{"path", "outcome"},
	)

	// APIRequestDuration measures data source request duration in seconds
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Data source request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)
)

// Pipeline metrics track per-level record flow through the export pipeline
var (
	// RecordsFetchedTotal counts raw records returned by the data source
	RecordsFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_fetched_total",
			Help: "Total number of raw records fetched, per entity level",
		},
		[]string{"level"},
	)

	// RecordsValidTotal counts records that passed validation
	RecordsValidTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_valid_total",
			Help: "Total number of records that passed validation, per entity level",
		},
		[]string{"level"},
	)

	// RecordsInvalidTotal counts records rejected by validation
	RecordsInvalidTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_invalid_total",
			Help: "Total number of records rejected by validation, per entity level",
		},
		[]string{"level"},
	)

	// RecordsSelectedTotal counts records surviving top-N selection
	RecordsSelectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_selected_total",
			Help: "Total number of records selected into the bounded top-N set, per entity level",
		},
		[]string{"level"},
	)

	// FetchFailuresTotal counts branch fetches that exhausted their retry budget
	FetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_failures_total",
			Help: "Total number of failed branch fetches, per entity level",
		},
		[]string{"level"},
	)
)

// Run metrics track whole export runs
var (
	// ExportRunsTotal counts export runs by final status (success, error)
	ExportRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_runs_total",
			Help: "Total number of export runs",
		},
		[]string{"status"},
	)

	// ExportDuration measures the duration of a full export run
	ExportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "export_duration_seconds",
			Help:    "Time taken for a full export run",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	// RowsWrittenTotal counts output rows handed to the writer
	RowsWrittenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rows_written_total",
			Help: "Total number of output rows written",
		},
	)
)
