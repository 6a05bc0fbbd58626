// Package observability provides the observability infrastructure for the
// exporter: structured logging, Prometheus metrics, and OpenTelemetry
// tracing.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracing integration
//
// Example usage:
//
//	import (
//	    "community-export/internal/observability/logging"
//	    "community-export/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("exporter started")
//
//	    metrics.RecordRecordsFetched(metrics.LevelUsers, 10)
//	}
package observability
