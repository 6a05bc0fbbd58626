// Package tracing provides OpenTelemetry tracing for the export pipeline.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the community-export application.
var tracer = otel.Tracer("community-export")

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "export.users")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
