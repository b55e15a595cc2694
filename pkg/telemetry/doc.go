// Package telemetry provides OpenTelemetry integration for distributed tracing and metrics.
// It enables comprehensive observability for traversal execution with support for:
//   - Distributed tracing with one span per Walk call
//   - Prometheus metrics for walk/edge/action/graph-query statistics
//   - Custom metrics exporters and collectors
//   - Integration with industry-standard observability platforms
package telemetry
