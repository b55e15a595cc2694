// Package server provides the reference HTTP binding for the Traversal
// Engine: a single POST /v1/api/next_question_flow endpoint, plus health
// and Prometheus metrics endpoints, with graceful shutdown.
//
//   - POST /v1/api/next_question_flow — run one Walk call
//   - GET  /health, /health/live, /health/ready — health checker
//   - GET  /metrics — Prometheus exporter
package server
