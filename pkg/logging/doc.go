// Package logging provides structured logging for the questionnaire
// traversal engine, built on log/slog.
//
// # Overview
//
// Every walk is assigned a trace id that should be threaded through a
// chain of With* calls so each log line from that walk carries the ids
// needed to correlate it: execution id, section id, question id.
//
// # Basic usage
//
//	logger := logging.New(logging.DefaultConfig())
//	logger = logger.WithExecutionID(traceID).WithSectionID(sectionID)
//	logger.Info("walk started")
//
// # Output formats
//
// JSON by default (production), text when Config.Pretty is set
// (local development).
package logging
