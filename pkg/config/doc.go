// Package config provides configuration management for the questionnaire
// traversal engine.
//
// # Overview
//
// The config package centralizes every tunable limit the traversal engine,
// Graph Gateway, and Sandbox Evaluator consult: retry policy, the
// evaluator-query row cap, and sandbox/variable timeouts.
//
// # Basic usage
//
//	cfg := config.Default()
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
