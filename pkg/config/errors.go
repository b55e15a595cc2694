package config

import "errors"

// Sentinel errors for configuration validation
var (
	ErrInvalidMaxAttempts     = errors.New("invalid max retry attempts: must be non-negative")
	ErrInvalidBackoff         = errors.New("invalid backoff bounds: initial must be non-negative and not exceed max")
	ErrInvalidRowCap          = errors.New("invalid row cap: must be positive")
	ErrInvalidSandboxTimeout  = errors.New("invalid sandbox ad-hoc timeout: must be positive")
	ErrInvalidVariableTimeout = errors.New("invalid default variable timeout: must be positive")
	ErrInvalidMaxWalkDepth    = errors.New("invalid max walk depth: must be positive")

	// File loading errors, retained for collaborators that load Config
	// overrides from disk.
	ErrConfigFileNotFound = errors.New("configuration file not found")
	ErrInvalidConfigFile  = errors.New("invalid configuration file format")
	ErrConfigParseFailed  = errors.New("failed to parse configuration file")
)
