package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/config"
)

// loadConfigFile reads a config.Config-shaped JSON file. Fields omitted
// from the file keep config.Default()'s values, so an override file only
// needs to name the knobs it changes.
func loadConfigFile(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := config.Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}
