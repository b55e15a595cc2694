package config

import "testing"

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.MaxRetryAttempts != 3 {
		t.Errorf("MaxRetryAttempts = %d, want 3", cfg.MaxRetryAttempts)
	}
	if cfg.RowCap != 100 {
		t.Errorf("RowCap = %d, want 100", cfg.RowCap)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() failed validation: %v", err)
	}
}

func TestProduction(t *testing.T) {
	if err := Production().Validate(); err != nil {
		t.Errorf("Production() failed validation: %v", err)
	}
}

func TestDevelopment(t *testing.T) {
	cfg := Development()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Development() failed validation: %v", err)
	}
	if cfg.SandboxAdHocTimeout <= Default().SandboxAdHocTimeout {
		t.Error("expected Development() to relax the sandbox timeout")
	}
}

func TestTesting(t *testing.T) {
	cfg := Testing()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Testing() failed validation: %v", err)
	}
	if cfg.RowCap >= Default().RowCap {
		t.Error("expected Testing() to tighten the row cap")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"negative retry attempts", func(c *Config) { c.MaxRetryAttempts = -1 }, ErrInvalidMaxAttempts},
		{"max backoff below initial", func(c *Config) { c.RetryMaxBackoff = c.RetryInitialBackoff - 1 }, ErrInvalidBackoff},
		{"zero row cap", func(c *Config) { c.RowCap = 0 }, ErrInvalidRowCap},
		{"zero sandbox timeout", func(c *Config) { c.SandboxAdHocTimeout = 0 }, ErrInvalidSandboxTimeout},
		{"zero variable timeout", func(c *Config) { c.DefaultVariableTimeout = 0 }, ErrInvalidVariableTimeout},
		{"zero walk depth", func(c *Config) { c.MaxWalkDepth = 0 }, ErrInvalidMaxWalkDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClone(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.RowCap = 5

	if cfg.RowCap == clone.RowCap {
		t.Error("Clone() should not alias the original")
	}
}
