package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config <config.json>",
	Short: "Validate an engine config.Config file",
	Long: `validate-config loads a config.Config-shaped JSON file, applying it on
top of config.Default(), and reports whether Config.Validate accepts it.
Duration fields (RetryInitialBackoff, RetryMaxBackoff, SandboxAdHocTimeout,
DefaultVariableTimeout) are nanoseconds, matching encoding/json's default
time.Duration representation.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidateConfig,
}

func runValidateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFile(args[0])
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config is invalid: %w", err)
	}

	fmt.Printf("config is valid: %+v\n", *cfg)
	return nil
}
