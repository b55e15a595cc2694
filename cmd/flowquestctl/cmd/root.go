// Package cmd provides the flowquestctl command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/config"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/logging"
)

var (
	cfgFile string
	verbose bool

	activeConfig = config.Default()
	logger       *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "flowquestctl",
	Short: "Operate and exercise the flowquest traversal engine",
	Long: `flowquestctl is an operator CLI for the flowquest traversal engine.

It runs single Walk calls against a JSON-seeded in-memory graph and
validates engine configuration files, without standing up the HTTP
server.

Examples:
  flowquestctl walk --seed seed.json request.json
  cat request.json | flowquestctl walk --seed seed.json
  flowquestctl validate-config engine-config.json`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "engine config file (default is config.Production())")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(walkCmd)
	rootCmd.AddCommand(validateConfigCmd)
}

func initConfig() {
	if cfgFile != "" {
		loaded, err := loadConfigFile(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			os.Exit(1)
		}
		activeConfig = loaded
	} else {
		activeConfig = config.Production()
	}

	logCfg := logging.DefaultConfig()
	logCfg.Pretty = true
	if verbose {
		logCfg.Level = "debug"
	}
	logger = logging.New(logCfg)
}
