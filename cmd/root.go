/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskboard-pm/apiserver/config"
	"github.com/taskboard-pm/apiserver/internal/logger"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "Taskboard project management API",
	Long: `Taskboard serves the project management REST API and its background workers.

	taskboard server
	taskboard worker
	taskboard migrate up
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the process logger from configuration and installs it globally.
func newLogger(cfg config.Config) (*logger.Logger, error) {
	log, err := logger.New(logger.Mode(cfg.Log.Mode), cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetGlobal(log)
	return log, nil
}
