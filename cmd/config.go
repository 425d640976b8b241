// Package cmd implements the command-line interface for akcfg.
package cmd

import "github.com/spf13/cobra"

// Config holds the options given on the command line
type Config struct {
	Verbose    bool
	ShowLogs   bool
	Elevate    bool
	ConfigPath string // Settings file; empty means config.DefaultPath
}

// NewConfigFromFlags creates a Config from parsed command flags
func NewConfigFromFlags(cmd *cobra.Command) *Config {
	return &Config{
		Verbose:    getBoolFlag(cmd, "verbose"),
		ShowLogs:   getBoolFlag(cmd, "logs"),
		Elevate:    getBoolFlag(cmd, "elevate"),
		ConfigPath: getStringFlag(cmd, "config"),
	}
}

// getBoolFlag retrieves a boolean flag, checking both local and persistent flags
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		// Try persistent flags if not found in local flags
		val, _ = cmd.PersistentFlags().GetBool(name)
	}

	return val
}

func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		val, _ = cmd.PersistentFlags().GetString(name)
	}

	return val
}
