// Scancam negotiates a preview configuration with a camera for barcode scanning.
//
// It selects a preview size for the display, applies focus, torch, exposure
// and the optional scanning features, and reports what the device actually
// accepted. Devices are either V4L2 nodes (Linux) or simulated cameras
// described by a YAML profile.
//
// Usage:
//
//	scancam [command] [flags]
//
// See 'scancam --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/scancam/internal/config"
	"github.com/muurk/scancam/internal/logging"
	"github.com/muurk/scancam/internal/version"
)

// Global flags
var (
	logLevel   string
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scancam",
	Short: "Camera configuration for barcode scanning",
	Long: `Negotiates a preview configuration with a camera for barcode scanning.

Selects the preview size that best fills the display, applies focus, torch
and exposure settings plus optional scanning features, and reconciles the
result with what the device reports back.

Logging is silent unless --log-level or SCANCAM_LOG_LEVEL is set.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides "+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default: OS config dir, or "+config.PathEnvVar+")")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "scancam %s\n", version.Full())
	},
}
