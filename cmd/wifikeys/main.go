package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/systmms/wifikeys/cmd/wifikeys/commands"
	"github.com/systmms/wifikeys/internal/config"
	dserrors "github.com/systmms/wifikeys/internal/errors"
	"github.com/systmms/wifikeys/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", dserrors.SimplifyError(err))
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile     string
		noColor        bool
		debug          bool
		nonInteractive bool
		timeout        time.Duration
		metricsFile    string
	)

	// Create config placeholder
	cfg := &config.Config{}
	rt := commands.DefaultRuntime()

	rootCmd := &cobra.Command{
		Use:   "wifikeys",
		Short: "Recover saved WiFi passwords from this machine",
		Long: `wifikeys reads the WiFi networks saved on this computer and prints their
passwords using the operating system's own tools (netsh on Windows,
NetworkManager keyfiles on Linux, the keychain on macOS).

It can also locate your router's admin panel and build the WIFI: payload
used by QR codes to share a network with a phone.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize logger with parsed flags
			logger := logging.New(debug, noColor)

			// Update config with parsed values
			cfg.Path = configFile
			cfg.Required = cmd.Flags().Changed("config")
			cfg.Logger = logger
			cfg.NonInteractive = nonInteractive
			cfg.Timeout = timeout
			cfg.MetricsFile = metricsFile
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "wifikeys.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Never prompt for sudo passwords")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-command timeout (overrides timeout_ms)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")

	// Add commands
	rootCmd.AddCommand(
		commands.NewRetrieveCommand(cfg, rt),
		commands.NewQRCommand(cfg, rt),
		commands.NewRouterCommand(cfg, rt),
		commands.NewDoctorCommand(cfg, rt),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
