package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/systmms/wifikeys/internal/config"
	dserrors "github.com/systmms/wifikeys/internal/errors"
	"github.com/systmms/wifikeys/internal/wifi"
)

// CheckResult is one doctor finding
type CheckResult struct {
	Name       string
	Status     string // ok, warn, error
	Message    string
	Suggestion string
}

type toolCheck struct {
	name     string
	required bool
	purpose  string
}

func NewDoctorCommand(cfg *config.Config, rt *Runtime) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that wifikeys can run on this machine",
		Long: `Verify that the native tools wifikeys relies on are available.

This command checks:
- Configuration file validity
- Platform support
- Privileges needed to read saved passwords
- Native commands for this platform`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logger.Info("Checking wifikeys configuration...")
			if err := cfg.Load(); err != nil {
				cfg.Logger.Error("Configuration error: %v", err)
				return fmt.Errorf("failed to load config: %w", err)
			}

			results := runChecks(cfg, rt)
			out := cmd.OutOrStdout()
			displayCheckResults(out, results, verbose)

			failed := 0
			for _, r := range results {
				if r.Status == "error" {
					failed++
				}
			}

			_, _ = fmt.Fprintf(out, "\nSummary: %d/%d checks passed\n", len(results)-failed, len(results))
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}

			cfg.Logger.Info("Ready to retrieve WiFi passwords")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show suggestions for every finding")

	return cmd
}

func runChecks(cfg *config.Config, rt *Runtime) []CheckResult {
	platform, err := wifi.ParsePlatform(rt.GOOS)
	if err != nil {
		return []CheckResult{{
			Name:       "platform",
			Status:     "error",
			Message:    fmt.Sprintf("unsupported operating system: %s", rt.GOOS),
			Suggestion: "wifikeys supports Windows, Linux with NetworkManager, and macOS",
		}}
	}

	results := []CheckResult{{
		Name:    "platform",
		Status:  "ok",
		Message: platformName(platform),
	}}
	results = append(results, privilegeCheck(cfg, rt, platform))

	for _, tool := range platformTools(cfg, rt, platform) {
		results = append(results, lookTool(rt, tool))
	}
	return results
}

func privilegeCheck(cfg *config.Config, rt *Runtime, platform wifi.Platform) CheckResult {
	result := CheckResult{Name: "privileges", Status: "ok"}

	switch platform {
	case wifi.PlatformLinux:
		prefix, err := elevation(cfg, rt)
		switch {
		case err != nil:
			result.Status = "error"
			result.Message = err.Error()
		case rt.Euid == 0:
			result.Message = "running as root"
		case len(prefix) == 0:
			result.Status = "warn"
			result.Message = "elevation disabled; keyfiles are usually readable by root only"
			result.Suggestion = "Set linux.elevate to auto or run as root"
		default:
			result.Message = "keyfiles are read through " + strings.Join(prefix, " ")
		}
	case wifi.PlatformWindows:
		result.Message = "netsh needs an Administrator prompt to show keys"
	default:
		result.Message = "the keychain may ask to authorize each network"
	}
	return result
}

func platformTools(cfg *config.Config, rt *Runtime, platform wifi.Platform) []toolCheck {
	def := cfg.Settings()

	switch platform {
	case wifi.PlatformWindows:
		return []toolCheck{
			{name: "netsh", required: true, purpose: "list profiles and keys"},
			{name: "ipconfig", purpose: "router detection"},
		}
	case wifi.PlatformLinux:
		tools := []toolCheck{
			{name: "ls", required: true, purpose: "list keyfiles"},
			{name: "cat", required: true, purpose: "read keyfiles"},
			{name: "ip", purpose: "router detection fallback"},
			{name: "netstat", purpose: "router detection fallback"},
		}
		if prefix, err := elevation(cfg, rt); err == nil && len(prefix) > 0 {
			tools = append([]toolCheck{{name: prefix[0], required: true, purpose: "elevated keyfile access"}}, tools...)
		}
		return tools
	default:
		return []toolCheck{
			{name: def.MacOS.AirportPath, required: true, purpose: "wireless scan"},
			{name: "networksetup", purpose: "preferred networks"},
			{name: "security", required: true, purpose: "keychain lookups"},
			{name: "netstat", purpose: "router detection"},
		}
	}
}

func lookTool(rt *Runtime, tool toolCheck) CheckResult {
	result := CheckResult{Name: tool.name}

	path, err := rt.LookPath(tool.name)
	if err != nil {
		result.Status = "warn"
		if tool.required {
			result.Status = "error"
		}
		result.Message = fmt.Sprintf("not found (%s)", tool.purpose)
		if cmdErr, ok := dserrors.WrapCommandNotFound(tool.name, err).(dserrors.CommandError); ok {
			result.Suggestion = cmdErr.Suggestion
		}
		return result
	}

	result.Status = "ok"
	result.Message = path
	return result
}

func displayCheckResults(out io.Writer, results []CheckResult, verbose bool) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(w, "CHECK\tSTATUS\tMESSAGE\n")
	_, _ = fmt.Fprintf(w, "-----\t------\t-------\n")

	for _, r := range results {
		status := r.Status
		switch r.Status {
		case "ok":
			status = "✓ " + status
		case "warn":
			status = "⚠ " + status
		default:
			status = "✗ " + status
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, status, r.Message)
	}
	_ = w.Flush()

	for _, r := range results {
		if r.Suggestion == "" || (r.Status == "warn" && !verbose) {
			continue
		}
		_, _ = fmt.Fprintf(out, "\n%s: %s\n", r.Name, r.Suggestion)
	}
}
