package commands

import (
	"fmt"
	"os"
	osexec "os/exec"
	"runtime"

	"github.com/systmms/wifikeys/internal/config"
	dserrors "github.com/systmms/wifikeys/internal/errors"
	"github.com/systmms/wifikeys/internal/metrics"
	"github.com/systmms/wifikeys/internal/wifi"
	pkgexec "github.com/systmms/wifikeys/pkg/exec"
)

// Runtime carries the host facts commands depend on. Tests substitute
// a fake platform and a mock executor.
type Runtime struct {
	GOOS     string
	Euid     int
	Executor pkgexec.CommandExecutor
	LookPath func(file string) (string, error)
}

// DefaultRuntime describes the current process
func DefaultRuntime() *Runtime {
	return &Runtime{
		GOOS:     runtime.GOOS,
		Euid:     os.Geteuid(),
		Executor: pkgexec.DefaultExecutor(),
		LookPath: osexec.LookPath,
	}
}

// executor bounds and optionally instruments every native command
func (rt *Runtime) executor(cfg *config.Config, m *metrics.Metrics) pkgexec.CommandExecutor {
	return m.Instrument(pkgexec.WithTimeout(rt.Executor, cfg.CommandTimeout()))
}

// elevation resolves linux.elevate for this process
func elevation(cfg *config.Config, rt *Runtime) ([]string, error) {
	mode := cfg.Settings().Linux.Elevate
	prefix, err := wifi.ElevationPrefix(mode, cfg.NonInteractive, rt.Euid)
	if err != nil {
		return nil, dserrors.ConfigError{
			Field:      "linux.elevate",
			Value:      mode,
			Message:    err.Error(),
			Suggestion: "Use one of: auto, sudo, none",
		}
	}
	return prefix, nil
}

// backendOptions maps the loaded configuration onto backend options
func backendOptions(cfg *config.Config, rt *Runtime, executor pkgexec.CommandExecutor) (wifi.Options, error) {
	elevate, err := elevation(cfg, rt)
	if err != nil {
		return wifi.Options{}, err
	}

	def := cfg.Settings()
	return wifi.Options{
		Executor: executor,
		Logger:   cfg.Logger,
		Windows: wifi.WindowsOptions{
			ProfileLabels: def.Windows.ProfileLabels,
			KeyLabels:     def.Windows.KeyLabels,
		},
		NetworkManager: wifi.NetworkManagerOptions{
			Dir:     def.Linux.ConnectionsDir,
			Elevate: elevate,
		},
		MacOS: wifi.MacOSOptions{
			Interface:   def.MacOS.Interface,
			AirportPath: def.MacOS.AirportPath,
		},
	}, nil
}

// selectBackend picks the backend for rt.GOOS
func selectBackend(cfg *config.Config, rt *Runtime, executor pkgexec.CommandExecutor) (wifi.Backend, error) {
	opts, err := backendOptions(cfg, rt, executor)
	if err != nil {
		return nil, err
	}

	backend, err := wifi.Select(rt.GOOS, opts)
	if err != nil {
		return nil, dserrors.UserError{
			Message:    fmt.Sprintf("Unsupported operating system: %s", rt.GOOS),
			Suggestion: "wifikeys supports Windows, Linux with NetworkManager, and macOS",
			Err:        err,
		}
	}
	return backend, nil
}

// newMetrics returns nil unless --metrics-file was given
func newMetrics(cfg *config.Config) *metrics.Metrics {
	if cfg.MetricsFile == "" {
		return nil
	}
	return metrics.New()
}

func flushMetrics(cfg *config.Config, m *metrics.Metrics) {
	if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
		cfg.Logger.Warn("Failed to write metrics to %s: %v", cfg.MetricsFile, err)
		return
	}
	if m != nil {
		cfg.Logger.Debug("Wrote metrics to %s", cfg.MetricsFile)
	}
}

func platformName(p wifi.Platform) string {
	switch p {
	case wifi.PlatformWindows:
		return "Windows"
	case wifi.PlatformLinux:
		return "Linux"
	case wifi.PlatformDarwin:
		return "macOS"
	default:
		return string(p)
	}
}
