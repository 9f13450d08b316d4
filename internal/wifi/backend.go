// Package wifi extracts saved WiFi credentials from the host's native
// network configuration tools and normalises them into Records.
package wifi

import (
	"context"
	"fmt"
	"strings"

	"github.com/systmms/wifikeys/internal/logging"
	pkgexec "github.com/systmms/wifikeys/pkg/exec"
)

// Platform identifies a supported host operating system
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
)

// ParsePlatform maps an OS identity such as runtime.GOOS or "Darwin" onto a Platform
func ParsePlatform(goos string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(goos))); p {
	case PlatformWindows, PlatformLinux, PlatformDarwin:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, goos)
	}
}

// Backend is the platform-specific credential extraction contract
type Backend interface {
	// Platform returns the host platform this backend serves.
	Platform() Platform
	// Enumerate lists every network identifier the platform knows about.
	Enumerate(ctx context.Context) ([]string, error)
	// Extract produces the record for one identifier. It never fails;
	// problems are reflected in the record's Retrievability.
	Extract(ctx context.Context, identifier string) Record
}

// Options configures backend construction
type Options struct {
	Executor       pkgexec.CommandExecutor
	Logger         *logging.Logger
	Windows        WindowsOptions
	NetworkManager NetworkManagerOptions
	MacOS          MacOSOptions
}

func (o Options) executor() pkgexec.CommandExecutor {
	if o.Executor == nil {
		return pkgexec.DefaultExecutor()
	}
	return o.Executor
}

func (o Options) logger() *logging.Logger {
	if o.Logger == nil {
		return logging.Discard()
	}
	return o.Logger
}

// Select returns the backend for the given OS identity. Pass runtime.GOOS
// in production; tests inject any identity.
func Select(goos string, opts Options) (Backend, error) {
	platform, err := ParsePlatform(goos)
	if err != nil {
		return nil, err
	}

	switch platform {
	case PlatformWindows:
		return NewWindowsBackend(opts), nil
	case PlatformLinux:
		return NewNetworkManagerBackend(opts), nil
	default:
		return NewMacOSBackend(opts), nil
	}
}

// Elevation modes for privileged keyfile reads
const (
	ElevateAuto = "auto"
	ElevateSudo = "sudo"
	ElevateNone = "none"
)

// ElevationPrefix resolves an elevation mode ("auto", "sudo", "none") into the
// command prefix used for privileged reads. euid is the caller's effective uid.
func ElevationPrefix(mode string, nonInteractive bool, euid int) ([]string, error) {
	sudo := []string{"sudo"}
	if nonInteractive {
		sudo = append(sudo, "-n")
	}

	switch mode {
	case "", ElevateAuto:
		if euid == 0 {
			return nil, nil
		}
		return sudo, nil
	case ElevateSudo:
		return sudo, nil
	case ElevateNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown elevation mode %q", mode)
	}
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
