package wifi

import (
	"context"
	"strings"

	"github.com/systmms/wifikeys/internal/logging"
	pkgexec "github.com/systmms/wifikeys/pkg/exec"
)

// WindowsOptions holds the netsh labels to match. Labels are locale-dependent.
type WindowsOptions struct {
	ProfileLabels []string
	KeyLabels     []string
}

// WindowsBackend reads saved WLAN profiles through netsh
type WindowsBackend struct {
	profileLabels []string
	keyLabels     []string
	executor      pkgexec.CommandExecutor
	logger        *logging.Logger
}

// NewWindowsBackend creates a netsh-backed backend
func NewWindowsBackend(opts Options) *WindowsBackend {
	b := &WindowsBackend{
		profileLabels: opts.Windows.ProfileLabels,
		keyLabels:     opts.Windows.KeyLabels,
		executor:      opts.executor(),
		logger:        opts.logger(),
	}
	if len(b.profileLabels) == 0 {
		b.profileLabels = []string{"All User Profile"}
	}
	if len(b.keyLabels) == 0 {
		b.keyLabels = []string{"Key Content"}
	}
	return b
}

// Platform returns PlatformWindows
func (b *WindowsBackend) Platform() Platform {
	return PlatformWindows
}

// Enumerate lists saved profiles
func (b *WindowsBackend) Enumerate(ctx context.Context) ([]string, error) {
	return b.ListProfiles(ctx)
}

// Extract reads the clear-text key of one profile
func (b *WindowsBackend) Extract(ctx context.Context, identifier string) Record {
	return b.GetSecret(ctx, identifier)
}

// ListProfiles runs `netsh wlan show profiles` and returns the profile names
func (b *WindowsBackend) ListProfiles(ctx context.Context) ([]string, error) {
	args := []string{"wlan", "show", "profiles"}
	b.logger.Debug("Running %s", commandLine("netsh", args))

	inv := pkgexec.Run(ctx, b.executor, "netsh", args...)
	if inv.Failed() {
		return nil, commandFailure(inv,
			"Unable to retrieve WiFi profiles",
			"Run wifikeys from an elevated (Administrator) prompt",
			ErrAccessDenied)
	}

	profiles := ParseProfiles(string(inv.Stdout), b.profileLabels)
	b.logger.Debug("netsh listed %d profile(s)", len(profiles))
	return profiles, nil
}

// GetSecret runs `netsh wlan show profile <name> key=clear` for one profile
func (b *WindowsBackend) GetSecret(ctx context.Context, identifier string) Record {
	args := []string{"wlan", "show", "profile", identifier, "key=clear"}
	b.logger.Debug("Running %s", commandLine("netsh", args))

	inv := pkgexec.Run(ctx, b.executor, "netsh", args...)
	if inv.Failed() {
		b.logger.Debug("netsh detail for %s failed: %v", identifier, inv.Err)
		return unauthorizedRecord(identifier, SecretWindowsFailed)
	}

	key, err := ParseLabeledValue(string(inv.Stdout), b.keyLabels)
	if err != nil {
		return missingRecord(identifier, SecretWindowsNoKey)
	}

	b.logger.Debug("Key for %s: %s", identifier, logging.Secret(key))
	return foundRecord(identifier, key)
}

// ParseProfiles extracts every value labelled with one of labels, in output order.
// Empty names are skipped.
func ParseProfiles(output string, labels []string) []string {
	var profiles []string
	for _, line := range strings.Split(output, "\n") {
		value, ok := matchLabel(line, labels)
		if ok && value != "" {
			profiles = append(profiles, value)
		}
	}
	return profiles
}

// ParseLabeledValue returns the value of the first line labelled with one of labels
func ParseLabeledValue(output string, labels []string) (string, error) {
	for _, line := range strings.Split(output, "\n") {
		if value, ok := matchLabel(line, labels); ok {
			return value, nil
		}
	}
	return "", ErrParseMiss
}

// matchLabel matches "<label><spaces>:<value>" after trimming the line.
// Only the first colon after the label separates, so values may contain colons.
func matchLabel(line string, labels []string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, label := range labels {
		if label == "" || !strings.HasPrefix(trimmed, label) {
			continue
		}
		rest := strings.TrimLeft(trimmed[len(label):], " \t")
		if !strings.HasPrefix(rest, ":") {
			continue
		}
		return strings.TrimSpace(rest[1:]), true
	}
	return "", false
}
