package wifi

import (
	"context"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/systmms/wifikeys/internal/logging"
	pkgexec "github.com/systmms/wifikeys/pkg/exec"
)

// DefaultAirportPath is the private framework location of the airport utility
const DefaultAirportPath = "/System/Library/PrivateFrameworks/Apple80211.framework/Versions/Current/Resources/airport"

// MacOSOptions configures network discovery
type MacOSOptions struct {
	Interface   string
	AirportPath string
}

// MacOSBackend discovers networks with airport/networksetup and reads keys
// from the keychain with the security tool
type MacOSBackend struct {
	iface       string
	airportPath string
	executor    pkgexec.CommandExecutor
	logger      *logging.Logger
}

// NewMacOSBackend creates a keychain-backed backend
func NewMacOSBackend(opts Options) *MacOSBackend {
	b := &MacOSBackend{
		iface:       opts.MacOS.Interface,
		airportPath: opts.MacOS.AirportPath,
		executor:    opts.executor(),
		logger:      opts.logger(),
	}
	if b.iface == "" {
		b.iface = "en0"
	}
	if b.airportPath == "" {
		b.airportPath = DefaultAirportPath
	}
	return b
}

// Platform returns PlatformDarwin
func (b *MacOSBackend) Platform() Platform {
	return PlatformDarwin
}

// Enumerate lists visible and previously joined networks
func (b *MacOSBackend) Enumerate(ctx context.Context) ([]string, error) {
	return b.DiscoverNetworks(ctx)
}

// Extract queries the keychain for one network
func (b *MacOSBackend) Extract(ctx context.Context, identifier string) Record {
	return b.LookupSecret(ctx, identifier)
}

// DiscoverNetworks merges the wireless scan with the preferred network list.
// Either source may fail on its own; discovery fails only when the scan
// fails and the preferred list yields nothing.
func (b *MacOSBackend) DiscoverNetworks(ctx context.Context) ([]string, error) {
	b.logger.Debug("Running %s -s", b.airportPath)
	scan := pkgexec.Run(ctx, b.executor, b.airportPath, "-s")

	var visible []string
	var scanErr error
	if scan.Failed() {
		scanErr = commandFailure(scan,
			"Unable to scan for WiFi networks",
			"Check Location Services permissions or set macos.airport_path in wifikeys.yaml",
			ErrCommandFailed)
	} else {
		visible = ParseAirportScan(string(scan.Stdout))
	}

	preferred, err := b.preferredNetworks(ctx)
	if err != nil {
		b.logger.Debug("Skipping preferred networks: %v", err)
	}

	if scanErr != nil {
		if len(preferred) == 0 {
			return nil, scanErr
		}
		b.logger.Warn("Wireless scan failed, using preferred networks only: %v", scan.Err)
	}

	networks := MergeNetworks(visible, preferred)
	b.logger.Debug("Discovered %d network(s): %d visible, %d preferred", len(networks), len(visible), len(preferred))
	return networks, nil
}

func (b *MacOSBackend) preferredNetworks(ctx context.Context) ([]string, error) {
	args := []string{"-listpreferredwirelessnetworks", b.iface}
	b.logger.Debug("Running %s", commandLine("networksetup", args))

	inv := pkgexec.Run(ctx, b.executor, "networksetup", args...)
	if inv.Failed() {
		return nil, inv.Err
	}
	return ParsePreferredNetworks(string(inv.Stdout)), nil
}

// LookupSecret runs `security find-generic-password -ga <ssid>`. The query may
// prompt the user; refusal or failure yields an Unauthorized record.
func (b *MacOSBackend) LookupSecret(ctx context.Context, identifier string) Record {
	args := []string{"find-generic-password", "-ga", identifier}
	b.logger.Debug("Running %s", commandLine("security", args))

	inv := pkgexec.Run(ctx, b.executor, "security", args...)
	if inv.Failed() {
		b.logger.Debug("Keychain lookup for %s failed: %v", identifier, inv.Err)
		return unauthorizedRecord(identifier, SecretMacOSUnauthorized)
	}

	password, err := ParseSecurityPassword(inv.Combined())
	if err != nil {
		return missingRecord(identifier, SecretMacOSNoPassword)
	}

	b.logger.Debug("Keychain password for %s: %s", identifier, logging.Secret(password))
	return foundRecord(identifier, password)
}

// ParseAirportScan returns the first token of each non-blank line after the header
func ParseAirportScan(output string) []string {
	var ssids []string
	for _, line := range dropHeader(output) {
		if fields := strings.Fields(line); len(fields) > 0 {
			ssids = append(ssids, fields[0])
		}
	}
	return ssids
}

// ParsePreferredNetworks returns each trimmed non-blank line after the header
func ParsePreferredNetworks(output string) []string {
	var ssids []string
	for _, line := range dropHeader(output) {
		if ssid := strings.TrimSpace(line); ssid != "" {
			ssids = append(ssids, ssid)
		}
	}
	return ssids
}

func dropHeader(output string) []string {
	lines := strings.Split(output, "\n")
	if len(lines) <= 1 {
		return nil
	}
	return lines[1:]
}

// MergeNetworks returns the union of both lists in first-seen order
func MergeNetworks(visible, preferred []string) []string {
	seen := make(map[string]struct{}, len(visible)+len(preferred))
	merged := make([]string, 0, len(visible)+len(preferred))
	for _, list := range [][]string{visible, preferred} {
		for _, ssid := range list {
			if _, dup := seen[ssid]; dup {
				continue
			}
			seen[ssid] = struct{}{}
			merged = append(merged, ssid)
		}
	}
	return merged
}

var (
	hexPasswordPattern    = regexp.MustCompile(`password: 0x([0-9A-Fa-f]+)`)
	quotedPasswordPattern = regexp.MustCompile(`password: "(.*)"`)
)

// ParseSecurityPassword extracts the password from security(1) output.
// The hex form is preferred when present: security prints it for
// non-ASCII passwords and octal-escapes the quoted form.
func ParseSecurityPassword(output string) (string, error) {
	if m := hexPasswordPattern.FindStringSubmatch(output); m != nil {
		if decoded, err := hex.DecodeString(m[1]); err == nil {
			return string(decoded), nil
		}
	}
	if m := quotedPasswordPattern.FindStringSubmatch(output); m != nil {
		return m[1], nil
	}
	return "", ErrParseMiss
}
