package wifi

import (
	"context"
	"path"
	"strings"

	"github.com/systmms/wifikeys/internal/logging"
	pkgexec "github.com/systmms/wifikeys/pkg/exec"
)

// DefaultConnectionsDir is where NetworkManager keeps system connection keyfiles
const DefaultConnectionsDir = "/etc/NetworkManager/system-connections"

// NetworkManagerOptions configures keyfile access
type NetworkManagerOptions struct {
	Dir string
	// Elevate prefixes privileged commands, e.g. ["sudo"] or ["sudo", "-n"].
	// Empty runs them directly.
	Elevate []string
}

// NetworkManagerBackend reads NetworkManager keyfiles with elevated privilege
type NetworkManagerBackend struct {
	dir      string
	elevate  []string
	executor pkgexec.CommandExecutor
	logger   *logging.Logger
}

// NewNetworkManagerBackend creates a keyfile-backed backend
func NewNetworkManagerBackend(opts Options) *NetworkManagerBackend {
	dir := opts.NetworkManager.Dir
	if dir == "" {
		dir = DefaultConnectionsDir
	}
	return &NetworkManagerBackend{
		dir:      dir,
		elevate:  opts.NetworkManager.Elevate,
		executor: opts.executor(),
		logger:   opts.logger(),
	}
}

// Platform returns PlatformLinux
func (b *NetworkManagerBackend) Platform() Platform {
	return PlatformLinux
}

// Enumerate lists connection keyfiles
func (b *NetworkManagerBackend) Enumerate(ctx context.Context) ([]string, error) {
	return b.ListConnectionFiles(ctx)
}

// Extract reads one keyfile
func (b *NetworkManagerBackend) Extract(ctx context.Context, identifier string) Record {
	return b.ExtractRecord(ctx, identifier)
}

// ListConnectionFiles lists the connection directory with elevated privilege
func (b *NetworkManagerBackend) ListConnectionFiles(ctx context.Context) ([]string, error) {
	inv := b.run(ctx, "ls", b.dir)
	if inv.Failed() {
		return nil, commandFailure(inv,
			"Unable to access NetworkManager connections",
			"Run wifikeys with sudo privileges: sudo wifikeys retrieve",
			ErrAccessDenied)
	}

	var files []string
	for _, line := range strings.Split(string(inv.Stdout), "\n") {
		name := strings.TrimRight(line, "\r")
		if strings.TrimSpace(name) == "" {
			continue
		}
		files = append(files, name)
	}
	b.logger.Debug("Found %d connection file(s) in %s", len(files), b.dir)
	return files, nil
}

// ExtractRecord reads one keyfile and extracts its ssid and psk.
// A read failure yields a NotFound record named after the file.
func (b *NetworkManagerBackend) ExtractRecord(ctx context.Context, filename string) Record {
	inv := b.run(ctx, "cat", path.Join(b.dir, filename))
	if inv.Failed() {
		b.logger.Debug("Unable to read %s: %v", filename, inv.Err)
		return missingRecord(filename, SecretUnreadable)
	}

	kf := ParseKeyfile(string(inv.Stdout))

	id := kf.SSID
	if id == "" {
		id = filename
	}
	if kf.PSK == "" {
		return missingRecord(id, SecretNoPSK)
	}

	b.logger.Debug("psk for %s: %s", id, logging.Secret(kf.PSK))
	return foundRecord(id, kf.PSK)
}

func (b *NetworkManagerBackend) run(ctx context.Context, name string, args ...string) pkgexec.Invocation {
	if len(b.elevate) > 0 {
		args = append(append(append([]string{}, b.elevate[1:]...), name), args...)
		name = b.elevate[0]
	}
	b.logger.Debug("Running %s", commandLine(name, args))
	return pkgexec.Run(ctx, b.executor, name, args...)
}

// Keyfile holds the fields extracted from a NetworkManager keyfile
type Keyfile struct {
	SSID string
	PSK  string
}

// ParseKeyfile extracts the first ssid= and psk= values. Keys are compared
// exactly, so bssid= and psk-flags= are ignored.
func ParseKeyfile(content string) Keyfile {
	var kf Keyfile
	var haveSSID, havePSK bool

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' || line[0] == ';' || line[0] == '[' {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "ssid":
			if !haveSSID {
				kf.SSID, haveSSID = strings.TrimSpace(value), true
			}
		case "psk":
			if !havePSK {
				kf.PSK, havePSK = strings.TrimSpace(value), true
			}
		}
	}
	return kf
}
