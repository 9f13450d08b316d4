// Package router locates the local router's admin panel: the default
// gateway, fallback addresses and factory login defaults.
package router

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/systmms/wifikeys/internal/logging"
	pkgexec "github.com/systmms/wifikeys/pkg/exec"
)

// ErrNoGateway is returned when no source reports a default gateway
var ErrNoGateway = errors.New("default gateway not found")

// CommonIPs are the factory addresses most consumer routers answer on,
// most common first.
var CommonIPs = []string{
	"192.168.1.1",
	"192.168.0.1",
	"192.168.1.254",
	"192.168.2.1",
	"10.0.0.1",
	"10.0.1.1",
	"192.168.100.1",
	"192.168.10.1",
	"192.168.11.1",
	"192.168.3.1",
}

// Login is a factory username/password pair. Empty means blank.
type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DefaultLogins lists widespread factory router credentials.
var DefaultLogins = []Login{
	{"admin", "admin"},
	{"admin", "password"},
	{"admin", ""},
	{"admin", "1234"},
	{"root", "admin"},
	{"root", "root"},
	{"admin", "admin123"},
	{"user", "user"},
	{"", "admin"},
	{"", ""},
}

// AdminURLs returns the admin panel URLs to try for ip
func AdminURLs(ip string) []string {
	return []string{"http://" + ip, "https://" + ip}
}

var (
	ipconfigPattern = regexp.MustCompile(`Default Gateway.*?:\s*(\d+\.\d+\.\d+\.\d+)`)
	ipRoutePattern  = regexp.MustCompile(`default via (\d+\.\d+\.\d+\.\d+)`)
	ipv4Pattern     = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+`)
)

// ParseIPConfig extracts the first IPv4 default gateway from `ipconfig` output
func ParseIPConfig(output string) (string, bool) {
	if m := ipconfigPattern.FindStringSubmatch(output); m != nil {
		return m[1], true
	}
	return "", false
}

// ParseIPRoute extracts the gateway of the default route from `ip route` output
func ParseIPRoute(output string) (string, bool) {
	if m := ipRoutePattern.FindStringSubmatch(output); m != nil {
		return m[1], true
	}
	return "", false
}

// ParseNetstat scans `netstat -rn` for the first default route, a line whose
// destination is "default" or 0.0.0.0, and returns its first IPv4 field
// other than 0.0.0.0
func ParseNetstat(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if dst := strings.ToLower(fields[0]); dst != "default" && dst != "0.0.0.0" {
			continue
		}
		for _, field := range fields[1:] {
			if ipv4Pattern.MatchString(field) && field != "0.0.0.0" {
				return field, true
			}
		}
	}
	return "", false
}

type source struct {
	name  string
	args  []string
	parse func(string) (string, bool)
}

var (
	ipconfigSource = source{name: "ipconfig", parse: ParseIPConfig}
	ipRouteSource  = source{name: "ip", args: []string{"route"}, parse: ParseIPRoute}
	netstatSource  = source{name: "netstat", args: []string{"-rn"}, parse: ParseNetstat}
)

// Locator finds the default gateway for one platform
type Locator struct {
	goos     string
	executor pkgexec.CommandExecutor
	logger   *logging.Logger
	// routeTable queries the kernel directly; nil where unsupported
	routeTable func() (string, error)
}

// NewLocator creates a Locator for goos. A nil executor runs real commands.
func NewLocator(goos string, executor pkgexec.CommandExecutor, logger *logging.Logger) *Locator {
	if executor == nil {
		executor = pkgexec.DefaultExecutor()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	l := &Locator{
		goos:     strings.ToLower(goos),
		executor: executor,
		logger:   logger,
	}
	if l.goos == "linux" {
		l.routeTable = kernelGateway
	}
	return l
}

func (l *Locator) sources() []source {
	switch l.goos {
	case "windows":
		return []source{ipconfigSource}
	case "linux", "darwin":
		return []source{ipRouteSource, netstatSource}
	default:
		return []source{netstatSource}
	}
}

// DefaultGateway returns the default gateway address. Sources are tried in
// order until one reports a gateway.
func (l *Locator) DefaultGateway(ctx context.Context) (string, error) {
	if l.routeTable != nil {
		gw, err := l.routeTable()
		if err == nil && gw != "" {
			l.logger.Debug("Gateway %s from kernel route table", gw)
			return gw, nil
		}
		l.logger.Debug("Kernel route table unavailable: %v", err)
	}

	for _, src := range l.sources() {
		inv := pkgexec.Run(ctx, l.executor, src.name, src.args...)
		if inv.Failed() {
			l.logger.Debug("%s failed: %v", src.name, inv.Err)
			continue
		}
		if gw, ok := src.parse(string(inv.Stdout)); ok {
			l.logger.Debug("Gateway %s from %s", gw, src.name)
			return gw, nil
		}
	}
	return "", ErrNoGateway
}

// Report is everything needed to reach the router admin panel
type Report struct {
	Gateway    string   `json:"gateway,omitempty"`
	Candidates []string `json:"candidates"`
	AdminURLs  []string `json:"admin_urls"`
	Logins     []Login  `json:"default_logins"`
}

// Locate builds a Report. The detected gateway, if any, leads the candidate
// list; admin URLs point at the first candidate.
func (l *Locator) Locate(ctx context.Context) Report {
	gw, err := l.DefaultGateway(ctx)
	if err != nil {
		l.logger.Debug("Gateway detection failed: %v", err)
	}

	candidates := make([]string, 0, len(CommonIPs)+1)
	if gw != "" {
		candidates = append(candidates, gw)
	}
	for _, ip := range CommonIPs {
		if ip != gw {
			candidates = append(candidates, ip)
		}
	}

	return Report{
		Gateway:    gw,
		Candidates: candidates,
		AdminURLs:  AdminURLs(candidates[0]),
		Logins:     DefaultLogins,
	}
}
