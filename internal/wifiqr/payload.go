// Package wifiqr renders the WIFI: onboarding string phones read from QR codes.
package wifiqr

import (
	"errors"
	"fmt"
	"strings"
)

// Security is the T: field of the payload
type Security string

const (
	WPA    Security = "WPA"
	WEP    Security = "WEP"
	NoPass Security = "nopass"
)

// ErrEmptySSID is returned for a network without a name
var ErrEmptySSID = errors.New("ssid is required")

// ParseSecurity accepts WPA, WEP and nopass in any case. Empty means WPA.
func ParseSecurity(s string) (Security, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wpa", "wpa2", "wpa3":
		return WPA, nil
	case "wep":
		return WEP, nil
	case "nopass", "none", "open":
		return NoPass, nil
	default:
		return "", fmt.Errorf("unknown security type %q (use WPA, WEP or nopass)", s)
	}
}

// Network holds the fields encoded in a payload
type Network struct {
	SSID     string
	Password string
	Security Security
	Hidden   bool
}

var escaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`, `:`, `\:`)

// Escape backslash-escapes the characters reserved by the payload format
func Escape(s string) string {
	return escaper.Replace(s)
}

// Payload renders n as WIFI:T:<security>;S:<ssid>;P:<password>;[H:true;];
// An open network always carries an empty password.
func Payload(n Network) (string, error) {
	if n.SSID == "" {
		return "", ErrEmptySSID
	}

	security := n.Security
	if security == "" {
		security = WPA
	}
	password := n.Password
	if security == NoPass {
		password = ""
	}

	var b strings.Builder
	b.WriteString("WIFI:T:")
	b.WriteString(string(security))
	b.WriteString(";S:")
	b.WriteString(Escape(n.SSID))
	b.WriteString(";P:")
	b.WriteString(Escape(password))
	b.WriteString(";")
	if n.Hidden {
		b.WriteString("H:true;")
	}
	b.WriteString(";")
	return b.String(), nil
}
