package wifiqr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/wifikeys/internal/wifiqr"
)

func TestEscape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "HomeNet", want: "HomeNet"},
		{in: `a\b`, want: `a\\b`},
		{in: "a;b,c:d", want: `a\;b\,c\:d`},
		{in: `\;`, want: `\\\;`},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, wifiqr.Escape(tt.in))
		})
	}
}

func TestPayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		network wifiqr.Network
		want    string
	}{
		{
			name:    "wpa",
			network: wifiqr.Network{SSID: "HomeNet", Password: "s3cr3t!", Security: wifiqr.WPA},
			want:    "WIFI:T:WPA;S:HomeNet;P:s3cr3t!;;",
		},
		{
			name:    "default security",
			network: wifiqr.Network{SSID: "HomeNet", Password: "s3cr3t!"},
			want:    "WIFI:T:WPA;S:HomeNet;P:s3cr3t!;;",
		},
		{
			name:    "escaped fields",
			network: wifiqr.Network{SSID: "Coffee Shop: 2nd Floor", Password: `semi;colon,back\slash`, Security: wifiqr.WEP},
			want:    `WIFI:T:WEP;S:Coffee Shop\: 2nd Floor;P:semi\;colon\,back\\slash;;`,
		},
		{
			name:    "open network drops password",
			network: wifiqr.Network{SSID: "Airport Free WiFi", Password: "ignored", Security: wifiqr.NoPass},
			want:    "WIFI:T:nopass;S:Airport Free WiFi;P:;;",
		},
		{
			name:    "hidden",
			network: wifiqr.Network{SSID: "Stealth", Password: "pw", Hidden: true},
			want:    "WIFI:T:WPA;S:Stealth;P:pw;H:true;;",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := wifiqr.Payload(tt.network)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPayload_EmptySSID(t *testing.T) {
	t.Parallel()

	_, err := wifiqr.Payload(wifiqr.Network{Password: "pw"})
	assert.ErrorIs(t, err, wifiqr.ErrEmptySSID)
}

func TestParseSecurity(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]wifiqr.Security{
		"":       wifiqr.WPA,
		"WPA":    wifiqr.WPA,
		"wpa2":   wifiqr.WPA,
		"WEP":    wifiqr.WEP,
		"nopass": wifiqr.NoPass,
		"open":   wifiqr.NoPass,
	} {
		got, err := wifiqr.ParseSecurity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := wifiqr.ParseSecurity("WPA-EAP")
	assert.Error(t, err)
}
