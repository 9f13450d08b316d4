package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/wifikeys/internal/testutil"
)

const ipconfigOutput = "\r\n" +
	"Windows IP Configuration\r\n" +
	"\r\n" +
	"Wireless LAN adapter Wi-Fi:\r\n" +
	"\r\n" +
	"   Connection-specific DNS Suffix  . : home\r\n" +
	"   IPv6 Address. . . . . . . . . . . : fd00::1c4f\r\n" +
	"   IPv4 Address. . . . . . . . . . . : 192.168.0.23\r\n" +
	"   Subnet Mask . . . . . . . . . . . : 255.255.255.0\r\n" +
	"   Default Gateway . . . . . . . . . : fe80::1%12\r\n" +
	"                                       192.168.0.1\r\n" +
	"\r\n" +
	"Ethernet adapter Ethernet:\r\n" +
	"\r\n" +
	"   IPv4 Address. . . . . . . . . . . : 10.1.0.5\r\n" +
	"   Default Gateway . . . . . . . . . : 10.1.0.1\r\n"

const ipRouteOutput = "default via 192.168.1.254 dev wlp2s0 proto dhcp metric 600\n" +
	"169.254.0.0/16 dev wlp2s0 scope link metric 1000\n" +
	"192.168.1.0/24 dev wlp2s0 proto kernel scope link src 192.168.1.40 metric 600\n"

const netstatDarwin = "Routing tables\n" +
	"\n" +
	"Internet:\n" +
	"Destination        Gateway            Flags        Netif Expire\n" +
	"default            10.0.1.1           UGScg          en0\n" +
	"10.0.1/24          link#6             UCS            en0      !\n"

const netstatLinux = "Kernel IP routing table\n" +
	"Destination     Gateway         Genmask         Flags   MSS Window  irtt Iface\n" +
	"0.0.0.0         192.168.2.1     0.0.0.0         UG        0 0          0 eth0\n" +
	"192.168.2.0     0.0.0.0         255.255.255.0   U         0 0          0 eth0\n"

func TestParseIPConfig(t *testing.T) {
	t.Parallel()

	gw, ok := ParseIPConfig(ipconfigOutput)
	require.True(t, ok)
	assert.Equal(t, "10.1.0.1", gw, "IPv6 gateway lines are skipped until an IPv4 one follows the label")

	gw, ok = ParseIPConfig("   Default Gateway . . . . . . . . . : 192.168.0.1\r\n")
	require.True(t, ok)
	assert.Equal(t, "192.168.0.1", gw)

	_, ok = ParseIPConfig("Media State . . . : Media disconnected\r\n")
	assert.False(t, ok)
}

func TestParseIPRoute(t *testing.T) {
	t.Parallel()

	gw, ok := ParseIPRoute(ipRouteOutput)
	require.True(t, ok)
	assert.Equal(t, "192.168.1.254", gw)

	_, ok = ParseIPRoute("192.168.1.0/24 dev wlp2s0 proto kernel scope link\n")
	assert.False(t, ok)
}

func TestParseNetstat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		output string
		want   string
		ok     bool
	}{
		{name: "darwin", output: netstatDarwin, want: "10.0.1.1", ok: true},
		{name: "linux", output: netstatLinux, want: "192.168.2.1", ok: true},
		{
			name: "connected route listed first",
			output: "Destination     Gateway         Genmask         Flags Iface\n" +
				"192.168.1.0     0.0.0.0         255.255.255.0   U     eth0\n" +
				"0.0.0.0         192.168.1.1     0.0.0.0         UG    eth0\n",
			want: "192.168.1.1",
			ok:   true,
		},
		{name: "only connected routes", output: "192.168.1.0 0.0.0.0 255.255.255.0 U eth0\n", ok: false},
		{name: "no default route", output: "Destination Gateway\n10.0.1/24 link#6\n", ok: false},
		{name: "empty", output: "", ok: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseNetstat(tt.output)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultGateway_Windows(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockCommandExecutor()
	mock.AddOutput("ipconfig", "   Default Gateway . . . . . . . . . : 192.168.0.1\r\n")

	gw, err := NewLocator("windows", mock, nil).DefaultGateway(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "192.168.0.1", gw)
	assert.Equal(t, []string{"ipconfig"}, mock.Lines())
}

func TestDefaultGateway_KernelRouteTable(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockCommandExecutor()
	l := NewLocator("linux", mock, nil)
	l.routeTable = func() (string, error) { return "192.168.1.1", nil }

	gw, err := l.DefaultGateway(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.1", gw)
	assert.Zero(t, mock.CallCount())
}

func TestDefaultGateway_CommandFallback(t *testing.T) {
	t.Parallel()

	t.Run("ip route", func(t *testing.T) {
		t.Parallel()

		mock := testutil.NewMockCommandExecutor()
		mock.AddOutput("ip route", ipRouteOutput)
		l := NewLocator("linux", mock, nil)
		l.routeTable = func() (string, error) { return "", errors.New("netlink: operation not permitted") }

		gw, err := l.DefaultGateway(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "192.168.1.254", gw)
		mock.AssertNotCalled(t, "netstat")
	})

	t.Run("ip missing", func(t *testing.T) {
		t.Parallel()

		mock := testutil.NewMockCommandExecutor()
		mock.AddNotFound("ip route")
		mock.AddOutput("netstat -rn", netstatDarwin)

		gw, err := NewLocator("darwin", mock, nil).DefaultGateway(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "10.0.1.1", gw)
		assert.Equal(t, []string{"ip route", "netstat -rn"}, mock.Lines())
	})

	t.Run("nothing found", func(t *testing.T) {
		t.Parallel()

		mock := testutil.NewMockCommandExecutor()
		mock.AddNotFound("ip route")
		mock.AddNotFound("netstat -rn")

		_, err := NewLocator("darwin", mock, nil).DefaultGateway(context.Background())
		assert.ErrorIs(t, err, ErrNoGateway)
	})
}

func TestLocate(t *testing.T) {
	t.Parallel()

	t.Run("gateway leads candidates", func(t *testing.T) {
		t.Parallel()

		mock := testutil.NewMockCommandExecutor()
		mock.AddOutput("ipconfig", "   Default Gateway . . . . . . . . . : 192.168.0.1\r\n")

		report := NewLocator("windows", mock, nil).Locate(context.Background())
		assert.Equal(t, "192.168.0.1", report.Gateway)
		assert.Equal(t, "192.168.0.1", report.Candidates[0])
		assert.Len(t, report.Candidates, len(CommonIPs))
		assert.Equal(t, []string{"http://192.168.0.1", "https://192.168.0.1"}, report.AdminURLs)
		assert.Equal(t, DefaultLogins, report.Logins)
	})

	t.Run("no gateway", func(t *testing.T) {
		t.Parallel()

		mock := testutil.NewMockCommandExecutor()
		mock.AddErrorResponse("ipconfig", "access denied", 1)

		report := NewLocator("windows", mock, nil).Locate(context.Background())
		assert.Empty(t, report.Gateway)
		assert.Equal(t, CommonIPs, report.Candidates)
		assert.Equal(t, AdminURLs("192.168.1.1"), report.AdminURLs)
	})
}

func TestDefaultLogins(t *testing.T) {
	t.Parallel()

	assert.Len(t, DefaultLogins, 10)
	assert.Equal(t, Login{Username: "admin", Password: "admin"}, DefaultLogins[0])
	assert.Equal(t, Login{}, DefaultLogins[len(DefaultLogins)-1])
}
