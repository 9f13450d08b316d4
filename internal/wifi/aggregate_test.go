package wifi_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/wifikeys/internal/testutil"
	"github.com/systmms/wifikeys/internal/wifi"
	pkgexec "github.com/systmms/wifikeys/pkg/exec"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	records := []wifi.Record{
		{Identifier: "HomeNet", Secret: "s3cr3t!", Retrievability: wifi.Found},
		{Identifier: "OpenNet", Secret: wifi.SecretNoPSK, Retrievability: wifi.NotFound},
		{Identifier: "Corp", Secret: wifi.SecretWindowsFailed, Retrievability: wifi.Unauthorized},
		{Identifier: "Cafe", Secret: "guestpass", Retrievability: wifi.Found},
	}

	s := wifi.Summarize(records)
	assert.Equal(t, records, s.Records)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Found)
	assert.Equal(t, 1, s.NotFound)
	assert.Equal(t, 1, s.Unauthorized)

	empty := wifi.Summarize(nil)
	assert.Equal(t, []wifi.Record{}, empty.Records)
	assert.Zero(t, empty.Total)
}

func TestSummaryJSON(t *testing.T) {
	t.Parallel()

	s := wifi.Summarize([]wifi.Record{{Identifier: "HomeNet", Secret: "s3cr3t!", Retrievability: wifi.Found}})
	s.Platform = wifi.PlatformWindows

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"platform": "windows",
		"records": [{"ssid": "HomeNet", "password": "s3cr3t!", "retrievability": "found"}],
		"total": 1, "found": 1, "not_found": 0, "unauthorized": 0
	}`, string(data))
}

func TestCollect_Windows(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockCommandExecutor()
	mock.AddOutput("netsh wlan show profiles", testutil.NetshProfiles)
	mock.AddOutput("netsh wlan show profile HomeNet key=clear", testutil.NetshProfileDetail("HomeNet", "s3cr3t!"))
	mock.AddOutput("netsh wlan show profile Coffee Shop: 2nd Floor key=clear", testutil.NetshOpenProfileDetail)

	backend, err := wifi.Select("windows", wifi.Options{Executor: mock})
	require.NoError(t, err)

	s, err := wifi.Collect(context.Background(), backend)
	require.NoError(t, err)
	assert.Equal(t, wifi.PlatformWindows, s.Platform)
	assert.Equal(t, []wifi.Record{
		{Identifier: "HomeNet", Secret: "s3cr3t!", Retrievability: wifi.Found},
		{Identifier: "Coffee Shop: 2nd Floor", Secret: "No password found", Retrievability: wifi.NotFound},
	}, s.Records)
	assert.Equal(t, 1, s.Found)
	assert.Equal(t, 1, s.NotFound)
}

func TestCollect_NetworkManager(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockCommandExecutor()
	mock.AddOutput("sudo ls "+nmDir, "Cafe.nmconnection\nOpenNet.nmconnection\nBroken.nmconnection\n")
	mock.AddOutput("sudo cat "+nmDir+"/Cafe.nmconnection", testutil.NMKeyfile("Cafe", "Cafe", "guestpass"))
	mock.AddOutput("sudo cat "+nmDir+"/OpenNet.nmconnection", testutil.NMKeyfile("OpenNet", "OpenNet", ""))
	mock.AddErrorResponse("sudo cat "+nmDir+"/Broken.nmconnection", "cat: Permission denied", 1)

	s, err := wifi.Collect(context.Background(), newNetworkManager(mock, "sudo"))
	require.NoError(t, err)
	assert.Equal(t, []wifi.Record{
		{Identifier: "Cafe", Secret: "guestpass", Retrievability: wifi.Found},
		{Identifier: "OpenNet", Secret: wifi.SecretNoPSK, Retrievability: wifi.NotFound},
		{Identifier: "Broken.nmconnection", Secret: wifi.SecretUnreadable, Retrievability: wifi.NotFound},
	}, s.Records)
	assert.Equal(t, 3, s.Total)
}

func TestCollect_EnumerationDenied(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockCommandExecutor()
	mock.AddErrorResponse("sudo ls "+nmDir, "sudo: a password is required", 1)

	s, err := wifi.Collect(context.Background(), newNetworkManager(mock, "sudo"))
	require.Error(t, err)
	assert.ErrorIs(t, err, wifi.ErrAccessDenied)
	assert.Empty(t, s.Records)
	assert.Zero(t, s.Total)
	assert.Equal(t, wifi.PlatformLinux, s.Platform)
	mock.AssertCallCount(t, "sudo", 1)
}

func TestCollect_OneRecordPerIdentifier(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockCommandExecutor()
	mock.AddOutput(airportScanCmd, testutil.AirportScan)
	mock.AddOutput(preferredCmd, testutil.PreferredNetworks)
	mock.AddResponse("security find-generic-password -ga A", testutil.MockResponse{Stderr: []byte(testutil.SecurityPassword("A", "alpha-key"))})
	mock.AddResponse("security find-generic-password -ga B", testutil.MockResponse{Err: assert.AnError})

	s, err := wifi.Collect(context.Background(), newMacOS(mock))
	require.NoError(t, err)

	ids := make([]string, 0, len(s.Records))
	for _, r := range s.Records {
		ids = append(ids, r.Identifier)
	}
	assert.Equal(t, []string{"A", "B", "C"}, ids)
	assert.Equal(t, s.Total, s.Found+s.NotFound+s.Unauthorized)
	mock.AssertCallCount(t, "security", 3)
}

func TestCollect_Idempotent(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockCommandExecutor()
	mock.AddOutput("netsh wlan show profiles", testutil.NetshProfiles)
	mock.AddOutput("netsh wlan show profile HomeNet key=clear", testutil.NetshProfileDetail("HomeNet", "s3cr3t!"))

	backend := newWindows(mock)
	first, err := wifi.Collect(context.Background(), backend)
	require.NoError(t, err)
	second, err := wifi.Collect(context.Background(), backend)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// stallingExecutor blocks on one command line until its context expires.
type stallingExecutor struct {
	*testutil.MockCommandExecutor
	stall string
}

func (s stallingExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	if (testutil.RecordedCall{Command: name, Args: args}).Line() == s.stall {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}
	return s.MockCommandExecutor.Execute(ctx, name, args...)
}

func TestCollect_TimeoutIsolated(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockCommandExecutor()
	mock.AddOutput(airportScanCmd, testutil.AirportScan)
	mock.AddOutput(preferredCmd, testutil.PreferredNetworks)
	mock.AddResponse("security find-generic-password -ga A", testutil.MockResponse{Stderr: []byte(testutil.SecurityPassword("A", "alpha-key"))})
	mock.AddResponse("security find-generic-password -ga C", testutil.MockResponse{Stderr: []byte(testutil.SecurityPassword("C", "charlie-key"))})

	executor := pkgexec.WithTimeout(stallingExecutor{mock, "security find-generic-password -ga B"}, 20*time.Millisecond)
	backend := wifi.NewMacOSBackend(wifi.Options{Executor: executor})

	s, err := wifi.Collect(context.Background(), backend)
	require.NoError(t, err)
	assert.Equal(t, []wifi.Record{
		{Identifier: "A", Secret: "alpha-key", Retrievability: wifi.Found},
		{Identifier: "B", Secret: wifi.SecretMacOSUnauthorized, Retrievability: wifi.Unauthorized},
		{Identifier: "C", Secret: "charlie-key", Retrievability: wifi.Found},
	}, s.Records)
}

func TestCollect_EnumerationTimeout(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockCommandExecutor()
	executor := pkgexec.WithTimeout(stallingExecutor{mock, "netsh wlan show profiles"}, 20*time.Millisecond)

	s, err := wifi.Collect(context.Background(), wifi.NewWindowsBackend(wifi.Options{Executor: executor}))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out")
	assert.Empty(t, s.Records)
}
