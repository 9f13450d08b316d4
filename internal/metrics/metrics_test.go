package metrics

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mockexec "github.com/systmms/wifikeys/internal/testutil"
	"github.com/systmms/wifikeys/internal/wifi"
	pkgexec "github.com/systmms/wifikeys/pkg/exec"
)

func TestRecordSummary(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordSummary(wifi.Summary{
		Platform: wifi.PlatformLinux,
		Records: []wifi.Record{
			{Identifier: "Cafe", Secret: "guestpass", Retrievability: wifi.Found},
			{Identifier: "Home", Secret: "hunter22", Retrievability: wifi.Found},
			{Identifier: "OpenNet", Secret: wifi.SecretNoPSK, Retrievability: wifi.NotFound},
		},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.recordsTotal.WithLabelValues("linux", "found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recordsTotal.WithLabelValues("linux", "not_found")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.recordsTotal))
}

func TestInstrument(t *testing.T) {
	t.Parallel()

	mock := mockexec.NewMockCommandExecutor()
	mock.AddOutput("netsh wlan show profiles", "")
	mock.AddErrorResponse("netsh wlan show profile Corp key=clear", "denied", 1)
	mock.AddNotFound("/usr/local/bin/airport -s")

	m := New()
	executor := m.Instrument(mock)
	ctx := context.Background()

	_, _, err := executor.Execute(ctx, "netsh", "wlan", "show", "profiles")
	require.NoError(t, err)
	_, _, err = executor.Execute(ctx, "netsh", "wlan", "show", "profile", "Corp", "key=clear")
	require.Error(t, err)
	_, _, err = executor.Execute(ctx, "/usr/local/bin/airport", "-s")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.commandsTotal.WithLabelValues("netsh", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commandsTotal.WithLabelValues("netsh", StatusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commandsTotal.WithLabelValues("airport", StatusUnavailable)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.commandDuration))
}

type expiringExecutor struct{}

func (expiringExecutor) Execute(ctx context.Context, _ string, _ ...string) ([]byte, []byte, error) {
	<-ctx.Done()
	return nil, nil, ctx.Err()
}

func TestInstrument_Timeout(t *testing.T) {
	t.Parallel()

	m := New()
	executor := m.Instrument(pkgexec.WithTimeout(expiringExecutor{}, 10*time.Millisecond))

	_, _, err := executor.Execute(context.Background(), "security", "find-generic-password", "-ga", "B")
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commandsTotal.WithLabelValues("security", StatusTimeout)))
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordCommand("netsh", StatusOK, 0.2)
	m.RecordSummary(wifi.Summarize([]wifi.Record{{Identifier: "HomeNet", Retrievability: wifi.Found}}))

	path := filepath.Join(t.TempDir(), "wifikeys.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `wifikeys_commands_total{command="netsh",status="ok"} 1`)
	assert.Contains(t, content, "wifikeys_command_duration_seconds_bucket")
	assert.Contains(t, content, `wifikeys_records_total{platform="",retrievability="found"} 1`)

	expected := `
# HELP wifikeys_commands_total Total number of native commands executed
# TYPE wifikeys_commands_total counter
wifikeys_commands_total{command="netsh",status="ok"} 1
`
	require.NoError(t, testutil.CollectAndCompare(m.commandsTotal, strings.NewReader(expected)))
}

func TestNilMetrics(t *testing.T) {
	t.Parallel()

	var m *Metrics
	mock := mockexec.NewMockCommandExecutor()

	assert.Same(t, mock, m.Instrument(mock))
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "unused.prom")))
	assert.NotPanics(t, func() {
		m.RecordCommand("netsh", StatusOK, 1)
		m.RecordSummary(wifi.Summary{})
	})
}
