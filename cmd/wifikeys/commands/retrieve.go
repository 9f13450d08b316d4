package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/systmms/wifikeys/internal/config"
	"github.com/systmms/wifikeys/internal/wifi"
)

const maskedSecret = "********"

func NewRetrieveCommand(cfg *config.Config, rt *Runtime) *cobra.Command {
	var (
		jsonOutput bool
		reveal     bool
	)

	cmd := &cobra.Command{
		Use:   "retrieve",
		Short: "Print the passwords of saved WiFi networks",
		Long: `Retrieve the passwords of every WiFi network saved on this machine.

Windows:  reads profiles with netsh (run from an Administrator prompt)
Linux:    reads NetworkManager keyfiles (needs sudo unless run as root)
macOS:    reads the keychain (you may be asked to authorize each network)

Examples:
  # Table output
  wifikeys retrieve

  # Machine readable output without passwords
  wifikeys retrieve --json --reveal=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration
			if err := cfg.Load(); err != nil {
				return err
			}

			m := newMetrics(cfg)
			backend, err := selectBackend(cfg, rt, rt.executor(cfg, m))
			if err != nil {
				return err
			}
			cfg.Logger.Info("Detected %s system", platformName(backend.Platform()))

			summary, err := wifi.Collect(cmd.Context(), backend)
			if err != nil {
				cfg.Logger.Error("%v", err)
			}

			m.RecordSummary(summary)
			flushMetrics(cfg, m)

			if !reveal {
				summary = maskSecrets(summary)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			displayRecords(out, summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output records as JSON")
	cmd.Flags().BoolVar(&reveal, "reveal", true, "Show passwords in clear text")

	return cmd
}

// maskSecrets hides retrieved passwords and keeps diagnostic sentinels
func maskSecrets(s wifi.Summary) wifi.Summary {
	masked := make([]wifi.Record, len(s.Records))
	for i, r := range s.Records {
		if r.Retrievability == wifi.Found {
			r.Secret = maskedSecret
		}
		masked[i] = r
	}
	s.Records = masked
	return s
}

func displayRecords(out io.Writer, s wifi.Summary) {
	if s.Total == 0 {
		_, _ = fmt.Fprintln(out, "No WiFi passwords were retrieved.")
		_, _ = fmt.Fprintln(out, "This could be due to:")
		_, _ = fmt.Fprintln(out, "  - Insufficient privileges (try running as admin/sudo)")
		_, _ = fmt.Fprintln(out, "  - No saved WiFi profiles on this system")
		_, _ = fmt.Fprintln(out, "  - System configuration differences")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "SSID\tPASSWORD\tSTATUS\n")
	_, _ = fmt.Fprintf(w, "----\t--------\t------\n")
	for _, r := range s.Records {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", r.Identifier, r.Secret, statusLabel(r.Retrievability))
	}
	_ = w.Flush()

	rule := strings.Repeat("=", 50)
	_, _ = fmt.Fprintf(out, "\n%s\n", rule)
	_, _ = fmt.Fprintf(out, "Total passwords retrieved: %d\n", s.Total)
	if s.NotFound+s.Unauthorized > 0 {
		_, _ = fmt.Fprintf(out, "With a password: %d, without: %d, not authorized: %d\n", s.Found, s.NotFound, s.Unauthorized)
	}
	_, _ = fmt.Fprintln(out, rule)
}

func statusLabel(r wifi.Retrievability) string {
	switch r {
	case wifi.Found:
		return "✓ found"
	case wifi.Unauthorized:
		return "✗ unauthorized"
	default:
		return "? not found"
	}
}
