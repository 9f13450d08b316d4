package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/systmms/wifikeys/internal/config"
	"github.com/systmms/wifikeys/internal/router"
)

func NewRouterCommand(cfg *config.Config, rt *Runtime) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "router",
		Short: "Locate the router admin panel",
		Long: `Find the router's address and list what you need to log into its admin panel.

The default gateway is detected from the kernel route table on Linux, and
from ipconfig, ip route or netstat elsewhere. When detection fails, the
common factory addresses are listed instead. Nothing is sent over the network.

Once logged in, the WiFi password is usually under Wireless, WLAN or
Security settings, labelled Network Key, Passphrase or Pre-Shared Key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			m := newMetrics(cfg)
			locator := router.NewLocator(rt.GOOS, rt.executor(cfg, m), cfg.Logger)
			report := locator.Locate(cmd.Context())
			flushMetrics(cfg, m)

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			displayRouterReport(out, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")

	return cmd
}

func displayRouterReport(out io.Writer, report router.Report) {
	if report.Gateway != "" {
		_, _ = fmt.Fprintf(out, "Router IP: %s (detected)\n", report.Gateway)
	} else {
		_, _ = fmt.Fprintln(out, "Could not detect the router IP automatically.")
	}

	_, _ = fmt.Fprintln(out, "\nAdmin panel:")
	for _, url := range report.AdminURLs {
		_, _ = fmt.Fprintf(out, "  %s\n", url)
	}

	_, _ = fmt.Fprintln(out, "\nAddresses to try:")
	for i, ip := range report.Candidates {
		_, _ = fmt.Fprintf(out, "  %2d. %s\n", i+1, ip)
	}

	_, _ = fmt.Fprintln(out, "\nCommon default logins:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "  USERNAME\tPASSWORD\n")
	_, _ = fmt.Fprintf(w, "  --------\t--------\n")
	for _, login := range report.Logins {
		_, _ = fmt.Fprintf(w, "  %s\t%s\n", blankLabel(login.Username), blankLabel(login.Password))
	}
	_ = w.Flush()

	_, _ = fmt.Fprintln(out, "\nIf none of these work, check the sticker on your router.")
}

func blankLabel(s string) string {
	if s == "" {
		return "(blank)"
	}
	return s
}
