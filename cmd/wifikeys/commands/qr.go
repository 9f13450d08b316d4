package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/wifikeys/internal/config"
	dserrors "github.com/systmms/wifikeys/internal/errors"
	"github.com/systmms/wifikeys/internal/wifi"
	"github.com/systmms/wifikeys/internal/wifiqr"
)

func NewQRCommand(cfg *config.Config, rt *Runtime) *cobra.Command {
	var (
		ssid     string
		password string
		security string
		hidden   bool
		saved    string
	)

	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Build the WIFI: payload for a QR code",
		Long: `Build the WIFI: string that phones understand when scanning a QR code.

Paste the printed payload into any QR code generator, or pipe it to a tool
such as qrencode. Use --saved to take the password from a network saved on
this machine instead of typing it.

Examples:
  wifikeys qr --ssid HomeNet --password 's3cr3t!'
  wifikeys qr --saved HomeNet
  wifikeys qr --ssid "Airport Free WiFi" --security nopass
  qrencode -t ansiutf8 "$(wifikeys qr --saved HomeNet)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, err := wifiqr.ParseSecurity(security)
			if err != nil {
				return dserrors.UserError{
					Message:    "Invalid security type",
					Details:    err.Error(),
					Suggestion: "Use --security WPA, WEP or nopass",
				}
			}

			if saved != "" {
				if ssid == "" {
					ssid = saved
				}
				// open networks have nothing to look up
				if sec != wifiqr.NoPass {
					secret, err := savedSecret(cmd, cfg, rt, saved)
					if err != nil {
						return err
					}
					password = secret
				}
			}

			if ssid == "" {
				return dserrors.UserError{
					Message:    "Network name is required",
					Suggestion: "Use --ssid <name> or --saved <name>",
				}
			}
			if password == "" && sec != wifiqr.NoPass {
				return dserrors.UserError{
					Message:    "Password is required for " + string(sec) + " networks",
					Suggestion: "Use --password, --saved, or --security nopass for open networks",
				}
			}

			payload, err := wifiqr.Payload(wifiqr.Network{
				SSID:     ssid,
				Password: password,
				Security: sec,
				Hidden:   hidden,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), payload)
			cfg.Logger.Debug("Payload built for %s", ssid)
			return nil
		},
	}

	cmd.Flags().StringVar(&ssid, "ssid", "", "Network name")
	cmd.Flags().StringVar(&password, "password", "", "Network password")
	cmd.Flags().StringVar(&security, "security", "WPA", "Security type: WPA, WEP or nopass")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "The network does not broadcast its name")
	cmd.Flags().StringVar(&saved, "saved", "", "Take the password from this saved network")

	return cmd
}

// savedSecret extracts the password of one saved network
func savedSecret(cmd *cobra.Command, cfg *config.Config, rt *Runtime, ssid string) (string, error) {
	if err := cfg.Load(); err != nil {
		return "", err
	}

	backend, err := selectBackend(cfg, rt, rt.executor(cfg, nil))
	if err != nil {
		return "", err
	}

	summary, err := wifi.Collect(cmd.Context(), backend)
	if err != nil {
		return "", err
	}

	for _, r := range summary.Records {
		if r.Identifier != ssid {
			continue
		}
		if err := r.Err(); err != nil {
			return "", dserrors.UserError{
				Message:    fmt.Sprintf("No password available for saved network '%s'", ssid),
				Details:    r.Secret,
				Suggestion: "Run 'wifikeys retrieve' with elevated privileges to check access",
				Err:        err,
			}
		}
		return r.Secret, nil
	}

	return "", dserrors.UserError{
		Message:    fmt.Sprintf("Network '%s' is not saved on this machine", ssid),
		Suggestion: "Run 'wifikeys retrieve' to list saved networks",
	}
}
