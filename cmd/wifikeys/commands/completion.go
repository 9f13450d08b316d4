package commands

import (
	"github.com/spf13/cobra"
	"github.com/systmms/wifikeys/internal/config"
)

// NewCompletionCommand creates the completion command for generating shell completions.
func NewCompletionCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for wifikeys.

To load completions:

Bash:
  $ source <(wifikeys completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ wifikeys completion bash > /etc/bash_completion.d/wifikeys
  # macOS:
  $ wifikeys completion bash > $(brew --prefix)/etc/bash_completion.d/wifikeys

Zsh:
  $ wifikeys completion zsh > "${fpath[1]}/_wifikeys"

Fish:
  $ wifikeys completion fish > ~/.config/fish/completions/wifikeys.fish

PowerShell:
  PS> wifikeys completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}
