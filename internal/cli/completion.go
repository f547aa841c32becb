package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// completionCmd generates shell completion scripts for bacc.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for bacc.

To install completions:

  Bash (Linux):
    bacc completion bash | sudo tee /etc/bash_completion.d/bacc > /dev/null

  Bash (macOS with Homebrew):
    bacc completion bash > $(brew --prefix)/etc/bash_completion.d/bacc

  Zsh:
    bacc completion zsh > "${fpath[1]}/_bacc"
    # or
    bacc completion zsh > ~/.zsh/completions/_bacc

  Fish:
    bacc completion fish > ~/.config/fish/completions/bacc.fish

  PowerShell:
    bacc completion powershell > bacc.ps1
    # Then add ". bacc.ps1" to your PowerShell profile`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
