package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand generates completion scripts for the user's shell.
func (c *CLI) completionCommand() *cobra.Command {
	var noDescriptions bool

	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for pkgsmith.

Bash:
  $ source <(pkgsmith completion bash)

  # To install permanently on Arch:
  $ pkgsmith completion bash > /usr/share/bash-completion/completions/pkgsmith

Zsh:
  $ pkgsmith completion zsh > "${fpath[1]}/_pkgsmith"

  # compinit must be enabled. If it is not:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

Fish:
  $ pkgsmith completion fish > ~/.config/fish/completions/pkgsmith.fish

PowerShell:
  PS> pkgsmith completion powershell | Out-String | Invoke-Expression
`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, !noDescriptions)
			case "zsh":
				if noDescriptions {
					return root.GenZshCompletionNoDesc(os.Stdout)
				}
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, !noDescriptions)
			case "powershell":
				if noDescriptions {
					return root.GenPowerShellCompletion(os.Stdout)
				}
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noDescriptions, "no-descriptions", false, "omit descriptions in completions")

	return cmd
}
