package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCompletionCmd generates shell completion scripts for rootCmd.
func NewCompletionCmd(rootCmd *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate completion script",
		Long: `To load completions:

Bash:

  $ source <(cupv completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ cupv completion bash > /etc/bash_completion.d/cupv
  # macOS:
  $ cupv completion bash > /usr/local/etc/bash_completion.d/cupv

Zsh:

  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ cupv completion zsh > "${fpath[1]}/_cupv"

  # You will need to start a new shell for this setup to take effect.

Fish:

  $ cupv completion fish | source

  # To load completions for each session, execute once:
  $ cupv completion fish > ~/.config/fish/completions/cupv.fish

PowerShell:

  PS> cupv completion powershell | Out-String | Invoke-Expression

  # To load completions for each session, execute once:
  PS> cupv completion powershell > cupv.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return rootCmd.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}

// fixedValues completes a flag from a closed list.
func fixedValues(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// registerFlagCompletions wires value completion for the global flags.
func registerFlagCompletions(root *cobra.Command) {
	_ = root.RegisterFlagCompletionFunc("format", fixedValues("text", "json", "markdown"))
	_ = root.RegisterFlagCompletionFunc("log-level", fixedValues("debug", "info", "warn", "error"))
	_ = root.RegisterFlagCompletionFunc("log-format", fixedValues("text", "json"))
	_ = root.RegisterFlagCompletionFunc("rules", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	})
}
