package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand prints a shell completion script.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell.

  bash:        source <(reelstack completion bash)
  zsh:         reelstack completion zsh > "${fpath[1]}/_reelstack"
  fish:        reelstack completion fish > ~/.config/fish/completions/reelstack.fish
  powershell:  reelstack completion powershell | Out-String | Invoke-Expression

Project ids complete from the configured store for render, inspect and edit.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeProjectIDs offers stored project ids for the first argument.
func (c *CLI) completeProjectIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if c.Config == nil {
		if err := c.loadConfig(cmd); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
	}
	store, err := c.openStore(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	defer store.Close()
	summaries, err := store.List(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	ids := make([]string, 0, len(summaries))
	for _, s := range summaries {
		ids = append(ids, s.ID+"\t"+s.Name)
	}
	// Files stay completable since every command also accepts a JSON path.
	return ids, cobra.ShellCompDirectiveDefault
}
