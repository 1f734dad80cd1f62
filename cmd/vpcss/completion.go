package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yacobolo/vpcss/internal/storage"
)

var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish|powershell]",
	Short:     "Generate shell completion scripts",
	Long:      `Generate shell completion scripts for vpcss commands, flags and stored block ids.`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(_ *cobra.Command, args []string) error {
		out := os.Stdout
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	// Block ids come from the store; edit only takes one.
	for _, cmd := range []*cobra.Command{saveCmd, restoreCmd, inspectCmd} {
		cmd.ValidArgsFunction = completeBlockIDs
	}
	editCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return completeBlockIDs(cmd, args, toComplete)
	}
}

// fixedCompletion completes a flag with a closed set of values.
func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp)
}

// completeBlockIDs lists stored block ids starting with toComplete, skipping
// ids already given.
func completeBlockIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = defaultDBPath
	}
	if _, err := os.Stat(path); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer db.Close()

	blocks, err := db.List(context.Background())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	given := map[string]bool{}
	for _, a := range args {
		given[a] = true
	}
	var ids []string
	for _, b := range blocks {
		if !given[b.ID] && strings.HasPrefix(b.ID, toComplete) {
			ids = append(ids, b.ID)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
