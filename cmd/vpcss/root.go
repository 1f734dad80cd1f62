package main

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vpcss",
	Short: "Viewport style cascade and media-query compiler for blocks",
	Long: `Blocks carry a base style plus overrides per breakpoint and range.
vpcss resolves the cascade at every breakpoint and compiles it into the
fewest media-query rules, one run per property and selector.`,
	// Default behavior: run compile when no subcommand is given.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runCompile(compileCmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress all output (exit code only)")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("config", ".vpcss.yaml", "Config file path")
	rootCmd.PersistentFlags().String("db", defaultDBPath, "Block store path")
	rootCmd.PersistentFlags().String("trace", "", "Engine trace level: error|info|debug")
	_ = rootCmd.RegisterFlagCompletionFunc("trace", fixedCompletion("error", "info", "debug"))

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupTracing routes engine traces to stderr at the configured level.
// Without a level the engine stays silent.
func setupTracing() {
	level := getStringWithFallback("trace", "trace", "")
	if level == "" {
		return
	}
	tr := gologadapter.New()
	tr.SetTraceLevel(tracing.TraceLevelFromString(level))
	tracing.SetTraceSelector(tracing.SelectorForAdapter(func() tracing.Trace { return tr }))
}
