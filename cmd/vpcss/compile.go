package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/vpcss"
	"github.com/yacobolo/vpcss/internal/report"
)

var compileCmd = &cobra.Command{
	Use:     "compile [patterns...]",
	Aliases: []string{"build"},
	Short:   "Compile block documents into a media-query stylesheet",
	Long: `Load every block of the matched documents, resolve its cascade at each
breakpoint and emit one rule per run of identical declarations.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runCompile,
}

func init() {
	f := compileCmd.Flags()
	f.StringSlice("include", nil, "Glob patterns for block documents")
	f.StringP("output", "o", "", "Output file (default: stdout)")
	f.String("format", "css", "Output format: css|json|inline")
	f.String("selector", "", `Block selector format (default: [data-block="%s"])`)
	f.Bool("no-important", false, "Omit !important from declarations")
	f.Bool("validate", false, "Re-parse the stylesheet before writing it")
	f.Int("tablet", 0, "First tablet width in px")
	f.Int("desktop", 0, "First desktop width in px")
	f.Bool("lint", false, "Run linter after compiling")
	_ = compileCmd.RegisterFlagCompletionFunc("format", fixedCompletion("css", "json", "inline"))
}

func runCompile(cmd *cobra.Command, args []string) error {
	config, err := buildCompileConfig(args)
	if err != nil {
		return err
	}

	result, err := vpcss.Compile(config)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))

	if config.Output == "" {
		if !quiet {
			if err := vpcss.WriteCompileOutput(os.Stdout, result, config.Format); err != nil {
				return err
			}
		}
	} else if !quiet {
		fmt.Printf("%s %s\n", report.RenderStyle(report.StyleGreen, "✓ Compiled", useColors), config.Output)
		fmt.Printf("  Files scanned: %d\n", result.FilesScanned)
		fmt.Printf("  Blocks compiled: %d\n", result.BlocksCompiled)
		fmt.Printf("  Rules: %d\n", result.Spectrums)
		if result.GeneratedIDs > 0 {
			fmt.Printf("  Blocks without id: %d (run 'vpcss import --write-ids' to pin them)\n", result.GeneratedIDs)
		}
	}

	if !quiet {
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "%s %s\n", report.RenderStyle(report.StyleYellow, "Warning:", useColors), w)
		}
	}

	// Run lint after compile if --lint flag set
	if lint, _ := cmd.Flags().GetBool("lint"); lint {
		return runLint(args)
	}
	return nil
}
