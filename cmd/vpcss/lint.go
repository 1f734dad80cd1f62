package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/vpcss"
)

var lintCmd = &cobra.Command{
	Use:   "lint [patterns...]",
	Short: "Lint the viewport styles of block documents",
	Long: `Check block documents for overrides that repeat inherited values, ranges
that end before they start, empty fragments, unknown breakpoints and the
legacy viewports shape.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(_ *cobra.Command, args []string) error {
		return runLint(args)
	},
}

func init() {
	f := lintCmd.Flags()
	f.StringSlice("include", nil, "Glob patterns for block documents")
	f.Bool("strict", false, "Exit 1 on any issue (CI mode)")
	f.String("output-format", "", "Output format: issues|summary|full|json")
	f.Int("max-issues-per-linter", 0, "Max issues to show per linter (0=unlimited)")
	f.Int("max-same-issues", 0, "Max repeated issues to show (0=unlimited)")
	f.Bool("print-lines", true, "Show source lines with issues")
	f.Bool("print-linter-name", true, "Show (vplint) suffix on issues")
	_ = lintCmd.RegisterFlagCompletionFunc("output-format", fixedCompletion("issues", "summary", "full", "json"))
}

// runLint is shared between `vpcss lint` and `vpcss compile --lint`.
func runLint(args []string) error {
	lintConfig := buildLintConfig(args)

	lintResult, err := vpcss.Lint(lintConfig)
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	outputFormat := getStringWithFallback("output-format", "lint.output-format", "")
	format := vpcss.DetermineOutputFormat(outputFormat, quiet)

	if !quiet {
		vpcss.WriteOutput(os.Stdout, lintResult, format, lintConfig)
	}

	// Exit code logic - "Soft Gate" approach
	if lintConfig.Strict {
		// Strict mode: any issue (error, warning or info) fails the build
		if len(lintResult.Issues) > 0 {
			os.Exit(1)
		}
	} else if lintResult.ErrorCount > 0 {
		// Default mode: only errors fail the build
		os.Exit(1)
	}

	return nil
}
