package vpcss

import (
	"fmt"
	"io"
	"os"

	"github.com/yacobolo/vpcss/internal/report"
)

// DetermineOutputFormat selects the lint output format from flags.
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	if quiet {
		return OutputIssues
	}
	switch formatFlag {
	case "issues":
		return OutputIssues
	case "summary":
		return OutputSummary
	case "full":
		return OutputFull
	case "json":
		return OutputJSON
	}
	return DetermineDefaultOutputFormat()
}

// DetermineDefaultOutputFormat returns issues only, like golangci-lint.
func DetermineDefaultOutputFormat() OutputFormat {
	return OutputIssues
}

// DetermineCompileFormat selects the compile output format from flags.
func DetermineCompileFormat(formatFlag string) (OutputFormat, error) {
	switch formatFlag {
	case "", "css":
		return OutputCSS, nil
	case "json":
		return OutputJSON, nil
	case "inline":
		return OutputInline, nil
	}
	return "", fmt.Errorf("unknown format %q (css|json|inline)", formatFlag)
}

// WriteOutput writes the lint result in format.
func WriteOutput(w io.Writer, result *LintResult, format OutputFormat, config LintConfig) {
	switch format {
	case OutputIssues:
		reporter := report.NewReporter(w, config.ReportConfig())
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(result.Issues, result.TruncatedCount)

	case OutputSummary:
		verbose := report.NewVerboseReporter(w, report.ShouldUseColors(config.UseColors))
		verbose.PrintStatistics(result.Stats)
		verbose.PrintWarnings(result.Warnings)

	case OutputFull:
		reporter := report.NewReporter(w, config.ReportConfig())
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(result.Issues, result.TruncatedCount)

		verbose := report.NewVerboseReporter(w, reporter.UseColors())
		verbose.PrintStatistics(result.Stats)
		verbose.PrintWarnings(result.Warnings)

	case OutputJSON:
		if err := report.WriteJSON(w, result.Issues, result.TruncatedCount, result.Stats); err != nil {
			os.Stderr.WriteString("Error writing JSON: " + err.Error() + "\n")
		}
	}
}
