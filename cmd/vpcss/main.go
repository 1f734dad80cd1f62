// Package main provides the vpcss CLI for compiling, linting and editing
// viewport styles of blocks.
package main

import (
	"fmt"
	"os"

	"github.com/yacobolo/vpcss/internal/report"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))
		fmt.Fprintf(os.Stderr, "%s %v\n", report.RenderStyle(report.StyleRed, "Error:", useColors), err)
		os.Exit(1)
	}
}
