package report

import (
	"fmt"
	"io"
)

// Stats are the counters of one lint run.
type Stats struct {
	FilesScanned     int `json:"files_scanned"`
	BlocksScanned    int `json:"blocks_scanned"`
	BlocksWithIssues int `json:"blocks_with_issues"`
	Addresses        int `json:"addresses"`
	LegacyBlocks     int `json:"legacy_blocks"`
	GeneratedIDs     int `json:"generated_ids"`
}

// VerboseReporter prints statistics and warnings.
type VerboseReporter struct {
	w         io.Writer
	useColors bool
}

// NewVerboseReporter creates a verbose reporter.
func NewVerboseReporter(w io.Writer, useColors bool) *VerboseReporter {
	return &VerboseReporter{w: w, useColors: useColors}
}

// PrintStatistics prints the run counters.
func (r *VerboseReporter) PrintStatistics(stats Stats) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Viewport Style Statistics", r.useColors))
	fmt.Fprintln(r.w, "-------------------------")

	fmt.Fprintf(r.w, "Files Scanned:       %d\n", stats.FilesScanned)
	fmt.Fprintf(r.w, "Blocks Scanned:      %d\n", stats.BlocksScanned)
	fmt.Fprintf(r.w, "Blocks With Issues:  %d\n", stats.BlocksWithIssues)
	fmt.Fprintf(r.w, "Viewport Fragments:  %d\n", stats.Addresses)
	fmt.Fprintf(r.w, "Legacy Shape Blocks: %d\n", stats.LegacyBlocks)
	fmt.Fprintf(r.w, "Generated IDs:       %d\n", stats.GeneratedIDs)
}

// PrintWarnings prints non-issue warnings such as unreadable files.
func (r *VerboseReporter) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "--------")
	for _, warning := range warnings {
		fmt.Fprintf(r.w, "• %s\n", warning)
	}
}
