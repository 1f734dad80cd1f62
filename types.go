package vpcss

import (
	"github.com/yacobolo/vpcss/internal/report"
	"github.com/yacobolo/vpcss/internal/spectrum"
	"github.com/yacobolo/vpcss/internal/viewport"
)

// Breakpoints configures the breakpoint registry.
type Breakpoints struct {
	Labels  map[int]string // breakpoint → label; empty uses the default ladder
	Tablet  int            // first tablet width (default 768)
	Desktop int            // first desktop width (default 1024)
}

// Registry builds the breakpoint registry.
func (b Breakpoints) Registry() *viewport.Registry {
	if len(b.Labels) == 0 {
		reg := viewport.DefaultRegistry()
		if b.Tablet > 0 {
			reg.Tablet = b.Tablet
		}
		if b.Desktop > 0 {
			reg.Desktop = b.Desktop
		}
		return reg
	}
	return viewport.NewRegistry(b.Labels, b.Tablet, b.Desktop)
}

// Config holds compile configuration.
type Config struct {
	Includes       []string     // document glob patterns
	Output         string       // output file; empty writes nothing
	Format         OutputFormat // css, json or inline
	Breakpoints    Breakpoints
	SelectorFormat string // printf format taking the block id
	NoImportant    bool   // omit !important
	Validate       bool   // re-parse the stylesheet before writing it
	Verbose        bool
}

// BlockResult is the compiled output of one block.
type BlockResult struct {
	ID     string           `json:"id"`
	File   string           `json:"file"`
	Result *spectrum.Result `json:"result"`
}

// CompileResult contains compile stats and per-block output.
type CompileResult struct {
	FilesScanned   int
	BlocksCompiled int
	Spectrums      int
	GeneratedIDs   int
	Warnings       []string
	Blocks         []BlockResult
}

// LintConfig holds lint configuration.
type LintConfig struct {
	Includes    []string
	Breakpoints Breakpoints
	Verbose     bool
	Strict      bool // exit with code 1 if issues are found

	MaxIssuesPerLinter int // 0 = unlimited
	MaxSameIssues      int // 0 = unlimited
	PrintIssuedLines   bool
	PrintLinterName    bool
	UseColors          bool
}

// ReportConfig returns the reporter settings of c.
func (c LintConfig) ReportConfig() report.Config {
	return report.Config{
		PrintIssuedLines: c.PrintIssuedLines,
		PrintLinterName:  c.PrintLinterName,
		UseColors:        c.UseColors,
	}
}

// LintResult contains lint findings.
type LintResult struct {
	Issues           []Issue
	IssuesByCategory map[string][]Issue
	Stats            report.Stats
	ErrorCount       int
	TruncatedCount   int
	Warnings         []string
}

// OutputFormat selects compile or lint output.
type OutputFormat string

const (
	// OutputCSS writes one stylesheet (compile).
	OutputCSS OutputFormat = "css"
	// OutputInline writes inline styles per block, property and breakpoint (compile).
	OutputInline OutputFormat = "inline"
	// OutputIssues shows only issues in golangci-lint format (lint).
	OutputIssues OutputFormat = "issues"
	// OutputSummary shows statistics only (lint).
	OutputSummary OutputFormat = "summary"
	// OutputFull shows issues and statistics (lint).
	OutputFull OutputFormat = "full"
	// OutputJSON exports structured data (compile and lint).
	OutputJSON OutputFormat = "json"
)

// PropertyCategory groups CSS properties for display.
type PropertyCategory string

// Property categories.
const (
	CategoryLayout     PropertyCategory = "Layout"
	CategoryVisual     PropertyCategory = "Visual"
	CategoryTypography PropertyCategory = "Typography"
	CategoryEffects    PropertyCategory = "Effects"
	CategoryInternal   PropertyCategory = "Internal"
)

// CategorizedProperty is one resolved leaf with its category.
type CategorizedProperty struct {
	Path     string
	Name     string // CSS name of the last path key
	Value    any
	Category PropertyCategory
	IsToken  bool // value references a custom property
}
