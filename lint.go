package vpcss

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/yacobolo/vpcss/internal/cascade"
	"github.com/yacobolo/vpcss/internal/report"
	"github.com/yacobolo/vpcss/internal/style"
	"github.com/yacobolo/vpcss/internal/viewport"
)

// Lint checks the viewport styles of every block in the matched documents.
//
// Findings:
//
//   - redundant-override: a fragment leaf repeats the value its breakpoint
//     inherits without it
//   - expired-range:      a range ends below its breakpoint and never applies
//   - empty-fragment:     a breakpoint or range entry holds no style
//   - unknown-breakpoint: a breakpoint the registry does not list
//   - invalid-breakpoint: a viewports key that is not a width
//   - legacy-shape:       viewports written breakpoint → style
//   - missing-id:         a block without id
func Lint(config LintConfig) (*LintResult, error) {
	// Step 1: Load documents
	docs, stats, warnings, err := LoadDocuments(config.Includes, config.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}
	result := &LintResult{
		IssuesByCategory: map[string][]Issue{},
		Warnings:         warnings,
	}
	result.Stats.FilesScanned = stats.FilesScanned

	// Step 2: Check every block
	reg := config.Breakpoints.Registry()
	for _, doc := range docs {
		for _, b := range doc.Blocks {
			issues := lintBlock(doc, b, reg)
			result.Stats.BlocksScanned++
			result.Stats.Addresses += len(viewport.FindBlockSaves(b.Attributes).Addresses())
			if b.Generated {
				result.Stats.GeneratedIDs++
			}
			if viewport.IsLegacyShape(b.Attributes[viewport.ViewportsKey]) {
				result.Stats.LegacyBlocks++
			}
			if len(issues) > 0 {
				result.Stats.BlocksWithIssues++
			}
			for _, is := range issues {
				result.IssuesByCategory[is.kind] = append(result.IssuesByCategory[is.kind], is.Issue)
				result.Issues = append(result.Issues, is.Issue)
			}
		}
	}
	report.SortIssues(result.Issues)

	// Step 3: Count errors
	result.ErrorCount, _ = report.Count(result.Issues)

	// Step 4: Apply issue limiting if configured
	if config.MaxIssuesPerLinter > 0 || config.MaxSameIssues > 0 {
		result.Issues, result.TruncatedCount = limitIssues(result.Issues, config)
	}
	return result, nil
}

type kindIssue struct {
	Issue
	kind string
}

// lintBlock returns the issues of one block of doc.
func lintBlock(doc *Document, b *DocumentBlock, reg *viewport.Registry) []kindIssue {
	var issues []kindIssue
	add := func(kind, severity string, line, col int, text string) {
		if line == 0 {
			line, col = b.Line, 1
		}
		if line == 0 {
			line = 1
		}
		is := Issue{
			FromLinter: LinterName,
			Text:       text,
			Severity:   severity,
			Pos:        report.IssuePos{Filename: doc.Path, Line: line, Column: col},
		}
		if src := doc.Source(line); src != "" {
			is.SourceLines = []string{src}
		}
		issues = append(issues, kindIssue{Issue: is, kind: kind})
	}

	if b.Generated {
		add(KindMissingID, report.SeverityInfo, 0, 0, fmt.Sprintf(IssueMissingID, b.ID))
	}

	raw := b.Attributes[viewport.ViewportsKey]
	if viewport.IsLegacyShape(raw) {
		add(KindLegacyShape, report.SeverityWarning, 0, 0, fmt.Sprintf(IssueLegacyShape, b.ID))
	}
	viewports, _ := style.AsTree(style.Normalize(raw))
	for _, key := range style.Keys(viewports) {
		line, col := doc.locate(b.Line, strconv.Quote(key), key+":")
		bp, err := strconv.Atoi(key)
		if err != nil || bp < 0 {
			add(KindInvalid, report.SeverityError, line, col, fmt.Sprintf(IssueInvalid, key, b.ID))
			continue
		}
		if !reg.Has(bp) {
			add(KindUnknown, report.SeverityInfo, line, col, fmt.Sprintf(IssueUnknown, bp, b.ID))
		}
		entry, _ := style.AsTree(viewports[key])
		if style.IsEmpty(entry) {
			add(KindEmpty, report.SeverityWarning, line, col,
				fmt.Sprintf(IssueEmpty, viewport.Address{Breakpoint: bp}, b.ID))
			continue
		}
		for _, rk := range style.Keys(entry) {
			r, err := strconv.Atoi(rk)
			if err != nil {
				break // legacy shape, reported above
			}
			a := viewport.Address{Breakpoint: bp, Range: r}
			if r != 0 && r < bp {
				add(KindExpired, report.SeverityError, line, col, fmt.Sprintf(IssueExpired, a, b.ID))
				continue
			}
			if style.IsEmpty(entry[rk]) {
				add(KindEmpty, report.SeverityWarning, line, col, fmt.Sprintf(IssueEmpty, a, b.ID))
			}
		}
	}

	for _, r := range redundantLeaves(viewport.FindBlockSaves(b.Attributes)) {
		line, col := doc.locate(b.Line, strconv.Quote(strconv.Itoa(r.address.Breakpoint)), strconv.Itoa(r.address.Breakpoint)+":")
		add(KindRedundant, report.SeverityWarning, line, col,
			fmt.Sprintf(IssueRedundant, r.leaf.Path, r.address, r.leaf.Value))
	}
	return issues
}

type redundancy struct {
	address viewport.Address
	leaf    style.Leaf
}

// redundantLeaves finds leaves of non-floor fragments whose value equals
// what their breakpoint resolves to without the fragment.
func redundantLeaves(saves viewport.Set) []redundancy {
	var out []redundancy
	for _, a := range saves.Addresses() {
		if a == viewport.Floor || !a.Active(a.Breakpoint) {
			continue
		}
		without := saves.Clone()
		without.Delete(a)
		inherited := cascade.Resolve(a.Breakpoint, without, nil, nil)
		for _, leaf := range style.Leaves(saves.Get(a)) {
			if v, ok := style.Get(inherited, leaf.Path); ok && style.Equal(v, leaf.Value) {
				out = append(out, redundancy{address: a, leaf: leaf})
			}
		}
	}
	return out
}

// limitIssues applies max-issues-per-linter, then max-same-issues, and
// returns how many issues were dropped.
func limitIssues(issues []Issue, config LintConfig) ([]Issue, int) {
	originalCount := len(issues)
	if config.MaxIssuesPerLinter > 0 && len(issues) > config.MaxIssuesPerLinter {
		issues = issues[:config.MaxIssuesPerLinter]
	}
	if config.MaxSameIssues > 0 {
		issues = deduplicateSameIssues(issues, config.MaxSameIssues)
	}
	return issues, originalCount - len(issues)
}

// deduplicateSameIssues keeps at most maxSame issues per message.
func deduplicateSameIssues(issues []Issue, maxSame int) []Issue {
	messageCounts := make(map[string]int)
	var filtered []Issue
	for _, issue := range issues {
		if messageCounts[issue.Text] < maxSame {
			filtered = append(filtered, issue)
			messageCounts[issue.Text]++
		}
	}
	return filtered
}

// Kinds returns the issue kinds found, sorted.
func (r *LintResult) Kinds() []string {
	kinds := make([]string, 0, len(r.IssuesByCategory))
	for k := range r.IssuesByCategory {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
