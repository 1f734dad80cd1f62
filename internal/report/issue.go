// Package report formats lint issues and statistics for terminals and
// tooling, in golangci-lint style.
package report

// Issue is a single lint finding in golangci-lint format.
type Issue struct {
	FromLinter  string       `json:"FromLinter"`
	Text        string       `json:"Text"`
	Severity    string       `json:"Severity"`
	SourceLines []string     `json:"SourceLines"`
	Pos         IssuePos     `json:"Pos"`
	LineRange   *LineRange   `json:"LineRange"`
	Replacement *Replacement `json:"Replacement"`
}

// IssuePos is the location of an issue; Line and Column are 1-based.
type IssuePos struct {
	Filename string `json:"Filename"`
	Line     int    `json:"Line"`
	Column   int    `json:"Column"`
}

// LineRange specifies a range of lines.
type LineRange struct {
	From int `json:"From"`
	To   int `json:"To"`
}

// Replacement suggests a fix.
type Replacement struct {
	NewText      string
	InlineLength int
}

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = ""
)

// Count returns the number of errors and warnings in issues.
func Count(issues []Issue) (errors, warnings int) {
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}
