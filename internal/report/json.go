package report

import (
	"encoding/json"
	"io"
	"time"
)

// JSONOutput is the structured export of a lint run.
type JSONOutput struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Summary   JSONSummary `json:"summary"`
	Stats     Stats       `json:"stats"`
	Issues    []JSONIssue `json:"issues"`
}

// JSONSummary contains issue counts.
type JSONSummary struct {
	TotalIssues int `json:"total_issues"`
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	Truncated   int `json:"truncated"`
}

// JSONIssue is one issue.
type JSONIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Linter   string `json:"linter"`
	Source   string `json:"source,omitempty"`
}

// WriteJSON writes issues and stats as indented JSON.
func WriteJSON(w io.Writer, issues []Issue, truncated int, stats Stats) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildJSON(issues, truncated, stats, time.Now()))
}

// BuildJSON converts issues to the export schema.
func BuildJSON(issues []Issue, truncated int, stats Stats, now time.Time) JSONOutput {
	errors, warnings := Count(issues)
	out := JSONOutput{
		Version:   "1.0",
		Timestamp: now.Format(time.RFC3339),
		Summary: JSONSummary{
			TotalIssues: len(issues),
			Errors:      errors,
			Warnings:    warnings,
			Truncated:   truncated,
		},
		Stats:  stats,
		Issues: make([]JSONIssue, len(issues)),
	}
	for i, issue := range issues {
		source := ""
		if len(issue.SourceLines) > 0 {
			source = issue.SourceLines[0]
		}
		out.Issues[i] = JSONIssue{
			File:     issue.Pos.Filename,
			Line:     issue.Pos.Line,
			Column:   issue.Pos.Column,
			Severity: issue.Severity,
			Message:  issue.Text,
			Linter:   issue.FromLinter,
			Source:   source,
		}
	}
	return out
}
