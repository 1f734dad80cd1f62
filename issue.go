package vpcss

import "github.com/yacobolo/vpcss/internal/report"

// Issue is a lint finding in golangci-lint format.
type Issue = report.Issue

// LinterName is reported as FromLinter on every issue.
const LinterName = "vplint"

// Issue kinds, the keys of LintResult.IssuesByCategory.
const (
	KindRedundant   = "redundant-override"
	KindExpired     = "expired-range"
	KindEmpty       = "empty-fragment"
	KindUnknown     = "unknown-breakpoint"
	KindInvalid     = "invalid-breakpoint"
	KindLegacyShape = "legacy-shape"
	KindMissingID   = "missing-id"
)

// Issue messages.
const (
	IssueRedundant   = "%s at %s repeats the value it inherits (%v)"
	IssueExpired     = "range %s of block %q ends before it starts"
	IssueEmpty       = "fragment %s of block %q is empty"
	IssueUnknown     = "breakpoint %d of block %q is not registered"
	IssueInvalid     = "viewports key %q of block %q is not a breakpoint"
	IssueLegacyShape = "viewports of block %q use the legacy breakpoint → style shape"
	IssueMissingID   = "block without id; generated %s"
)
