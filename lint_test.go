package vpcss

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/vpcss/internal/report"
)

const cardJSON = `{"blocks": [
  {
    "id": "card",
    "attributes": {
      "style": {"width": "100%", "color": "red"},
      "viewports": {
        "768": {"0": {"style": {"color": "red"}}},
        "500": {"400": {"style": {"width": "1px"}}},
        "1024": {"0": {"style": {"width": "2px"}}},
        "1280": {},
        "wide": {"0": {"style": {}}}
      }
    }
  }
]}
`

func lintFixture(t *testing.T, name, content string, config LintConfig) *LintResult {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	writeFile(t, path, content)
	config.Includes = []string{path}
	result, err := Lint(config)
	require.NoError(t, err)
	return result
}

func TestLint(t *testing.T) {
	result := lintFixture(t, "card.json", cardJSON, LintConfig{})

	type found struct {
		kind     string
		line     int
		severity string
	}
	var got []found
	for _, kind := range result.Kinds() {
		for _, is := range result.IssuesByCategory[kind] {
			got = append(got, found{kind, is.Pos.Line, is.Severity})
		}
	}
	assert.ElementsMatch(t, []found{
		{KindRedundant, 7, report.SeverityWarning},
		{KindUnknown, 8, report.SeverityInfo},
		{KindExpired, 8, report.SeverityError},
		{KindEmpty, 10, report.SeverityWarning},
		{KindInvalid, 11, report.SeverityError},
	}, got)

	require.Len(t, result.Issues, 5)
	assert.Equal(t, 7, result.Issues[0].Pos.Line)
	assert.Equal(t, 9, result.Issues[0].Pos.Column)
	assert.Equal(t, fmt.Sprintf(IssueRedundant, "style.color", "768", "red"), result.Issues[0].Text)
	assert.Equal(t, []string{`        "768": {"0": {"style": {"color": "red"}}},`}, result.Issues[0].SourceLines)
	assert.Equal(t, 11, result.Issues[4].Pos.Line)

	assert.Equal(t, 2, result.ErrorCount)
	assert.Equal(t, 1, result.Stats.FilesScanned)
	assert.Equal(t, 1, result.Stats.BlocksScanned)
	assert.Equal(t, 1, result.Stats.BlocksWithIssues)
	assert.Zero(t, result.Stats.LegacyBlocks)
}

func TestLintLegacyAndMissingID(t *testing.T) {
	result := lintFixture(t, "page.yaml", `blocks:
  - attributes:
      style:
        color: red
      viewports:
        "1024":
          style:
            color: blue
`, LintConfig{})

	require.Len(t, result.IssuesByCategory[KindMissingID], 1)
	require.Len(t, result.IssuesByCategory[KindLegacyShape], 1)
	assert.Equal(t, 1, result.Stats.GeneratedIDs)
	assert.Equal(t, 1, result.Stats.LegacyBlocks)
	assert.Equal(t, 2, result.Stats.Addresses)
	assert.Zero(t, result.ErrorCount)
	for _, is := range result.Issues {
		assert.Equal(t, 1, is.Pos.Line, "issues without position fall back to line 1")
		assert.Equal(t, LinterName, is.FromLinter)
	}
}

func TestLintLimits(t *testing.T) {
	tests := []struct {
		name          string
		config        LintConfig
		wantIssues    int
		wantTruncated int
	}{
		{"unlimited", LintConfig{}, 5, 0},
		{"per linter", LintConfig{MaxIssuesPerLinter: 2}, 2, 3},
		{"same issues", LintConfig{MaxSameIssues: 1}, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := lintFixture(t, "card.json", cardJSON, tt.config)
			assert.Len(t, result.Issues, tt.wantIssues)
			assert.Equal(t, tt.wantTruncated, result.TruncatedCount)
			assert.Equal(t, 2, result.ErrorCount, "errors are counted before limiting")
		})
	}
}

func TestDeduplicateSameIssues(t *testing.T) {
	issues := []Issue{{Text: "a"}, {Text: "a"}, {Text: "b"}, {Text: "a"}}
	got := deduplicateSameIssues(issues, 2)
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[2].Text)
}
