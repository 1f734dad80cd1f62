package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/vpcss"
	"github.com/yacobolo/vpcss/internal/editor"
	"github.com/yacobolo/vpcss/internal/storage"
	"github.com/yacobolo/vpcss/internal/style"
	"github.com/yacobolo/vpcss/internal/viewport"
)

// resetKoanf creates a fresh koanf instance for each test.
func resetKoanf() {
	k = koanf.New(".")
}

func TestConfigFileLoading(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".vpcss.yaml")
	configContent := `
verbose: true
db: custom/blocks.db

breakpoints:
  tablet: 600
  labels:
    "0": Base
    "600": Tablet

compile:
  output: custom/out.css
  format: inline
  validate: true

lint:
  strict: true
  max-issues-per-linter: 7
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	assert.True(t, k.Bool("verbose"))
	assert.Equal(t, "custom/blocks.db", k.String("db"))
	assert.Equal(t, "custom/out.css", k.String("compile.output"))
	assert.Equal(t, "inline", k.String("compile.format"))
	assert.True(t, k.Bool("lint.strict"))
	assert.Equal(t, 7, k.Int("lint.max-issues-per-linter"))

	bps := buildBreakpoints()
	assert.Equal(t, 600, bps.Tablet)
	assert.Equal(t, map[int]string{0: "Base", 600: "Tablet"}, bps.Labels)
	assert.Equal(t, []int{0, 600}, bps.Registry().Breakpoints())
}

func TestConfigFileNotFound_UsesDefaults(t *testing.T) {
	resetKoanf()

	// Point to non-existent config, should not error
	require.NoError(t, loadConfigFromPath("/nonexistent/.vpcss.yaml"))

	config, err := buildCompileConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultIncludes, config.Includes)
	assert.Empty(t, config.Output)
	assert.Equal(t, vpcss.OutputCSS, config.Format)
	assert.False(t, config.NoImportant)
	assert.Empty(t, config.Breakpoints.Labels)
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".vpcss.yaml")
	configContent := `
compile:
  output: from-file.css
lint:
  strict: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	// Set env vars that should override config file
	t.Setenv("VPCSS_COMPILE_OUTPUT", "from-env.css")
	t.Setenv("VPCSS_LINT_STRICT", "true")

	require.NoError(t, loadConfigFromPath(configPath))

	assert.Equal(t, "from-env.css", k.String("compile.output"))
	assert.True(t, k.Bool("lint.strict"))
}

func TestBuildCompileConfig_FromConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".vpcss.yaml")
	configContent := `
compile:
  include:
    - "pages/**/*.yaml"
  selector: "#%s"
  no-important: true
  format: json
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	config, err := buildCompileConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"pages/**/*.yaml"}, config.Includes)
	assert.Equal(t, "#%s", config.SelectorFormat)
	assert.True(t, config.NoImportant)
	assert.Equal(t, vpcss.OutputJSON, config.Format)

	config, err = buildCompileConfig([]string{"a.json"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json"}, config.Includes, "arguments win over config")
}

func TestBuildCompileConfig_BadFormat(t *testing.T) {
	resetKoanf()
	k.Set("compile.format", "md")

	_, err := buildCompileConfig(nil)
	assert.Error(t, err)
}

func TestBuildLintConfig_Defaults(t *testing.T) {
	resetKoanf()

	config := buildLintConfig(nil)
	assert.Equal(t, defaultIncludes, config.Includes)
	assert.False(t, config.Strict)
	assert.Equal(t, 0, config.MaxIssuesPerLinter)
	assert.True(t, config.PrintIssuedLines)
	assert.True(t, config.PrintLinterName)
}

func TestBuildLintConfig_FromConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".vpcss.yaml")
	configContent := `
include:
  - "shared/**/*.json"
lint:
  strict: true
  max-same-issues: 2
  print-lines: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	config := buildLintConfig(nil)
	assert.True(t, config.Strict)
	assert.Equal(t, []string{"shared/**/*.json"}, config.Includes)
	assert.Equal(t, 2, config.MaxSameIssues)
	assert.False(t, config.PrintIssuedLines)
}

func TestInitCommand_CreatesConfigFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	require.NoError(t, cmd.Execute())

	// Verify file was created and loads
	data, err := os.ReadFile(".vpcss.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "breakpoints:")
	assert.Contains(t, string(data), "compile:")
	assert.Contains(t, string(data), "lint:")

	resetKoanf()
	require.NoError(t, loadConfigFromPath(".vpcss.yaml"))
	bps := buildBreakpoints()
	assert.Len(t, bps.Labels, 6)
	assert.Equal(t, "Laptop", bps.Labels[1024])
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})

	// Create existing file
	require.NoError(t, os.WriteFile(".vpcss.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})

	// Create existing file
	require.NoError(t, os.WriteFile(".vpcss.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init", "--force"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(".vpcss.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "db: .vpcss/blocks.db")
}

func TestVersionCommand(t *testing.T) {
	cmd := rootCmd
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
}

func TestCompileCommand(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "home.json")
	out := filepath.Join(dir, "dist", "blocks.css")
	require.NoError(t, os.WriteFile(doc, []byte(`{"blocks": [{"id": "hero", "attributes": {"style": {"width": "100%"}}}]}`), 0644))

	resetKoanf()
	rootCmd.SetArgs([]string{"compile", doc, "-o", out, "--quiet", "--config", filepath.Join(dir, "none.yaml")})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `[data-block="hero"] { width: 100% !important; }`)
}

func TestImportEditSave(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "home.json")
	db := filepath.Join(dir, "blocks.db")
	require.NoError(t, os.WriteFile(doc, []byte(`{"blocks": [{"id": "hero", "attributes": {"style": {"width": "100%"}}}]}`), 0644))
	common := []string{"--db", db, "--quiet", "--config", filepath.Join(dir, "none.yaml")}

	run := func(args ...string) {
		t.Helper()
		resetKoanf()
		rootCmd.SetArgs(append(args, common...))
		require.NoError(t, rootCmd.Execute())
	}

	run("import", doc)
	run("edit", "hero", "768", "style.width", "50%", "--manual")

	store, err := storage.Open(db)
	require.NoError(t, err)
	stored, err := store.Get(context.Background(), "hero")
	require.NoError(t, err)
	assert.True(t, stored.Dirty())
	require.NoError(t, store.Close())

	run("save", "hero", "--file", doc)

	saved, err := vpcss.LoadDocument(doc)
	require.NoError(t, err)
	ed := vpcss.NewEditor(vpcss.Config{})
	vpcss.RegisterDocuments(ed, []*vpcss.Document{saved})
	valids, err := ed.Valids("hero")
	require.NoError(t, err)
	v, ok := style.Get(valids.At(1024), style.ParsePath("style.width"))
	require.True(t, ok)
	assert.Equal(t, "50%", v)
	v, _ = style.Get(valids.At(360), style.ParsePath("style.width"))
	assert.Equal(t, "100%", v)
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, "50%", parseValue("50%"))
	assert.Equal(t, "red", parseValue(`"red"`))
	assert.Equal(t, style.Tree{"top": "4px"}, parseValue(`{"top": "4px"}`))
	assert.Equal(t, true, parseValue("true"))
}

func TestWatchMatches(t *testing.T) {
	s := &watchSession{config: vpcss.Config{
		Includes: []string{"content/**/*.json"},
		Output:   "content/out.json",
	}}
	assert.True(t, s.matches("content/pages/home.json"))
	assert.True(t, s.matches("content/home.json"))
	assert.False(t, s.matches("content/home.yaml"))
	assert.False(t, s.matches("content/out.json"))
	assert.False(t, s.matches("other/home.json"))
}

func TestWatchDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "content", "pages"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "content", ".cache"), 0755))

	dirs := watchDirs([]string{filepath.Join(dir, "content", "**", "*.json")})
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "content"),
		filepath.Join(dir, "content", "pages"),
	}, dirs)
}

func TestGetStringWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.Equal(t, "default", getStringWithFallback("flag-key", "config.key", "default"))
}

func TestGetBoolWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.False(t, getBoolWithFallback("flag-key", "config.key", false))
	assert.True(t, getBoolWithFallback("flag-key", "config.key", true))
}

func TestGetIntWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.Equal(t, 42, getIntWithFallback("flag-key", "config.key", 42))
}

func TestCollapsedLines(t *testing.T) {
	b := editor.Block{
		ID:      "hero",
		Saves:   viewport.Set{0: {0: style.Tree{"style": style.Tree{"color": "red"}}}},
		Changes: viewport.Set{768: {0: style.Tree{"style": style.Tree{"color": "blue"}}}},
		Removes: viewport.Set{},
	}

	assert.Equal(t, []string{
		"  saves: map[style:map[color:red]]",
		"  changes: map[style:map[color:blue]]",
	}, collapsedLines(b, 1024))
	assert.Equal(t, []string{"  saves: map[style:map[color:red]]"}, collapsedLines(b, 360))
}
