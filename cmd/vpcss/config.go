package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/vpcss"
)

var k = koanf.New(".")

const defaultDBPath = ".vpcss/blocks.db"

var defaultIncludes = []string{
	"content/**/*.json",
	"content/**/*.yaml",
}

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".vpcss.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags, only those set explicitly so flag defaults never
	// shadow the config file
	if err := k.Load(posflag.ProviderWithFlag(cmd.Flags(), ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(cmd.Flags(), f)
	}), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	setupTracing()
	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (VPCSS_* prefix)
	if err := k.Load(env.Provider("VPCSS_", ".", func(s string) string {
		// VPCSS_COMPILE_OUTPUT -> compile.output
		// VPCSS_LINT_STRICT -> lint.strict
		// VPCSS_VERBOSE -> verbose
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "VPCSS_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildBreakpoints reads the breakpoint registry settings. Label keys that
// are not widths are skipped.
func buildBreakpoints() vpcss.Breakpoints {
	bps := vpcss.Breakpoints{
		Tablet:  getIntWithFallback("tablet", "breakpoints.tablet", 0),
		Desktop: getIntWithFallback("desktop", "breakpoints.desktop", 0),
	}
	labels := k.StringMap("breakpoints.labels")
	if len(labels) == 0 {
		return bps
	}
	bps.Labels = make(map[int]string, len(labels))
	for key, label := range labels {
		bp, err := strconv.Atoi(key)
		if err != nil || bp < 0 {
			fmt.Fprintf(os.Stderr, "Warning: ignoring breakpoint label %q\n", key)
			continue
		}
		bps.Labels[bp] = label
	}
	return bps
}

// buildIncludes returns document patterns: positional args first, then the
// flag, then the config key of section.
func buildIncludes(args []string, section string) []string {
	if len(args) > 0 {
		return args
	}
	if includes := k.Strings("include"); len(includes) > 0 {
		return includes
	}
	if includes := k.Strings(section + ".include"); len(includes) > 0 {
		return includes
	}
	return defaultIncludes
}

// buildCompileConfig constructs the library's Config struct from koanf state.
func buildCompileConfig(args []string) (vpcss.Config, error) {
	format, err := vpcss.DetermineCompileFormat(getStringWithFallback("format", "compile.format", "css"))
	if err != nil {
		return vpcss.Config{}, err
	}
	return vpcss.Config{
		Includes:       buildIncludes(args, "compile"),
		Output:         getStringWithFallback("output", "compile.output", ""),
		Format:         format,
		Breakpoints:    buildBreakpoints(),
		SelectorFormat: getStringWithFallback("selector", "compile.selector", ""),
		NoImportant:    getBoolWithFallback("no-important", "compile.no-important", false),
		Validate:       getBoolWithFallback("validate", "compile.validate", false),
		Verbose:        getBoolWithFallback("verbose", "verbose", false),
	}, nil
}

// buildLintConfig constructs the library's LintConfig struct from koanf state.
func buildLintConfig(args []string) vpcss.LintConfig {
	return vpcss.LintConfig{
		Includes:           buildIncludes(args, "lint"),
		Breakpoints:        buildBreakpoints(),
		Verbose:            getBoolWithFallback("verbose", "verbose", false),
		Strict:             getBoolWithFallback("strict", "lint.strict", false),
		MaxIssuesPerLinter: getIntWithFallback("max-issues-per-linter", "lint.max-issues-per-linter", 0),
		MaxSameIssues:      getIntWithFallback("max-same-issues", "lint.max-same-issues", 0),
		PrintIssuedLines:   getBoolWithFallback("print-lines", "lint.print-lines", true),
		PrintLinterName:    getBoolWithFallback("print-linter-name", "lint.print-linter-name", true),
		UseColors:          getBoolWithFallback("color", "color", false),
	}
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}
