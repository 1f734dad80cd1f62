// Package vpcss compiles viewport-aware block styles into media-query CSS.
//
// A block keeps its style as a cascade of fragments keyed by breakpoint and
// an optional range end. Documents list blocks with their attributes:
//
//	{"blocks": [{"id": "hero", "attributes": {
//		"style": {"width": "100%"},
//		"viewports": {"768": {"0": {"style": {"width": "50%"}}}}
//	}}]}
//
// # Compiling
//
//	result, err := vpcss.Compile(vpcss.Config{
//		Includes: []string{"content/**/*.json"},
//		Output:   "dist/blocks.css",
//	})
//
// # Linting
//
//	result, err := vpcss.Lint(vpcss.LintConfig{
//		Includes: []string{"content/**/*.{json,yaml}"},
//	})
//
// The cmd/vpcss CLI wraps both and adds interactive editing of stored
// blocks.
package vpcss
