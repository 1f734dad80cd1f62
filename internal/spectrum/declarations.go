// Package spectrum compiles a block's resolved cascade into media-query
// rules. Runs of identical CSS across consecutive breakpoints become one
// spectrum: an open min-width rule, or a bounded min-width..max-width rule
// once the text changes again.
package spectrum

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"github.com/yacobolo/vpcss/internal/style"
)

// tracer traces with key 'vpcss.spectrum'.
func tracer() tracing.Trace {
	return tracing.Select("vpcss.spectrum")
}

// Options are passed to declaration compilers.
type Options struct {
	Selector string // selector the declarations are scoped to
	Saving   bool   // compiling the committed baseline rather than the live cascade
}

// DeclarationCompiler turns one style tree into CSS text for one selector.
// The spectrum compiler treats the result as opaque text and only splits it
// into selector and declaration pairs.
type DeclarationCompiler func(t style.Tree, opts Options) string

var (
	matchFirstCap = regexp.MustCompile("(.)([A-Z][a-z]+)")
	matchAllCap   = regexp.MustCompile("([a-z0-9])([A-Z])")
)

// PropertyName converts a camelCase style key to its CSS name. Custom
// properties ("--brand") are kept as they are.
func PropertyName(s string) string {
	if strings.HasPrefix(s, "--") {
		return s
	}
	kebab := matchFirstCap.ReplaceAllString(s, "${1}-${2}")
	kebab = matchAllCap.ReplaceAllString(kebab, "${1}-${2}")
	return strings.ToLower(kebab)
}

// DefaultCompiler is the stock declaration compiler.
//
//	{"minHeight": "200px", "margin": {"top": "4px"}, ":hover": {"color": "red"}}
//
// compiles to
//
//	sel { margin-top: 4px; min-height: 200px; }
//	sel:hover { color: red; }
//
// Keys starting with ':' or '&' open nested rules, other nested trees are
// flattened with '-', arrays are joined with ", ".
func DefaultCompiler(t style.Tree, opts Options) string {
	var sb strings.Builder
	writeRule(&sb, opts.Selector, t)
	return sb.String()
}

func writeRule(sb *strings.Builder, selector string, t style.Tree) {
	var decls []string
	var nested []string
	var collect func(prefix string, t style.Tree)
	collect = func(prefix string, t style.Tree) {
		for _, k := range style.Keys(t) {
			v := t[k]
			if prefix == "" && (strings.HasPrefix(k, ":") || strings.HasPrefix(k, "&")) {
				nested = append(nested, k)
				continue
			}
			name := PropertyName(k)
			if prefix != "" {
				name = prefix + "-" + name
			}
			if child, ok := style.AsTree(v); ok {
				collect(name, child)
				continue
			}
			if text := formatValue(v); text != "" {
				decls = append(decls, name+": "+text)
			}
		}
	}
	collect("", t)

	if len(decls) > 0 {
		fmt.Fprintf(sb, "%s { %s; }\n", selector, strings.Join(decls, "; "))
	}
	for _, k := range nested {
		child, ok := style.AsTree(t[k])
		if !ok {
			continue
		}
		sub := selector + k
		if strings.HasPrefix(k, "&") {
			sub = strings.ReplaceAll(k, "&", selector)
		}
		writeRule(sb, sub, child)
	}
}

// formatValue renders a leaf as CSS text.
func formatValue(v any) string {
	if n, ok := style.Number(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	if arr, ok := style.Array(v); ok {
		parts := make([]string, 0, len(arr))
		for _, e := range arr {
			if s := formatValue(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}
