package vpcss

import (
	"sort"
	"strings"

	"github.com/yacobolo/vpcss/internal/spectrum"
	"github.com/yacobolo/vpcss/internal/style"
)

// propertyCategories maps CSS property names to categories. Names not
// listed fall back to the prefix rules of categorizeProperty.
var propertyCategories = map[string]PropertyCategory{
	"background": CategoryVisual, "color": CategoryVisual, "border": CategoryVisual,
	"box-shadow": CategoryVisual, "opacity": CategoryVisual, "outline": CategoryVisual,
	"fill": CategoryVisual, "stroke": CategoryVisual,

	"display": CategoryLayout, "gap": CategoryLayout, "position": CategoryLayout,
	"inset": CategoryLayout, "top": CategoryLayout, "right": CategoryLayout,
	"bottom": CategoryLayout, "left": CategoryLayout, "width": CategoryLayout,
	"height": CategoryLayout, "overflow": CategoryLayout, "z-index": CategoryLayout,
	"aspect-ratio": CategoryLayout, "order": CategoryLayout,

	"line-height": CategoryTypography, "letter-spacing": CategoryTypography,
	"white-space": CategoryTypography, "hyphens": CategoryTypography,

	"transition": CategoryEffects, "transform": CategoryEffects, "animation": CategoryEffects,
	"filter": CategoryEffects, "backdrop-filter": CategoryEffects,
	"mix-blend-mode": CategoryEffects, "clip-path": CategoryEffects, "mask": CategoryEffects,
}

// prefixCategories are checked in order after the exact names.
var prefixCategories = []struct {
	prefix   string
	category PropertyCategory
}{
	{"-webkit-", CategoryInternal},
	{"-moz-", CategoryInternal},
	{"-ms-", CategoryInternal},
	{"background-", CategoryVisual},
	{"border-", CategoryVisual},
	{"outline-", CategoryVisual},
	{"font-", CategoryTypography},
	{"text-", CategoryTypography},
	{"word-", CategoryTypography},
	{"transition-", CategoryEffects},
	{"transform-", CategoryEffects},
	{"animation-", CategoryEffects},
	{"flex", CategoryLayout},
	{"grid", CategoryLayout},
	{"align-", CategoryLayout},
	{"justify-", CategoryLayout},
	{"padding", CategoryLayout},
	{"margin", CategoryLayout},
	{"min-", CategoryLayout},
	{"max-", CategoryLayout},
	{"overflow-", CategoryLayout},
	{"object-", CategoryLayout},
}

// categorizeProperty determines the category of a CSS property name.
func categorizeProperty(name string) PropertyCategory {
	if cat, ok := propertyCategories[name]; ok {
		return cat
	}
	for _, p := range prefixCategories {
		if strings.HasPrefix(name, p.prefix) {
			return p.category
		}
	}
	return CategoryLayout
}

// isTokenValue reports whether value references a custom property.
func isTokenValue(value any) bool {
	s, ok := value.(string)
	return ok && strings.Contains(s, "var(--")
}

// CategorizeTree groups the leaves of a resolved style tree by category.
// Nested keys are joined with '-' the way the default declaration
// compiler flattens them.
func CategorizeTree(t style.Tree) map[PropertyCategory][]CategorizedProperty {
	result := make(map[PropertyCategory][]CategorizedProperty)
	for _, leaf := range style.Leaves(t) {
		var parts []string
		for _, key := range leaf.Path {
			if strings.HasPrefix(key, ":") || strings.HasPrefix(key, "&") {
				continue
			}
			parts = append(parts, spectrum.PropertyName(key))
		}
		if len(parts) > 1 {
			parts = parts[1:] // drop the attribute name, e.g. "style"
		}
		name := strings.Join(parts, "-")
		cat := categorizeProperty(name)
		result[cat] = append(result[cat], CategorizedProperty{
			Path:     leaf.Path.String(),
			Name:     name,
			Value:    leaf.Value,
			Category: cat,
			IsToken:  isTokenValue(leaf.Value),
		})
	}
	for cat := range result {
		sort.Slice(result[cat], func(i, j int) bool {
			return result[cat][i].Path < result[cat][j].Path
		})
	}
	return result
}

// Categories lists the categories in display order.
func Categories() []PropertyCategory {
	return []PropertyCategory{CategoryLayout, CategoryVisual, CategoryTypography, CategoryEffects, CategoryInternal}
}
