package viewport

import (
	"strconv"

	"github.com/yacobolo/vpcss/internal/style"
)

// ViewportsKey is the block attribute holding breakpoint overrides.
const ViewportsKey = "viewports"

// FindBlockSaves normalises serialised block attributes into a saves set.
//
// Every attribute except "viewports" is baseline style and lands at (0,0).
// The viewports attribute is read in either shape:
//
//	{"768": {"0": {"style": {...}}}}   breakpoint → range → tree
//	{"768": {"style": {...}}}          legacy breakpoint → tree
func FindBlockSaves(attrs map[string]any) Set {
	saves := Set{}
	base := style.Tree{}
	for k, v := range attrs {
		if k == ViewportsKey || v == nil {
			continue
		}
		base[k] = style.Normalize(v)
	}
	saves.Put(Floor, base)

	raw, ok := style.AsTree(style.Normalize(attrs[ViewportsKey]))
	if !ok {
		return saves
	}
	for key, entry := range raw {
		bp, err := strconv.Atoi(key)
		if err != nil || bp < 0 {
			tracer().Errorf("viewports: skipping invalid breakpoint key %q", key)
			continue
		}
		tree, ok := style.AsTree(entry)
		if !ok || len(tree) == 0 {
			continue
		}
		if ranges, ok := rangesOf(tree); ok {
			for r, t := range ranges {
				a := Address{Breakpoint: bp, Range: r}
				saves.Put(a, style.Merge(saves.Get(a), t))
			}
			continue
		}
		tracer().Debugf("viewports: breakpoint %d uses the legacy one-level shape", bp)
		a := Address{Breakpoint: bp}
		saves.Put(a, style.Merge(saves.Get(a), tree))
	}
	return saves
}

// IsLegacyShape reports whether a viewports attribute uses the one-level
// breakpoint → tree shape for at least one breakpoint.
func IsLegacyShape(viewports any) bool {
	raw, ok := style.AsTree(style.Normalize(viewports))
	if !ok {
		return false
	}
	for _, entry := range raw {
		tree, ok := style.AsTree(entry)
		if !ok || len(tree) == 0 {
			continue
		}
		if _, ok := rangesOf(tree); !ok {
			return true
		}
	}
	return false
}

// rangesOf interprets tree as range → fragment when every key is a
// non-negative integer and every value a tree.
func rangesOf(tree style.Tree) (Ranges, bool) {
	out := Ranges{}
	for k, v := range tree {
		r, err := strconv.Atoi(k)
		if err != nil || r < 0 {
			return nil, false
		}
		t, ok := style.AsTree(v)
		if !ok {
			return nil, false
		}
		out[r] = t
	}
	return out, true
}

// ToAttributes is the inverse of FindBlockSaves: the (0,0) fragment becomes
// the top-level attributes and every other address is written to the
// two-level viewports attribute.
func ToAttributes(saves Set) map[string]any {
	attrs := map[string]any{}
	for k, v := range saves.Get(Floor) {
		attrs[k] = style.Clone(v)
	}
	viewports := map[string]any{}
	for _, a := range saves.Addresses() {
		if a == Floor {
			continue
		}
		t := saves.Get(a)
		if style.IsEmpty(t) {
			continue
		}
		key := strconv.Itoa(a.Breakpoint)
		ranges, ok := viewports[key].(map[string]any)
		if !ok {
			ranges = map[string]any{}
			viewports[key] = ranges
		}
		ranges[strconv.Itoa(a.Range)] = map[string]any(t.Clone())
	}
	if len(viewports) > 0 {
		attrs[ViewportsKey] = viewports
	}
	return attrs
}
