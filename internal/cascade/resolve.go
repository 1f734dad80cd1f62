// Package cascade derives the effective style of a block at every
// breakpoint from its saves, changes and removes sets, and commits pending
// edits back into saves.
package cascade

import (
	"sort"

	"github.com/npillmayer/schuko/tracing"

	"github.com/yacobolo/vpcss/internal/style"
	"github.com/yacobolo/vpcss/internal/viewport"
)

// tracer traces with key 'vpcss.cascade'.
func tracer() tracing.Trace {
	return tracing.Select("vpcss.cascade")
}

// Valids maps a breakpoint to the effective style tree from that width up
// to the next key. Key 0 is always present.
type Valids map[int]style.Tree

// Breakpoints returns the keys of v, ascending.
func (v Valids) Breakpoints() []int {
	out := make([]int, 0, len(v))
	for bp := range v {
		out = append(out, bp)
	}
	sort.Ints(out)
	return out
}

// At returns the effective tree at width bp, taken from the nearest key
// at or below it. Never nil.
func (v Valids) At(bp int) style.Tree {
	best, found := 0, false
	for k := range v {
		if k <= bp && (!found || k > best) {
			best, found = k, true
		}
	}
	if !found || v[best] == nil {
		return style.Tree{}
	}
	return v[best]
}

// Equal reports whether a and b describe the same effective style at every
// breakpoint either of them knows about. Empty subtrees are ignored.
func Equal(a, b Valids) bool {
	keys := map[int]bool{}
	for k := range a {
		keys[k] = true
	}
	for k := range b {
		keys[k] = true
	}
	for k := range keys {
		if !style.Equal(style.Compact(a.At(k)), style.Compact(b.At(k))) {
			return false
		}
	}
	return true
}

// Resolve computes the effective tree at width at: every breakpoint at or
// below at is folded ascending, merging the saves and changes fragments
// active at at (changes win) and then subtracting the active removes
// fragment. Fragments whose range ended below at are not active and drop out.
func Resolve(at int, saves, changes, removes viewport.Set) style.Tree {
	acc := style.Tree{}
	for _, b := range foldOrder(at, saves, changes, removes) {
		acc = fold(acc, b, at, saves, changes, removes)
	}
	return acc
}

// fold applies the fragments stored at breakpoint b that are active at
// width at onto acc.
func fold(acc style.Tree, b, at int, saves, changes, removes viewport.Set) style.Tree {
	acc = style.Merge(acc, saves.ActiveAt(b, at), changes.ActiveAt(b, at))
	if rm := removes.ActiveAt(b, at); rm != nil {
		if acc = style.Subtract(acc, rm); acc == nil {
			acc = style.Tree{}
		}
	}
	return acc
}

func foldOrder(at int, sets ...viewport.Set) []int {
	seen := map[int]bool{}
	var out []int
	for _, s := range sets {
		for bp := range s {
			if bp <= at && !seen[bp] {
				seen[bp] = true
				out = append(out, bp)
			}
		}
	}
	sort.Ints(out)
	return out
}

// expires reports whether a fragment active at width from is no longer
// active at width to.
func expires(from, to int, sets ...viewport.Set) bool {
	for _, s := range sets {
		for bp, ranges := range s {
			if bp > from {
				continue
			}
			for r := range ranges {
				if r != 0 && r >= from && r < to {
					return true
				}
			}
		}
	}
	return false
}

// ResolveValids computes the effective tree for every breakpoint of
// breakpoints and every breakpoint at which the sets can change the cascade.
// The fold is carried from one key to the next and only restarted where a
// bounded fragment expires. An empty block id yields the floor only.
func ResolveValids(blockID string, breakpoints []int, saves, changes, removes viewport.Set) Valids {
	if blockID == "" {
		tracer().Errorf("cascade: resolve called without block id")
		return Valids{0: style.Tree{}}
	}
	keys := viewport.Resolve(breakpoints, saves, changes, removes)
	bps := foldOrder(keys[len(keys)-1], saves, changes, removes)

	out := make(Valids, len(keys))
	acc := style.Tree{}
	next, restarts := 0, 0
	for i, x := range keys {
		if i > 0 && expires(keys[i-1], x, saves, changes, removes) {
			acc, next = style.Tree{}, 0
			restarts++
		}
		for ; next < len(bps) && bps[next] <= x; next++ {
			acc = fold(acc, bps[next], x, saves, changes, removes)
		}
		out[x] = acc.Clone()
	}
	tracer().Debugf("cascade: resolved block %s at %d breakpoints, %d restarts", blockID, len(out), restarts)
	return out
}
