package cascade

import (
	"github.com/yacobolo/vpcss/internal/style"
	"github.com/yacobolo/vpcss/internal/viewport"
)

// SaveBlock commits pending changes and removes into a new saves set whose
// cascade, resolved on its own, reproduces the cascade of the three input
// sets. The caller clears changes and removes afterwards.
//
// Changes are merged into saves address by address. A removal at breakpoint
// b bounds the saves leaf it cancels: the leaf moves from its origin
// address to (origin, b-1). When that structural rewrite cannot reproduce
// the cascade, every leaf path is re-encoded as runs of identical values,
// one bounded fragment per run.
func SaveBlock(breakpoints []int, saves, changes, removes viewport.Set) viewport.Set {
	want := ResolveValids("save", breakpoints, saves, changes, removes)

	merged := mergeChanges(saves, changes)
	applyRemoves(merged, removes)
	merged.Prune()
	if Equal(want, ResolveValids("save", breakpoints, merged, nil, nil)) {
		return merged
	}

	tracer().Infof("cascade: structural save diverges, encoding leaf runs")
	runs := encodeRuns(want)
	if !Equal(want, ResolveValids("save", breakpoints, runs, nil, nil)) {
		tracer().Errorf("cascade: leaf-run encoding does not reproduce the cascade")
	}
	return runs
}

func mergeChanges(saves, changes viewport.Set) viewport.Set {
	out := saves.Clone()
	for _, a := range changes.Addresses() {
		out.Put(a, style.Merge(out.Get(a), changes.Get(a)))
	}
	return out
}

// applyRemoves rewrites every unbounded removal into range bounds on the
// fragments it cancels. Bounded removals are left to the run encoding.
func applyRemoves(set, removes viewport.Set) {
	for _, ra := range removes.Addresses() {
		if ra.Bounded() {
			continue
		}
		for _, leaf := range style.Leaves(removes.Get(ra)) {
			for _, origin := range set.Active(ra.Breakpoint) {
				v, ok := style.Get(set.Get(origin), leaf.Path)
				if !ok || !style.Equal(v, leaf.Value) {
					continue
				}
				if origin.Breakpoint == ra.Breakpoint {
					set.Put(origin, style.Without(set.Get(origin), leaf.Path))
					continue
				}
				to, ok := viewport.Until(origin.Breakpoint, ra.Breakpoint)
				if !ok {
					// left in place, the run encoding takes over
					continue
				}
				if origin.Bounded() && origin.Range < to.Range {
					to.Range = origin.Range
				}
				set.Put(origin, style.Without(set.Get(origin), leaf.Path))
				set.Put(to, style.With(set.Get(to), leaf.Path, v))
			}
		}
	}
}

// encodeRuns writes valids as one fragment per run of identical values of
// each leaf path. The last run of a path is unbounded.
func encodeRuns(valids Valids) viewport.Set {
	bps := valids.Breakpoints()
	paths := map[string]style.Path{}
	for _, bp := range bps {
		for _, leaf := range style.Leaves(valids[bp]) {
			paths[leaf.Path.String()] = leaf.Path
		}
	}

	out := viewport.Set{}
	for _, p := range paths {
		start := -1
		var current any
		// covered reports whether p has a value at every key from i on
		covered := func(i int) bool {
			for _, bp := range bps[i:] {
				if _, ok := style.Get(valids[bp], p); !ok {
					return false
				}
			}
			return true
		}
		flush := func(end int) {
			if start < 0 || current == nil {
				return
			}
			a := viewport.Address{Breakpoint: bps[start]}
			if end < len(bps) {
				bounded, ok := viewport.Until(bps[start], bps[end])
				switch {
				case ok:
					a = bounded
				case covered(end):
					// stays unbounded, later runs override it at every key
				default:
					// a value at width 0 only has no address
					tracer().Errorf("cascade: dropping %s below %d, the run cannot be bounded", p, bps[end])
					return
				}
			}
			out.Put(a, style.With(out.Get(a), p, current))
		}
		for i, bp := range bps {
			v, _ := style.Get(valids[bp], p)
			if start >= 0 && style.Equal(v, current) {
				continue
			}
			flush(i)
			start, current = i, v
		}
		flush(len(bps))
	}
	return out
}
