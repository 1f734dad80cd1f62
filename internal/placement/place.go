package placement

import (
	"sort"

	"github.com/yacobolo/vpcss/internal/cascade"
	"github.com/yacobolo/vpcss/internal/occurrence"
	"github.com/yacobolo/vpcss/internal/style"
	"github.com/yacobolo/vpcss/internal/viewport"
)

// unit is the smallest independent piece of an edit: one path whose
// effective value must become desired (nil deletes).
type unit struct {
	path    style.Path
	desired any
}

// units compares current and desired and yields one unit per point of
// divergence. Trees on both sides are compared key by key; a missing side
// expands to the leaves of the other; any other mismatch replaces the
// whole value. Equal values yield nothing.
func units(path style.Path, current, desired any) []unit {
	if sameValue(current, desired) {
		return nil
	}
	ct, cok := style.AsTree(current)
	dt, dok := style.AsTree(desired)
	switch {
	case cok && dok:
		keys := map[string]bool{}
		for k := range ct {
			keys[k] = true
		}
		for k := range dt {
			keys[k] = true
		}
		sorted := make([]string, 0, len(keys))
		for k := range keys {
			sorted = append(sorted, k)
		}
		sort.Strings(sorted)
		var out []unit
		for _, k := range sorted {
			out = append(out, units(path.Append(k), ct[k], dt[k])...)
		}
		return out
	case style.IsEmpty(current) && dok:
		var out []unit
		for _, leaf := range style.Leaves(dt) {
			out = append(out, unit{path: path.Append(leaf.Path...), desired: leaf.Value})
		}
		return out
	case cok && style.IsEmpty(desired):
		var out []unit
		for _, leaf := range style.Leaves(ct) {
			out = append(out, unit{path: path.Append(leaf.Path...), desired: nil})
		}
		return out
	}
	if style.IsEmpty(desired) {
		return []unit{{path: path}}
	}
	return []unit{{path: path, desired: style.Clone(desired)}}
}

func (b *Builder) place(target int, u unit, manual bool) {
	if u.desired == nil {
		b.remove(target, u.path)
		return
	}
	if manual {
		b.settle(b.pinAddress(target, u.path), u.path, u.desired)
		return
	}
	origin, ok := b.origin(target, u.path, b.saves, b.changes, b.removes)
	if !ok {
		b.write(b.changes, viewport.Floor, u.path, u.desired)
		b.clearRemoves(0, u.path, u.desired)
		return
	}
	b.settle(origin, u.path, u.desired)
}

// origin is the address whose fragment decides path at target. sets are
// given in fold order: a higher breakpoint wins, at one breakpoint a later
// set wins, within a set the narrower range wins.
func (b *Builder) origin(target int, path style.Path, sets ...viewport.Set) (viewport.Address, bool) {
	var best viewport.Address
	found := false
	for _, s := range sets {
		o, ok := occurrence.Find(target, s, path, nil).Nearest()
		if !ok {
			continue
		}
		if !found || o.Address.Breakpoint >= best.Breakpoint {
			best, found = o.Address, true
		}
	}
	return best, found
}

// pinAddress picks the narrowest address exactly at target that already
// defines path, or (target,0).
func (b *Builder) pinAddress(target int, path style.Path) viewport.Address {
	pin := viewport.Address{Breakpoint: target}
	found := false
	for _, s := range []viewport.Set{b.saves, b.changes, b.removes} {
		for _, a := range s.Active(target) {
			if a.Breakpoint != target || !style.Exists(s.Get(a), path) {
				continue
			}
			if !found || pin.Less(a) {
				pin, found = a, true
			}
		}
	}
	return pin
}

// settle makes path resolve to desired from address a upwards. When the
// value inherited from below already equals desired the override at a is
// dropped; the part of a saves definition at a that differs from desired
// is then cancelled by a removal and desired restated in changes.
func (b *Builder) settle(a viewport.Address, path style.Path, desired any) {
	inherited, _ := style.Get(cascade.Resolve(a.Breakpoint,
		without(b.saves, a, path), without(b.changes, a, path), without(b.removes, a, path)), path)
	saved := occurrence.Find(a.Breakpoint, b.saves, path, desired)[a]

	if sameValue(inherited, desired) {
		b.drop(b.changes, a, path)
		b.drop(b.removes, a, path)
		if saved.Missing != nil {
			b.write(b.removes, a, path, saved.Missing)
			b.write(b.changes, a, path, desired)
		}
		b.clearRemoves(a.Breakpoint, path, desired)
		return
	}
	b.write(b.changes, a, path, desired)
	_, treeDesired := style.AsTree(desired)
	if _, treeSaved := style.AsTree(saved.Missing); treeDesired && treeSaved {
		// saves leaves absent from desired survive the merge
		b.subtract(a, path, saved.Missing)
	}
	b.clearRemoves(a.Breakpoint, path, desired)
}

// clearRemoves takes the portion equal to desired out of every removal at
// bp, so nothing subtracts it there.
func (b *Builder) clearRemoves(bp int, path style.Path, desired any) {
	for _, o := range occurrence.Find(bp, b.removes, path, desired).Descending() {
		if o.Address.Breakpoint != bp || o.Found == nil {
			continue
		}
		if o.Missing == nil {
			b.drop(b.removes, o.Address, path)
			continue
		}
		b.write(b.removes, o.Address, path, o.Missing)
	}
}

// subtract adds portion to the removal of path at a.
func (b *Builder) subtract(a viewport.Address, path style.Path, portion any) {
	old, _ := style.Get(b.removes.Get(a), path)
	ot, ook := style.AsTree(old)
	pt, pok := style.AsTree(portion)
	if ook && pok {
		portion = style.Merge(ot, pt)
	}
	b.write(b.removes, a, path, portion)
}

// remove deletes path at target, origin by origin, until the cascade no
// longer yields it there. Changes win over saves at one breakpoint.
func (b *Builder) remove(target int, path style.Path) {
	limit := len(b.saves.Addresses()) + len(b.changes.Addresses()) + 1
	for i := 0; i < limit; i++ {
		current := b.value(target, path)
		if style.IsEmpty(current) {
			return
		}
		inChanges, okc := b.origin(target, path, b.changes)
		inSaves, oks := b.origin(target, path, b.saves)
		switch {
		case okc && (!oks || inChanges.Breakpoint >= inSaves.Breakpoint):
			if inChanges.Breakpoint == target {
				b.drop(b.changes, inChanges, path)
				continue
			}
			below, ok := viewport.Until(inChanges.Breakpoint, target)
			if !ok {
				// the lower value cannot be bounded, cancel it at target instead
				if !b.cancel(viewport.Address{Breakpoint: target}, path, current) {
					return
				}
				continue
			}
			old, _ := style.Get(b.changes.Get(inChanges), path)
			b.drop(b.changes, inChanges, path)
			b.write(b.changes, below, path, old)
		case oks && inSaves.Breakpoint == target:
			saved, _ := style.Get(b.saves.Get(inSaves), path)
			if !b.cancel(inSaves, path, saved) {
				return
			}
		case oks:
			if !b.cancel(viewport.Address{Breakpoint: target}, path, current) {
				return
			}
		default:
			tracer().Errorf("placement: %s resolves at %d without a stored origin", path, target)
			return
		}
	}
}

// cancel writes v as the removal of path at a. It reports false when that
// removal is already in place.
func (b *Builder) cancel(a viewport.Address, path style.Path, v any) bool {
	if old, ok := style.Get(b.removes.Get(a), path); ok && style.Equal(old, v) {
		tracer().Errorf("placement: removal of %s at %s has no effect", path, a)
		return false
	}
	b.write(b.removes, a, path, v)
	return true
}

func (b *Builder) write(s viewport.Set, a viewport.Address, path style.Path, v any) {
	s.Put(a, style.With(s.Get(a), path, v))
}

func (b *Builder) drop(s viewport.Set, a viewport.Address, path style.Path) {
	if t := s.Get(a); t != nil {
		s.Put(a, style.Without(t, path))
	}
}

// without returns s with path removed from the fragment at a.
func without(s viewport.Set, a viewport.Address, path style.Path) viewport.Set {
	t := s.Get(a)
	if t == nil || !style.Exists(t, path) {
		return s
	}
	out := s.Clone()
	out.Put(a, style.Without(t, path))
	return out
}
