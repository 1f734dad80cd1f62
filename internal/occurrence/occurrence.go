// Package occurrence locates the stored values of a property at or below a
// target breakpoint within one viewport set.
package occurrence

import (
	"sort"

	"github.com/npillmayer/schuko/tracing"

	"github.com/yacobolo/vpcss/internal/style"
	"github.com/yacobolo/vpcss/internal/viewport"
)

// tracer traces with key 'vpcss.occurrence'.
func tracer() tracing.Trace {
	return tracing.Select("vpcss.occurrence")
}

// Occurrence is one stored value of a property.
type Occurrence struct {
	Address viewport.Address
	Value   any // stored value, nil for the sentinel
	Found   any // portion of Value equal to the compare value
	Missing any // portion of Value that differs from the compare value
	Merged  any // merge of Found over this and every higher occurrence
}

// Map is keyed by storage address. A map holding only a nil-valued entry at
// (0,0) is the sentinel for "nothing found".
type Map map[viewport.Address]Occurrence

// None reports whether m is the not-found sentinel.
func (m Map) None() bool {
	if len(m) != 1 {
		return len(m) == 0
	}
	o, ok := m[viewport.Floor]
	return ok && o.Value == nil
}

// Descending returns the occurrences from the highest-priority address
// down to the lowest. The sentinel yields nothing.
func (m Map) Descending() []Occurrence {
	if m.None() {
		return nil
	}
	out := make([]Occurrence, 0, len(m))
	for _, o := range m {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[j].Address.Less(out[i].Address) })
	return out
}

// Nearest returns the occurrence that wins at the target.
func (m Map) Nearest() (Occurrence, bool) {
	d := m.Descending()
	if len(d) == 0 {
		return Occurrence{}, false
	}
	return d[0], true
}

// Find collects every fragment of set that applies at target and stores a
// value at path. Each value is split against compare into the portion that
// matches (Found) and the portion that does not (Missing). Merged
// accumulates Found while scanning from the highest breakpoint down, higher
// breakpoints winning.
func Find(target int, set viewport.Set, path style.Path, compare any) Map {
	out := Map{}
	addrs := set.Active(target)
	var merged any
	for i := len(addrs) - 1; i >= 0; i-- {
		a := addrs[i]
		v, ok := style.Get(set.Get(a), path)
		if !ok {
			continue
		}
		found, missing := split(v, compare)
		merged = mergeUnder(merged, found)
		out[a] = Occurrence{
			Address: a,
			Value:   style.Clone(v),
			Found:   found,
			Missing: missing,
			Merged:  style.Clone(merged),
		}
	}
	if len(out) == 0 {
		tracer().Debugf("occurrence: %s not stored at or below %d", path, target)
		return Map{viewport.Floor: {Address: viewport.Floor}}
	}
	return out
}

// split divides v into the portion equal to compare and the rest. Trees are
// split leaf by leaf; any other shape matches whole or not at all.
func split(v, compare any) (found, missing any) {
	vt, vok := style.AsTree(v)
	ct, cok := style.AsTree(compare)
	if vok && cok {
		found, missing = style.Intersect(vt, ct), style.Diff(vt, ct)
		if style.IsEmpty(found) {
			found = nil
		}
		if style.IsEmpty(missing) {
			missing = nil
		}
		return found, missing
	}
	if style.Equal(v, compare) {
		return style.Clone(v), nil
	}
	return nil, style.Clone(v)
}

// mergeUnder merges lower beneath acc: values already in acc win.
func mergeUnder(acc, lower any) any {
	if lower == nil {
		return acc
	}
	if acc == nil {
		return style.Clone(lower)
	}
	at, aok := style.AsTree(acc)
	lt, lok := style.AsTree(lower)
	if aok && lok {
		return style.Merge(lt, at)
	}
	return acc
}
