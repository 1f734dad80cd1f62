// Package viewport models breakpoint-indexed style storage: addresses,
// viewport sets, the breakpoint registry and the block attribute shapes
// sets are read from and written back to.
package viewport

import (
	"fmt"
	"sort"

	"github.com/npillmayer/schuko/tracing"

	"github.com/yacobolo/vpcss/internal/style"
)

// tracer traces with key 'vpcss.viewport'.
func tracer() tracing.Trace {
	return tracing.Select("vpcss.viewport")
}

// Address is the storage address of one style fragment. Breakpoint is the
// minimum viewport width the fragment applies from; Range, when non-zero, is
// the inclusive maximum width it applies up to.
type Address struct {
	Breakpoint int
	Range      int
}

// Floor is the unconditional address (0,0).
var Floor = Address{}

// Active reports whether a fragment stored at a applies at viewport width at.
func (a Address) Active(at int) bool {
	return a.Breakpoint <= at && (a.Range == 0 || a.Range >= at)
}

// Bounded reports whether the address carries an upper range bound.
func (a Address) Bounded() bool {
	return a.Range != 0
}

// Until returns the address covering widths bp up to next-1. It reports
// false when next-1 is 0: range 0 means unbounded, so a fragment applying
// at width 0 only cannot be stored.
func Until(bp, next int) (Address, bool) {
	if next-1 <= 0 || next <= bp {
		return Address{}, false
	}
	return Address{Breakpoint: bp, Range: next - 1}, true
}

func (a Address) String() string {
	if a.Range == 0 {
		return fmt.Sprintf("%d", a.Breakpoint)
	}
	return fmt.Sprintf("%d..%d", a.Breakpoint, a.Range)
}

// Less orders addresses in merge order: breakpoint ascending, then range 0
// first, then wider ranges before narrower ones so the narrowest range is
// merged last and wins.
func (a Address) Less(b Address) bool {
	if a.Breakpoint != b.Breakpoint {
		return a.Breakpoint < b.Breakpoint
	}
	if a.Range == 0 || b.Range == 0 {
		return a.Range == 0 && b.Range != 0
	}
	return a.Range > b.Range
}

// Ranges maps a range key to the fragment stored under it.
type Ranges map[int]style.Tree

// Set is a viewport set: breakpoint → range → style tree.
type Set map[int]Ranges

// Get returns the fragment stored at a, or nil.
func (s Set) Get(a Address) style.Tree {
	if s == nil {
		return nil
	}
	return s[a.Breakpoint][a.Range]
}

// Put stores t at a. An empty tree deletes the address instead, pruning
// the breakpoint when no range is left.
func (s Set) Put(a Address, t style.Tree) {
	if style.IsEmpty(t) {
		s.Delete(a)
		return
	}
	ranges, ok := s[a.Breakpoint]
	if !ok {
		ranges = Ranges{}
		s[a.Breakpoint] = ranges
	}
	ranges[a.Range] = t
}

// Delete removes the fragment at a.
func (s Set) Delete(a Address) {
	ranges, ok := s[a.Breakpoint]
	if !ok {
		return
	}
	delete(ranges, a.Range)
	if len(ranges) == 0 {
		delete(s, a.Breakpoint)
	}
}

// Clone returns a deep copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for bp, ranges := range s {
		rc := make(Ranges, len(ranges))
		for r, t := range ranges {
			rc[r] = t.Clone()
		}
		out[bp] = rc
	}
	return out
}

// Breakpoints returns the breakpoints holding at least one fragment, ascending.
func (s Set) Breakpoints() []int {
	out := make([]int, 0, len(s))
	for bp, ranges := range s {
		if len(ranges) > 0 {
			out = append(out, bp)
		}
	}
	sort.Ints(out)
	return out
}

// Addresses lists every stored address in merge order.
func (s Set) Addresses() []Address {
	var out []Address
	for bp, ranges := range s {
		for r := range ranges {
			out = append(out, Address{Breakpoint: bp, Range: r})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Active lists the addresses whose fragments apply at width at, in merge order.
func (s Set) Active(at int) []Address {
	var out []Address
	for _, a := range s.Addresses() {
		if a.Active(at) {
			out = append(out, a)
		}
	}
	return out
}

// ActiveAt merges the fragments stored at breakpoint bp that apply at
// width at. Returns nil when none applies.
func (s Set) ActiveAt(bp, at int) style.Tree {
	ranges, ok := s[bp]
	if !ok {
		return nil
	}
	addrs := make([]Address, 0, len(ranges))
	for r := range ranges {
		a := Address{Breakpoint: bp, Range: r}
		if a.Active(at) {
			addrs = append(addrs, a)
		}
	}
	if len(addrs) == 0 {
		return nil
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Less(addrs[j]) })
	trees := make([]style.Tree, len(addrs))
	for i, a := range addrs {
		trees[i] = ranges[a.Range]
	}
	return style.Merge(trees...)
}

// IsEmpty reports whether the set stores no leaf at all.
func (s Set) IsEmpty() bool {
	for _, ranges := range s {
		for _, t := range ranges {
			if !style.IsEmpty(t) {
				return false
			}
		}
	}
	return true
}

// Prune drops empty fragments and the breakpoints they leave empty.
func (s Set) Prune() {
	for bp, ranges := range s {
		for r, t := range ranges {
			if style.IsEmpty(t) {
				delete(ranges, r)
			}
		}
		if len(ranges) == 0 {
			delete(s, bp)
		}
	}
}

// Collapse merges every fragment of s that applies at width at, low to
// high. The result is never nil.
func Collapse(s Set, at int) style.Tree {
	var trees []style.Tree
	for _, a := range s.Active(at) {
		trees = append(trees, s.Get(a))
	}
	return style.Merge(trees...)
}
