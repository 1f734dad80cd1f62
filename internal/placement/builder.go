// Package placement turns "property P should equal V at breakpoint B" into
// edits of a block's changes and removes sets, so that the cascade resolved
// afterwards yields V at B without disturbing the breakpoints below.
package placement

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/yacobolo/vpcss/internal/cascade"
	"github.com/yacobolo/vpcss/internal/style"
	"github.com/yacobolo/vpcss/internal/viewport"
)

// tracer traces with key 'vpcss.placement'.
func tracer() tracing.Trace {
	return tracing.Select("vpcss.placement")
}

var (
	// ErrUnknownBreakpoint is returned for a target the cascade has no entry for.
	ErrUnknownBreakpoint = errors.New("target breakpoint is not resolved")
	// ErrEmptyProperty is returned for an edit without property path.
	ErrEmptyProperty = errors.New("edit has no property")
)

// Edit asks for Desired to be the effective value of Property at
// Breakpoint. A nil Desired deletes the property there. Manual edits are
// pinned to Breakpoint; automatic edits settle where the property is
// currently defined. The current value is always resolved from the
// builder's own sets.
type Edit struct {
	Breakpoint int
	Manual     bool
	Property   style.Path
	Desired    any
}

// Builder accumulates edits on working copies of changes and removes.
// Saves is only read. Nothing reaches the caller's sets before Commit.
type Builder struct {
	breakpoints []int
	saves       viewport.Set
	changes     viewport.Set
	removes     viewport.Set
}

// NewBuilder starts a builder over copies of changes and removes.
func NewBuilder(breakpoints []int, saves, changes, removes viewport.Set) *Builder {
	if saves == nil {
		saves = viewport.Set{}
	}
	return &Builder{
		breakpoints: breakpoints,
		saves:       saves,
		changes:     changes.Clone(),
		removes:     removes.Clone(),
	}
}

// Changes returns the working changes set.
func (b *Builder) Changes() viewport.Set {
	return b.changes
}

// Removes returns the working removes set.
func (b *Builder) Removes() viewport.Set {
	return b.removes
}

// Commit replaces the contents of changes and removes with the working
// sets in one step.
func (b *Builder) Commit(changes, removes viewport.Set) {
	for bp := range changes {
		delete(changes, bp)
	}
	for bp, ranges := range b.changes.Clone() {
		changes[bp] = ranges
	}
	for bp := range removes {
		delete(removes, bp)
	}
	for bp, ranges := range b.removes.Clone() {
		removes[bp] = ranges
	}
}

// Apply places one edit into the working sets.
func (b *Builder) Apply(e Edit) error {
	if len(e.Property) == 0 {
		return ErrEmptyProperty
	}
	if !b.resolved(e.Breakpoint) {
		return fmt.Errorf("%w: %d", ErrUnknownBreakpoint, e.Breakpoint)
	}
	desired := style.Normalize(e.Desired)
	current := b.value(e.Breakpoint, e.Property)
	tracer().Debugf("placement: %s at %d (manual=%v) current=%v desired=%v",
		e.Property, e.Breakpoint, e.Manual, current, desired)

	pending := units(e.Property, current, desired)
	for _, u := range pending {
		b.place(e.Breakpoint, u, e.Manual)
	}
	if b.settled(e.Breakpoint, e.Property, desired) {
		return nil
	}

	// automatic placement could not reproduce the value, pin what is left
	residual := units(e.Property, b.value(e.Breakpoint, e.Property), desired)
	tracer().Infof("placement: pinning %d residual units of %s at %d", len(residual), e.Property, e.Breakpoint)
	for _, u := range residual {
		b.place(e.Breakpoint, u, true)
	}
	if !b.settled(e.Breakpoint, e.Property, desired) {
		tracer().Errorf("placement: %s at %d resolves to %v, wanted %v",
			e.Property, e.Breakpoint, b.value(e.Breakpoint, e.Property), desired)
	}
	return nil
}

func (b *Builder) resolved(target int) bool {
	for _, bp := range viewport.Resolve(b.breakpoints, b.saves, b.changes, b.removes) {
		if bp == target {
			return true
		}
	}
	return false
}

// value is the effective value of path at width at.
func (b *Builder) value(at int, path style.Path) any {
	v, _ := style.Get(cascade.Resolve(at, b.saves, b.changes, b.removes), path)
	return v
}

func (b *Builder) settled(at int, path style.Path, desired any) bool {
	return sameValue(b.value(at, path), desired)
}

// sameValue compares effective values, treating empty trees as absent.
func sameValue(a, b any) bool {
	if style.IsEmpty(a) || style.IsEmpty(b) {
		return style.IsEmpty(a) && style.IsEmpty(b)
	}
	at, aok := style.AsTree(a)
	bt, bok := style.AsTree(b)
	if aok && bok {
		return style.Equal(style.Compact(at), style.Compact(bt))
	}
	return style.Equal(a, b)
}

// ApplyDesiredStyle is the in-place form of a single-edit Builder: it
// mutates changes and removes so that property resolves to desired at
// target. It does nothing for an empty block id or a target the cascade
// does not know.
func ApplyDesiredStyle(blockID string, target int, breakpoints []int, manual bool,
	changes, removes, saves viewport.Set, property style.Path, desired any) {
	if blockID == "" {
		tracer().Errorf("placement: edit of %s without block id ignored", property)
		return
	}
	if changes == nil || removes == nil {
		tracer().Errorf("placement: block %s has no changes/removes sets", blockID)
		return
	}
	b := NewBuilder(breakpoints, saves, changes, removes)
	err := b.Apply(Edit{
		Breakpoint: target,
		Manual:     manual,
		Property:   property,
		Desired:    desired,
	})
	if err != nil {
		tracer().Errorf("placement: block %s: %v", blockID, err)
		return
	}
	b.Commit(changes, removes)
}
