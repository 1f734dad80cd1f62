package style

import "strings"

// Path addresses a value inside a tree, outermost key first.
type Path []string

// ParsePath splits a dotted path ("style.width").
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Append returns a new path with keys added; p is not modified.
func (p Path) Append(keys ...string) Path {
	out := make(Path, 0, len(p)+len(keys))
	out = append(out, p...)
	return append(out, keys...)
}

// HasPrefix reports whether q is a prefix of p.
func (p Path) HasPrefix(q Path) bool {
	if len(q) > len(p) {
		return false
	}
	for i := range q {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Get returns the value stored at p. Nil values count as absent.
func Get(t Tree, p Path) (any, bool) {
	if t == nil {
		return nil, false
	}
	var cur any = t
	for _, k := range p {
		ct, ok := AsTree(cur)
		if !ok {
			return nil, false
		}
		v, ok := ct[k]
		if !ok || v == nil {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// Exists reports whether a value is stored at p.
func Exists(t Tree, p Path) bool {
	_, ok := Get(t, p)
	return ok
}

// Set stores v at p, creating intermediate trees and replacing any
// non-tree value that sits on the way. It mutates t.
func Set(t Tree, p Path, v any) {
	if t == nil || len(p) == 0 {
		return
	}
	cur := t
	for _, k := range p[:len(p)-1] {
		next, ok := AsTree(cur[k])
		if !ok {
			next = Tree{}
			cur[k] = next
		}
		cur = next
	}
	cur[p[len(p)-1]] = v
}

// Delete removes the value at p and every ancestor container left empty by
// the removal. It mutates t and reports whether anything was removed.
func Delete(t Tree, p Path) bool {
	if t == nil || len(p) == 0 {
		return false
	}
	if len(p) == 1 {
		_, ok := t[p[0]]
		delete(t, p[0])
		return ok
	}
	child, ok := AsTree(t[p[0]])
	if !ok {
		return false
	}
	removed := Delete(child, p[1:])
	if removed && len(child) == 0 {
		delete(t, p[0])
	}
	return removed
}

// With is the pure variant of Set.
func With(t Tree, p Path, v any) Tree {
	out := t.Clone()
	if out == nil {
		out = Tree{}
	}
	Set(out, p, Clone(v))
	return out
}

// Without is the pure variant of Delete.
func Without(t Tree, p Path) Tree {
	out := t.Clone()
	Delete(out, p)
	return out
}
