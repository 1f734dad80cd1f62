// Package style holds the nested key/value trees that describe a block's
// styling, and the pure tree operations the cascade is built from.
//
// A Tree maps property names to values. A value is a leaf (string or number),
// an array, or a further Tree. Arrays are atomic: a changed array replaces the
// previous one entirely, it is never merged element-wise.
//
// Every function in this package allocates fresh structures and leaves its
// inputs untouched, except Set and Delete which mutate by name.
package style

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Tree is a nested style tree.
type Tree map[string]any

// AsTree reports whether v is a style tree. Plain map[string]any values,
// as produced by encoding/json, are accepted as trees.
func AsTree(v any) (Tree, bool) {
	switch t := v.(type) {
	case Tree:
		return t, true
	case map[string]any:
		return Tree(t), true
	}
	return nil, false
}

// Clone returns a deep copy of the tree.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = Clone(v)
	}
	return out
}

// Clone returns a deep copy of v. Nested maps come back as Tree and
// arrays as []any.
func Clone(v any) any {
	if t, ok := AsTree(v); ok {
		return t.Clone()
	}
	if s, ok := asSlice(v); ok {
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = Clone(e)
		}
		return out
	}
	return v
}

// Keys returns the keys of t in sorted order.
func Keys(t Tree) []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsEmpty reports whether v carries no leaf at all. Nil and trees made only
// of empty trees are empty; an empty string is a value and is not.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	t, ok := AsTree(v)
	if !ok {
		return false
	}
	for _, child := range t {
		if !IsEmpty(child) {
			return false
		}
	}
	return true
}

// Equal reports structural equality. Numbers compare by value regardless of
// their Go type, so a decoded JSON float64 equals an int literal.
func Equal(a, b any) bool {
	if at, ok := AsTree(a); ok {
		bt, ok := AsTree(b)
		if !ok || len(at) != len(bt) {
			return false
		}
		for k, av := range at {
			bv, ok := bt[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	if as, ok := asSlice(a); ok {
		bs, ok := asSlice(b)
		if !ok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !Equal(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	if an, ok := Number(a); ok {
		bn, ok := Number(b)
		return ok && an == bn
	}
	if _, ok := AsTree(b); ok {
		return false
	}
	if _, ok := asSlice(b); ok {
		return false
	}
	return a == b
}

// Number converts any Go numeric value to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []float64:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []int:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	}
	return nil, false
}

// Normalize converts decoded document data into tree form: every map
// becomes a Tree (map[any]any keys are stringified, as yaml may produce
// them) and every slice becomes []any.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(Tree, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = Normalize(e)
		}
		return out
	case Tree, map[string]any:
		m, _ := AsTree(t)
		out := make(Tree, len(m))
		for k, e := range m {
			out[k] = Normalize(e)
		}
		return out
	}
	if s, ok := asSlice(v); ok {
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = Normalize(e)
		}
		return out
	}
	return v
}

// IsArray reports whether v is an array value.
func IsArray(v any) bool {
	_, ok := asSlice(v)
	return ok
}

// Array returns v as []any when it is an array value.
func Array(v any) ([]any, bool) {
	return asSlice(v)
}
