package style

// Merge deep-merges trees left to right: later arguments win per leaf,
// common nested trees are merged recursively, arrays and scalars replace.
// Nil values are skipped. The result never aliases any input.
func Merge(trees ...Tree) Tree {
	out := Tree{}
	for _, t := range trees {
		mergeInto(out, t)
	}
	return out
}

func mergeInto(dst, src Tree) {
	for k, v := range src {
		if v == nil {
			continue
		}
		if st, ok := AsTree(v); ok {
			// dst only ever holds clones, so merging in place is safe
			if dt, ok := AsTree(dst[k]); ok {
				mergeInto(dt, st)
				continue
			}
			dst[k] = st.Clone()
			continue
		}
		dst[k] = Clone(v)
	}
}

// Diff returns the subtree of a whose leaves differ from b. Keys absent in b
// are included whole; equal leaves are omitted; common nested trees recurse.
// The result is empty, not nil, when a adds nothing over b.
func Diff(a, b Tree) Tree {
	out := Tree{}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			out[k] = Clone(av)
			continue
		}
		at, aok := AsTree(av)
		bt, bok := AsTree(bv)
		if aok && bok {
			if d := Diff(at, bt); len(d) > 0 {
				out[k] = d
			}
			continue
		}
		if !Equal(av, bv) {
			out[k] = Clone(av)
		}
	}
	return out
}

// Subtract returns a with every leaf structurally equal to its counterpart in
// b removed. Mismatched shapes (tree against scalar or array) are never
// subtracted. Returns nil when nothing remains.
func Subtract(a, b Tree) Tree {
	if len(a) == 0 {
		return nil
	}
	out := Tree{}
	for k, av := range a {
		at, aok := AsTree(av)
		bv, ok := b[k]
		if !ok {
			if aok && IsEmpty(at) {
				continue
			}
			out[k] = Clone(av)
			continue
		}
		bt, bok := AsTree(bv)
		if aok && bok {
			if rest := Subtract(at, bt); rest != nil {
				out[k] = rest
			}
			continue
		}
		if !Equal(av, bv) {
			out[k] = Clone(av)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Intersect returns the leaves present and equal in both a and b.
func Intersect(a, b Tree) Tree {
	out := Tree{}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			continue
		}
		at, aok := AsTree(av)
		bt, bok := AsTree(bv)
		if aok && bok {
			if in := Intersect(at, bt); len(in) > 0 {
				out[k] = in
			}
			continue
		}
		if Equal(av, bv) {
			out[k] = Clone(av)
		}
	}
	return out
}

// Compact returns a copy of t without empty subtrees. The result is never nil.
func Compact(t Tree) Tree {
	out := Tree{}
	for k, v := range t {
		if child, ok := AsTree(v); ok {
			if c := Compact(child); len(c) > 0 {
				out[k] = c
			}
			continue
		}
		if v != nil {
			out[k] = Clone(v)
		}
	}
	return out
}

// Leaf is one terminal value of a tree with its address.
type Leaf struct {
	Path  Path
	Value any
}

// Leaves lists every leaf of t in sorted path order. Empty subtrees have no
// leaves.
func Leaves(t Tree) []Leaf {
	var out []Leaf
	collectLeaves(t, nil, &out)
	return out
}

func collectLeaves(t Tree, prefix Path, out *[]Leaf) {
	for _, k := range Keys(t) {
		p := prefix.Append(k)
		if child, ok := AsTree(t[k]); ok {
			collectLeaves(child, p, out)
			continue
		}
		if t[k] == nil {
			continue
		}
		*out = append(*out, Leaf{Path: p, Value: t[k]})
	}
}
