package report

import (
	"fmt"

	tp "github.com/xlab/treeprint"

	"github.com/yacobolo/vpcss/internal/cascade"
	"github.com/yacobolo/vpcss/internal/style"
	"github.com/yacobolo/vpcss/internal/viewport"
)

// Labeler names breakpoints.
type Labeler interface {
	Label(bp int) string
}

// CascadeTree renders the sets of a block and its resolved cascade as a
// tree, one leaf per property path.
func CascadeTree(blockID string, labels Labeler, valids cascade.Valids, saves, changes, removes viewport.Set) string {
	root := tp.New()
	root.SetValue("block " + blockID)

	sets := []struct {
		name string
		set  viewport.Set
	}{{"saves", saves}, {"changes", changes}, {"removes", removes}}
	for _, s := range sets {
		branch := root.AddMetaBranch(len(s.set.Addresses()), s.name)
		for _, a := range s.set.Addresses() {
			addLeaves(branch.AddMetaBranch(labels.Label(a.Breakpoint), a.String()), s.set.Get(a))
		}
	}

	resolved := root.AddBranch("resolved")
	for _, bp := range valids.Breakpoints() {
		addLeaves(resolved.AddMetaBranch(labels.Label(bp), bp), valids[bp])
	}
	return root.String()
}

func addLeaves(branch tp.Tree, t style.Tree) {
	for _, leaf := range style.Leaves(t) {
		branch.AddNode(fmt.Sprintf("%s: %v", leaf.Path, leaf.Value))
	}
}
