package cascade

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/vpcss/internal/style"
	"github.com/yacobolo/vpcss/internal/viewport"
)

type tree = style.Tree

var breakpoints = []int{0, 360, 768, 1024, 1280}

func TestResolveValids(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "vpcss.cascade")
	defer teardown()

	saves := viewport.Set{
		0:   {0: tree{"style": tree{"width": "100%", "height": "auto"}}},
		768: {0: tree{"style": tree{"width": "50%"}}},
	}

	tests := []struct {
		name    string
		changes viewport.Set
		removes viewport.Set
		at      int
		expect  style.Tree
	}{
		{
			name:   "floor",
			at:     0,
			expect: tree{"style": tree{"width": "100%", "height": "auto"}},
		},
		{
			name:   "carried between overrides",
			at:     360,
			expect: tree{"style": tree{"width": "100%", "height": "auto"}},
		},
		{
			name:   "override merged",
			at:     1280,
			expect: tree{"style": tree{"width": "50%", "height": "auto"}},
		},
		{
			name:    "changes win over saves",
			changes: viewport.Set{768: {0: tree{"style": tree{"width": "auto"}}}},
			at:      1024,
			expect:  tree{"style": tree{"width": "auto", "height": "auto"}},
		},
		{
			name:    "removes subtract",
			removes: viewport.Set{1024: {0: tree{"style": tree{"height": "auto"}}}},
			at:      1280,
			expect:  tree{"style": tree{"width": "50%"}},
		},
		{
			name:    "removes with another value do nothing",
			removes: viewport.Set{1024: {0: tree{"style": tree{"height": "10px"}}}},
			at:      1280,
			expect:  tree{"style": tree{"width": "50%", "height": "auto"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valids := ResolveValids("block", breakpoints, saves, tt.changes, tt.removes)
			require.Contains(t, valids, 0)
			assert.True(t, style.Equal(tt.expect, valids.At(tt.at)), "got %v", valids.At(tt.at))
		})
	}
}

func TestResolveRangeExpiry(t *testing.T) {
	saves := viewport.Set{
		0:   {0: tree{"w": "1"}},
		500: {700: tree{"w": "2"}},
	}

	valids := ResolveValids("block", nil, saves, nil, nil)

	assert.Equal(t, []int{0, 500, 701}, valids.Breakpoints())
	assert.Equal(t, "1", valids.At(499)["w"])
	assert.Equal(t, "2", valids.At(700)["w"])
	assert.Equal(t, "1", valids.At(701)["w"])
}

func TestResolveValidsCarriesFoldAcrossExpiries(t *testing.T) {
	saves := viewport.Set{
		0:   {0: tree{"a": "1", "b": "1"}},
		500: {700: tree{"a": "2"}},
		768: {0: tree{"b": "3"}, 1100: tree{"c": "4"}},
	}
	changes := viewport.Set{
		360:  {900: tree{"b": "5"}},
		1024: {0: tree{"d": "6"}},
	}
	removes := viewport.Set{
		600:  {800: tree{"a": "2"}},
		1024: {1279: tree{"b": "3"}},
	}

	valids := ResolveValids("block", breakpoints, saves, changes, removes)

	for _, x := range []int{701, 801, 901, 1101, 1280} {
		assert.Contains(t, valids, x)
	}
	for _, x := range valids.Breakpoints() {
		assert.True(t, style.Equal(Resolve(x, saves, changes, removes), valids[x]),
			"breakpoint %d: got %v", x, valids[x])
	}
	assert.True(t, style.Equal(tree{"b": "5"}, valids.At(600)), "got %v", valids.At(600))
	assert.True(t, style.Equal(tree{"a": "1", "c": "4", "d": "6"}, valids.At(1024)), "got %v", valids.At(1024))
	assert.True(t, style.Equal(tree{"a": "1", "b": "3", "d": "6"}, valids.At(1280)), "got %v", valids.At(1280))
}

func TestResolveValidsDoesNotShareTrees(t *testing.T) {
	saves := viewport.Set{0: {0: tree{"style": tree{"color": "red"}}}}

	valids := ResolveValids("block", breakpoints, saves, nil, nil)
	valids[0]["style"].(style.Tree)["color"] = "blue"

	assert.Equal(t, "red", valids[360]["style"].(style.Tree)["color"])
}

func TestResolveEmptyBlockID(t *testing.T) {
	saves := viewport.Set{0: {0: tree{"w": "1"}}}
	valids := ResolveValids("", breakpoints, saves, nil, nil)
	assert.Equal(t, Valids{0: tree{}}, valids)
}

func TestRemovalContainment(t *testing.T) {
	saves := viewport.Set{
		0:   {0: tree{"style": tree{"color": "red"}}},
		360: {0: tree{"style": tree{"margin": "0"}}},
	}
	removes := viewport.Set{1024: {0: tree{"style": tree{"color": "red"}}}}

	valids := ResolveValids("block", breakpoints, saves, nil, removes)
	for _, bp := range valids.Breakpoints() {
		_, has := style.Get(valids[bp], style.ParsePath("style.color"))
		assert.Equal(t, bp < 1024, has, "breakpoint %d", bp)
	}
}

func TestCascadeCorrectness(t *testing.T) {
	saves := viewport.Set{
		0:    {0: tree{"a": "1", "b": "1"}},
		1024: {0: tree{"b": "2"}},
	}
	changes := viewport.Set{768: {0: tree{"c": "3"}}}

	valids := ResolveValids("block", breakpoints, saves, changes, nil)
	bps := valids.Breakpoints()
	for i := 1; i < len(bps); i++ {
		prev, cur := bps[i-1], bps[i]
		expect := style.Merge(valids[prev], saves.ActiveAt(cur, cur), changes.ActiveAt(cur, cur))
		assert.True(t, style.Equal(expect, valids[cur]), "breakpoint %d", cur)
	}
}

func TestSaveBlockRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "vpcss.cascade")
	defer teardown()

	tests := []struct {
		name    string
		saves   viewport.Set
		changes viewport.Set
		removes viewport.Set
		expect  viewport.Set
	}{
		{
			name: "distributed edit with removal-then-reset",
			saves: viewport.Set{
				0:    {0: tree{"dimensions": tree{"height": "auto"}}},
				768:  {0: tree{"dimensions": tree{"width": "50%"}}},
				1280: {0: tree{"dimensions": tree{"height": "100%"}}},
			},
			changes: viewport.Set{
				0:    {0: tree{"dimensions": tree{"minHeight": "200px"}}},
				768:  {0: tree{"dimensions": tree{"width": "100%"}}},
				1280: {0: tree{"dimensions": tree{"height": "auto"}}},
			},
			removes: viewport.Set{
				1280: {0: tree{"dimensions": tree{"height": "100%"}}},
			},
			expect: viewport.Set{
				0:    {0: tree{"dimensions": tree{"height": "auto", "minHeight": "200px"}}},
				768:  {0: tree{"dimensions": tree{"width": "100%"}}},
				1280: {0: tree{"dimensions": tree{"height": "auto"}}},
			},
		},
		{
			name: "removal at its own breakpoint drops the leaf",
			saves: viewport.Set{
				0:   {0: tree{"style": tree{"width": "1px"}}},
				768: {0: tree{"style": tree{"prop": "old"}}},
			},
			removes: viewport.Set{768: {0: tree{"style": tree{"prop": "old"}}}},
			expect: viewport.Set{
				0: {0: tree{"style": tree{"width": "1px"}}},
			},
		},
		{
			name:    "removal above origin bounds the origin",
			saves:   viewport.Set{0: {0: tree{"style": tree{"color": "red"}}}},
			removes: viewport.Set{768: {0: tree{"style": tree{"color": "red"}}}},
			expect:  viewport.Set{0: {767: tree{"style": tree{"color": "red"}}}},
		},
		{
			name:    "bounded removal falls back to leaf runs",
			saves:   viewport.Set{0: {0: tree{"style": tree{"color": "red"}}}},
			removes: viewport.Set{768: {1023: tree{"style": tree{"color": "red"}}}},
			expect: viewport.Set{
				0:    {767: tree{"style": tree{"color": "red"}}},
				1024: {0: tree{"style": tree{"color": "red"}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := ResolveValids("block", breakpoints, tt.saves, tt.changes, tt.removes)

			saved := SaveBlock(breakpoints, tt.saves, tt.changes, tt.removes)
			after := ResolveValids("block", breakpoints, saved, nil, nil)

			assert.True(t, Equal(before, after), "cascade changed by save: %v", saved)
			require.Len(t, saved.Addresses(), len(tt.expect.Addresses()), "saved %v", saved)
			for _, a := range tt.expect.Addresses() {
				assert.True(t, style.Equal(tt.expect.Get(a), saved.Get(a)), "address %s: %v", a, saved.Get(a))
			}
		})
	}
}

func TestSaveBlockLeavesInputsUntouched(t *testing.T) {
	saves := viewport.Set{0: {0: tree{"style": tree{"color": "red"}}}}
	changes := viewport.Set{768: {0: tree{"style": tree{"color": "blue"}}}}

	SaveBlock(breakpoints, saves, changes, nil)

	assert.Equal(t, viewport.Set{0: {0: tree{"style": tree{"color": "red"}}}}, saves)
	assert.Len(t, changes, 1)
}

func TestSaveBlockAtFirstWidth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "vpcss.cascade")
	defer teardown()

	bps := []int{0, 1, 768}
	saves := viewport.Set{0: {0: tree{"style": tree{"color": "red"}}}}
	removes := viewport.Set{1: {0: tree{"style": tree{"color": "red"}}}}

	saved := SaveBlock(bps, saves, nil, removes)

	for _, a := range saved.Addresses() {
		assert.False(t, a.Breakpoint == 0 && !a.Bounded(), "unbounded fragment at the floor: %v", saved)
	}
	for _, at := range []int{1, 768, 1920} {
		assert.False(t, style.Exists(Resolve(at, saved, nil, nil), style.Path{"style", "color"}), "width %d", at)
	}
}

func TestEncodeRunsAtFirstWidth(t *testing.T) {
	tests := []struct {
		name   string
		valids Valids
		expect viewport.Set
	}{
		{
			name: "later runs cover every key",
			valids: Valids{
				0:   tree{"color": "red"},
				1:   tree{"color": "blue"},
				768: tree{"color": "green"},
			},
			expect: viewport.Set{
				0:   {0: tree{"color": "red"}},
				1:   {767: tree{"color": "blue"}},
				768: {0: tree{"color": "green"}},
			},
		},
		{
			name: "gap above the first width",
			valids: Valids{
				0:   tree{"color": "red"},
				1:   tree{"color": "blue"},
				768: tree{},
			},
			expect: viewport.Set{
				1: {767: tree{"color": "blue"}},
			},
		},
		{
			name: "regular bounds",
			valids: Valids{
				0:   tree{"color": "red"},
				360: tree{},
			},
			expect: viewport.Set{0: {359: tree{"color": "red"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeRuns(tt.valids)
			require.Len(t, got.Addresses(), len(tt.expect.Addresses()), "got %v", got)
			for _, a := range tt.expect.Addresses() {
				assert.True(t, style.Equal(tt.expect.Get(a), got.Get(a)), "address %s: %v", a, got.Get(a))
			}
		})
	}
}
