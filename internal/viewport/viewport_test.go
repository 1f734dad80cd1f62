package viewport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/vpcss/internal/style"
)

func TestAddressActive(t *testing.T) {
	tests := []struct {
		addr   Address
		at     int
		expect bool
	}{
		{Address{0, 0}, 0, true},
		{Address{0, 0}, 1920, true},
		{Address{768, 0}, 767, false},
		{Address{768, 0}, 768, true},
		{Address{768, 1023}, 1023, true},
		{Address{768, 1023}, 1024, false},
		{Address{0, 767}, 360, true},
	}

	for _, tt := range tests {
		t.Run(tt.addr.String(), func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.addr.Active(tt.at), "at %d", tt.at)
		})
	}
}

func TestUntil(t *testing.T) {
	tests := []struct {
		bp, next int
		expect   Address
		ok       bool
	}{
		{768, 1024, Address{768, 1023}, true},
		{0, 360, Address{0, 359}, true},
		{0, 2, Address{0, 1}, true},
		{0, 1, Address{}, false},
		{0, 0, Address{}, false},
		{768, 768, Address{}, false},
	}

	for _, tt := range tests {
		a, ok := Until(tt.bp, tt.next)
		assert.Equal(t, tt.ok, ok, "%d..%d", tt.bp, tt.next)
		assert.Equal(t, tt.expect, a, "%d..%d", tt.bp, tt.next)
		if ok {
			assert.True(t, a.Bounded())
			assert.False(t, a.Active(tt.next))
		}
	}
}

func TestAddressesMergeOrder(t *testing.T) {
	s := Set{
		768: Ranges{0: style.Tree{"a": "1"}, 1023: style.Tree{"a": "2"}, 900: style.Tree{"a": "3"}},
		0:   Ranges{0: style.Tree{"a": "0"}},
	}

	assert.Equal(t, []Address{{0, 0}, {768, 0}, {768, 1023}, {768, 900}}, s.Addresses())

	// the narrowest active range wins at its breakpoint
	assert.Equal(t, "3", s.ActiveAt(768, 800)["a"])
	assert.Equal(t, "2", s.ActiveAt(768, 950)["a"])
	assert.Equal(t, "1", s.ActiveAt(768, 1100)["a"])
}

func TestPutEmptyDeletes(t *testing.T) {
	s := Set{}
	s.Put(Address{768, 0}, style.Tree{"style": style.Tree{"width": "1px"}})
	require.Equal(t, []int{768}, s.Breakpoints())

	s.Put(Address{768, 0}, style.Tree{"style": style.Tree{}})
	assert.Empty(t, s)
}

func TestCollapse(t *testing.T) {
	s := Set{
		0:    Ranges{0: style.Tree{"style": style.Tree{"width": "100%", "height": "auto"}}},
		768:  Ranges{1023: style.Tree{"style": style.Tree{"width": "50%"}}},
		1280: Ranges{0: style.Tree{"style": style.Tree{"height": "100%"}}},
	}

	assert.True(t, style.Equal(style.Tree{"style": style.Tree{"width": "50%", "height": "auto"}}, Collapse(s, 800)))
	assert.True(t, style.Equal(style.Tree{"style": style.Tree{"width": "100%", "height": "100%"}}, Collapse(s, 1280)))
}

func TestResolve(t *testing.T) {
	s := Set{
		500: Ranges{700: style.Tree{"a": "1"}},
	}
	assert.Equal(t, []int{0, 500, 701, 768}, Resolve([]int{768}, s))
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []int{0, 360, 768, 1024, 1280, 1920}, r.Breakpoints())
	assert.Equal(t, "Tablet", r.Label(768))
	assert.Equal(t, "Tablet", r.Label(800))
	assert.Equal(t, Mobile, r.Device(360))
	assert.Equal(t, Tablet, r.Device(768))
	assert.Equal(t, Desktop, r.Device(1024))

	custom := NewRegistry(map[int]string{600: "Small"}, 0, 0)
	assert.Equal(t, []int{0, 600}, custom.Breakpoints())
	assert.Equal(t, DefaultTablet, custom.Tablet)
}

func TestFindBlockSaves(t *testing.T) {
	tests := []struct {
		name   string
		attrs  string
		expect Set
	}{
		{
			name:  "baseline only",
			attrs: `{"style":{"width":"100%"}}`,
			expect: Set{
				0: Ranges{0: style.Tree{"style": style.Tree{"width": "100%"}}},
			},
		},
		{
			name:  "two-level viewports",
			attrs: `{"style":{"width":"100%"},"viewports":{"768":{"0":{"style":{"width":"50%"}},"1023":{"style":{"color":"red"}}}}}`,
			expect: Set{
				0:   Ranges{0: style.Tree{"style": style.Tree{"width": "100%"}}},
				768: Ranges{0: style.Tree{"style": style.Tree{"width": "50%"}}, 1023: style.Tree{"style": style.Tree{"color": "red"}}},
			},
		},
		{
			name:  "legacy one-level viewports",
			attrs: `{"style":{"width":"100%"},"viewports":{"1280":{"style":{"width":"auto"}}}}`,
			expect: Set{
				0:    Ranges{0: style.Tree{"style": style.Tree{"width": "100%"}}},
				1280: Ranges{0: style.Tree{"style": style.Tree{"width": "auto"}}},
			},
		},
		{
			name:   "empty attributes",
			attrs:  `{}`,
			expect: Set{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attrs map[string]any
			require.NoError(t, json.Unmarshal([]byte(tt.attrs), &attrs))

			saves := FindBlockSaves(attrs)
			require.Equal(t, len(tt.expect), len(saves))
			for _, a := range tt.expect.Addresses() {
				assert.True(t, style.Equal(tt.expect.Get(a), saves.Get(a)), "address %s: %v", a, saves.Get(a))
			}
		})
	}
}

func TestToAttributesRoundTrip(t *testing.T) {
	saves := Set{
		0:   Ranges{0: style.Tree{"style": style.Tree{"width": "100%"}}, 767: style.Tree{"style": style.Tree{"height": "1px"}}},
		768: Ranges{0: style.Tree{"style": style.Tree{"width": "50%"}}},
	}

	attrs := ToAttributes(saves)
	data, err := json.Marshal(attrs)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, IsLegacyShape(decoded[ViewportsKey]))

	back := FindBlockSaves(decoded)
	for _, a := range saves.Addresses() {
		assert.True(t, style.Equal(saves.Get(a), back.Get(a)), "address %s", a)
	}
	assert.Len(t, back.Addresses(), 3)
}
