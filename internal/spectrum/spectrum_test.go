package spectrum

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/vpcss/internal/cascade"
	"github.com/yacobolo/vpcss/internal/style"
	"github.com/yacobolo/vpcss/internal/viewport"
)

type tree = style.Tree

var breakpoints = []int{0, 360, 768, 1024, 1280}

func TestDefaultCompiler(t *testing.T) {
	got := DefaultCompiler(tree{
		"minHeight":  "200px",
		"margin":     tree{"top": "4px"},
		":hover":     tree{"color": "red"},
		"fontFamily": []any{"Inter", "sans-serif"},
		"order":      2,
	}, Options{Selector: ".b"})

	expect := ".b { font-family: Inter, sans-serif; margin-top: 4px; min-height: 200px; order: 2; }\n" +
		".b:hover { color: red; }\n"
	assert.Equal(t, expect, got)
	assert.Empty(t, DefaultCompiler(tree{}, Options{Selector: ".b"}))
}

func TestSplitRules(t *testing.T) {
	rules := SplitRules(`[data-block="b1"] { width:100%;  height : auto }
/* comment */
[data-block="b1"]:hover { color: red; }`)

	require.Len(t, rules, 2)
	assert.Equal(t, `[data-block="b1"]`, rules[0].Selector)
	assert.Equal(t, []string{"width: 100%", "height: auto"}, rules[0].Declarations)
	assert.Equal(t, `[data-block="b1"]:hover`, rules[1].Selector)
	assert.Equal(t, []string{"color: red"}, rules[1].Declarations)
}

func TestRegistryOrdering(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Renderer{Property: "border", Priority: 10, Selectors: []string{"a"}})
	reg.Register(Renderer{Property: "border", Priority: 5})
	reg.Register(Renderer{Property: "border", Priority: 10, Selectors: []string{"b"}})

	list := reg.Renderers("border")
	require.Len(t, list, 2)
	assert.Equal(t, 5, list[0].Priority)
	assert.Equal(t, 10, list[1].Priority)
	assert.Equal(t, []string{"b"}, list[1].Selectors, "same priority replaces")

	assert.True(t, reg.Unregister("border", 5))
	assert.False(t, reg.Unregister("border", 5))
	assert.Equal(t, []string{"border"}, reg.Properties())
}

func TestCompileSpectrumMinimality(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "vpcss.spectrum")
	defer teardown()

	saves := viewport.Set{
		0:   {0: tree{"style": tree{"width": "100%"}}},
		768: {0: tree{"style": tree{"width": "50%"}}},
	}
	valids := cascade.ResolveValids("b1", breakpoints, saves, nil, nil)

	res := NewCompiler(nil).Compile("b1", valids, saves, nil, nil)

	require.Len(t, res.Spectrums, 2)
	first, second := res.Spectrums[0], res.Spectrums[1]
	assert.Equal(t, 0, first.From)
	assert.Equal(t, 767, first.To)
	assert.Equal(t, []string{"width: 100%"}, first.Declarations)
	assert.Equal(t, "width: 100%", first.Fragments.Saves)
	assert.Equal(t, 768, second.From)
	assert.Equal(t, 0, second.To)

	assert.Equal(t, `@media (max-width: 767px) { [data-block="b1"] { width: 100% !important; } }`, first.Rule(true))
	assert.Equal(t, `@media (min-width: 768px) { [data-block="b1"] { width: 50% !important; } }`, second.Rule(true))

	assert.Equal(t, first.Rule(true)+"\n", res.CSS[0])
	assert.Equal(t, first.Rule(true)+"\n", res.CSS[360])
	assert.Equal(t, first.Rule(true)+"\n"+second.Rule(true)+"\n", res.CSS[1280])

	inline := res.Inline["style"][1024]
	require.Len(t, inline, 1)
	assert.Equal(t, InlineStyle{Selector: "%", Declarations: "width: 50% !important", From: 768}, inline[0])
}

func TestCompileRemovalClosesRun(t *testing.T) {
	saves := viewport.Set{0: {0: tree{"style": tree{"color": "red"}}}}
	removes := viewport.Set{1024: {0: tree{"style": tree{"color": "red"}}}}
	valids := cascade.ResolveValids("b1", breakpoints, saves, nil, removes)

	res := NewCompiler(nil).Compile("b1", valids, saves, nil, removes)

	require.Len(t, res.Spectrums, 1)
	assert.Equal(t, 0, res.Spectrums[0].From)
	assert.Equal(t, 1023, res.Spectrums[0].To)
	assert.Empty(t, res.Inline["style"][1280])
}

func TestCompileDropsRevertedOverride(t *testing.T) {
	saves := viewport.Set{
		0:   {0: tree{"style": tree{"width": "10px", "color": "red"}}},
		768: {0: tree{"style": tree{"color": "red"}}},
	}
	removes := viewport.Set{768: {0: tree{"style": tree{"color": "red"}}}}
	valids := cascade.ResolveValids("b1", breakpoints, saves, nil, removes)

	res := NewCompiler(nil).Compile("b1", valids, saves, nil, removes)

	require.Len(t, res.Spectrums, 1)
	assert.Equal(t, 0, res.Spectrums[0].To)
}

func TestCompileCustomRenderer(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Renderer{
		Property:  "dimensions",
		Priority:  1,
		Selectors: []string{" > .inner"},
		Mapping:   map[string]string{"width": "inlineSize"},
	})
	saves := viewport.Set{0: {0: tree{"dimensions": tree{"width": "10px"}}}}
	valids := cascade.ResolveValids("b1", breakpoints, saves, nil, nil)

	c := NewCompiler(reg)
	c.Important = false
	res := c.Compile("b1", valids, saves, nil, nil)

	require.Len(t, res.Spectrums, 1)
	s := res.Spectrums[0]
	assert.Equal(t, `[data-block="b1"] > .inner`, s.Selector)
	assert.Equal(t, []string{"inline-size: 10px"}, s.Declarations)
	assert.Equal(t, 1, s.Priority)
	assert.Equal(t, "% > .inner", res.Inline["dimensions"][0][0].Selector)
	assert.Equal(t, `[data-block="b1"] > .inner { inline-size: 10px; }`, s.Rule(c.Important))
}

func TestCompileEmptyBlockID(t *testing.T) {
	res := NewCompiler(nil).Compile("", cascade.Valids{0: tree{"style": tree{"width": "1px"}}}, nil, nil, nil)
	assert.Empty(t, res.Spectrums)
	assert.Empty(t, res.CSS)
}

func TestValidate(t *testing.T) {
	saves := viewport.Set{
		0:    {0: tree{"style": tree{"width": "100%", ":hover": tree{"color": "red"}}}},
		1024: {0: tree{"style": tree{"width": "50%"}}},
	}
	valids := cascade.ResolveValids("b1", breakpoints, saves, nil, nil)
	res := NewCompiler(nil).Compile("b1", valids, saves, nil, nil)

	sheet := res.Stylesheet()
	assert.True(t, strings.HasPrefix(sheet, "@media (max-width: 1023px)"), sheet)

	n, err := Validate(sheet)
	require.NoError(t, err)
	assert.Equal(t, len(res.Spectrums), n)
}
