package spectrum

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yacobolo/vpcss/internal/cascade"
	"github.com/yacobolo/vpcss/internal/style"
	"github.com/yacobolo/vpcss/internal/viewport"
)

// DefaultSelectorFormat scopes rules to one block.
const DefaultSelectorFormat = `[data-block="%s"]`

// InlinePlaceholder replaces the block selector in inline styles.
const InlinePlaceholder = "%"

// Fragments are the declarations contributed by each set exactly at the
// breakpoint a spectrum starts at.
type Fragments struct {
	Saves   string `json:"saves,omitempty"`
	Changes string `json:"changes,omitempty"`
	Removes string `json:"removes,omitempty"`
}

// Spectrum is a run of breakpoints sharing identical declarations for one
// property, renderer priority and selector. To is inclusive; 0 means the
// run is open above.
type Spectrum struct {
	Property     string    `json:"property"`
	Priority     int       `json:"priority"`
	Selector     string    `json:"selector"`
	Declarations []string  `json:"declarations"`
	From         int       `json:"from"`
	To           int       `json:"to"`
	Fragments    Fragments `json:"fragments"`
}

// Active reports whether the run covers width at.
func (s Spectrum) Active(at int) bool {
	return s.From <= at && (s.To == 0 || s.To >= at)
}

// Media returns the media query of the run, empty for a run covering every
// width.
func (s Spectrum) Media() string {
	switch {
	case s.From > 0 && s.To > 0:
		return fmt.Sprintf("@media (min-width: %dpx) and (max-width: %dpx)", s.From, s.To)
	case s.From > 0:
		return fmt.Sprintf("@media (min-width: %dpx)", s.From)
	case s.To > 0:
		return fmt.Sprintf("@media (max-width: %dpx)", s.To)
	}
	return ""
}

// Body renders the declarations, optionally marked important.
func (s Spectrum) Body(important bool) string {
	decls := make([]string, len(s.Declarations))
	for i, d := range s.Declarations {
		if important && !strings.Contains(d, "!important") {
			d += " !important"
		}
		decls[i] = d
	}
	return strings.Join(decls, "; ")
}

// Rule renders the run as one CSS rule wrapped in its media query.
func (s Spectrum) Rule(important bool) string {
	rule := fmt.Sprintf("%s { %s; }", s.Selector, s.Body(important))
	if media := s.Media(); media != "" {
		return fmt.Sprintf("%s { %s }", media, rule)
	}
	return rule
}

// InlineStyle is the selector-independent form of a spectrum. Selector has
// the block selector replaced by InlinePlaceholder.
type InlineStyle struct {
	Priority     int    `json:"priority"`
	Selector     string `json:"selector"`
	Declarations string `json:"declarations"`
	From         int    `json:"from"`
	To           int    `json:"to"`
}

// InlineSet maps property → breakpoint → the inline styles active there.
type InlineSet map[string]map[int][]InlineStyle

// Result of compiling one block.
type Result struct {
	CSS       map[int]string `json:"css"`
	Spectrums []Spectrum     `json:"spectrums"`
	Inline    InlineSet      `json:"inline"`
	Important bool           `json:"-"`
}

// Stylesheet renders every spectrum, one rule per line.
func (r *Result) Stylesheet() string {
	var sb strings.Builder
	for _, s := range r.Spectrums {
		sb.WriteString(s.Rule(r.Important))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Compiler compiles resolved cascades into spectrums.
type Compiler struct {
	Registry       *Registry
	Declarations   DeclarationCompiler
	SelectorFormat string
	Important      bool
}

// NewCompiler creates a compiler with the default declaration compiler,
// selector format and importance marker.
func NewCompiler(reg *Registry) *Compiler {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Compiler{
		Registry:       reg,
		Declarations:   DefaultCompiler,
		SelectorFormat: DefaultSelectorFormat,
		Important:      true,
	}
}

// BlockSelector returns the selector rules of blockID are scoped to.
func (c *Compiler) BlockSelector(blockID string) string {
	format := c.SelectorFormat
	if format == "" {
		format = DefaultSelectorFormat
	}
	return fmt.Sprintf(format, blockID)
}

type runKey struct {
	property string
	priority int
	selector string
}

type run struct {
	prev string // declarations of the previous breakpoint
	open int    // index of the open spectrum, -1 if none
}

// Compile walks valids breakpoint by breakpoint and emits one spectrum per
// run of identical declarations. A changed text closes the open run at the
// breakpoint before and opens a new one when non-empty. An opening run
// whose removes fragment equals its saves fragment, with no changes
// fragment, is a fully reverted override: it is dropped and the previous
// run stays open.
func (c *Compiler) Compile(blockID string, valids cascade.Valids, saves, changes, removes viewport.Set) *Result {
	res := &Result{CSS: map[int]string{}, Inline: InlineSet{}, Important: c.Important}
	if blockID == "" {
		tracer().Errorf("spectrum: compile called without block id")
		return res
	}
	block := c.BlockSelector(blockID)
	bps := valids.Breakpoints()
	props := c.properties(valids, saves)

	runs := map[runKey]*run{}
	var seen []runKey
	for _, bp := range bps {
		for _, prop := range props {
			for _, rd := range c.renderers(prop) {
				current := c.rules(rd, propertyTree(valids[bp], prop), block, false)
				keys := make([]runKey, 0, len(current))
				for sel := range current {
					keys = append(keys, runKey{prop, rd.Priority, sel})
				}
				sort.Slice(keys, func(i, j int) bool { return keys[i].selector < keys[j].selector })
				for _, k := range keys {
					if _, ok := runs[k]; !ok {
						runs[k] = &run{open: -1}
						seen = append(seen, k)
					}
				}
				for _, k := range seen {
					if k.property != prop || k.priority != rd.Priority {
						continue
					}
					c.step(res, runs[k], k, bp, current[k.selector], func(s viewport.Set, saving bool) string {
						return c.rules(rd, propertyTree(s.ActiveAt(bp, bp), prop), block, saving)[k.selector]
					}, saves, changes, removes)
				}
			}
		}
	}

	for _, bp := range bps {
		var sb strings.Builder
		for _, s := range res.Spectrums {
			if s.From <= bp {
				sb.WriteString(s.Rule(c.Important))
				sb.WriteString("\n")
			}
		}
		res.CSS[bp] = sb.String()
		for _, s := range res.Spectrums {
			if !s.Active(bp) {
				continue
			}
			byBp, ok := res.Inline[s.Property]
			if !ok {
				byBp = map[int][]InlineStyle{}
				res.Inline[s.Property] = byBp
			}
			byBp[bp] = append(byBp[bp], InlineStyle{
				Priority:     s.Priority,
				Selector:     strings.Replace(s.Selector, block, InlinePlaceholder, 1),
				Declarations: s.Body(c.Important),
				From:         s.From,
				To:           s.To,
			})
		}
	}
	tracer().Debugf("spectrum: block %s compiled into %d spectrums", blockID, len(res.Spectrums))
	return res
}

// step advances one run by one breakpoint.
func (c *Compiler) step(res *Result, r *run, k runKey, bp int, decls string,
	fragment func(viewport.Set, bool) string, saves, changes, removes viewport.Set) {
	if decls == r.prev {
		return
	}
	var frags Fragments
	if decls != "" {
		frags = Fragments{Saves: fragment(saves, true), Changes: fragment(changes, false), Removes: fragment(removes, false)}
		if frags.Removes != "" && frags.Removes == frags.Saves && frags.Changes == "" {
			tracer().Debugf("spectrum: dropping reverted %s %s at %d", k.property, k.selector, bp)
			r.prev = decls
			return
		}
	}
	if r.open >= 0 {
		res.Spectrums[r.open].To = bp - 1
		r.open = -1
	}
	r.prev = decls
	if decls == "" {
		return
	}
	res.Spectrums = append(res.Spectrums, Spectrum{
		Property:     k.property,
		Priority:     k.priority,
		Selector:     k.selector,
		Declarations: strings.Split(decls, "; "),
		From:         bp,
		Fragments:    frags,
	})
	r.open = len(res.Spectrums) - 1
}

// properties is the union of the top-level keys of every resolved tree, the
// baseline keys of saves and every property with a custom renderer.
func (c *Compiler) properties(valids cascade.Valids, saves viewport.Set) []string {
	seen := map[string]bool{}
	for _, t := range valids {
		for k := range t {
			seen[k] = true
		}
	}
	for k := range saves.Get(viewport.Floor) {
		seen[k] = true
	}
	for _, p := range c.Registry.Properties() {
		seen[p] = true
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (c *Compiler) renderers(prop string) []Renderer {
	if list := c.Registry.Renderers(prop); len(list) > 0 {
		return list
	}
	return []Renderer{{Property: prop, Compile: c.Declarations}}
}

// rules compiles t with rd and splits the text into selector →
// declarations, joined with "; ".
func (c *Compiler) rules(rd Renderer, t style.Tree, block string, saving bool) map[string]string {
	out := map[string]string{}
	if style.IsEmpty(t) {
		return out
	}
	compile := rd.Compile
	if compile == nil {
		compile = c.Declarations
	}
	if compile == nil {
		compile = DefaultCompiler
	}
	t = rd.apply(t)
	suffixes := rd.Selectors
	if len(suffixes) == 0 {
		suffixes = []string{""}
	}
	var text strings.Builder
	for _, suffix := range suffixes {
		text.WriteString(compile(t, Options{Selector: block + suffix, Saving: saving}))
		text.WriteString("\n")
	}
	for _, rule := range SplitRules(text.String()) {
		if len(rule.Declarations) == 0 {
			continue
		}
		decls := strings.Join(rule.Declarations, "; ")
		if prev, ok := out[rule.Selector]; ok {
			decls = prev + "; " + decls
		}
		out[rule.Selector] = decls
	}
	return out
}

// propertyTree returns the value of prop in t as a tree; a scalar value is
// wrapped as {prop: value}.
func propertyTree(t style.Tree, prop string) style.Tree {
	v, ok := t[prop]
	if !ok || v == nil {
		return nil
	}
	if sub, ok := style.AsTree(v); ok {
		return sub
	}
	return style.Tree{prop: v}
}
