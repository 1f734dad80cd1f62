package viewport

import (
	"sort"
)

// Default device thresholds in pixels.
const (
	DefaultTablet  = 768
	DefaultDesktop = 1024
)

// Device classifies a breakpoint by the registry thresholds.
type Device int

const (
	Mobile Device = iota
	Tablet
	Desktop
)

func (d Device) String() string {
	switch d {
	case Tablet:
		return "tablet"
	case Desktop:
		return "desktop"
	default:
		return "mobile"
	}
}

// Registry is the ordered breakpoint → label mapping supplied by
// configuration, plus the two thresholds separating mobile, tablet and
// desktop widths. Breakpoint 0 is always present.
type Registry struct {
	labels  map[int]string
	Tablet  int
	Desktop int
}

// NewRegistry creates a registry from labels. Zero thresholds fall back to
// the defaults.
func NewRegistry(labels map[int]string, tablet, desktop int) *Registry {
	if tablet <= 0 {
		tablet = DefaultTablet
	}
	if desktop <= 0 {
		desktop = DefaultDesktop
	}
	r := &Registry{labels: map[int]string{0: "Base"}, Tablet: tablet, Desktop: desktop}
	for bp, label := range labels {
		r.Add(bp, label)
	}
	return r
}

// DefaultRegistry returns the stock breakpoint ladder.
func DefaultRegistry() *Registry {
	return NewRegistry(map[int]string{
		0:    "Base",
		360:  "Mobile",
		768:  "Tablet",
		1024: "Laptop",
		1280: "Desktop",
		1920: "Wide",
	}, DefaultTablet, DefaultDesktop)
}

// Add registers bp, replacing an existing label. Negative breakpoints are
// ignored.
func (r *Registry) Add(bp int, label string) {
	if bp < 0 {
		tracer().Errorf("ignoring negative breakpoint %d (%s)", bp, label)
		return
	}
	r.labels[bp] = label
}

// Breakpoints returns the registered breakpoints, ascending.
func (r *Registry) Breakpoints() []int {
	out := make([]int, 0, len(r.labels))
	for bp := range r.labels {
		out = append(out, bp)
	}
	sort.Ints(out)
	return out
}

// Has reports whether bp is registered.
func (r *Registry) Has(bp int) bool {
	_, ok := r.labels[bp]
	return ok
}

// Label returns the label of bp, or the label of the nearest registered
// breakpoint below it.
func (r *Registry) Label(bp int) string {
	if label, ok := r.labels[bp]; ok {
		return label
	}
	label := r.labels[0]
	for _, b := range r.Breakpoints() {
		if b > bp {
			break
		}
		label = r.labels[b]
	}
	return label
}

// Device classifies bp as mobile, tablet or desktop.
func (r *Registry) Device(bp int) Device {
	switch {
	case bp >= r.Desktop:
		return Desktop
	case bp >= r.Tablet:
		return Tablet
	default:
		return Mobile
	}
}

// Resolve returns the registry breakpoints together with every breakpoint
// the sets use, see Resolve.
func (r *Registry) Resolve(sets ...Set) []int {
	return Resolve(r.Breakpoints(), sets...)
}

// Resolve returns the ascending union of breakpoints, 0, every breakpoint
// holding a fragment in sets, and the expiry point (range+1) of every
// bounded fragment, where the cascade can change.
func Resolve(breakpoints []int, sets ...Set) []int {
	seen := map[int]bool{0: true}
	for _, bp := range breakpoints {
		if bp >= 0 {
			seen[bp] = true
		}
	}
	for _, s := range sets {
		for bp, ranges := range s {
			seen[bp] = true
			for r := range ranges {
				if r > 0 {
					seen[r+1] = true
				}
			}
		}
	}
	out := make([]int, 0, len(seen))
	for bp := range seen {
		out = append(out, bp)
	}
	sort.Ints(out)
	return out
}
