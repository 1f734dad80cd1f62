// Package editor holds the live state of every block being edited: the
// committed saves and the pending changes and removes, together with a
// cache of the resolved cascade.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/npillmayer/schuko/tracing"

	"github.com/yacobolo/vpcss/internal/cascade"
	"github.com/yacobolo/vpcss/internal/placement"
	"github.com/yacobolo/vpcss/internal/spectrum"
	"github.com/yacobolo/vpcss/internal/viewport"
)

// tracer traces with key 'vpcss.editor'.
func tracer() tracing.Trace {
	return tracing.Select("vpcss.editor")
}

// ErrUnknownBlock is returned for a block id the editor does not hold.
var ErrUnknownBlock = errors.New("unknown block")

// Block is the state of one block.
type Block struct {
	ID      string       `json:"id"`
	Saves   viewport.Set `json:"saves"`
	Changes viewport.Set `json:"changes"`
	Removes viewport.Set `json:"removes"`
}

// Clone returns a deep copy of b with every set non-nil.
func (b Block) Clone() Block {
	return Block{ID: b.ID, Saves: b.Saves.Clone(), Changes: b.Changes.Clone(), Removes: b.Removes.Clone()}
}

// Dirty reports whether b has uncommitted changes or removes.
func (b Block) Dirty() bool {
	return !b.Changes.IsEmpty() || !b.Removes.IsEmpty()
}

// Persister stores blocks between sessions.
type Persister interface {
	Put(ctx context.Context, b Block) error
	Get(ctx context.Context, id string) (Block, error)
	List(ctx context.Context) ([]Block, error)
	Delete(ctx context.Context, id string) error
}

type entry struct {
	block  Block
	valids cascade.Valids // nil when stale
}

// Editor is safe for concurrent use.
type Editor struct {
	mu       sync.Mutex
	registry *viewport.Registry
	compiler *spectrum.Compiler
	blocks   map[string]*entry
}

// New creates an editor. Nil arguments fall back to the default breakpoint
// registry and a compiler without custom renderers.
func New(registry *viewport.Registry, compiler *spectrum.Compiler) *Editor {
	if registry == nil {
		registry = viewport.DefaultRegistry()
	}
	if compiler == nil {
		compiler = spectrum.NewCompiler(nil)
	}
	return &Editor{registry: registry, compiler: compiler, blocks: map[string]*entry{}}
}

// Registry returns the breakpoint registry.
func (e *Editor) Registry() *viewport.Registry {
	return e.registry
}

// Register reads the committed saves of a block from its attributes. A
// block already held keeps its pending changes and removes. It reports
// false for an empty id.
func (e *Editor) Register(id string, attrs map[string]any) bool {
	if id == "" {
		tracer().Errorf("editor: register without block id ignored")
		return false
	}
	saves := viewport.FindBlockSaves(attrs)

	e.mu.Lock()
	defer e.mu.Unlock()
	if en, ok := e.blocks[id]; ok {
		en.block.Saves = saves
		en.valids = nil
		return true
	}
	e.blocks[id] = &entry{block: Block{ID: id, Saves: saves, Changes: viewport.Set{}, Removes: viewport.Set{}}}
	tracer().Debugf("editor: registered block %s with %d saved breakpoints", id, len(saves))
	return true
}

// Load replaces the state of b.ID with a copy of b.
func (e *Editor) Load(b Block) bool {
	if b.ID == "" {
		tracer().Errorf("editor: load without block id ignored")
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.blocks[b.ID] = &entry{block: b.Clone()}
	return true
}

// Apply places edits into the pending sets of block id. Either every edit
// is applied or none is.
func (e *Editor) Apply(id string, edits ...placement.Edit) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	en, err := e.lookup(id)
	if err != nil {
		return err
	}
	b := placement.NewBuilder(e.registry.Breakpoints(), en.block.Saves, en.block.Changes, en.block.Removes)
	for _, edit := range edits {
		if err := b.Apply(edit); err != nil {
			return fmt.Errorf("block %s: %w", id, err)
		}
	}
	b.Commit(en.block.Changes, en.block.Removes)
	en.valids = nil
	return nil
}

// Save commits the pending sets of block id into its saves and returns the
// new saves.
func (e *Editor) Save(id string) (viewport.Set, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	en, err := e.lookup(id)
	if err != nil {
		return nil, err
	}
	blk := &en.block
	if blk.Dirty() {
		blk.Saves = cascade.SaveBlock(e.registry.Breakpoints(), blk.Saves, blk.Changes, blk.Removes)
		blk.Changes = viewport.Set{}
		blk.Removes = viewport.Set{}
		en.valids = nil
	}
	return blk.Saves.Clone(), nil
}

// Restore discards the pending sets of block id.
func (e *Editor) Restore(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	en, err := e.lookup(id)
	if err != nil {
		return err
	}
	en.block.Changes = viewport.Set{}
	en.block.Removes = viewport.Set{}
	en.valids = nil
	return nil
}

// Remove forgets block id.
func (e *Editor) Remove(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.blocks[id]; !ok {
		return false
	}
	delete(e.blocks, id)
	return true
}

// Valids returns the resolved cascade of block id. The result is shared
// with the cache and must not be modified.
func (e *Editor) Valids(id string) (cascade.Valids, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	en, err := e.lookup(id)
	if err != nil {
		return nil, err
	}
	return e.valids(en), nil
}

// Compile compiles block id into media-query rules.
func (e *Editor) Compile(id string) (*spectrum.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	en, err := e.lookup(id)
	if err != nil {
		return nil, err
	}
	blk := en.block
	return e.compiler.Compile(id, e.valids(en), blk.Saves, blk.Changes, blk.Removes), nil
}

// Snapshot returns a copy of the state of block id.
func (e *Editor) Snapshot(id string) (Block, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	en, err := e.lookup(id)
	if err != nil {
		return Block{}, err
	}
	return en.block.Clone(), nil
}

// IDs returns the ids of all blocks, sorted.
func (e *Editor) IDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.blocks))
	for id := range e.blocks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Persist writes the given blocks, or every block when ids is empty.
func (e *Editor) Persist(ctx context.Context, p Persister, ids ...string) error {
	if len(ids) == 0 {
		ids = e.IDs()
	}
	for _, id := range ids {
		b, err := e.Snapshot(id)
		if err != nil {
			return err
		}
		if err := p.Put(ctx, b); err != nil {
			return fmt.Errorf("persist block %s: %w", id, err)
		}
	}
	return nil
}

// LoadAll loads every stored block into the editor and returns how many
// were loaded.
func (e *Editor) LoadAll(ctx context.Context, p Persister) (int, error) {
	blocks, err := p.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list blocks: %w", err)
	}
	n := 0
	for _, b := range blocks {
		if e.Load(b) {
			n++
		}
	}
	return n, nil
}

func (e *Editor) lookup(id string) (*entry, error) {
	en, ok := e.blocks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlock, id)
	}
	return en, nil
}

func (e *Editor) valids(en *entry) cascade.Valids {
	if en.valids == nil {
		blk := en.block
		en.valids = cascade.ResolveValids(blk.ID, e.registry.Breakpoints(), blk.Saves, blk.Changes, blk.Removes)
	}
	return en.valids
}
