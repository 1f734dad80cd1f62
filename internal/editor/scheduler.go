package editor

import (
	"sync"
	"time"

	"github.com/bep/debounce"
)

// DefaultDelay is the quiet period after which scheduled registrations are
// flushed.
const DefaultDelay = 50 * time.Millisecond

// Scheduler batches block registrations. Registrations arriving within the
// delay of each other are flushed together, one block at a time, in the
// order they were first scheduled. A later registration of the same block
// replaces its attributes.
type Scheduler struct {
	editor   *Editor
	debounce func(func())

	mu      sync.Mutex
	pending map[string]map[string]any
	order   []string
	flushed func(ids []string)
}

// NewScheduler creates a scheduler feeding ed. A non-positive delay uses
// DefaultDelay.
func NewScheduler(ed *Editor, delay time.Duration) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scheduler{
		editor:   ed,
		debounce: debounce.New(delay),
		pending:  map[string]map[string]any{},
	}
}

// OnFlush sets a callback receiving the ids registered by each flush.
func (s *Scheduler) OnFlush(fn func(ids []string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushed = fn
}

// Schedule queues the registration of block id.
func (s *Scheduler) Schedule(id string, attrs map[string]any) {
	if id == "" {
		tracer().Errorf("editor: scheduling without block id ignored")
		return
	}
	s.mu.Lock()
	if _, ok := s.pending[id]; !ok {
		s.order = append(s.order, id)
	}
	s.pending[id] = attrs
	s.mu.Unlock()

	s.debounce(func() { s.Flush() })
}

// Pending returns the number of queued registrations.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Flush registers every queued block now and returns their ids.
func (s *Scheduler) Flush() []string {
	s.mu.Lock()
	pending, order, fn := s.pending, s.order, s.flushed
	s.pending = map[string]map[string]any{}
	s.order = nil
	s.mu.Unlock()

	if len(order) == 0 {
		return nil
	}
	ids := make([]string, 0, len(order))
	for _, id := range order {
		if s.editor.Register(id, pending[id]) {
			ids = append(ids, id)
		}
	}
	tracer().Debugf("editor: flushed %d scheduled registrations", len(ids))
	if fn != nil {
		fn(ids)
	}
	return ids
}
