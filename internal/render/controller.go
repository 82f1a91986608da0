// Package render implements incremental, batch-wise rendering of the current
// display list. The host surface decides when the user is near the end of what
// has been rendered and calls NearEnd; the controller decides what comes next.
package render

import (
	"sync"

	"github.com/GeekNeuron/OpenPos/internal/domain"
)

// DefaultBatchSize is the number of cards rendered per increment
const DefaultBatchSize = 15

// EmptyReason explains why the display list is empty
type EmptyReason int

const (
	// NotEmpty means there is something to show
	NotEmpty EmptyReason = iota
	// NoData means the source list itself was empty
	NoData
	// FilteredOut means filters removed every position
	FilteredOut
)

// String returns the i18n key suffix for the reason
func (r EmptyReason) String() string {
	switch r {
	case NoData:
		return "noData"
	case FilteredOut:
		return "filtered"
	default:
		return "none"
	}
}

// EmptyState is emitted on every Reset
type EmptyState struct {
	Empty      bool
	Reason     EmptyReason
	Total      int // Length of the new display list
	Generation uint64
}

// Batch is one rendered increment of the display list
type Batch struct {
	Items      []domain.Position
	Start      int // Index of Items[0] in the display list
	HasMore    bool
	Generation uint64
}

// Sink receives controller events. Implementations must not call back into
// the controller.
type Sink interface {
	OnReset(EmptyState)
	OnBatch(Batch)
}

// Controller owns the display list and the cursor into it
type Controller struct {
	mu         sync.RWMutex
	batchSize  int
	list       []domain.Position
	cursor     int
	generation uint64
	rendered   []domain.Position
	sink       Sink
}

// NewController creates a controller. Non-positive batch sizes use DefaultBatchSize.
func NewController(batchSize int, sink Sink) *Controller {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Controller{batchSize: batchSize, sink: sink}
}

// Reset replaces the display list, rewinds the cursor, clears rendered output
// and starts a new generation. sourceLen is the size of the list before
// filtering and is used to tell "no data" from "filtered to empty".
func (c *Controller) Reset(list []domain.Position, sourceLen int) EmptyState {
	c.mu.Lock()
	c.list = append([]domain.Position(nil), list...)
	c.cursor = 0
	c.rendered = nil
	c.generation++

	state := EmptyState{
		Empty:      len(list) == 0,
		Total:      len(list),
		Generation: c.generation,
	}
	switch {
	case len(list) > 0:
		state.Reason = NotEmpty
	case sourceLen == 0:
		state.Reason = NoData
	default:
		state.Reason = FilteredOut
	}
	sink := c.sink
	c.mu.Unlock()

	if sink != nil {
		sink.OnReset(state)
	}
	return state
}

// RenderNextBatch renders the next batchSize items. Once the list is
// exhausted it returns an empty batch and renders nothing.
func (c *Controller) RenderNextBatch() Batch {
	c.mu.Lock()
	batch := c.nextLocked()
	sink := c.sink
	c.mu.Unlock()

	if sink != nil && len(batch.Items) > 0 {
		sink.OnBatch(batch)
	}
	return batch
}

// NearEnd is the trigger the host calls when the user approaches the end of
// the rendered content. Triggers issued for an older generation are ignored
// so that a superseded list can never append after the current one.
func (c *Controller) NearEnd(generation uint64) (Batch, bool) {
	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		return Batch{}, false
	}
	batch := c.nextLocked()
	sink := c.sink
	c.mu.Unlock()

	if len(batch.Items) == 0 {
		return batch, false
	}
	if sink != nil {
		sink.OnBatch(batch)
	}
	return batch, true
}

func (c *Controller) nextLocked() Batch {
	start := c.cursor
	end := start + c.batchSize
	if end > len(c.list) {
		end = len(c.list)
	}

	var items []domain.Position
	if start < end {
		items = c.list[start:end:end]
		c.rendered = append(c.rendered, items...)
		c.cursor = end
	}

	return Batch{
		Items:      items,
		Start:      start,
		HasMore:    c.cursor < len(c.list),
		Generation: c.generation,
	}
}

// Generation returns the current list generation
func (c *Controller) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Cursor returns how many items have been rendered from the current list
func (c *Controller) Cursor() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cursor
}

// Len returns the length of the current display list
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.list)
}

// HasMore reports whether items remain to be rendered
func (c *Controller) HasMore() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cursor < len(c.list)
}

// BatchSize returns the configured batch size
func (c *Controller) BatchSize() int {
	return c.batchSize
}

// Rendered returns a copy of everything rendered since the last Reset
func (c *Controller) Rendered() []domain.Position {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Position(nil), c.rendered...)
}
