package render

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GeekNeuron/OpenPos/internal/domain"
)

type recordingSink struct {
	resets  []EmptyState
	batches []Batch
}

func (s *recordingSink) OnReset(st EmptyState) { s.resets = append(s.resets, st) }
func (s *recordingSink) OnBatch(b Batch)       { s.batches = append(s.batches, b) }

func makeList(prefix string, n int) []domain.Position {
	list := make([]domain.Position, n)
	for i := range list {
		list[i] = domain.Position{Symbol: fmt.Sprintf("%s%02d", prefix, i), Type: "long"}
	}
	return list
}

func TestController_FortyItemsInBatchesOfFifteen(t *testing.T) {
	c := NewController(15, nil)
	c.Reset(makeList("S", 40), 40)

	b := c.RenderNextBatch()
	assert.Len(t, b.Items, 15)
	assert.Equal(t, 0, b.Start)
	assert.Equal(t, "S00", b.Items[0].Symbol)
	assert.Equal(t, "S14", b.Items[14].Symbol)
	assert.True(t, b.HasMore)
	assert.Equal(t, 15, c.Cursor())

	b, ok := c.NearEnd(c.Generation())
	require.True(t, ok)
	assert.Equal(t, 15, b.Start)
	assert.Equal(t, "S15", b.Items[0].Symbol)
	assert.Equal(t, "S29", b.Items[14].Symbol)
	assert.Equal(t, 30, c.Cursor())

	b, ok = c.NearEnd(c.Generation())
	require.True(t, ok)
	assert.Len(t, b.Items, 10)
	assert.Equal(t, "S39", b.Items[9].Symbol)
	assert.False(t, b.HasMore)
	assert.Equal(t, 40, c.Cursor())

	b, ok = c.NearEnd(c.Generation())
	assert.False(t, ok)
	assert.Empty(t, b.Items)
	assert.Equal(t, 40, c.Cursor())
	assert.Len(t, c.Rendered(), 40)
}

func TestController_RepeatedCallsAfterExhaustionAreNoOps(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(15, sink)
	c.Reset(makeList("S", 3), 3)

	c.RenderNextBatch()
	for i := 0; i < 5; i++ {
		b := c.RenderNextBatch()
		assert.Empty(t, b.Items)
		assert.False(t, b.HasMore)
	}

	assert.Len(t, sink.batches, 1)
	assert.Len(t, c.Rendered(), 3)
}

func TestController_ResetRewindsAndClears(t *testing.T) {
	c := NewController(2, nil)
	c.Reset(makeList("A", 5), 5)
	c.RenderNextBatch()
	c.RenderNextBatch()
	require.Equal(t, 4, c.Cursor())

	c.Reset(makeList("B", 3), 5)
	assert.Equal(t, 0, c.Cursor())
	assert.Empty(t, c.Rendered())
	assert.Equal(t, 3, c.Len())

	b := c.RenderNextBatch()
	assert.Equal(t, "B00", b.Items[0].Symbol)
}

func TestController_StaleTriggerIsIgnored(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(2, sink)
	c.Reset(makeList("OLD", 6), 6)
	c.RenderNextBatch()
	staleGen := c.Generation()

	c.Reset(makeList("NEW", 3), 6)
	c.RenderNextBatch()

	b, ok := c.NearEnd(staleGen)
	assert.False(t, ok)
	assert.Empty(t, b.Items)

	for _, p := range c.Rendered() {
		assert.Contains(t, p.Symbol, "NEW")
	}
	assert.Equal(t, 2, c.Cursor())
}

func TestController_EmptyReasons(t *testing.T) {
	c := NewController(15, nil)

	st := c.Reset(nil, 0)
	assert.True(t, st.Empty)
	assert.Equal(t, NoData, st.Reason)
	assert.Equal(t, "noData", st.Reason.String())

	st = c.Reset([]domain.Position{}, 12)
	assert.True(t, st.Empty)
	assert.Equal(t, FilteredOut, st.Reason)
	assert.Equal(t, "filtered", st.Reason.String())

	st = c.Reset(makeList("S", 1), 12)
	assert.False(t, st.Empty)
	assert.Equal(t, NotEmpty, st.Reason)
	assert.Equal(t, 1, st.Total)
}

func TestController_GenerationIncrementsOnReset(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(15, sink)
	first := c.Reset(makeList("S", 1), 1)
	second := c.Reset(makeList("S", 1), 1)

	assert.Equal(t, first.Generation+1, second.Generation)
	require.Len(t, sink.resets, 2)
	assert.Equal(t, second.Generation, sink.resets[1].Generation)
}

func TestController_DoesNotAliasCallerSlice(t *testing.T) {
	list := makeList("S", 3)
	c := NewController(15, nil)
	c.Reset(list, 3)
	list[0].Symbol = "MUTATED"

	b := c.RenderNextBatch()
	assert.Equal(t, "S00", b.Items[0].Symbol)
}

func TestController_DefaultBatchSize(t *testing.T) {
	c := NewController(0, nil)
	assert.Equal(t, DefaultBatchSize, c.BatchSize())
}

func TestController_ConcurrentReadsDuringRender(t *testing.T) {
	c := NewController(5, nil)
	c.Reset(makeList("S", 100), 100)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = c.Cursor()
				_ = c.HasMore()
				_ = c.Rendered()
			}
		}()
	}
	for c.HasMore() {
		c.RenderNextBatch()
	}
	wg.Wait()

	assert.Equal(t, 100, c.Cursor())
}

func TestLogSink_LogsResetAndBatches(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	c := NewController(15, NewLogSink(log))

	c.Reset(makeList("S", 20), 20)
	c.RenderNextBatch()
	c.RenderNextBatch()
	c.RenderNextBatch()

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "Display list reset"))
	assert.Equal(t, 2, strings.Count(out, "Batch rendered"))
	assert.Contains(t, out, `"count":5`)
	assert.Contains(t, out, `"reason":"none"`)
}
