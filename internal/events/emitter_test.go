package events_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthprism/prism/internal/domain"
	"github.com/truthprism/prism/internal/events"
)

type captureEmitter struct {
	mu   sync.Mutex
	seen []domain.Event
}

func (e *captureEmitter) Emit(_ context.Context, ev domain.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seen = append(e.seen, ev)
}

func testEvent() domain.Event {
	return domain.NewEvent(domain.EventBetPlaced, domain.CompanyKey(42),
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		map[string]any{"amount": uint64(100)})
}

func TestLogEmitter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	e := events.NewLogEmitter(logger)

	ev := testEvent()
	e.Emit(context.Background(), ev)

	line := buf.String()
	require.NotEmpty(t, line)
	assert.Contains(t, line, `"kind":"bet_placed"`)
	assert.Contains(t, line, ev.ID.String())
	assert.Contains(t, line, ev.Company.String())
}

func TestFanout(t *testing.T) {
	t.Parallel()

	first := &captureEmitter{}
	second := &captureEmitter{}
	fan := events.Fanout{first, second}

	ev := testEvent()
	fan.Emit(context.Background(), ev)

	require.Len(t, first.seen, 1)
	require.Len(t, second.seen, 1)
	assert.Equal(t, ev.ID, first.seen[0].ID)
	assert.Equal(t, ev.ID, second.seen[0].ID)
}

func TestFanout_Empty(t *testing.T) {
	t.Parallel()

	events.Fanout{}.Emit(context.Background(), testEvent())
}
