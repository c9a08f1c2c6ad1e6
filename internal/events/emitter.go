// Package events delivers domain events to their outbound transports.
// Emission is best-effort: failures are logged and never fail the mutation
// that produced the event.
package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/truthprism/prism/internal/domain"
)

// LogEmitter writes each event as a structured log line. Always on; the
// minimum viable event sink for self-hosted deployments.
type LogEmitter struct {
	log zerolog.Logger
}

func NewLogEmitter(log zerolog.Logger) *LogEmitter {
	return &LogEmitter{log: log}
}

func (e *LogEmitter) Emit(_ context.Context, ev domain.Event) {
	e.log.Info().
		Str("event_id", ev.ID.String()).
		Str("kind", string(ev.Kind)).
		Str("company", ev.Company.String()).
		Time("at", ev.At).
		Fields(ev.Fields).
		Msg("event")
}

// Fanout delivers each event to every emitter in order.
type Fanout []domain.EventEmitter

func (f Fanout) Emit(ctx context.Context, ev domain.Event) {
	for _, e := range f {
		e.Emit(ctx, ev)
	}
}

// Compile-time interface checks.
var (
	_ domain.EventEmitter = (*LogEmitter)(nil)
	_ domain.EventEmitter = (Fanout)(nil)
)
