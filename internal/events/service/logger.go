package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wjlander/choo/internal/events/domain"
)

// Logger is a simple Publisher that logs events.
// In production, replace with a queue or external sink.
type Logger struct{}

func NewLogger() *Logger { return &Logger{} }

func (l *Logger) Publish(ctx context.Context, e domain.Event) error {
	ev := log.Ctx(ctx).Info()
	if e.Type == "workflow.delivery.failed" || e.Type == "workflow.recipient.unresolved" {
		ev = log.Ctx(ctx).Warn()
	}
	ev.Str("type", e.Type).
		Str("organization_id", e.OrganizationID.String()).
		Str("actor_id", e.ActorID.String()).
		Fields(map[string]any{"meta": e.Meta}).
		Time("ts", e.Time).
		Msg("event")
	return nil
}

// Recorder keeps published events in memory. Tests use it to assert on the
// admin channel.
type Recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Publish(_ context.Context, e domain.Event) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

// Events returns a copy of what has been published so far.
func (r *Recorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the type of every published event in order.
func (r *Recorder) Types() []string {
	evs := r.Events()
	out := make([]string, len(evs))
	for i, e := range evs {
		out[i] = e.Type
	}
	return out
}
