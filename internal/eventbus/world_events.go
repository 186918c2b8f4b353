package eventbus

import (
	"context"

	"github.com/annel0/blockverse/internal/vec"
	"github.com/annel0/blockverse/internal/world"
)

// TypeWorldTick - тип события с итогом тика
const TypeWorldTick = "world.tick"

// TickEvent - полезная нагрузка события world.tick
type TickEvent struct {
	Tick          uint64   `json:"tick"`
	ObserverChunk vec.Vec3 `json:"observer_chunk"`
	Loaded        int      `json:"loaded"`
	Unloaded      int      `json:"unloaded"`
	EditsApplied  int      `json:"edits_applied"`
	Remeshed      int      `json:"remeshed"`
	Errors        []string `json:"errors,omitempty"`
}

// NewTickEvent переводит итог тика в событие
func NewTickEvent(report world.TickReport) TickEvent {
	ev := TickEvent{
		Tick:          report.Tick,
		ObserverChunk: report.ObserverChunk,
		Loaded:        report.Loaded,
		Unloaded:      report.Unloaded,
		EditsApplied:  report.EditsApplied,
		Remeshed:      report.Remeshed,
	}
	for _, err := range report.Errors {
		ev.Errors = append(ev.Errors, err.Error())
	}
	return ev
}

// PublishTick публикует итог тика от имени source
func PublishTick(ctx context.Context, bus EventBus, source string, report world.TickReport) error {
	env, err := NewEnvelope(source, TypeWorldTick, NewTickEvent(report))
	if err != nil {
		return err
	}
	return bus.Publish(ctx, env)
}
