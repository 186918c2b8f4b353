package world

import (
	"fmt"
	"time"

	"github.com/annel0/blockverse/internal/vec"
)

// TickReport - итог одного тика мира
type TickReport struct {
	Tick          uint64
	ObserverChunk vec.Vec3
	Loaded        int
	Unloaded      int
	EditsApplied  int
	EditsIgnored  int
	Remeshed      int
	Errors        []error
	Duration      time.Duration
}

// Idle сообщает, что тик ничего не изменил
func (r TickReport) Idle() bool {
	return r.Loaded == 0 && r.Unloaded == 0 && r.EditsApplied == 0 && r.Remeshed == 0 && len(r.Errors) == 0
}

func (r TickReport) String() string {
	return fmt.Sprintf("tick=%d observer=%s +%d/-%d edits=%d ignored=%d remeshed=%d errors=%d in %v",
		r.Tick, r.ObserverChunk, r.Loaded, r.Unloaded, r.EditsApplied, r.EditsIgnored,
		r.Remeshed, len(r.Errors), r.Duration)
}
