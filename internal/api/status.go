package api

import (
	"sync/atomic"
	"time"

	"github.com/annel0/blockverse/internal/scene"
	"github.com/annel0/blockverse/internal/vec"
	"github.com/annel0/blockverse/internal/world"
)

// ChunkView - загруженный чанк в ответе API
type ChunkView struct {
	Coords      vec.Vec3 `json:"coords"`
	NodeID      string   `json:"node_id"`
	Quads       int      `json:"quads"`
	Triangles   int      `json:"triangles"`
	HasCollider bool     `json:"has_collider"`
	Version     int      `json:"version"`
}

// TickView - итог последнего тика
type TickView struct {
	Tick         uint64   `json:"tick"`
	Loaded       int      `json:"loaded"`
	Unloaded     int      `json:"unloaded"`
	EditsApplied int      `json:"edits_applied"`
	EditsIgnored int      `json:"edits_ignored"`
	Remeshed     int      `json:"remeshed"`
	Errors       []string `json:"errors,omitempty"`
	DurationMS   float64  `json:"duration_ms"`
}

// WorldStatus - снимок мира после тика. Снимок неизменяем после публикации.
type WorldStatus struct {
	Tick           uint64      `json:"tick"`
	ObserverChunk  vec.Vec3    `json:"observer_chunk"`
	RenderDistance int         `json:"render_distance"`
	DirtyChunks    int         `json:"dirty_chunks"`
	PendingEdits   int         `json:"pending_edits"`
	LastTick       TickView    `json:"last_tick"`
	Scene          scene.Stats `json:"scene"`
	Chunks         []ChunkView `json:"-"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Snapshot собирает снимок. Вызывается из горутины тиков.
func Snapshot(wm *world.WorldManager, sc *scene.Scene, report world.TickReport) *WorldStatus {
	status := &WorldStatus{
		Tick:           wm.CurrentTick(),
		ObserverChunk:  wm.ObserverChunk(),
		RenderDistance: wm.RenderDistance(),
		DirtyChunks:    wm.DirtyCount(),
		PendingEdits:   wm.PendingCount(),
		LastTick: TickView{
			Tick:         report.Tick,
			Loaded:       report.Loaded,
			Unloaded:     report.Unloaded,
			EditsApplied: report.EditsApplied,
			EditsIgnored: report.EditsIgnored,
			Remeshed:     report.Remeshed,
			DurationMS:   float64(report.Duration.Microseconds()) / 1000,
		},
		Scene:     sc.Stats(),
		UpdatedAt: time.Now(),
	}
	for _, err := range report.Errors {
		status.LastTick.Errors = append(status.LastTick.Errors, err.Error())
	}

	for _, node := range sc.Nodes() {
		view := ChunkView{
			Coords:      node.Coords(),
			NodeID:      node.ID.String(),
			Quads:       node.Geometry.Quads,
			HasCollider: node.Geometry.Collider != nil,
			Version:     node.Version,
		}
		if node.Geometry.Mesh != nil {
			view.Triangles = node.Geometry.Mesh.TriangleCount()
		}
		status.Chunks = append(status.Chunks, view)
	}
	return status
}

// StatusBoard связывает горутину тиков с HTTP обработчиками:
// тики публикуют снимки, обработчики складывают правки в буфер.
type StatusBoard struct {
	current atomic.Pointer[WorldStatus]
	edits   chan world.EditRequest
}

func NewStatusBoard(editBuffer int) *StatusBoard {
	if editBuffer <= 0 {
		editBuffer = 256
	}
	return &StatusBoard{edits: make(chan world.EditRequest, editBuffer)}
}

func (b *StatusBoard) Publish(status *WorldStatus) {
	b.current.Store(status)
}

// Status возвращает последний снимок или nil до первого тика
func (b *StatusBoard) Status() *WorldStatus {
	return b.current.Load()
}

// Submit кладёт правку в буфер без блокировки; false, если буфер полон
func (b *StatusBoard) Submit(req world.EditRequest) bool {
	select {
	case b.edits <- req:
		return true
	default:
		return false
	}
}

// Drain забирает накопленные правки в порядке поступления
func (b *StatusBoard) Drain() []world.EditRequest {
	var out []world.EditRequest
	for {
		select {
		case req := <-b.edits:
			out = append(out, req)
		default:
			return out
		}
	}
}
