package main

import (
	"context"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/blockverse/internal/api"
	"github.com/annel0/blockverse/internal/config"
	"github.com/annel0/blockverse/internal/eventbus"
	"github.com/annel0/blockverse/internal/logging"
	"github.com/annel0/blockverse/internal/metrics"
	"github.com/annel0/blockverse/internal/scene"
	"github.com/annel0/blockverse/internal/vec"
	"github.com/annel0/blockverse/internal/world"
	"github.com/annel0/blockverse/internal/world/block"
	"github.com/annel0/blockverse/internal/world/chunk"
)

// simulation двигает наблюдателя вдоль +X и периодически правит поверхность под ним
type simulation struct {
	cfg      config.SimConfig
	world    *world.WorldManager
	scene    *scene.Scene
	sampler  *metrics.ProcessSampler
	board    *api.StatusBoard  // nil - без HTTP API
	bus      eventbus.EventBus // nil - события не публикуются
	logger   *logging.Logger
	observer mgl32.Vec3
	edits    int
}

func newSimulation(cfg config.SimConfig, wm *world.WorldManager, sc *scene.Scene, logger *logging.Logger) *simulation {
	return &simulation{
		cfg:      cfg,
		world:    wm,
		scene:    sc,
		logger:   logger,
		observer: mgl32.Vec3{0.5, float32(chunk.Size), 0.5},
	}
}

// step выполняет один тик симуляции
func (s *simulation) step(ctx context.Context) world.TickReport {
	voxelSize := s.world.MeshOptions().VoxelSize
	s.observer[0] += s.cfg.ObserverSpeed * voxelSize

	next := s.world.CurrentTick() + 1
	if s.cfg.EditEvery > 0 && next%uint64(s.cfg.EditEvery) == 0 {
		s.queueEdits(chunk.VoxelAt(s.observer, voxelSize).Column())
	}

	if s.board != nil {
		s.world.Queue(s.board.Drain()...)
	}

	report := s.world.Tick(ctx, s.observer)
	if !report.Idle() {
		s.logger.Debug("%s", report)
		if s.bus != nil {
			if err := eventbus.PublishTick(ctx, s.bus, "worldsim", report); err != nil {
				s.logger.Warn("Не удалось опубликовать тик %d: %v", report.Tick, err)
			}
		}
	}
	if s.board != nil {
		s.board.Publish(api.Snapshot(s.world, s.scene, report))
	}
	return report
}

// queueEdits ломает верхний воксель колонки и ставит над ним следующий блок каталога
func (s *simulation) queueEdits(column vec.Vec2) {
	surface, ok := surfaceAt(s.world, column)
	if !ok {
		return
	}

	species := block.Cycle(s.edits)
	s.edits++

	s.world.QueueBreak(surface)
	s.world.QueuePlace(surface.Add(vec.Vec3{Y: 1}), block.Full(species))
	s.logger.Debug("✏️ Правка в %s: ломаем поверхность, ставим %s", surface, species)
}

// surfaceAt ищет верхний непустой воксель колонки в загруженном чанке
func surfaceAt(wm *world.WorldManager, column vec.Vec2) (vec.Vec3, bool) {
	for y := chunk.Size - 1; y >= 0; y-- {
		pos := column.At(y)
		v, err := wm.VoxelAt(pos)
		if err != nil {
			return vec.Vec3{}, false
		}
		if !v.IsEmpty() {
			return pos, true
		}
	}
	return vec.Vec3{}, false
}

// run крутит тики с частотой TickRate до отмены контекста или лимита тиков
func (s *simulation) run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.TickRate))
	defer ticker.Stop()

	statsEvery := uint64(s.cfg.TickRate * 5)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		report := s.step(ctx)
		if report.Tick%statsEvery == 0 {
			s.logStats()
		}
		if s.cfg.Ticks > 0 && report.Tick >= uint64(s.cfg.Ticks) {
			s.logger.Info("🏁 Достигнут лимит тиков: %d", s.cfg.Ticks)
			return
		}
	}
}

func (s *simulation) logStats() {
	st := s.scene.Stats()
	s.logger.Info("📊 Тик %d: чанков %d, квадов %d, коллайдеров %d, наблюдатель в %s",
		s.world.CurrentTick(), st.Nodes, st.Quads, st.Colliders, s.world.ObserverChunk())

	if s.sampler == nil {
		return
	}
	if ps, err := s.sampler.Sample(); err == nil {
		s.logger.Info("💻 Процесс: %s", ps)
	} else {
		s.logger.Warn("Не удалось получить статистику процесса: %v", err)
	}
}
