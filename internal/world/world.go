package world

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/blockverse/internal/logging"
	"github.com/annel0/blockverse/internal/metrics"
	"github.com/annel0/blockverse/internal/observability"
	"github.com/annel0/blockverse/internal/physics"
	"github.com/annel0/blockverse/internal/vec"
	"github.com/annel0/blockverse/internal/world/block"
	"github.com/annel0/blockverse/internal/world/chunk"
	"github.com/annel0/blockverse/internal/world/mesher"
)

// DefaultRenderDistance - радиус квадрата загруженных чанков по умолчанию
const DefaultRenderDistance = 4

// WorldManager управляет загруженными чанками, их представлениями и правками.
//
// Вся работа выполняется синхронно внутри Tick; менеджер не потокобезопасен
// и должен использоваться из одной горутины.
type WorldManager struct {
	chunks  map[vec.Vec3]*chunk.Chunk // Загруженные чанки
	handles map[vec.Vec3]Handle       // Представления, ключи совпадают с chunks
	dirty   map[vec.Vec3]struct{}     // Чанки, ожидающие перестроения
	pending []EditRequest             // Правки до следующего тика

	generator      *WorldGenerator
	presenter      Presenter
	renderDistance int
	meshOptions    mesher.Options

	logger  *logging.Logger
	metrics *metrics.WorldMetrics
	tracer  trace.Tracer

	currentTick   uint64
	observerChunk vec.Vec3
}

// Option настраивает WorldManager
type Option func(*WorldManager)

// WithRenderDistance задает радиус загрузки в чанках
func WithRenderDistance(r int) Option {
	return func(wm *WorldManager) { wm.renderDistance = r }
}

// WithMeshOptions задает размер вокселя и разметку атласа
func WithMeshOptions(opts mesher.Options) Option {
	return func(wm *WorldManager) { wm.meshOptions = opts }
}

func WithLogger(logger *logging.Logger) Option {
	return func(wm *WorldManager) { wm.logger = logger }
}

func WithMetrics(m *metrics.WorldMetrics) Option {
	return func(wm *WorldManager) { wm.metrics = m }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(wm *WorldManager) { wm.tracer = tracer }
}

// NewWorldManager создаёт менеджер мира без загруженных чанков
func NewWorldManager(generator *WorldGenerator, presenter Presenter, opts ...Option) (*WorldManager, error) {
	if generator == nil {
		return nil, errors.New("генератор мира не задан")
	}
	if presenter == nil {
		return nil, errors.New("presenter не задан")
	}

	wm := &WorldManager{
		chunks:         make(map[vec.Vec3]*chunk.Chunk),
		handles:        make(map[vec.Vec3]Handle),
		dirty:          make(map[vec.Vec3]struct{}),
		generator:      generator,
		presenter:      presenter,
		renderDistance: DefaultRenderDistance,
		meshOptions:    mesher.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(wm)
	}

	if wm.renderDistance < 0 {
		return nil, fmt.Errorf("радиус загрузки отрицателен: %d", wm.renderDistance)
	}
	if err := wm.meshOptions.Validate(); err != nil {
		return nil, err
	}
	if wm.logger == nil {
		wm.logger = logging.GetWorldLogger()
	}
	if wm.tracer == nil {
		wm.tracer = observability.Tracer()
	}

	return wm, nil
}

// Startup синхронно загружает квадрат чанков вокруг начала координат.
// Ошибки отдельных чанков объединяются; остальные чанки всё равно загружаются.
func (wm *WorldManager) Startup(ctx context.Context) error {
	_, span := wm.tracer.Start(ctx, "world.startup")
	defer span.End()

	start := time.Now()
	var errs []error
	for _, coords := range wm.square(vec.Vec3{}) {
		if _, ok := wm.chunks[coords]; ok {
			continue
		}
		if err := wm.load(coords); err != nil {
			errs = append(errs, err)
		}
	}

	span.SetAttributes(attribute.Int("chunks", len(wm.chunks)))
	wm.logger.Info("🌍 Мир загружен: %d чанков (радиус %d) за %v", len(wm.chunks), wm.renderDistance, time.Since(start))
	return errors.Join(errs...)
}

// QueueBreak ставит в очередь ломание вокселя
func (wm *WorldManager) QueueBreak(pos vec.Vec3) {
	wm.pending = append(wm.pending, BreakRequest{Position: pos})
}

// QueuePlace ставит в очередь установку вокселя
func (wm *WorldManager) QueuePlace(pos vec.Vec3, v block.Voxel) {
	wm.pending = append(wm.pending, PlaceRequest{Position: pos, Species: v})
}

// Queue добавляет правки в очередь в переданном порядке
func (wm *WorldManager) Queue(requests ...EditRequest) {
	wm.pending = append(wm.pending, requests...)
}

// Tick выполняет один кадр мира: стриминг вокруг наблюдателя, применение
// накопленных правок и перестроение изменённых чанков, именно в этом порядке.
// Контекст используется только для трассировки.
func (wm *WorldManager) Tick(ctx context.Context, observer mgl32.Vec3) TickReport {
	start := time.Now()
	wm.currentTick++

	ctx, span := wm.tracer.Start(ctx, "world.tick",
		trace.WithAttributes(attribute.Int64("world.tick", int64(wm.currentTick))))
	defer span.End()

	report := TickReport{Tick: wm.currentTick}

	wm.stream(ctx, observer, &report)
	wm.applyEdits(ctx, &report)
	wm.remesh(ctx, &report)

	report.Duration = time.Since(start)
	wm.metrics.ObserveTick(report.Duration)
	wm.metrics.SetDirty(len(wm.dirty))

	span.SetAttributes(
		attribute.Int("world.loaded", report.Loaded),
		attribute.Int("world.unloaded", report.Unloaded),
		attribute.Int("world.remeshed", report.Remeshed),
		attribute.Int("world.errors", len(report.Errors)),
	)
	return report
}

// stream приводит набор загруженных чанков к квадрату вокруг наблюдателя
func (wm *WorldManager) stream(ctx context.Context, observer mgl32.Vec3, report *TickReport) {
	_, span := wm.tracer.Start(ctx, "world.stream")
	defer span.End()

	center, _ := chunk.Resolve(chunk.VoxelAt(observer, wm.meshOptions.VoxelSize))
	center.Y = 0
	if !center.Equals(wm.observerChunk) {
		wm.logger.Debug("Наблюдатель перешёл в чанк %s", center)
	}
	wm.observerChunk = center
	report.ObserverChunk = center

	target := wm.square(center)
	inTarget := make(map[vec.Vec3]struct{}, len(target))
	for _, coords := range target {
		inTarget[coords] = struct{}{}
		if _, ok := wm.chunks[coords]; ok {
			continue
		}
		if err := wm.load(coords); err != nil {
			wm.logger.Error("Не удалось загрузить чанк %s: %v", coords, err)
			report.Errors = append(report.Errors, err)
			continue
		}
		report.Loaded++
	}

	for _, coords := range sortedCoords(wm.chunks) {
		if _, ok := inTarget[coords]; ok {
			continue
		}
		wm.unload(coords)
		report.Unloaded++
	}

	span.SetAttributes(
		attribute.Int("world.loaded", report.Loaded),
		attribute.Int("world.unloaded", report.Unloaded),
	)
}

// applyEdits применяет очередь правок по порядку. Ошибка одной правки
// не мешает остальным.
func (wm *WorldManager) applyEdits(ctx context.Context, report *TickReport) {
	_, span := wm.tracer.Start(ctx, "world.edits")
	defer span.End()

	requests := wm.pending
	wm.pending = nil

	for _, req := range requests {
		applied, err := wm.applyEdit(req)
		if err != nil {
			wm.logger.Warn("Правка отклонена: %v", err)
			wm.metrics.EditFailed(editFailureReason(err))
			report.Errors = append(report.Errors, err)
			continue
		}
		if applied {
			report.EditsApplied++
			wm.metrics.EditApplied()
		} else {
			report.EditsIgnored++
			wm.metrics.EditIgnored()
		}
	}

	span.SetAttributes(
		attribute.Int("world.edits", len(requests)),
		attribute.Int("world.dirty", len(wm.dirty)),
	)
}

// applyEdit возвращает false, если правка ничего не изменила
func (wm *WorldManager) applyEdit(req EditRequest) (bool, error) {
	coords, local := chunk.Resolve(req.Target())
	c, ok := wm.chunks[coords]
	if !ok {
		return false, &EditError{Request: req, Chunk: coords, Err: ErrChunkNotLoaded}
	}

	current := c.AtLocal(local)
	var next block.Voxel

	switch r := req.(type) {
	case BreakRequest:
		if current.IsEmpty() {
			return false, nil
		}
		next = block.Empty()
	case PlaceRequest:
		if err := r.Species.Supported(); err != nil {
			return false, &EditError{Request: req, Chunk: coords, Err: err}
		}
		if !r.Species.IsFull() {
			return false, &EditError{Request: req, Chunk: coords, Err: ErrInvalidPlacement}
		}
		if !current.IsEmpty() {
			return false, nil
		}
		next = r.Species
	default:
		return false, &EditError{Request: req, Chunk: coords, Err: fmt.Errorf("неизвестный тип правки %T", req)}
	}

	if err := c.SetLocal(local, next); err != nil {
		return false, &EditError{Request: req, Chunk: coords, Err: err}
	}
	wm.dirty[coords] = struct{}{}
	return true, nil
}

// remesh перестраивает каждый изменённый чанк ровно один раз
func (wm *WorldManager) remesh(ctx context.Context, report *TickReport) {
	_, span := wm.tracer.Start(ctx, "world.remesh")
	defer span.End()

	for _, coords := range sortedCoords(wm.dirty) {
		delete(wm.dirty, coords)

		c := wm.chunks[coords]
		geometry, err := wm.buildGeometry(c)
		if err != nil {
			// предыдущая геометрия остаётся у представления
			wm.logger.Error("Не удалось перестроить чанк %s: %v", coords, err)
			report.Errors = append(report.Errors, err)
			continue
		}

		if err := wm.presenter.Update(wm.handles[coords], geometry); err != nil {
			wm.logger.Error("Не удалось обновить представление чанка %s: %v", coords, err)
			report.Errors = append(report.Errors, fmt.Errorf("обновление чанка %s: %w", coords, err))
			continue
		}

		report.Remeshed++
		wm.metrics.ChunkRemeshed(geometry.Quads)
	}

	span.SetAttributes(attribute.Int("world.remeshed", report.Remeshed))
}

// load генерирует чанк, строит геометрию и создаёт представление.
// При ошибке чанк не попадает в карту.
func (wm *WorldManager) load(coords vec.Vec3) error {
	c := wm.generator.GenerateChunk(coords)

	geometry, err := wm.buildGeometry(c)
	if err != nil {
		return err
	}

	handle, err := wm.presenter.Create(geometry)
	if err != nil {
		return fmt.Errorf("создание представления чанка %s: %w", coords, err)
	}

	wm.chunks[coords] = c
	wm.handles[coords] = handle
	wm.metrics.ChunkLoaded()
	wm.logger.Trace("Чанк %s загружен: %d квадов", coords, geometry.Quads)
	return nil
}

// unload удаляет чанк вместе с представлением и отметкой о перестроении
func (wm *WorldManager) unload(coords vec.Vec3) {
	if handle, ok := wm.handles[coords]; ok {
		wm.presenter.Destroy(handle)
	}
	delete(wm.handles, coords)
	delete(wm.chunks, coords)
	delete(wm.dirty, coords)
	wm.metrics.ChunkUnloaded()
	wm.logger.Trace("Чанк %s выгружен", coords)
}

// buildGeometry строит меш и коллайдер чанка
func (wm *WorldManager) buildGeometry(c *chunk.Chunk) (Geometry, error) {
	mesh, quads, err := mesher.Chunk(c, wm.meshOptions)
	if err != nil {
		return Geometry{}, &MeshError{Chunk: c.Coords, Err: err}
	}

	geometry := Geometry{
		Coords: c.Coords,
		Mesh:   mesh,
		Quads:  len(quads),
		Offset: chunk.Offset(c.Coords, wm.meshOptions.VoxelSize),
	}

	collider, err := physics.NewTriMesh(mesh.Positions, mesh.Indices)
	switch {
	case err == nil:
		geometry.Collider = collider
	case errors.Is(err, physics.ErrDegenerateGeometry):
		wm.logger.Debug("Чанк %s без коллайдера: %v", c.Coords, err)
	default:
		return Geometry{}, err
	}

	return geometry, nil
}

// square возвращает координаты квадрата радиуса renderDistance вокруг center.
// Порядок фиксирован: z снаружи, x внутри.
func (wm *WorldManager) square(center vec.Vec3) []vec.Vec3 {
	r := wm.renderDistance
	coords := make([]vec.Vec3, 0, (2*r+1)*(2*r+1))
	for z := center.Z - r; z <= center.Z+r; z++ {
		for x := center.X - r; x <= center.X+r; x++ {
			coords = append(coords, vec.Vec3{X: x, Y: 0, Z: z})
		}
	}
	return coords
}

// Shutdown уничтожает все представления и очищает мир
func (wm *WorldManager) Shutdown() {
	for _, coords := range sortedCoords(wm.chunks) {
		wm.unload(coords)
	}
	wm.pending = nil
	wm.logger.Info("🛑 Мир остановлен на тике %d", wm.currentTick)
}

// Chunk возвращает загруженный чанк. Чанк только для чтения:
// изменения в обход очереди правок не попадут в геометрию.
func (wm *WorldManager) Chunk(coords vec.Vec3) (*chunk.Chunk, bool) {
	c, ok := wm.chunks[coords]
	return c, ok
}

// Handle возвращает представление загруженного чанка
func (wm *WorldManager) Handle(coords vec.Vec3) (Handle, bool) {
	h, ok := wm.handles[coords]
	return h, ok
}

func (wm *WorldManager) IsLoaded(coords vec.Vec3) bool {
	_, ok := wm.chunks[coords]
	return ok
}

// LoadedCoords возвращает координаты загруженных чанков в порядке (z, x)
func (wm *WorldManager) LoadedCoords() []vec.Vec3 {
	return sortedCoords(wm.chunks)
}

// VoxelAt возвращает воксель по мировой позиции
func (wm *WorldManager) VoxelAt(pos vec.Vec3) (block.Voxel, error) {
	coords, local := chunk.Resolve(pos)
	c, ok := wm.chunks[coords]
	if !ok {
		return block.Empty(), fmt.Errorf("воксель %s: %w", pos, ErrChunkNotLoaded)
	}
	return c.AtLocal(local), nil
}

func (wm *WorldManager) DirtyCount() int         { return len(wm.dirty) }
func (wm *WorldManager) PendingCount() int       { return len(wm.pending) }
func (wm *WorldManager) CurrentTick() uint64     { return wm.currentTick }
func (wm *WorldManager) ObserverChunk() vec.Vec3 { return wm.observerChunk }
func (wm *WorldManager) RenderDistance() int     { return wm.renderDistance }

// MeshOptions возвращает параметры построения геометрии
func (wm *WorldManager) MeshOptions() mesher.Options { return wm.meshOptions }

func editFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrChunkNotLoaded):
		return "not_loaded"
	case errors.Is(err, ErrInvalidPlacement):
		return "invalid_placement"
	case errors.Is(err, block.ErrUnsupportedVoxel):
		return "unsupported_voxel"
	default:
		return "other"
	}
}

func sortedCoords[V any](m map[vec.Vec3]V) []vec.Vec3 {
	coords := make([]vec.Vec3, 0, len(m))
	for c := range m {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		a, b := coords[i], coords[j]
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	return coords
}
