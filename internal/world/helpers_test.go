package world

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/blockverse/internal/logging"
	"github.com/annel0/blockverse/internal/vec"
)

type testHandle struct {
	coords   vec.Vec3
	geometry Geometry
	updates  int
}

func (h *testHandle) Coords() vec.Vec3 { return h.coords }

// recordingPresenter запоминает все вызовы менеджера мира
type recordingPresenter struct {
	live       map[vec.Vec3]*testHandle
	created    []vec.Vec3
	updated    []vec.Vec3
	destroyed  []vec.Vec3
	failCreate map[vec.Vec3]bool
}

func newRecordingPresenter() *recordingPresenter {
	return &recordingPresenter{
		live:       make(map[vec.Vec3]*testHandle),
		failCreate: make(map[vec.Vec3]bool),
	}
}

func (p *recordingPresenter) Create(g Geometry) (Handle, error) {
	if p.failCreate[g.Coords] {
		return nil, errors.New("создание запрещено тестом")
	}
	h := &testHandle{coords: g.Coords, geometry: g}
	p.live[g.Coords] = h
	p.created = append(p.created, g.Coords)
	return h, nil
}

func (p *recordingPresenter) Update(h Handle, g Geometry) error {
	th := h.(*testHandle)
	th.geometry = g
	th.updates++
	p.updated = append(p.updated, g.Coords)
	return nil
}

func (p *recordingPresenter) Destroy(h Handle) {
	delete(p.live, h.Coords())
	p.destroyed = append(p.destroyed, h.Coords())
}

func newTestWorld(t *testing.T, r int, height HeightFunc, opts ...Option) (*WorldManager, *recordingPresenter) {
	t.Helper()

	p := newRecordingPresenter()
	gen := NewWorldGenerator(42, height)
	all := append([]Option{WithRenderDistance(r), WithLogger(logging.Discard())}, opts...)

	wm, err := NewWorldManager(gen, p, all...)
	require.NoError(t, err)
	require.NoError(t, wm.Startup(context.Background()))
	return wm, p
}

// square ожидаемый набор координат в порядке LoadedCoords
func square(center vec.Vec3, r int) []vec.Vec3 {
	var coords []vec.Vec3
	for z := center.Z - r; z <= center.Z+r; z++ {
		for x := center.X - r; x <= center.X+r; x++ {
			coords = append(coords, vec.Vec3{X: x, Z: z})
		}
	}
	return coords
}

// assertHandlesMatchChunks проверяет, что у каждого чанка ровно одно представление
func assertHandlesMatchChunks(t *testing.T, wm *WorldManager, p *recordingPresenter) {
	t.Helper()

	loaded := wm.LoadedCoords()
	assert.Len(t, p.live, len(loaded), "число представлений должно совпадать с числом чанков")
	for _, coords := range loaded {
		h, ok := wm.Handle(coords)
		require.True(t, ok, "нет представления для %s", coords)
		assert.Equal(t, coords, h.Coords())
		assert.Contains(t, p.live, coords)
	}
}

// center точка мира в середине колонки (0,0)
var center = mgl32.Vec3{0.5, 20, 0.5}
