package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/blockverse/internal/world/block"
	"github.com/annel0/blockverse/internal/world/mesher"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blockverse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BLOCKVERSE_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, mesher.DefaultOptions(), cfg.MeshOptions())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
world:
  seed: 7
  render_distance: 2
  voxel_size: 0.5
terrain:
  base_height: 4
  octaves:
    - source: simplex
      frequency: 0.1
      amplitude: 3
  surface: sand
  rare_chance: 0
metrics:
  addr: ":2112"
sim:
  ticks: 100
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.World.Seed)
	assert.Equal(t, 2, cfg.World.RenderDistance)
	assert.Equal(t, float32(0.5), cfg.MeshOptions().VoxelSize)
	assert.Equal(t, float32(320), cfg.MeshOptions().AtlasSize, "незаданные поля берутся по умолчанию")
	assert.Len(t, cfg.Terrain.Octaves, 1)
	assert.Equal(t, ":2112", cfg.Metrics.Addr)
	assert.Equal(t, 100, cfg.Sim.Ticks)
	assert.Equal(t, 20, cfg.Sim.TickRate)

	rule, err := cfg.LayerRule()
	require.NoError(t, err)
	assert.Equal(t, block.Sand, rule.Surface)
	assert.Equal(t, block.Dirt, rule.Subsurface)
	assert.Zero(t, rule.RareChance)
}

func TestLoadFromEnvPath(t *testing.T) {
	path := writeConfig(t, "world:\n  seed: 99\n")
	t.Setenv("BLOCKVERSE_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.World.Seed)
}

func TestEnvFallbackOrder(t *testing.T) {
	t.Setenv("BLOCKVERSE_CONFIG", "")
	t.Setenv("BLOCKVERSE_SEED", "555")
	t.Setenv("BLOCKVERSE_RENDER_DISTANCE", "6")
	t.Setenv("BLOCKVERSE_METRICS_ADDR", ":9000")

	// env перекрывает значения по умолчанию
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(555), cfg.World.Seed)
	assert.Equal(t, 6, cfg.World.RenderDistance)
	assert.Equal(t, ":9000", cfg.Metrics.Addr)

	// файл перекрывает env
	cfg, err = Load(writeConfig(t, "world:\n  render_distance: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.World.RenderDistance)
	assert.Equal(t, int64(555), cfg.World.Seed)

	t.Setenv("BLOCKVERSE_SEED", "not-a-number")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().World.Seed, cfg.World.Seed)
}

func TestAPIAndEvents(t *testing.T) {
	t.Setenv("BLOCKVERSE_CONFIG", "")
	t.Setenv("BLOCKVERSE_JWT_SECRET", "c2VjcmV0")
	t.Setenv("BLOCKVERSE_NATS_URL", "nats://env:4222")

	cfg, err := Load(writeConfig(t, `
api:
  token_ttl: 90m
  edit_buffer: 8
events:
  nats_url: nats://file:4222
`))
	require.NoError(t, err)
	assert.Equal(t, "c2VjcmV0", cfg.API.JWTSecret)
	assert.Equal(t, 90*time.Minute, cfg.API.TokenTTL)
	assert.Equal(t, 8, cfg.API.EditBuffer)
	assert.Equal(t, "nats://file:4222", cfg.Events.NATSURL)
	assert.Equal(t, "blockverse", cfg.Events.Prefix)
}

func TestValidate(t *testing.T) {
	t.Setenv("BLOCKVERSE_CONFIG", "")

	tests := []struct {
		name string
		body string
	}{
		{"отрицательный радиус", "world:\n  render_distance: -1\n"},
		{"нулевой воксель", "world:\n  voxel_size: 0\n"},
		{"ячейка больше атласа", "atlas:\n  size: 16\n  cell_size: 32\n"},
		{"неизвестный блок", "terrain:\n  bulk: marble\n"},
		{"неизвестный шум", "terrain:\n  octaves:\n    - source: worley\n      frequency: 1\n"},
		{"нулевая частота", "terrain:\n  octaves:\n    - source: perlin\n"},
		{"уровень логов", "logging:\n  console_level: loud\n"},
		{"частота тиков", "sim:\n  tick_rate: 0\n"},
		{"время жизни токена", "api:\n  token_ttl: 0s\n"},
		{"буфер событий", "events:\n  buffer: 0\n"},
		{"битый yaml", "world: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "отсутствующий файл - ошибка")
}

func TestGeneratorFromConfig(t *testing.T) {
	cfg := Default()
	cfg.World.Seed = 11

	gen, err := cfg.Generator()
	require.NoError(t, err)
	assert.Equal(t, int64(11), gen.Seed)
	assert.Equal(t, block.Grass, gen.Layers.Surface)

	other, err := cfg.Generator()
	require.NoError(t, err)
	assert.Equal(t, gen.Height(12.5, -40), other.Height(12.5, -40), "высота детерминирована")
}
