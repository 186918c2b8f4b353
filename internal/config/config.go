package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/annel0/blockverse/internal/logging"
	"github.com/annel0/blockverse/internal/util"
	"github.com/annel0/blockverse/internal/world"
	"github.com/annel0/blockverse/internal/world/block"
	"github.com/annel0/blockverse/internal/world/mesher"
)

// Config корневая структура конфигурации приложения
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Atlas     AtlasConfig     `yaml:"atlas"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Sim       SimConfig       `yaml:"sim"`
	API       APIConfig       `yaml:"api"`
	Events    EventsConfig    `yaml:"events"`
}

type WorldConfig struct {
	Seed           int64   `yaml:"seed"`
	RenderDistance int     `yaml:"render_distance"`
	VoxelSize      float32 `yaml:"voxel_size"`
}

type AtlasConfig struct {
	Size     float32 `yaml:"size"`
	CellSize float32 `yaml:"cell_size"`
}

type OctaveConfig struct {
	Source    string  `yaml:"source"` // perlin | simplex
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
}

type TerrainConfig struct {
	BaseHeight      float64        `yaml:"base_height"`
	Octaves         []OctaveConfig `yaml:"octaves"`
	Surface         string         `yaml:"surface"`
	Subsurface      string         `yaml:"subsurface"`
	SubsurfaceDepth int            `yaml:"subsurface_depth"`
	Bulk            string         `yaml:"bulk"`
	Rare            string         `yaml:"rare"`
	RareChance      float64        `yaml:"rare_chance"`
}

type LoggingConfig struct {
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
	Dir          string `yaml:"dir"`
	ToFile       bool   `yaml:"to_file"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // пусто - HTTP сервер (метрики и API) не запускается
}

type APIConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"` // base64, пусто - случайный секрет на запуск
	TokenTTL   time.Duration `yaml:"token_ttl"`
	EditBuffer int           `yaml:"edit_buffer"`
}

type EventsConfig struct {
	NATSURL string `yaml:"nats_url"` // пусто - in-memory шина
	Prefix  string `yaml:"prefix"`
	Buffer  int    `yaml:"buffer"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type SimConfig struct {
	TickRate      int     `yaml:"tick_rate"`      // тиков в секунду
	Ticks         int     `yaml:"ticks"`          // 0 - до сигнала остановки
	ObserverSpeed float32 `yaml:"observer_speed"` // вокселей за тик вдоль +X
	EditEvery     int     `yaml:"edit_every"`     // 0 - без правок
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:           1337,
			RenderDistance: world.DefaultRenderDistance,
			VoxelSize:      mesher.VoxelSize,
		},
		Atlas: AtlasConfig{
			Size:     mesher.AtlasSize,
			CellSize: mesher.CellSize,
		},
		Terrain: TerrainConfig{
			BaseHeight: 12,
			Octaves: []OctaveConfig{
				{Source: "perlin", Frequency: 0.01, Amplitude: 8},
				{Source: "simplex", Frequency: 0.05, Amplitude: 2},
			},
			Surface:         block.Grass.String(),
			Subsurface:      block.Dirt.String(),
			SubsurfaceDepth: 3,
			Bulk:            block.Stone.String(),
			Rare:            block.Coal.String(),
			RareChance:      0.01,
		},
		Logging: LoggingConfig{
			ConsoleLevel: "info",
			FileLevel:    "debug",
			Dir:          "logs",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "blockverse",
		},
		Sim: SimConfig{
			TickRate:      20,
			ObserverSpeed: 0.5,
			EditEvery:     40,
		},
		API: APIConfig{
			TokenTTL:   24 * time.Hour,
			EditBuffer: 256,
		},
		Events: EventsConfig{
			Prefix: "blockverse",
			Buffer: 1024,
		},
	}
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать путь из ENV BLOCKVERSE_CONFIG;
// без файла используются значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.applyEnv()

	if path == "" {
		path = os.Getenv("BLOCKVERSE_CONFIG")
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv переопределяет значения по умолчанию переменными окружения.
// Вызывается до чтения файла, поэтому приоритет: config -> env -> default.
func (c *Config) applyEnv() {
	if seed, ok := envInt64("BLOCKVERSE_SEED"); ok {
		c.World.Seed = seed
	}
	if r, ok := envInt64("BLOCKVERSE_RENDER_DISTANCE"); ok && r >= 0 {
		c.World.RenderDistance = int(r)
	}
	if addr := os.Getenv("BLOCKVERSE_METRICS_ADDR"); addr != "" {
		c.Metrics.Addr = addr
	}
	if secret := os.Getenv("BLOCKVERSE_JWT_SECRET"); secret != "" {
		c.API.JWTSecret = secret
	}
	if url := os.Getenv("BLOCKVERSE_NATS_URL"); url != "" {
		c.Events.NATSURL = url
	}
}

func envInt64(name string) (int64, bool) {
	envVal := os.Getenv(name)
	if envVal == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(envVal, 10, 64)
	if err != nil {
		logging.Warn("Переменная %s=%q не число, игнорируется", name, envVal)
		return 0, false
	}
	return v, true
}

// Validate проверяет конфигурацию и возвращает первую найденную ошибку
func (c *Config) Validate() error {
	if c.World.RenderDistance < 0 {
		return fmt.Errorf("world.render_distance отрицателен: %d", c.World.RenderDistance)
	}
	if err := c.MeshOptions().Validate(); err != nil {
		return fmt.Errorf("world/atlas: %w", err)
	}
	if _, err := c.LayerRule(); err != nil {
		return fmt.Errorf("terrain: %w", err)
	}
	for i, o := range c.Terrain.Octaves {
		if o.Frequency <= 0 {
			return fmt.Errorf("terrain.octaves[%d].frequency должен быть положительным", i)
		}
		if _, err := util.NewNoiseSource(o.Source, 0); err != nil {
			return fmt.Errorf("terrain.octaves[%d]: %w", i, err)
		}
	}
	if _, err := logging.ParseLevel(c.Logging.ConsoleLevel); err != nil {
		return fmt.Errorf("logging.console_level: %w", err)
	}
	if _, err := logging.ParseLevel(c.Logging.FileLevel); err != nil {
		return fmt.Errorf("logging.file_level: %w", err)
	}
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("sim.tick_rate должен быть положительным: %d", c.Sim.TickRate)
	}
	if c.Sim.Ticks < 0 || c.Sim.EditEvery < 0 {
		return fmt.Errorf("sim.ticks и sim.edit_every не могут быть отрицательными")
	}
	if c.API.TokenTTL <= 0 {
		return fmt.Errorf("api.token_ttl должен быть положительным: %s", c.API.TokenTTL)
	}
	if c.API.EditBuffer <= 0 || c.Events.Buffer <= 0 {
		return fmt.Errorf("api.edit_buffer и events.buffer должны быть положительными")
	}
	return nil
}

// MeshOptions возвращает параметры построения геометрии
func (c *Config) MeshOptions() mesher.Options {
	return mesher.Options{
		VoxelSize: c.World.VoxelSize,
		AtlasSize: c.Atlas.Size,
		CellSize:  c.Atlas.CellSize,
	}
}

// LayerRule собирает правило слоёв из имён блоков
func (c *Config) LayerRule() (world.LayerRule, error) {
	t := c.Terrain
	rule := world.LayerRule{Depth: t.SubsurfaceDepth, RareChance: t.RareChance}

	fields := []struct {
		name string
		dst  *block.BlockType
	}{
		{t.Surface, &rule.Surface},
		{t.Subsurface, &rule.Subsurface},
		{t.Bulk, &rule.Bulk},
		{t.Rare, &rule.Rare},
	}
	for _, f := range fields {
		bt, err := block.ParseBlockType(f.name)
		if err != nil {
			return world.LayerRule{}, err
		}
		*f.dst = bt
	}

	return rule, rule.Validate()
}

// Height собирает функцию высоты из октав шума. Сид октавы i - seed+i,
// чтобы одинаковые источники не повторяли друг друга.
func (c *Config) Height() (world.HeightFunc, error) {
	h := util.OctaveHeight{Base: c.Terrain.BaseHeight}
	for i, o := range c.Terrain.Octaves {
		src, err := util.NewNoiseSource(o.Source, c.World.Seed+int64(i))
		if err != nil {
			return nil, err
		}
		h.Octaves = append(h.Octaves, util.Octave{Source: src, Frequency: o.Frequency, Amplitude: o.Amplitude})
	}
	return h.Height, nil
}

// Generator создаёт генератор мира по конфигурации
func (c *Config) Generator() (*world.WorldGenerator, error) {
	height, err := c.Height()
	if err != nil {
		return nil, err
	}
	rule, err := c.LayerRule()
	if err != nil {
		return nil, err
	}

	gen := world.NewWorldGenerator(c.World.Seed, height)
	gen.Layers = rule
	return gen, nil
}
