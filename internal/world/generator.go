package world

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/annel0/blockverse/internal/vec"
	"github.com/annel0/blockverse/internal/world/block"
	"github.com/annel0/blockverse/internal/world/chunk"
)

// HeightFunc возвращает высоту поверхности для мировой колонки (x, z)
type HeightFunc func(x, z float64) float64

// FlatHeight возвращает плоский рельеф постоянной высоты
func FlatHeight(h float64) HeightFunc {
	return func(_, _ float64) float64 { return h }
}

// LayerRule задает виды блоков по глубине от поверхности колонки
type LayerRule struct {
	Surface    block.BlockType // верхний заполненный воксель
	Subsurface block.BlockType // Depth вокселей под поверхностью
	Depth      int
	Bulk       block.BlockType // всё, что ниже
	Rare       block.BlockType // редкая замена Bulk
	RareChance float64
}

// DefaultLayerRule трава, три слоя земли, камень с вкраплениями угля
func DefaultLayerRule() LayerRule {
	return LayerRule{
		Surface:    block.Grass,
		Subsurface: block.Dirt,
		Depth:      3,
		Bulk:       block.Stone,
		Rare:       block.Coal,
		RareChance: 0.01,
	}
}

// Validate проверяет виды блоков и вероятности
func (r LayerRule) Validate() error {
	for _, bt := range []block.BlockType{r.Surface, r.Subsurface, r.Bulk, r.Rare} {
		if !bt.Valid() {
			return fmt.Errorf("неизвестный тип блока %d в правиле слоёв", bt)
		}
	}
	if r.Depth < 0 {
		return fmt.Errorf("глубина подповерхностного слоя отрицательна: %d", r.Depth)
	}
	if r.RareChance < 0 || r.RareChance > 1 {
		return fmt.Errorf("rare_chance вне [0,1]: %v", r.RareChance)
	}
	return nil
}

// species выбирает вид блока на высоте y колонки высотой h
func (r LayerRule) species(y, h int, rng *rand.Rand) block.BlockType {
	switch {
	case y == h:
		return r.Surface
	case y >= h-r.Depth:
		return r.Subsurface
	case r.RareChance > 0 && rng.Float64() < r.RareChance:
		return r.Rare
	default:
		return r.Bulk
	}
}

// WorldGenerator генерирует ландшафт мира
type WorldGenerator struct {
	Seed   int64      // Сид для случайных замен
	Height HeightFunc // Высота поверхности колонки
	Layers LayerRule
}

// NewWorldGenerator создаёт генератор со слоями по умолчанию.
// height == nil даёт плоский мир высотой в половину чанка.
func NewWorldGenerator(seed int64, height HeightFunc) *WorldGenerator {
	if height == nil {
		height = FlatHeight(chunk.Size / 2)
	}
	return &WorldGenerator{
		Seed:   seed,
		Height: height,
		Layers: DefaultLayerRule(),
	}
}

// ColumnHeight возвращает индекс верхнего заполненного вокселя мировой колонки,
// ограниченный высотой чанка
func (wg *WorldGenerator) ColumnHeight(column vec.Vec2) int {
	h := int(math.Floor(wg.Height(float64(column.X), float64(column.Z))))
	if h < 0 {
		return 0
	}
	if h > chunk.Size-1 {
		return chunk.Size - 1
	}
	return h
}

// GenerateChunk генерирует чанк по его координатам.
// Результат зависит только от сида и координат.
func (wg *WorldGenerator) GenerateChunk(coords vec.Vec3) *chunk.Chunk {
	c := chunk.NewChunk(coords)

	// Для каждого чанка свой сид, чтобы повторная генерация давала тот же чанк
	chunkSeed := wg.Seed + int64(coords.X*31) + int64(coords.Z*17)
	rng := rand.New(rand.NewSource(chunkSeed))

	origin := chunk.Origin(coords)
	for z := 0; z < chunk.Size; z++ {
		for x := 0; x < chunk.Size; x++ {
			h := wg.ColumnHeight(vec.Vec2{X: origin.X + x, Z: origin.Z + z})
			for y := 0; y <= h; y++ {
				// координаты в границах, воксель Full: ошибки быть не может
				_ = c.Set(x, y, z, block.Full(wg.Layers.species(y, h, rng)))
			}
		}
	}

	return c
}
