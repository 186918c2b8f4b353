package world

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/annel0/blockverse/internal/vec"
	"github.com/annel0/blockverse/internal/world/block"
	"github.com/annel0/blockverse/internal/world/chunk"
)

func TestGeneratorLayers(t *testing.T) {
	gen := NewWorldGenerator(1, FlatHeight(10))
	gen.Layers.RareChance = 0

	c := gen.GenerateChunk(vec.Vec3{X: 2, Z: -3})
	assert.Equal(t, vec.Vec3{X: 2, Z: -3}, c.Coords)

	column := []struct {
		y    int
		want block.Voxel
	}{
		{11, block.Empty()},
		{10, block.Full(block.Grass)},
		{9, block.Full(block.Dirt)},
		{7, block.Full(block.Dirt)},
		{6, block.Full(block.Stone)},
		{0, block.Full(block.Stone)},
	}
	for _, tc := range column {
		assert.Equal(t, tc.want, c.At(17, tc.y, 3), "y=%d", tc.y)
	}
	assert.Equal(t, chunk.Size*chunk.Size*11, c.SolidCount())
}

func TestGeneratorIsDeterministic(t *testing.T) {
	gen := NewWorldGenerator(99, func(x, z float64) float64 { return 8 + x/4 - z/8 })
	gen.Layers.RareChance = 0.3

	coords := vec.Vec3{X: 1, Z: -1}
	assert.Equal(t, gen.GenerateChunk(coords), gen.GenerateChunk(coords), "повторная генерация даёт тот же чанк")

	other := NewWorldGenerator(100, gen.Height)
	other.Layers = gen.Layers
	assert.NotEqual(t, gen.GenerateChunk(coords), other.GenerateChunk(coords), "другой сид меняет редкие блоки")
}

func TestGeneratorRareSubstitution(t *testing.T) {
	gen := NewWorldGenerator(5, FlatHeight(20))
	gen.Layers.RareChance = 1

	c := gen.GenerateChunk(vec.Vec3{})
	assert.Equal(t, block.Full(block.Coal), c.At(0, 0, 0))
	assert.Equal(t, block.Full(block.Coal), c.At(0, 16, 0))
	assert.Equal(t, block.Full(block.Dirt), c.At(0, 17, 0), "подповерхностный слой не заменяется")
}

func TestColumnHeightIsClamped(t *testing.T) {
	assert.Equal(t, chunk.Size-1, NewWorldGenerator(0, FlatHeight(1000)).ColumnHeight(vec.Vec2{}))
	assert.Equal(t, 0, NewWorldGenerator(0, FlatHeight(-7)).ColumnHeight(vec.Vec2{}))
	assert.Equal(t, 3, NewWorldGenerator(0, FlatHeight(3.9)).ColumnHeight(vec.Vec2{}))

	// высота считается в мировых координатах колонки
	gen := NewWorldGenerator(0, func(x, z float64) float64 { return x })
	c := gen.GenerateChunk(vec.Vec3{X: -1})
	assert.True(t, c.At(31, 0, 0).IsFull(), "отрицательная высота прижимается к 0")
	assert.True(t, c.At(31, 1, 0).IsEmpty())

	c = gen.GenerateChunk(vec.Vec3{})
	assert.Equal(t, block.Full(block.Grass), c.At(5, 5, 0))
	assert.True(t, c.At(5, 6, 0).IsEmpty())
}

func TestLayerRuleValidate(t *testing.T) {
	assert.NoError(t, DefaultLayerRule().Validate())

	bad := DefaultLayerRule()
	bad.RareChance = 1.5
	assert.Error(t, bad.Validate())

	bad = DefaultLayerRule()
	bad.Bulk = block.BlockType(200)
	assert.Error(t, bad.Validate())

	bad = DefaultLayerRule()
	bad.Depth = -1
	assert.Error(t, bad.Validate())
}
