package block

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextureTable(t *testing.T) {
	grass := Grass.Texture()
	assert.Equal(t, AtlasCell{Col: 0, Row: 0}, grass.Top, "верх травы")
	assert.Equal(t, AtlasCell{Col: 2, Row: 0}, grass.Bottom, "низ травы")
	assert.Equal(t, AtlasCell{Col: 1, Row: 0}, grass.Side, "бок травы")

	assert.Equal(t, grass.Top, grass.Cell(GroupTop))
	assert.Equal(t, grass.Bottom, grass.Cell(GroupBottom))
	assert.Equal(t, grass.Side, grass.Cell(GroupSide))

	leaf := Leaf.Texture()
	assert.Equal(t, AtlasCell{Col: 9, Row: 9}, leaf.Side)
	assert.Equal(t, leaf.Top, leaf.Bottom)
}

func TestTextureTotal(t *testing.T) {
	for _, b := range All() {
		tex := b.Texture()
		assert.Less(t, tex.Top.Col, uint32(10), "ячейка %s вне атласа", b)
		assert.Less(t, tex.Side.Row, uint32(10), "ячейка %s вне атласа", b)
	}
	// значения вне перечисления не паникуют
	assert.Equal(t, Dirt.Texture(), BlockType(200).Texture())
}

func TestParseBlockType(t *testing.T) {
	for _, b := range All() {
		parsed, err := ParseBlockType(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, parsed)
	}

	parsed, err := ParseBlockType("  Coal ")
	require.NoError(t, err)
	assert.Equal(t, Coal, parsed)

	_, err = ParseBlockType("bedrock")
	assert.Error(t, err)
}

func TestCycleWraps(t *testing.T) {
	n := len(All())
	assert.Equal(t, Grass, Cycle(0))
	assert.Equal(t, Dirt, Cycle(1))
	assert.Equal(t, Grass, Cycle(n))
	assert.Equal(t, Water, Cycle(-1), "отрицательный индекс должен заворачиваться")
	assert.Equal(t, Cycle(3), Cycle(3-5*n))
}

func TestVoxelVariants(t *testing.T) {
	empty := Empty()
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, Voxel{}, empty, "нулевое значение - пустой воксель")
	_, ok := empty.Species()
	assert.False(t, ok)

	full := Full(Stone)
	assert.True(t, full.IsFull())
	species, ok := full.Species()
	assert.True(t, ok)
	assert.Equal(t, Stone, species)
	assert.NoError(t, full.Supported())

	semi := Semi(Water)
	assert.False(t, semi.IsFull())
	assert.False(t, semi.IsEmpty())
	assert.True(t, errors.Is(semi.Supported(), ErrUnsupportedVoxel))
	assert.Equal(t, "semi(water)", semi.String())
}
