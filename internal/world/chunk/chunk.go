package chunk

import (
	"errors"
	"fmt"

	"github.com/annel0/blockverse/internal/vec"
	"github.com/annel0/blockverse/internal/world/block"
)

const (
	// Size - длина ребра чанка в вокселях
	Size = 32
	// Volume - число вокселей в чанке
	Volume = Size * Size * Size
)

// ErrOutOfBounds возвращается при обращении за пределы [0, Size)
var ErrOutOfBounds = errors.New("локальная координата вне чанка")

// Chunk представляет куб мира Size x Size x Size вокселей.
//
// Воксели лежат в одном плоском массиве с индексом x + Size*y + Size*Size*z.
// Чанк принадлежит ровно одной записи карты мира и не синхронизируется:
// все изменения происходят внутри тика.
type Chunk struct {
	Coords vec.Vec3 // Координаты чанка в сетке чанков

	voxels [Volume]block.Voxel
	solid  int
}

// NewChunk создаёт пустой чанк с указанными координатами
func NewChunk(coords vec.Vec3) *Chunk {
	return &Chunk{Coords: coords}
}

// InBounds проверяет, что локальная координата лежит внутри чанка
func InBounds(x, y, z int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size && z >= 0 && z < Size
}

func index(x, y, z int) int {
	return x + Size*y + Size*Size*z
}

// At возвращает воксель по локальным координатам.
// За пределами чанка возвращается пустой воксель.
func (c *Chunk) At(x, y, z int) block.Voxel {
	if !InBounds(x, y, z) {
		return block.Empty()
	}
	return c.voxels[index(x, y, z)]
}

// Get возвращает соседа вокселя (x, y, z) в направлении (dx, dy, dz).
//
// Запрос никогда не выходит за границу чанка: если сосед лежит снаружи,
// возвращается пустой воксель. Поэтому граничные воксели всегда рисуют
// грань, смотрящую наружу, даже если в соседнем загруженном чанке там
// стоит блок.
func (c *Chunk) Get(x, y, z, dx, dy, dz int) block.Voxel {
	return c.At(x+dx, y+dy, z+dz)
}

// Set записывает воксель по локальным координатам
func (c *Chunk) Set(x, y, z int, v block.Voxel) error {
	if !InBounds(x, y, z) {
		return fmt.Errorf("%w: (%d,%d,%d)", ErrOutOfBounds, x, y, z)
	}
	if err := v.Supported(); err != nil {
		return err
	}

	i := index(x, y, z)
	prev := c.voxels[i]
	if prev.IsEmpty() && !v.IsEmpty() {
		c.solid++
	} else if !prev.IsEmpty() && v.IsEmpty() {
		c.solid--
	}
	c.voxels[i] = v
	return nil
}

// SetLocal - Set с локальной координатой в виде вектора
func (c *Chunk) SetLocal(local vec.Vec3, v block.Voxel) error {
	return c.Set(local.X, local.Y, local.Z, v)
}

// AtLocal - At с локальной координатой в виде вектора
func (c *Chunk) AtLocal(local vec.Vec3) block.Voxel {
	return c.At(local.X, local.Y, local.Z)
}

// SolidCount возвращает число непустых вокселей
func (c *Chunk) SolidCount() int {
	return c.solid
}

// IsEmpty возвращает true, если в чанке нет ни одного блока
func (c *Chunk) IsEmpty() bool {
	return c.solid == 0
}
