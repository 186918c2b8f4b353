package chunk

import (
	"errors"
	"testing"

	"github.com/annel0/blockverse/internal/vec"
	"github.com/annel0/blockverse/internal/world/block"
)

func TestChunkCreateAndSet(t *testing.T) {
	coords := vec.Vec3{X: 5, Y: 0, Z: -10}
	c := NewChunk(coords)

	if c.Coords != coords {
		t.Errorf("Ожидались координаты %v, получено %v", coords, c.Coords)
	}
	if !c.IsEmpty() {
		t.Error("Новый чанк должен быть пустым")
	}

	if v := c.At(3, 4, 5); !v.IsEmpty() {
		t.Errorf("Ожидался пустой воксель, получен %v", v)
	}

	if err := c.Set(3, 4, 5, block.Full(block.Stone)); err != nil {
		t.Fatalf("Set вернул ошибку: %v", err)
	}
	if v := c.At(3, 4, 5); v != block.Full(block.Stone) {
		t.Errorf("Ожидался камень, получен %v", v)
	}
	if c.SolidCount() != 1 {
		t.Errorf("Ожидался 1 блок, получено %d", c.SolidCount())
	}

	// перезапись тем же непустым не меняет счетчик
	_ = c.Set(3, 4, 5, block.Full(block.Dirt))
	if c.SolidCount() != 1 {
		t.Errorf("Ожидался 1 блок после перезаписи, получено %d", c.SolidCount())
	}

	_ = c.Set(3, 4, 5, block.Empty())
	if !c.IsEmpty() {
		t.Errorf("Чанк должен опустеть, блоков: %d", c.SolidCount())
	}
}

func TestChunkSetRejects(t *testing.T) {
	c := NewChunk(vec.Vec3{})

	if err := c.Set(Size, 0, 0, block.Full(block.Sand)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Ожидалась ErrOutOfBounds, получено %v", err)
	}
	if err := c.Set(0, -1, 0, block.Full(block.Sand)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Ожидалась ErrOutOfBounds, получено %v", err)
	}
	if err := c.Set(1, 1, 1, block.Semi(block.Water)); !errors.Is(err, block.ErrUnsupportedVoxel) {
		t.Errorf("Ожидалась ErrUnsupportedVoxel, получено %v", err)
	}
	if !c.IsEmpty() {
		t.Error("Отвергнутые записи не должны менять чанк")
	}
}

func TestChunkNeighborInside(t *testing.T) {
	c := NewChunk(vec.Vec3{})
	_ = c.Set(10, 10, 10, block.Full(block.Grass))

	neighbors := []struct {
		x, y, z    int
		dx, dy, dz int
	}{
		{10, 9, 10, 0, 1, 0},
		{10, 11, 10, 0, -1, 0},
		{9, 10, 10, 1, 0, 0},
		{11, 10, 10, -1, 0, 0},
		{10, 10, 9, 0, 0, 1},
		{10, 10, 11, 0, 0, -1},
	}
	for _, n := range neighbors {
		if v := c.Get(n.x, n.y, n.z, n.dx, n.dy, n.dz); v != block.Full(block.Grass) {
			t.Errorf("Сосед (%d,%d,%d)+(%d,%d,%d): ожидалась трава, получено %v",
				n.x, n.y, n.z, n.dx, n.dy, n.dz, v)
		}
	}
}

func TestChunkNeighborNeverCrossesBoundary(t *testing.T) {
	c := NewChunk(vec.Vec3{})
	last := Size - 1
	for x := 0; x < Size; x++ {
		for z := 0; z < Size; z++ {
			_ = c.Set(x, 0, z, block.Full(block.Stone))
			_ = c.Set(x, last, z, block.Full(block.Stone))
		}
	}

	cases := []struct {
		x, y, z    int
		dx, dy, dz int
	}{
		{0, 0, 0, -1, 0, 0},
		{0, 0, 0, 0, -1, 0},
		{0, 0, 0, 0, 0, -1},
		{last, last, last, 1, 0, 0},
		{last, last, last, 0, 1, 0},
		{last, last, last, 0, 0, 1},
	}
	for _, cs := range cases {
		if v := c.Get(cs.x, cs.y, cs.z, cs.dx, cs.dy, cs.dz); !v.IsEmpty() {
			t.Errorf("Запрос за границу (%d,%d,%d)+(%d,%d,%d) должен вернуть пустоту, получено %v",
				cs.x, cs.y, cs.z, cs.dx, cs.dy, cs.dz, v)
		}
	}
}
