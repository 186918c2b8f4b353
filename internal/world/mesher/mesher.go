package mesher

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/blockverse/internal/vec"
	"github.com/annel0/blockverse/internal/world/chunk"
)

var errEmptyQuad = errors.New("квад построен для пустого вокселя")

const (
	// VoxelSize - размер вокселя в мировых единицах
	VoxelSize float32 = 1
	// AtlasSize - сторона атласа текстур в пикселях
	AtlasSize float32 = 320
	// CellSize - сторона одной ячейки атласа в пикселях
	CellSize float32 = 32
)

// Options задает масштаб геометрии и разметку атласа
type Options struct {
	VoxelSize float32
	AtlasSize float32
	CellSize  float32
}

// DefaultOptions возвращает параметры по умолчанию
func DefaultOptions() Options {
	return Options{VoxelSize: VoxelSize, AtlasSize: AtlasSize, CellSize: CellSize}
}

// Validate проверяет, что параметры пригодны для построения меша
func (o Options) Validate() error {
	if o.VoxelSize <= 0 {
		return fmt.Errorf("voxel_size должен быть положительным: %v", o.VoxelSize)
	}
	if o.CellSize <= 0 || o.AtlasSize < o.CellSize {
		return fmt.Errorf("некорректный атлас: ячейка %v, атлас %v", o.CellSize, o.AtlasSize)
	}
	return nil
}

// Mesh - список треугольников с атрибутами вершин
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
}

// VertexCount возвращает число вершин
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// TriangleCount возвращает число треугольников
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// IsEmpty возвращает true для меша без треугольников
func (m *Mesh) IsEmpty() bool { return len(m.Indices) == 0 }

// Generate обходит чанк (z снаружи, x внутри) и выдает по кваду на каждую
// грань непустого вокселя, сосед которого не заполнен. Соседи ищутся
// только внутри чанка. Квады не объединяются.
func Generate(c *chunk.Chunk) ([]Quad, error) {
	var quads []Quad

	for z := 0; z < chunk.Size; z++ {
		for y := 0; y < chunk.Size; y++ {
			for x := 0; x < chunk.Size; x++ {
				current := c.At(x, y, z)
				if current.IsEmpty() {
					continue
				}
				if err := current.Supported(); err != nil {
					return nil, fmt.Errorf("чанк %v, воксель (%d,%d,%d): %w", c.Coords, x, y, z, err)
				}

				for _, face := range Faces {
					o := face.Offset()
					if c.Get(x, y, z, o.X, o.Y, o.Z).IsFull() {
						continue
					}
					quads = append(quads, Quad{
						Local: vec.Vec3{X: x, Y: y, Z: z},
						Face:  face,
						Voxel: current,
					})
				}
			}
		}
	}

	return quads, nil
}

// Build превращает квады в вершины и индексы: 4 вершины и 6 индексов на квад
func Build(quads []Quad, opts Options) (*Mesh, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	mesh := &Mesh{
		Positions: make([]mgl32.Vec3, 0, len(quads)*4),
		Normals:   make([]mgl32.Vec3, 0, len(quads)*4),
		UVs:       make([]mgl32.Vec2, 0, len(quads)*4),
		Indices:   make([]uint32, 0, len(quads)*6),
	}

	for _, q := range quads {
		uvs, err := q.uvs(opts)
		if err != nil {
			return nil, fmt.Errorf("грань %s вокселя %v: %w", q.Face, q.Local, err)
		}

		start := uint32(len(mesh.Positions))
		ind := q.indices(start)
		pos := q.positions(opts.VoxelSize)
		nor := q.normals()

		mesh.Indices = append(mesh.Indices, ind[:]...)
		mesh.Positions = append(mesh.Positions, pos[:]...)
		mesh.Normals = append(mesh.Normals, nor[:]...)
		mesh.UVs = append(mesh.UVs, uvs[:]...)
	}

	return mesh, nil
}

// Chunk строит меш чанка целиком и возвращает его вместе с квадами
func Chunk(c *chunk.Chunk, opts Options) (*Mesh, []Quad, error) {
	quads, err := Generate(c)
	if err != nil {
		return nil, nil, err
	}
	mesh, err := Build(quads, opts)
	if err != nil {
		return nil, nil, err
	}
	return mesh, quads, nil
}
