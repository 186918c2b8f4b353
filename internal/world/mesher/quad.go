package mesher

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/blockverse/internal/vec"
	"github.com/annel0/blockverse/internal/world/block"
)

// Face - одна из шести осевых граней вокселя
type Face uint8

const (
	FaceTop    Face = iota // +Y
	FaceBottom             // -Y
	FaceRight              // +X
	FaceLeft               // -X
	FaceFront              // +Z
	FaceBack               // -Z
)

// Faces перечисляет грани в порядке обхода мешера
var Faces = [6]Face{FaceTop, FaceBottom, FaceRight, FaceLeft, FaceFront, FaceBack}

var faceOffsets = [6]vec.Vec3{
	FaceTop:    {X: 0, Y: 1, Z: 0},
	FaceBottom: {X: 0, Y: -1, Z: 0},
	FaceRight:  {X: 1, Y: 0, Z: 0},
	FaceLeft:   {X: -1, Y: 0, Z: 0},
	FaceFront:  {X: 0, Y: 0, Z: 1},
	FaceBack:   {X: 0, Y: 0, Z: -1},
}

// Углы грани единичного куба. Порядок для боковых граней: левый-низ,
// левый-верх, правый-низ, правый-верх (если смотреть снаружи), так что
// треугольники [0,2,1] и [1,2,3] идут против часовой стрелки.
var faceCorners = [6][4][3]float32{
	FaceTop:    {{0, 1, 0}, {1, 1, 0}, {0, 1, 1}, {1, 1, 1}},
	FaceBottom: {{0, 0, 1}, {1, 0, 1}, {0, 0, 0}, {1, 0, 0}},
	FaceRight:  {{1, 0, 1}, {1, 1, 1}, {1, 0, 0}, {1, 1, 0}},
	FaceLeft:   {{0, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0, 1, 1}},
	FaceFront:  {{0, 0, 1}, {0, 1, 1}, {1, 0, 1}, {1, 1, 1}},
	FaceBack:   {{1, 0, 0}, {1, 1, 0}, {0, 0, 0}, {0, 1, 0}},
}

// Offset возвращает смещение к соседу через эту грань
func (f Face) Offset() vec.Vec3 {
	return faceOffsets[f]
}

// Normal возвращает единичную нормаль грани
func (f Face) Normal() mgl32.Vec3 {
	o := faceOffsets[f]
	return mgl32.Vec3{float32(o.X), float32(o.Y), float32(o.Z)}
}

// Group выбирает ячейку атласа: верх, низ или бок
func (f Face) Group() block.FaceGroup {
	switch f {
	case FaceTop:
		return block.GroupTop
	case FaceBottom:
		return block.GroupBottom
	default:
		return block.GroupSide
	}
}

func (f Face) String() string {
	switch f {
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceRight:
		return "right"
	case FaceLeft:
		return "left"
	case FaceFront:
		return "front"
	case FaceBack:
		return "back"
	default:
		return "unknown"
	}
}

// Quad - одна открытая грань одного вокселя
type Quad struct {
	Local vec.Vec3    // Локальная позиция вокселя в чанке
	Face  Face        // Направление грани
	Voxel block.Voxel // Исходный воксель (для текстуры)
}

// indices возвращает два треугольника квада, начиная с вершины start
func (q Quad) indices(start uint32) [6]uint32 {
	return [6]uint32{start, start + 2, start + 1, start + 1, start + 2, start + 3}
}

func (q Quad) positions(voxelSize float32) [4]mgl32.Vec3 {
	var out [4]mgl32.Vec3
	x, y, z := float32(q.Local.X), float32(q.Local.Y), float32(q.Local.Z)
	for i, c := range faceCorners[q.Face] {
		out[i] = mgl32.Vec3{(x + c[0]) * voxelSize, (y + c[1]) * voxelSize, (z + c[2]) * voxelSize}
	}
	return out
}

func (q Quad) normals() [4]mgl32.Vec3 {
	n := q.Face.Normal()
	return [4]mgl32.Vec3{n, n, n, n}
}

// uvs вычисляет координаты углов в ячейке атласа. Внешние края ячейки
// сжаты на eps, чтобы при фильтрации не подмешивались соседние ячейки.
func (q Quad) uvs(opts Options) ([4]mgl32.Vec2, error) {
	if err := q.Voxel.Supported(); err != nil {
		return [4]mgl32.Vec2{}, err
	}
	species, ok := q.Voxel.Species()
	if !ok {
		return [4]mgl32.Vec2{}, errEmptyQuad
	}

	step := opts.CellSize / opts.AtlasSize
	eps := 1 / opts.CellSize
	cell := species.Texture().Cell(q.Face.Group())
	base := mgl32.Vec2{float32(cell.Col), float32(cell.Row)}

	lo, hi := eps, 1-eps
	var corners [4]mgl32.Vec2
	if q.Face.Group() == block.GroupSide {
		// левый-низ, левый-верх, правый-низ, правый-верх; v растет вниз
		corners = [4]mgl32.Vec2{{lo, hi}, {lo, lo}, {hi, hi}, {hi, lo}}
	} else {
		corners = [4]mgl32.Vec2{{lo, lo}, {hi, lo}, {lo, hi}, {hi, hi}}
	}

	var out [4]mgl32.Vec2
	for i, c := range corners {
		out[i] = c.Add(base).Mul(step)
	}
	return out, nil
}
