package physics

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrDegenerateGeometry возвращается, если из геометрии нельзя собрать
// коллайдер: нет треугольников, индексы не кратны трем или выходят за
// пределы массива вершин. Ошибка восстановимая: полностью пустой чанк
// законно не имеет коллизии.
var ErrDegenerateGeometry = errors.New("вырожденная геометрия коллайдера")

// Box - осевой ограничивающий параллелепипед
type Box struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Contains проверяет, лежит ли точка внутри коробки (границы включительно)
func (b Box) Contains(p mgl32.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// Intersects проверяет пересечение двух коробок
func (b Box) Intersects(other Box) bool {
	return b.Min.X() <= other.Max.X() && b.Max.X() >= other.Min.X() &&
		b.Min.Y() <= other.Max.Y() && b.Max.Y() >= other.Min.Y() &&
		b.Min.Z() <= other.Max.Z() && b.Max.Z() >= other.Min.Z()
}

// Translate сдвигает коробку
func (b Box) Translate(offset mgl32.Vec3) Box {
	return Box{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// TriMesh - ориентированный треугольный коллайдер (не выпуклая оболочка).
// Вершины и треугольники копируются из меша, чтобы последующие правки
// меша не меняли форму коллизии.
type TriMesh struct {
	Vertices  []mgl32.Vec3
	Triangles [][3]uint32
	bounds    Box
}

// NewTriMesh собирает коллайдер из позиций и индексов треугольного списка
func NewTriMesh(positions []mgl32.Vec3, indices []uint32) (*TriMesh, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: нет треугольников", ErrDegenerateGeometry)
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d индексов не кратно 3", ErrDegenerateGeometry, len(indices))
	}

	tm := &TriMesh{
		Vertices:  append([]mgl32.Vec3(nil), positions...),
		Triangles: make([][3]uint32, 0, len(indices)/3),
	}

	for i := 0; i < len(indices); i += 3 {
		tri := [3]uint32{indices[i], indices[i+1], indices[i+2]}
		for _, idx := range tri {
			if int(idx) >= len(positions) {
				return nil, fmt.Errorf("%w: индекс %d при %d вершинах", ErrDegenerateGeometry, idx, len(positions))
			}
		}
		tm.Triangles = append(tm.Triangles, tri)
	}

	tm.bounds = computeBounds(tm.Vertices, tm.Triangles)
	return tm, nil
}

// TriangleCount возвращает число треугольников коллайдера
func (tm *TriMesh) TriangleCount() int {
	return len(tm.Triangles)
}

// Bounds возвращает ограничивающую коробку использованных вершин
func (tm *TriMesh) Bounds() Box {
	return tm.bounds
}

// Normal возвращает нормаль треугольника по порядку обхода (против часовой)
func (tm *TriMesh) Normal(tri int) mgl32.Vec3 {
	t := tm.Triangles[tri]
	a, b, c := tm.Vertices[t[0]], tm.Vertices[t[1]], tm.Vertices[t[2]]
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return n
	}
	return n.Normalize()
}

func computeBounds(vertices []mgl32.Vec3, triangles [][3]uint32) Box {
	first := vertices[triangles[0][0]]
	box := Box{Min: first, Max: first}
	for _, tri := range triangles {
		for _, idx := range tri {
			v := vertices[idx]
			for axis := 0; axis < 3; axis++ {
				if v[axis] < box.Min[axis] {
					box.Min[axis] = v[axis]
				}
				if v[axis] > box.Max[axis] {
					box.Max[axis] = v[axis]
				}
			}
		}
	}
	return box
}
