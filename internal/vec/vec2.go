package vec

// Vec2 представляет колонку мира в плоскости XZ
type Vec2 struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// FloorDiv переводит координату колонки в координату колонки чанков
func (v Vec2) FloorDiv(n int) Vec2 {
	return Vec2{X: FloorDiv(v.X, n), Z: FloorDiv(v.Z, n)}
}

// At поднимает колонку до трехмерной позиции на высоте y
func (v Vec2) At(y int) Vec3 {
	return Vec3{X: v.X, Y: y, Z: v.Z}
}
