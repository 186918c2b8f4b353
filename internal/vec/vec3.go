package vec

import "fmt"

// Vec3 представляет трехмерный вектор с целочисленными координатами.
// Используется и для мировых позиций вокселей, и для координат чанков.
type Vec3 struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub вычитает вектор
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Scale умножает все компоненты на n
func (v Vec3) Scale(n int) Vec3 {
	return Vec3{X: v.X * n, Y: v.Y * n, Z: v.Z * n}
}

// FloorDiv делит покомпонентно с округлением вниз (евклидово деление).
func (v Vec3) FloorDiv(n int) Vec3 {
	return Vec3{X: FloorDiv(v.X, n), Y: FloorDiv(v.Y, n), Z: FloorDiv(v.Z, n)}
}

// FloorMod возвращает покомпонентный остаток в диапазоне [0, n).
func (v Vec3) FloorMod(n int) Vec3 {
	return Vec3{X: FloorMod(v.X, n), Y: FloorMod(v.Y, n), Z: FloorMod(v.Z, n)}
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Column отбрасывает вертикальную компоненту
func (v Vec3) Column() Vec2 {
	return Vec2{X: v.X, Z: v.Z}
}

// ChebyshevXZ возвращает расстояние Чебышёва в плоскости XZ.
func (v Vec3) ChebyshevXZ(other Vec3) int {
	return max(abs(v.X-other.X), abs(v.Z-other.Z))
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}

// FloorDiv делит a на b с округлением к минус бесконечности.
// b должно быть положительным.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && (a < 0) {
		q--
	}
	return q
}

// FloorMod возвращает a - FloorDiv(a, b)*b, всегда в [0, b).
func FloorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
