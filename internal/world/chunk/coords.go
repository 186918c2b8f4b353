package chunk

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/blockverse/internal/vec"
)

// Resolve раскладывает мировую позицию вокселя на координаты чанка и
// локальную позицию внутри него: pos = coords*Size + local, 0 <= local < Size.
// Используется деление с округлением вниз, поэтому отрицательные позиции
// попадают в чанк с отрицательной координатой, а не в нулевой.
func Resolve(pos vec.Vec3) (coords, local vec.Vec3) {
	coords = pos.FloorDiv(Size)
	local = pos.Sub(coords.Scale(Size))
	return coords, local
}

// Origin возвращает мировую позицию вокселя (0,0,0) чанка
func Origin(coords vec.Vec3) vec.Vec3 {
	return coords.Scale(Size)
}

// VoxelAt округляет точку мирового пространства вниз до позиции вокселя
func VoxelAt(p mgl32.Vec3, voxelSize float32) vec.Vec3 {
	if voxelSize <= 0 {
		voxelSize = 1
	}
	return vec.Vec3{
		X: int(math.Floor(float64(p.X() / voxelSize))),
		Y: int(math.Floor(float64(p.Y() / voxelSize))),
		Z: int(math.Floor(float64(p.Z() / voxelSize))),
	}
}

// Offset возвращает смещение чанка в мировом пространстве для рендера.
// Чанки не складываются по вертикали, поэтому Y всегда 0.
func Offset(coords vec.Vec3, voxelSize float32) mgl32.Vec3 {
	scale := float32(Size) * voxelSize
	return mgl32.Vec3{float32(coords.X) * scale, 0, float32(coords.Z) * scale}
}
