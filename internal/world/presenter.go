package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/blockverse/internal/physics"
	"github.com/annel0/blockverse/internal/vec"
	"github.com/annel0/blockverse/internal/world/mesher"
)

// Geometry передаётся внешним потребителям (рендер, физика) при создании
// и обновлении представления чанка
type Geometry struct {
	Coords   vec.Vec3
	Mesh     *mesher.Mesh
	Quads    int
	Collider *physics.TriMesh // nil, если у чанка нет треугольников
	Offset   mgl32.Vec3       // (cx*N*voxelSize, 0, cz*N*voxelSize)
}

// Handle - внешнее представление загруженного чанка
type Handle interface {
	Coords() vec.Vec3
}

// Presenter создаёт, обновляет и уничтожает представления чанков.
// Вызывается только из тика мира.
type Presenter interface {
	Create(g Geometry) (Handle, error)
	Update(h Handle, g Geometry) error
	Destroy(h Handle)
}
