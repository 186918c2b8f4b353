package world

import (
	"fmt"

	"github.com/annel0/blockverse/internal/vec"
	"github.com/annel0/blockverse/internal/world/block"
)

// EditRequest - запрос правки вокселя, применяемый в фазе правок тика
type EditRequest interface {
	Target() vec.Vec3
	String() string
	edit()
}

// BreakRequest делает воксель пустым
type BreakRequest struct {
	Position vec.Vec3
}

func (r BreakRequest) Target() vec.Vec3 { return r.Position }
func (r BreakRequest) String() string   { return fmt.Sprintf("break %s", r.Position) }
func (BreakRequest) edit()              {}

// PlaceRequest ставит блок в пустой воксель
type PlaceRequest struct {
	Position vec.Vec3
	Species  block.Voxel
}

func (r PlaceRequest) Target() vec.Vec3 { return r.Position }
func (r PlaceRequest) String() string {
	return fmt.Sprintf("place %s at %s", r.Species, r.Position)
}
func (PlaceRequest) edit() {}
