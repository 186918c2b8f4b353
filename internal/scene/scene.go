// Package scene хранит представления загруженных чанков в памяти.
// Scene реализует world.Presenter и заменяет рендер в безголовом режиме.
package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/annel0/blockverse/internal/export"
	"github.com/annel0/blockverse/internal/vec"
	"github.com/annel0/blockverse/internal/world"
)

var (
	// ErrUnknownHandle - представление не принадлежит сцене
	ErrUnknownHandle = errors.New("неизвестное представление")
	// ErrDuplicateNode - для координат уже есть узел
	ErrDuplicateNode = errors.New("узел для чанка уже существует")
)

// Node - представление одного чанка
type Node struct {
	ID       uuid.UUID
	Geometry world.Geometry
	Version  int // увеличивается при каждом Update

	coords vec.Vec3
}

func (n *Node) Coords() vec.Vec3 { return n.coords }

// Stats - суммарная геометрия сцены
type Stats struct {
	Nodes     int    `json:"nodes"`
	Quads     int    `json:"quads"`
	Triangles int    `json:"triangles"`
	Colliders int    `json:"colliders"`
	Created   uint64 `json:"created"`
	Destroyed uint64 `json:"destroyed"`
}

type Scene struct {
	nodes     map[vec.Vec3]*Node
	created   uint64
	destroyed uint64
}

func New() *Scene {
	return &Scene{nodes: make(map[vec.Vec3]*Node)}
}

// Create добавляет узел для новой геометрии
func (s *Scene) Create(g world.Geometry) (world.Handle, error) {
	if _, exists := s.nodes[g.Coords]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, g.Coords)
	}

	node := &Node{
		ID:       uuid.New(),
		Geometry: g,
		coords:   g.Coords,
	}
	s.nodes[g.Coords] = node
	s.created++
	return node, nil
}

// Update заменяет геометрию узла на месте
func (s *Scene) Update(h world.Handle, g world.Geometry) error {
	node, err := s.lookup(h)
	if err != nil {
		return err
	}
	if !g.Coords.Equals(node.coords) {
		return fmt.Errorf("геометрия чанка %s для узла %s", g.Coords, node.coords)
	}

	node.Geometry = g
	node.Version++
	return nil
}

// Destroy удаляет узел. Чужие представления игнорируются.
func (s *Scene) Destroy(h world.Handle) {
	node, err := s.lookup(h)
	if err != nil {
		return
	}
	delete(s.nodes, node.coords)
	s.destroyed++
}

func (s *Scene) lookup(h world.Handle) (*Node, error) {
	node, ok := h.(*Node)
	if !ok || node == nil {
		return nil, fmt.Errorf("%w: %T", ErrUnknownHandle, h)
	}
	if s.nodes[node.coords] != node {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnknownHandle, node.coords, node.ID)
	}
	return node, nil
}

func (s *Scene) Len() int { return len(s.nodes) }

func (s *Scene) Node(coords vec.Vec3) (*Node, bool) {
	n, ok := s.nodes[coords]
	return n, ok
}

// Nodes возвращает узлы, отсортированные по (z, x)
func (s *Scene) Nodes() []*Node {
	nodes := make([]*Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i].coords, nodes[j].coords
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
	return nodes
}

func (s *Scene) Stats() Stats {
	stats := Stats{Nodes: len(s.nodes), Created: s.created, Destroyed: s.destroyed}
	for _, n := range s.nodes {
		stats.Quads += n.Geometry.Quads
		if n.Geometry.Mesh != nil {
			stats.Triangles += n.Geometry.Mesh.TriangleCount()
		}
		if n.Geometry.Collider != nil {
			stats.Colliders++
		}
	}
	return stats
}

// Parts возвращает геометрию узлов для экспорта в OBJ
func (s *Scene) Parts() []export.Part {
	nodes := s.Nodes()
	parts := make([]export.Part, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, export.Part{
			Name:   fmt.Sprintf("chunk_%d_%d", n.coords.X, n.coords.Z),
			Offset: n.Geometry.Offset,
			Mesh:   n.Geometry.Mesh,
		})
	}
	return parts
}
