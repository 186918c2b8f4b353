// Package export выгружает геометрию чанков в Wavefront OBJ.
package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/blockverse/internal/world/mesher"
)

// Part - один объект OBJ: меш чанка и его смещение в мире
type Part struct {
	Name   string
	Offset mgl32.Vec3
	Mesh   *mesher.Mesh
}

// Stats - сколько записано в файл
type Stats struct {
	Objects   int
	Vertices  int
	Triangles int
}

// WriteOBJ пишет части как отдельные объекты "o". Индексы граней сквозные
// и начинаются с 1, как требует формат. Пустые меши пропускаются.
func WriteOBJ(w io.Writer, parts []Part) (Stats, error) {
	bw := bufio.NewWriter(w)
	var stats Stats

	fmt.Fprintf(bw, "# blockverse chunk export\n")
	for _, part := range parts {
		m := part.Mesh
		if m == nil || m.IsEmpty() {
			continue
		}
		if len(m.Normals) != len(m.Positions) || len(m.UVs) != len(m.Positions) {
			return stats, fmt.Errorf("объект %s: атрибуты вершин разной длины", part.Name)
		}

		fmt.Fprintf(bw, "o %s\n", part.Name)
		for _, p := range m.Positions {
			p = p.Add(part.Offset)
			fmt.Fprintf(bw, "v %.4f %.4f %.4f\n", p.X(), p.Y(), p.Z())
		}
		for _, uv := range m.UVs {
			fmt.Fprintf(bw, "vt %.6f %.6f\n", uv.X(), uv.Y())
		}
		for _, n := range m.Normals {
			fmt.Fprintf(bw, "vn %.0f %.0f %.0f\n", n.X(), n.Y(), n.Z())
		}

		base := uint32(stats.Vertices) + 1
		for i := 0; i+2 < len(m.Indices); i += 3 {
			a, b, c := m.Indices[i]+base, m.Indices[i+1]+base, m.Indices[i+2]+base
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		}

		stats.Objects++
		stats.Vertices += len(m.Positions)
		stats.Triangles += m.TriangleCount()
	}

	return stats, bw.Flush()
}
