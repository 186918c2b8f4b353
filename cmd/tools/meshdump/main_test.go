package main

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/blockverse/internal/config"
	"github.com/annel0/blockverse/internal/export"
)

func TestDump(t *testing.T) {
	cfg := config.Default()
	cfg.World.RenderDistance = 1
	path := filepath.Join(t.TempDir(), "area.obj.gz")

	stats, err := dump(cfg, mgl32.Vec3{-40, 0, 10}, path)
	require.NoError(t, err)
	assert.Equal(t, 9, stats.Objects)
	assert.Positive(t, stats.Triangles)

	r, err := export.Open(path)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)

	// чанк наблюдателя (-2, 0, 0) и его соседи
	assert.Contains(t, string(data), "o chunk_-2_0\n")
	assert.Contains(t, string(data), "o chunk_-3_-1\n")
	assert.Equal(t, 9, strings.Count(string(data), "\no "))
}
