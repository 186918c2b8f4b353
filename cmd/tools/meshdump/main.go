package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/blockverse/internal/config"
	"github.com/annel0/blockverse/internal/export"
	"github.com/annel0/blockverse/internal/logging"
	"github.com/annel0/blockverse/internal/scene"
	"github.com/annel0/blockverse/internal/world"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config (default $BLOCKVERSE_CONFIG)")
		x          = flag.Float64("x", 0, "World X of the area center")
		z          = flag.Float64("z", 0, "World Z of the area center")
		radius     = flag.Int("radius", -1, "Render distance in chunks (default from config)")
		out        = flag.String("out", "world.obj", "Output file (.obj, .obj.gz, .obj.zst)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if *radius >= 0 {
		cfg.World.RenderDistance = *radius
	}

	stats, err := dump(cfg, mgl32.Vec3{float32(*x), 0, float32(*z)}, *out)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	fmt.Fprintf(os.Stdout, "✅ %s: %d chunks, %d vertices, %d triangles\n",
		*out, stats.Objects, stats.Vertices, stats.Triangles)
}

// dump генерирует квадрат чанков вокруг center и пишет его в OBJ
func dump(cfg *config.Config, center mgl32.Vec3, path string) (export.Stats, error) {
	gen, err := cfg.Generator()
	if err != nil {
		return export.Stats{}, fmt.Errorf("generator: %w", err)
	}

	sc := scene.New()
	wm, err := world.NewWorldManager(gen, sc,
		world.WithRenderDistance(cfg.World.RenderDistance),
		world.WithMeshOptions(cfg.MeshOptions()),
		world.WithLogger(logging.Discard()),
	)
	if err != nil {
		return export.Stats{}, err
	}
	defer wm.Shutdown()

	report := wm.Tick(context.Background(), center)
	if len(report.Errors) > 0 {
		return export.Stats{}, fmt.Errorf("tick: %v", report.Errors[0])
	}

	w, err := export.Create(path)
	if err != nil {
		return export.Stats{}, err
	}

	stats, err := export.WriteOBJ(w, sc.Parts())
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return stats, err
}
