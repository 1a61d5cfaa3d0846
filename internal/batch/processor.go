// Package batch renders a directory of scene files to WebP images.
package batch

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"scanraster/internal/logging"
	"scanraster/internal/postprocess"
	"scanraster/internal/raster"
	"scanraster/internal/scene"
	"scanraster/internal/texture"

	"github.com/HugoSmits86/nativewebp"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	Textures    texture.Provider
	Options     raster.Options
	Fog         scene.Fog
	RenderSize  int
	Supersample int
	Workers     int
	WriteDepth  bool
	// Progress receives a rate line every couple of seconds; nil is quiet.
	Progress io.Writer
}

// Result holds the outcome of rendering one scene.
type Result struct {
	Path    string
	Name    string
	Image   string
	Depth   string
	Scene   scene.Stats
	Raster  raster.Stats
	Success bool
	Error   string
}

// FindScenes lists the *.json files directly under dir, sorted by name.
func FindScenes(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Run renders every scene using a worker pool. Each worker owns its own
// raster.Context and frame buffer over the shared texture provider.
func Run(cfg Config, paths []string) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Supersample <= 0 {
		cfg.Supersample = 1
	}

	total := len(paths)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 && cfg.Progress != nil {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f scenes/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	pathChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := newRenderer(cfg)
			for idx := range pathChan {
				results[idx] = r.render(paths[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range paths {
		pathChan <- i
	}
	close(pathChan)

	wg.Wait()
	close(done)

	return results
}

type renderer struct {
	cfg Config
	ctx *raster.Context
	fb  *raster.FrameBuffer
}

func newRenderer(cfg Config) *renderer {
	size := cfg.RenderSize * cfg.Supersample
	r := &renderer{
		cfg: cfg,
		ctx: raster.New(cfg.Textures, cfg.Options),
		fb:  raster.NewFrameBuffer(size, size),
	}
	// Sizes come from the same value, so the bind cannot fail.
	_ = r.ctx.BindFrame(r.fb)
	return r
}

func (r *renderer) render(path string) Result {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	res := Result{Path: path, Name: name}

	s, err := scene.Load(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if s.Name != "" {
		res.Name = s.Name
	}

	r.ctx.ResetStats()
	res.Scene = scene.Render(r.ctx, s, r.cfg.Fog)
	res.Raster = r.ctx.Stats()

	size := r.fb.Width
	img := postprocess.Image(r.fb.Pixels, size, size)
	if r.cfg.Supersample > 1 {
		img = postprocess.Downsample(img, r.cfg.RenderSize, r.cfg.RenderSize)
	}

	res.Image = name + ".webp"
	if err := writeWebP(filepath.Join(r.cfg.OutputDir, res.Image), img); err != nil {
		res.Error = err.Error()
		return res
	}

	if r.cfg.WriteDepth {
		res.Depth = name + ".depth.webp"
		depth := postprocess.DepthImage(r.fb.Depth, size, size, raster.FarDepth)
		if err := writeWebP(filepath.Join(r.cfg.OutputDir, res.Depth), depth); err != nil {
			res.Error = err.Error()
			return res
		}
	}

	logging.Logger().Debug("scene rendered", "scene", name,
		"submitted", res.Scene.Submitted, "drawn", res.Raster.Drawn, "skipped", res.Raster.Skipped)
	res.Success = true
	return res
}

func writeWebP(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("WebP encode %s: %w", path, err)
	}
	return f.Close()
}
