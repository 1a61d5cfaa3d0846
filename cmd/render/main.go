package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"scanraster/internal/batch"
	"scanraster/internal/config"
	"scanraster/internal/logging"
	"scanraster/internal/scene"
	"scanraster/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	testN := flag.Int("test", 0, "Render only first N scenes for testing")
	only := flag.String("scene", "", "Render only this scene file (name without .json)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	dataDir := flag.String("data", "", "Path to base directory (default: auto-detect)")
	outputDir := flag.String("output", "", "Output directory (default: <data>/renders)")
	supersample := flag.Int("ss", 0, "Supersample factor (default: 1)")
	gamma := flag.Float64("gamma", 0, "Brightness gamma, lower is brighter (default: 0.8)")
	noFog := flag.Bool("nofog", false, "Disable the fog pass")
	depth := flag.Bool("depth", false, "Also write a depth image per scene")
	verbose := flag.Bool("v", false, "Log rasterizer and texture activity to stderr")

	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		DataDir:     *dataDir,
		OutputDir:   *outputDir,
		Workers:     *workers,
		Supersample: *supersample,
		Gamma:       *gamma,
		NoFog:       *noFog,
	})
	if *depth {
		cfg.WriteDepth = true
	}

	paths, err := batch.FindScenes(cfg.SceneDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v. Use -data flag or config.json.\n", err)
		os.Exit(1)
	}

	if *only != "" {
		var filtered []string
		for _, p := range paths {
			if filepath.Base(p) == *only+".json" {
				filtered = append(filtered, p)
			}
		}
		paths = filtered
	}

	// Limit for testing
	if *testN > 0 && *testN < len(paths) {
		paths = paths[:*testN]
	}

	if len(paths) == 0 {
		fmt.Println("No scenes to render.")
		os.Exit(0)
	}

	// Textures are optional; scenes without textured faces render without them.
	textures := texture.MapProvider{}
	if _, err := os.Stat(cfg.TextureDir); err == nil {
		textures, err = texture.LoadDir(cfg.TextureDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: textures: %v\n", err)
		}
	}
	fmt.Printf("Textures: %d loaded\n", len(textures))

	mode := ""
	if *only != "" {
		mode = fmt.Sprintf(" (scene %s)", *only)
	} else if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}

	fmt.Printf("Scanline scene renderer → WebP%s\n", mode)
	fmt.Printf("Scenes: %d, Workers: %d, Size: %d×%d (ss %d)\n", len(paths), cfg.Workers, cfg.RenderSize, cfg.RenderSize, cfg.Supersample)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir:   cfg.OutputDir,
		Textures:    textures,
		Options:     cfg.RasterOptions(),
		Fog:         scene.Fog{Color: scene.Color(cfg.FogColor), Begin: cfg.FogBegin, End: cfg.FogEnd},
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		WriteDepth:  cfg.WriteDepth,
		Progress:    os.Stdout,
	}, paths)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(paths))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		for _, e := range errors[:min(len(errors), 20)] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
