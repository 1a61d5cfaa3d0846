package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"scanraster/internal/lighting"
	"scanraster/internal/raster"
	"scanraster/internal/texture"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir    string `json:"base_dir"`
	SceneDir   string `json:"scene_dir"`
	TextureDir string `json:"texture_dir"`
	OutputDir  string `json:"output_dir"`

	// Render settings
	RenderSize  int     `json:"render_size"`
	Supersample int     `json:"supersample"`
	Workers     int     `json:"workers"`
	FocalLength int     `json:"focal_length"`
	Gamma       float64 `json:"gamma"`

	SmoothShading *bool `json:"smooth_shading"`
	Mipmapping    *bool `json:"mipmapping"`
	HighDetail    *bool `json:"high_detail"`
	Fog           *bool `json:"fog"`

	// Default fog for scenes that do not set their own.
	FogColor uint32  `json:"fog_color"`
	FogBegin float32 `json:"fog_begin"`
	FogEnd   float32 `json:"fog_end"`

	// Texture pool
	PoolCapacity    int   `json:"pool_capacity"`
	PoolPreallocate int   `json:"pool_preallocate"`
	Unmipped        []int `json:"unmipped"`

	WriteDepth bool `json:"write_depth"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	DataDir     string
	OutputDir   string
	Workers     int
	Supersample int
	Gamma       float64
	NoFog       bool
}

// Resolve fills in any empty fields with auto-detected defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.DataDir != "" {
		c.BaseDir = flags.DataDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Gamma > 0 {
		c.Gamma = flags.Gamma
	}
	if flags.NoFog {
		c.Fog = boolPtr(false)
	}

	if c.BaseDir == "" {
		c.BaseDir = detectBaseDir()
	}

	// Resolve relative paths against base dir
	if c.BaseDir != "" {
		c.SceneDir = resolvePath(c.BaseDir, c.SceneDir, "scenes")
		c.TextureDir = resolvePath(c.BaseDir, c.TextureDir, "textures")
		c.OutputDir = resolvePath(c.BaseDir, c.OutputDir, "renders")
	}

	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.FocalLength <= 0 {
		c.FocalLength = raster.DefaultFocalLength
	}
	if c.Gamma <= 0 {
		c.Gamma = lighting.DefaultGamma
	}
	for _, b := range []**bool{&c.SmoothShading, &c.Mipmapping, &c.HighDetail, &c.Fog} {
		if *b == nil {
			*b = boolPtr(true)
		}
	}
	if c.FogBegin == 0 && c.FogEnd == 0 {
		c.FogBegin, c.FogEnd = 2600, 3200
		c.FogColor = 0xc8c0a8
	}

	tex := texture.DefaultConfig()
	if c.PoolCapacity <= 0 {
		c.PoolCapacity = tex.Capacity
	}
	if c.PoolPreallocate <= 0 {
		c.PoolPreallocate = tex.Preallocate
	}
	if c.Unmipped == nil {
		c.Unmipped = tex.Unmipped
	}
}

// RasterOptions converts the render settings into options for one
// rasterizer context. Projection scales with the supersample factor so the
// frame covers the same field of view.
func (c *Config) RasterOptions() raster.Options {
	opts := raster.DefaultOptions()
	opts.SmoothShading = *c.SmoothShading
	opts.Mipmapping = *c.Mipmapping
	opts.Fog = *c.Fog
	opts.FocalLength = c.FocalLength * c.Supersample
	opts.Gamma = c.Gamma
	opts.Textures = texture.Config{
		Capacity:    c.PoolCapacity,
		Preallocate: c.PoolPreallocate,
		HighDetail:  *c.HighDetail,
		Unmipped:    c.Unmipped,
		Gamma:       c.Gamma,
	}
	return opts
}

func boolPtr(b bool) *bool { return &b }

func resolvePath(base, p, def string) string {
	if p == "" {
		return filepath.Join(base, def)
	}
	if !filepath.IsAbs(p) {
		return filepath.Join(base, p)
	}
	return p
}

func detectBaseDir() string {
	// Try relative to executable
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir), filepath.Join(dir, "..", "..")} {
			if _, err := os.Stat(filepath.Join(base, "scenes")); err == nil {
				return base
			}
		}
	}

	// Fall back to the working directory
	cwd, _ := os.Getwd()
	return cwd
}
