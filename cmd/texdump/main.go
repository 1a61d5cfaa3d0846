package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"

	"scanraster/internal/lighting"
	"scanraster/internal/postprocess"
	"scanraster/internal/texture"
)

// dumpTexture writes every mip level and shade variant of one decoded
// texture as <out>/<id>/L<level>_S<shade>.webp.
func dumpTexture(out string, d *texture.Decoded, shades bool) (int, error) {
	dir := filepath.Join(out, fmt.Sprint(d.ID()))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	nShades := 1
	if shades {
		nShades = texture.Shades
	}
	written := 0
	for level := 0; level < d.Levels(); level++ {
		for shade := 0; shade < nShades; shade++ {
			texels, size := d.Level(level, shade)
			path := filepath.Join(dir, fmt.Sprintf("L%d_S%d.webp", level, shade))
			if err := writeWebP(path, postprocess.TexelImage(texels, size)); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}

func writeWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func main() {
	dir := flag.String("dir", "textures", "Texture directory (<id>.tga|png|gif)")
	out := flag.String("out", "texdump", "Output directory")
	id := flag.Int("id", -1, "Dump only this texture id")
	gamma := flag.Float64("gamma", lighting.DefaultGamma, "Brightness gamma")
	low := flag.Bool("low", false, "Decode at 64×64 instead of 128×128")
	shades := flag.Bool("shades", false, "Also dump the three darker shade variants")
	flag.Parse()

	idx, err := texture.BuildIndex(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERR %v\n", err)
		os.Exit(1)
	}
	provider, err := texture.LoadDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERR %v\n", err)
		os.Exit(1)
	}

	cfg := texture.DefaultConfig()
	cfg.HighDetail = !*low
	cfg.Gamma = *gamma
	cache := texture.NewCache(provider, cfg)

	ids := idx.IDs()
	if *id >= 0 {
		ids = []int{*id}
	}

	errors := 0
	for _, tid := range ids {
		d := cache.Pixels(tid)
		if d == nil {
			fmt.Fprintf(os.Stderr, "ERR texture %d: cannot decode\n", tid)
			errors++
			continue
		}
		n, err := dumpTexture(*out, d, *shades)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR texture %d: %v\n", tid, err)
			errors++
			continue
		}
		fmt.Printf("OK  %d  %dx%d, %d levels, opaque=%v, average #%06x, %d images\n",
			tid, d.Size(), d.Size(), d.Levels(), d.Opaque(), cache.OverallColour(tid), n)
		// Only one texture is needed at a time.
		cache.Release(tid)
	}

	st := cache.Stats()
	fmt.Printf("\nCache: %d misses, %d failures, %d buffers allocated\n", st.Misses, st.Failures, st.Allocated)
	if errors > 0 {
		fmt.Printf("Done with %d error(s).\n", errors)
		os.Exit(1)
	}
	fmt.Println("Done.")
}
