package batch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"scanraster/internal/raster"
)

const triScene = `{
	"name": "%s",
	"background": "#203040",
	"light": {"ambient": 1},
	"meshes": [{"vertices": [[-5,-5,100],[5,-5,100],[0,5,100]], "faces": [{"v": [0,1,2], "color": "#ff0000"}]}]
}`

func writeScenes(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFindScenes(t *testing.T) {
	dir := t.TempDir()
	writeScenes(t, dir, map[string]string{"b.json": "{}", "a.JSON": "{}", "notes.txt": ""})
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0755); err != nil {
		t.Fatal(err)
	}
	paths, err := FindScenes(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.JSON"), filepath.Join(dir, "b.json")}
	if len(paths) != len(want) || paths[0] != want[0] || paths[1] != want[1] {
		t.Errorf("FindScenes = %v, want %v", paths, want)
	}
	if _, err := FindScenes(filepath.Join(dir, "missing")); err == nil {
		t.Error("FindScenes on missing dir succeeded")
	}
}

func TestRunWritesImagesAndManifest(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeScenes(t, in, map[string]string{
		"one.json":    fmt.Sprintf(triScene, "first"),
		"two.json":    fmt.Sprintf(triScene, ""),
		"broken.json": `{"meshes": []}`,
	})
	paths, err := FindScenes(in)
	if err != nil {
		t.Fatal(err)
	}

	results := Run(Config{
		OutputDir:   out,
		Options:     raster.DefaultOptions(),
		RenderSize:  32,
		Supersample: 2,
		Workers:     2,
		WriteDepth:  true,
	}, paths)

	byPath := map[string]Result{}
	for _, r := range results {
		byPath[filepath.Base(r.Path)] = r
	}
	if r := byPath["broken.json"]; r.Success || r.Error == "" {
		t.Errorf("broken scene result = %+v, want an error", r)
	}
	if r := byPath["one.json"]; !r.Success || r.Name != "first" || r.Image != "one.webp" {
		t.Errorf("one.json result = %+v", r)
	}
	if r := byPath["two.json"]; !r.Success || r.Name != "two" || r.Raster.Drawn != 1 {
		t.Errorf("two.json result = %+v", r)
	}

	for _, name := range []string{"one.webp", "one.depth.webp", "two.webp", "two.depth.webp"} {
		data, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if !bytes.HasPrefix(data, []byte("RIFF")) || !bytes.Contains(data[:16], []byte("WEBP")) {
			t.Errorf("%s is not a WebP file", name)
		}
	}

	manifest := filepath.Join(out, "manifest.json")
	if err := WriteManifest(manifest, results); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("manifest has %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Faces != 1 || e.Submitted != 1 || e.Drawn != 1 || e.Depth == "" {
			t.Errorf("manifest entry = %+v", e)
		}
	}
}
