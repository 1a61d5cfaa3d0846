package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry describes one successfully rendered scene.
type ManifestEntry struct {
	Name      string `json:"name"`
	Scene     string `json:"scene"`
	Image     string `json:"image"`
	Depth     string `json:"depth,omitempty"`
	Faces     int    `json:"faces"`
	Submitted int    `json:"submitted"`
	Drawn     int    `json:"drawn"`
	Skipped   int    `json:"skipped"`
	Culled    int    `json:"culled"`
}

// WriteManifest writes manifest.json listing the successful results.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Name:      r.Name,
			Scene:     r.Path,
			Image:     r.Image,
			Depth:     r.Depth,
			Faces:     r.Scene.Faces,
			Submitted: r.Scene.Submitted,
			Drawn:     r.Raster.Drawn,
			Skipped:   r.Raster.Skipped,
			Culled:    r.Raster.Culled,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
