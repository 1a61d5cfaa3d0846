package texture

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// extPriority ranks source formats when several files share an id.
// TGA wins because it is the only one carrying a full alpha channel.
var extPriority = map[string]int{
	".tga": 3,
	".png": 2,
	".gif": 1,
}

// Index maps numeric texture ids to filesystem paths. Files are named
// <id>.<ext>, e.g. 17.tga.
type Index struct {
	entries map[int]string
}

// BuildIndex scans dir and its immediate subdirectories for texture files.
func BuildIndex(dir string) (*Index, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("texture: index %s: %w", dir, err)
	}

	idx := &Index{entries: make(map[int]string)}
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && filepath.Dir(path) != dir {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank, ok := extPriority[ext]
		if !ok {
			return nil
		}
		id, err := strconv.Atoi(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if err != nil || id < 0 {
			return nil
		}

		existing, exists := idx.entries[id]
		if !exists || rank > extPriority[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[id] = path
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("texture: index %s: %w", dir, err)
	}
	return idx, nil
}

// Path returns the file indexed for id.
func (idx *Index) Path(id int) (string, bool) {
	p, ok := idx.entries[id]
	return p, ok
}

// IDs returns the indexed ids in ascending order.
func (idx *Index) IDs() []int {
	ids := make([]int, 0, len(idx.entries))
	for id := range idx.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
