// Package scene describes small 3D scenes in JSON and submits them to a
// raster.Context: model and camera transforms, perspective projection,
// lighting and back-to-front ordering.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"scanraster/internal/mathutil"
)

// ErrEmpty is returned for a scene without any faces.
var ErrEmpty = errors.New("scene: no faces")

// Shading selects the fill a face is drawn with.
type Shading string

const (
	Flat     Shading = "flat"
	Gouraud  Shading = "gouraud"
	Textured Shading = "textured"
)

// Color is a packed 0xRRGGBB colour. In JSON it is either a number or a
// "#rrggbb" string.
type Color uint32

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n uint32
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("scene: colour %s: want number or \"#rrggbb\"", data)
		}
		*c = Color(n & 0xffffff)
		return nil
	}
	hex := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return fmt.Errorf("scene: colour %q: want \"#rrggbb\"", s)
	}
	*c = Color(v)
	return nil
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(fmt.Sprintf("#%06x", uint32(c)))
}

// Scene is one frame's worth of geometry plus the settings it is lit and
// fogged with.
type Scene struct {
	Name       string `json:"name"`
	Background Color  `json:"background"`
	Camera     Camera `json:"camera"`
	Light      *Light `json:"light,omitempty"`
	Fog        *Fog   `json:"fog,omitempty"`
	Meshes     []Mesh `json:"meshes"`
}

// Camera places the eye. Camera space has x to the right, y down and z
// into the screen.
type Camera struct {
	Position mathutil.Vec3 `json:"position"`
	// Rotation is Euler XYZ in degrees.
	Rotation mathutil.Vec3 `json:"rotation"`
	// Near rejects triangles with any vertex closer than this.
	Near float64 `json:"near"`
}

// Fog overrides the renderer's fog distances for this scene.
type Fog struct {
	Color Color   `json:"color"`
	Begin float32 `json:"begin"`
	End   float32 `json:"end"`
}

// Mesh is an indexed triangle list with its own model transform.
type Mesh struct {
	Name     string          `json:"name"`
	Position mathutil.Vec3   `json:"position"`
	Rotation mathutil.Vec3   `json:"rotation"`
	Scale    float64         `json:"scale"`
	Vertices []mathutil.Vec3 `json:"vertices"`
	Faces    []Face          `json:"faces"`
	// CullBackFaces drops faces whose normal (right-handed winding of V)
	// points away from the camera.
	CullBackFaces bool `json:"cull_back_faces"`
	// Overlay meshes are drawn last without writing depth.
	Overlay bool `json:"overlay"`
	// Alpha is the blend register used for the mesh, 0–256.
	Alpha int `json:"alpha"`
}

// Face is one triangle of a mesh.
type Face struct {
	V       [3]int        `json:"v"`
	Shading Shading       `json:"shading"`
	Color   Color         `json:"color"`
	Texture int           `json:"texture"`
	UV      [3][2]float64 `json:"uv"`
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scene.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scene: parse: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate fills defaults and checks face indices and shading names.
func (s *Scene) Validate() error {
	if s.Camera.Near <= 0 {
		s.Camera.Near = 1
	}
	faces := 0
	for mi := range s.Meshes {
		m := &s.Meshes[mi]
		if m.Scale == 0 {
			m.Scale = 1
		}
		if m.Alpha < 0 || m.Alpha > 256 {
			return fmt.Errorf("scene: mesh %d (%s): alpha %d outside 0..256", mi, m.Name, m.Alpha)
		}
		for fi := range m.Faces {
			f := &m.Faces[fi]
			if f.Shading == "" {
				f.Shading = Flat
			}
			switch f.Shading {
			case Flat, Gouraud, Textured:
			default:
				return fmt.Errorf("scene: mesh %d face %d: unknown shading %q", mi, fi, f.Shading)
			}
			for _, v := range f.V {
				if v < 0 || v >= len(m.Vertices) {
					return fmt.Errorf("scene: mesh %d face %d: vertex %d out of range (%d vertices)", mi, fi, v, len(m.Vertices))
				}
			}
		}
		faces += len(m.Faces)
	}
	if faces == 0 {
		return ErrEmpty
	}
	return nil
}

// FaceCount returns the number of faces over all meshes.
func (s *Scene) FaceCount() int {
	n := 0
	for _, m := range s.Meshes {
		n += len(m.Faces)
	}
	return n
}
