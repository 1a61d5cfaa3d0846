package scene

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scanraster/internal/mathutil"
	"scanraster/internal/raster"
)

func quad(z float64, color Color, shading Shading) Mesh {
	return Mesh{
		Vertices: []mathutil.Vec3{{-5, -5, z}, {5, -5, z}, {5, 5, z}, {-5, 5, z}},
		Faces: []Face{
			{V: [3]int{0, 1, 2}, Shading: shading, Color: color},
			{V: [3]int{0, 2, 3}, Shading: shading, Color: color},
		},
	}
}

func flatLight() *Light {
	return &Light{Ambient: 1}
}

func newContext(t *testing.T) (*raster.Context, *raster.FrameBuffer) {
	t.Helper()
	c := raster.New(nil, raster.DefaultOptions())
	fb := raster.NewFrameBuffer(64, 64)
	if err := c.BindFrame(fb); err != nil {
		t.Fatal(err)
	}
	return c, fb
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{"empty", `{"meshes":[]}`, "no faces"},
		{"bad index", `{"meshes":[{"vertices":[[0,0,1],[1,0,1],[0,1,1]],"faces":[{"v":[0,1,3]}]}]}`, "out of range"},
		{"bad shading", `{"meshes":[{"vertices":[[0,0,1],[1,0,1],[0,1,1]],"faces":[{"v":[0,1,2],"shading":"phong"}]}]}`, "unknown shading"},
		{"bad alpha", `{"meshes":[{"alpha":300,"vertices":[[0,0,1],[1,0,1],[0,1,1]],"faces":[{"v":[0,1,2]}]}]}`, "alpha"},
		{"bad colour", `{"background":"#fff","meshes":[]}`, "rrggbb"},
		{"bad json", `{`, "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}

	_, err := Parse([]byte(`{"meshes":[{"vertices":[],"faces":[]}]}`))
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("Parse error = %v, want ErrEmpty", err)
	}
}

func TestParseDefaults(t *testing.T) {
	s, err := Parse([]byte(`{
		"background": "#102030",
		"meshes": [{"vertices": [[0,0,5],[1,0,5],[0,1,5]], "faces": [{"v": [0,1,2], "color": 65280}]}]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Background != 0x102030 {
		t.Errorf("Background = %#x, want 0x102030", uint32(s.Background))
	}
	if s.Camera.Near != 1 {
		t.Errorf("Near = %v, want 1", s.Camera.Near)
	}
	m := s.Meshes[0]
	if m.Scale != 1 || m.Faces[0].Shading != Flat || m.Faces[0].Color != 0x00ff00 {
		t.Errorf("defaults not applied: %+v", m)
	}
	if s.FaceCount() != 1 {
		t.Errorf("FaceCount = %d, want 1", s.FaceCount())
	}
}

func TestColorJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Color(0xabcdef))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"#abcdef"` {
		t.Errorf("Marshal = %s, want \"#abcdef\"", data)
	}
	var c Color
	if err := json.Unmarshal(data, &c); err != nil || c != 0xabcdef {
		t.Errorf("Unmarshal = %#x, %v", uint32(c), err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.json")
	data := `{"name":"tri","meshes":[{"vertices":[[0,0,5],[1,0,5],[0,1,5]],"faces":[{"v":[0,1,2]}]}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "tri" {
		t.Errorf("Name = %q", s.Name)
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}

func TestRenderFlatQuad(t *testing.T) {
	c, fb := newContext(t)
	s := &Scene{Background: 0x000010, Light: flatLight(), Meshes: []Mesh{quad(100, 0xff0000, Flat)}}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	st := Render(c, s, Fog{})

	if st.Faces != 2 || st.Submitted != 2 {
		t.Errorf("stats = %+v, want 2 faces submitted", st)
	}
	if got := fb.Pixels[32*64+32]; got != 0xff0000 {
		t.Errorf("centre = %#06x, want 0xff0000", got)
	}
	if got := fb.Pixels[0]; got != 0x000010 {
		t.Errorf("corner = %#06x, want background", got)
	}
	if d := fb.Depth[32*64+32]; math.Abs(float64(d)-100) > 1e-3 {
		t.Errorf("centre depth = %v, want 100", d)
	}
	if fb.Depth[0] != raster.FarDepth {
		t.Errorf("corner depth = %v, want FarDepth", fb.Depth[0])
	}
}

func TestRenderPaintsFarToNear(t *testing.T) {
	c, fb := newContext(t)
	s := &Scene{
		Light:  flatLight(),
		Meshes: []Mesh{quad(50, 0x00ff00, Flat), quad(100, 0xff0000, Flat)},
	}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	Render(c, s, Fog{})
	if got := fb.Pixels[32*64+32]; got != 0x00ff00 {
		t.Errorf("centre = %#06x, want the near quad's green", got)
	}
	if d := fb.Depth[32*64+32]; math.Abs(float64(d)-50) > 1e-3 {
		t.Errorf("centre depth = %v, want 50", d)
	}
}

func TestRenderOverlayKeepsDepth(t *testing.T) {
	c, fb := newContext(t)
	over := quad(10, 0x0000ff, Flat)
	over.Overlay = true
	s := &Scene{Light: flatLight(), Meshes: []Mesh{over, quad(100, 0xff0000, Flat)}}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	Render(c, s, Fog{})
	if got := fb.Pixels[32*64+32]; got != 0x0000ff {
		t.Errorf("centre = %#06x, want overlay blue", got)
	}
	if d := fb.Depth[32*64+32]; math.Abs(float64(d)-100) > 1e-3 {
		t.Errorf("centre depth = %v, want the scene depth 100", d)
	}
	if !c.SaveDepth || c.Alpha != 0 {
		t.Error("Render left per-draw state changed")
	}
}

func TestRenderCullingAndNearPlane(t *testing.T) {
	back := quad(100, 0xffffff, Flat)
	back.CullBackFaces = true

	front := quad(100, 0xffffff, Flat)
	front.CullBackFaces = true
	for i := range front.Faces {
		f := &front.Faces[i]
		f.V[1], f.V[2] = f.V[2], f.V[1]
	}

	behind := quad(0.5, 0xffffff, Flat)

	c, _ := newContext(t)
	s := &Scene{Meshes: []Mesh{back, front, behind}}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	st := Render(c, s, Fog{})
	if st.BackFaces != 2 || st.NearClipped != 2 || st.Submitted != 2 {
		t.Errorf("stats = %+v, want 2 back faces, 2 near clipped, 2 submitted", st)
	}
}

func TestRenderGouraudAndTexturedFaces(t *testing.T) {
	c, fb := newContext(t)
	tex := quad(100, 0, Textured)
	tex.Faces[0].UV = [3][2]float64{{0, 0}, {1, 0}, {1, 1}}
	// Collinear UVs cannot define a texture plane.
	tex.Faces[1].UV = [3][2]float64{{0, 0}, {0.5, 0.5}, {1, 1}}

	s := &Scene{Meshes: []Mesh{quad(100, 0xc08040, Gouraud), tex}}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	st := Render(c, s, Fog{})
	if st.Invalid != 1 || st.Submitted != 3 {
		t.Errorf("stats = %+v, want 1 invalid, 3 submitted", st)
	}
	got := fb.Pixels[32*64+32]
	if got == 0 || got>>16&0xff <= got&0xff {
		t.Errorf("centre = %#06x, want a lit orange", got)
	}
	// No texture provider: the textured face draws nothing.
	if s := c.Stats(); s.Skipped != 1 {
		t.Errorf("raster stats = %+v, want the textured face skipped", s)
	}
}

func TestRenderFog(t *testing.T) {
	c, fb := newContext(t)
	s := &Scene{
		Light:  flatLight(),
		Fog:    &Fog{Color: 0x0000ff, Begin: 10, End: 20},
		Meshes: []Mesh{quad(100, 0xff0000, Flat)},
	}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	Render(c, s, Fog{})
	if got := fb.Pixels[0]; got != 0x0000ff {
		t.Errorf("sky = %#06x, want fog colour", got)
	}
	centre := fb.Pixels[32*64+32]
	if centre == 0xff0000 || centre&0xff == 0 || centre>>16&0xff == 0 {
		t.Errorf("centre = %#06x, want red partially fogged to blue", centre)
	}
}

func TestLightShade(t *testing.T) {
	l := Light{Direction: mathutil.Vec3{0, 0, 1}, Ambient: 0.2, Direct: 0.5}
	tests := []struct {
		normal mathutil.Vec3
		want   float64
	}{
		{mathutil.Vec3{0, 0, -1}, 0.7},
		{mathutil.Vec3{0, 0, 1}, 0.7},
		{mathutil.Vec3{1, 0, 0}, 0.2},
	}
	for _, tt := range tests {
		if got := l.Shade(tt.normal); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Shade(%v) = %v, want %v", tt.normal, got, tt.want)
		}
	}
	bright := Light{Ambient: 2}
	if got := bright.Shade(mathutil.Vec3{0, 0, 1}); got != 1 {
		t.Errorf("Shade clamps to %v, want 1", got)
	}
}

func TestShadeHelpers(t *testing.T) {
	if got := shadeRGB(0x804020, 0.5); got != 0x402010 {
		t.Errorf("shadeRGB = %#06x, want 0x402010", got)
	}
	if got := shadeRGB(0xffffff, 1.5); got != 0xffffff {
		t.Errorf("shadeRGB saturates to %#06x", got)
	}
	if lightness(0) != 0 || lightness(1) != 127 || lightness(2) != 127 {
		t.Error("lightness out of 0..127")
	}
}
