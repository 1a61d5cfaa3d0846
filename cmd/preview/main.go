// Command preview renders one scene file in a window and lets the camera be
// moved interactively.
//
//	arrows  orbit yaw/pitch     W/S  move forward/back
//	F       toggle fog          +/-  brightness
//	F11     fullscreen          Esc  quit
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"scanraster/internal/lighting"
	"scanraster/internal/logging"
	"scanraster/internal/mathutil"
	"scanraster/internal/raster"
	"scanraster/internal/scene"
	"scanraster/internal/texture"
)

const (
	turnStep = 1.5
	moveStep = 4.0
)

type preview struct {
	width, height int
	ctx           *raster.Context
	fb            *raster.FrameBuffer
	scene         *scene.Scene
	sceneFog      *scene.Fog
	fog           bool
	gamma         float64
	fullscreen    bool

	window *ebiten.Image
	rgba   []byte
	last   scene.Stats
}

func (p *preview) Update() error {
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	cam := &p.scene.Camera
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		cam.Rotation[1] -= turnStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		cam.Rotation[1] += turnStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		cam.Rotation[0] += turnStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		cam.Rotation[0] -= turnStep
	}
	forward := mathutil.EulerQuat(cam.Rotation[0], cam.Rotation[1], cam.Rotation[2]).Rotate(mathutil.Vec3{0, 0, 1})
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		cam.Position = cam.Position.Add(forward.Scale(moveStep))
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		cam.Position = cam.Position.Add(forward.Scale(-moveStep))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		p.fog = !p.fog
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		p.setGamma(p.gamma - 0.1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		p.setGamma(p.gamma + 0.1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		p.fullscreen = !p.fullscreen
		ebiten.SetFullscreen(p.fullscreen)
	}

	p.scene.Fog = nil
	fog := scene.Fog{}
	if p.fog && p.sceneFog != nil {
		fog = *p.sceneFog
	}
	p.ctx.ResetStats()
	p.last = scene.Render(p.ctx, p.scene, fog)
	return nil
}

func (p *preview) setGamma(g float64) {
	g = max(0.2, min(g, 2))
	p.gamma = g
	p.ctx.SetBrightness(g)
}

func (p *preview) Draw(screen *ebiten.Image) {
	if p.window == nil {
		p.window = ebiten.NewImage(p.width, p.height)
	}
	for i, px := range p.fb.Pixels {
		o := i * 4
		p.rgba[o] = byte(px >> 16)
		p.rgba[o+1] = byte(px >> 8)
		p.rgba[o+2] = byte(px)
		p.rgba[o+3] = 0xff
	}
	p.window.WritePixels(p.rgba)
	screen.DrawImage(p.window, nil)

	st := p.ctx.Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%.0f fps  faces %d  drawn %d  skipped %d  culled %d  back %d  fog %v  gamma %.1f",
		ebiten.ActualFPS(), p.last.Faces, st.Drawn, st.Skipped, st.Culled, p.last.BackFaces, p.fog, p.gamma))
}

func (p *preview) Layout(_, _ int) (int, int) {
	return p.width, p.height
}

func main() {
	size := flag.Int("size", 512, "Window size in pixels")
	texDir := flag.String("textures", "", "Texture directory")
	verbose := flag.Bool("v", false, "Log rasterizer activity to stderr")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: preview [flags] scene.json")
		os.Exit(2)
	}

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	s, err := scene.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	provider := texture.MapProvider{}
	if *texDir != "" {
		provider, err = texture.LoadDir(*texDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: textures: %v\n", err)
		}
	}

	p := &preview{
		width:    *size,
		height:   *size,
		ctx:      raster.New(provider, raster.DefaultOptions()),
		fb:       raster.NewFrameBuffer(*size, *size),
		scene:    s,
		sceneFog: s.Fog,
		fog:      s.Fog != nil,
		gamma:    lighting.DefaultGamma,
		rgba:     make([]byte, *size**size*4),
	}
	if err := p.ctx.BindFrame(p.fb); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(p.width, p.height)
	title := s.Name
	if title == "" {
		title = flag.Arg(0)
	}
	ebiten.SetWindowTitle("preview: " + title)
	ebiten.SetWindowResizable(true)
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(p); err != nil {
		fmt.Fprintf(os.Stderr, "Ebiten error: %v\n", err)
		os.Exit(1)
	}
}
