package arview

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// Resizable lets the window be resized; the camera viewport follows.
	Resizable bool
	// ShowStats draws FPS, TPS, the session phase and the active gesture.
	ShowStats bool
}

// Run opens a window and drives scene until the window closes or
// RequestExit is called. It blocks.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 720
	}
	if cfg.Height <= 0 {
		cfg.Height = 1280
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if scene.bootstrap != nil {
		defer scene.bootstrap.Close()
	}
	g := &game{scene: scene}
	if cfg.ShowStats {
		g.stats = &statsWidget{}
	}
	return ebiten.RunGame(g)
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	stats *statsWidget
}

func (g *game) Update() error {
	if g.scene.exitRequested {
		return ebiten.Termination
	}
	g.scene.Update()
	if g.stats != nil {
		g.stats.update(g.scene, 1/float64(ebiten.TPS()))
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.stats != nil {
		g.stats.draw(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scene.camera.Viewport = Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	return outsideWidth, outsideHeight
}
