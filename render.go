package arview

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Two triangles: TL-TR-BR, TL-BR-BL
var quadIndices = []uint16{0, 1, 2, 0, 2, 3}

// Draw renders the scene surfaces and the overlays to screen, then captures
// any queued screenshots.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.camera.Viewport.Width == 0 || s.camera.Viewport.Height == 0 {
		b := screen.Bounds()
		s.camera.Viewport = Rect{X: float64(b.Min.X), Y: float64(b.Min.Y), Width: float64(b.Dx()), Height: float64(b.Dy())}
	}
	screen.Fill(s.ClearColor.toRGBA())

	// Gestures applied during Update must show up this frame.
	updateWorldTransform(s.root, Vec3{}, identityScale, 1, false)
	if s.sceneVisible() {
		s.drawNode(screen, s.root)
	}

	s.Instructions.draw(screen)
	s.Loading.draw(screen)
	s.Failure.draw(screen)

	s.flushScreenshots(screen)
}

// sceneVisible reports whether surfaces should be drawn. The scene loads
// behind the loading overlay, so it is drawn from AwaitingScene onward.
func (s *Scene) sceneVisible() bool {
	if s.bootstrap == nil {
		return true
	}
	switch s.bootstrap.Phase() {
	case PhaseAwaitingScene, PhaseReady:
		return true
	default:
		return false
	}
}

// drawNode draws n's surface and then its children, depth-first.
func (s *Scene) drawNode(dst *ebiten.Image, n *Node) {
	if !n.Visible {
		return
	}
	if img := n.content(); img != nil && n.Width > 0 && n.Height > 0 && n.worldAlpha > 0 {
		if quad, ok := s.camera.projectSurface(n); ok {
			drawQuad(dst, img, quad, n.Color, n.worldAlpha)
		}
	}
	for _, child := range n.children {
		s.drawNode(dst, child)
	}
}

// drawQuad maps img onto the projected quad (TL, TR, BR, BL).
func drawQuad(dst, img *ebiten.Image, quad [4]Vec2, c Color, alpha float64) {
	vs := quadVertices(img, quad, c, alpha)
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	dst.DrawTriangles(vs[:], quadIndices, img, &op)
}

// quadVertices builds the four vertices of a textured quad with
// premultiplied vertex color.
func quadVertices(img *ebiten.Image, quad [4]Vec2, c Color, alpha float64) [4]ebiten.Vertex {
	b := img.Bounds()
	x0, y0 := float32(b.Min.X), float32(b.Min.Y)
	x1, y1 := float32(b.Max.X), float32(b.Max.Y)
	src := [4][2]float32{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}

	ca := float32(c.A * alpha)
	cr := float32(c.R) * ca
	cg := float32(c.G) * ca
	cb := float32(c.B) * ca

	var vs [4]ebiten.Vertex
	for i := range vs {
		vs[i] = ebiten.Vertex{
			DstX:   float32(quad[i].X),
			DstY:   float32(quad[i].Y),
			SrcX:   src[i][0],
			SrcY:   src[i][1],
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		}
	}
	return vs
}
