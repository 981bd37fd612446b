package arview

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/tanema/gween/ease"
)

// debugGlyph is the cell size of ebitenutil's debug font.
const (
	debugGlyphW = 6
	debugGlyphH = 16
)

// Overlay is a full-screen panel drawn above the scene: a tinted backdrop,
// an optional centered image and a centered message.
type Overlay struct {
	Visible bool
	Alpha   float64
	Color   Color
	Message string
	Image   *ebiten.Image

	fade *TweenGroup
}

func newOverlay(c Color) *Overlay {
	return &Overlay{Alpha: 1, Color: c}
}

// show makes the overlay fully opaque, cancelling any fade.
func (o *Overlay) show() {
	if o.fade != nil {
		o.fade.Done = true
		o.fade = nil
	}
	o.Visible = true
	o.Alpha = 1
}

// fadeOut tweens Alpha to zero on s and hides the overlay when done.
func (o *Overlay) fadeOut(s *Scene, duration float32, fn ease.TweenFunc) {
	if !o.Visible {
		return
	}
	if o.fade != nil {
		o.fade.Done = true
	}
	g := tweenFloat(&o.Alpha, 0, duration, fn)
	apply := g.apply
	g.apply = func(v [3]float64) {
		apply(v)
		if o.Alpha <= 0 {
			o.Visible = false
			o.fade = nil
		}
	}
	o.fade = g
	s.AddTween(g)
}

// Fading reports whether a fade-out is in progress.
func (o *Overlay) Fading() bool {
	return o.fade != nil && !o.fade.Done
}

func (o *Overlay) draw(dst *ebiten.Image) {
	if !o.Visible || o.Alpha <= 0 {
		return
	}
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	a := o.Color.A * o.Alpha
	op.ColorScale.Scale(float32(o.Color.R*a), float32(o.Color.G*a), float32(o.Color.B*a), float32(a))
	dst.DrawImage(solidImage(), &op)

	textY := h / 2
	if o.Image != nil {
		ib := o.Image.Bounds()
		var iop ebiten.DrawImageOptions
		iop.GeoM.Translate((w-float64(ib.Dx()))/2, (h-float64(ib.Dy()))/2)
		iop.ColorScale.ScaleAlpha(float32(o.Alpha))
		dst.DrawImage(o.Image, &iop)
		textY = (h+float64(ib.Dy()))/2 + debugGlyphH
	}

	if o.Message == "" {
		return
	}
	lines := strings.Split(o.Message, "\n")
	if o.Image == nil {
		textY -= float64(len(lines)*debugGlyphH) / 2
	}
	for i, line := range lines {
		x := (w - float64(len(line)*debugGlyphW)) / 2
		ebitenutil.DebugPrintAt(dst, line, int(x), int(textY)+i*debugGlyphH)
	}
}
