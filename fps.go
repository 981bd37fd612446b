package arview

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// statsRefresh is how often the stats line is rebuilt, in seconds.
const statsRefresh = 0.5

// statsWidget draws FPS, TPS, the session phase and the active gesture in
// the top-left corner. The text is refreshed every statsRefresh seconds.
type statsWidget struct {
	text    string
	elapsed float64
}

func (w *statsWidget) update(s *Scene, dt float64) {
	w.elapsed += dt
	if w.text != "" && w.elapsed < statsRefresh {
		return
	}
	w.elapsed = 0
	w.text = statsText(s, ebiten.ActualFPS(), ebiten.ActualTPS())
}

func (w *statsWidget) draw(dst *ebiten.Image) {
	if w.text != "" {
		ebitenutil.DebugPrint(dst, w.text)
	}
}

// statsText formats the stats block.
func statsText(s *Scene, fps, tps float64) string {
	phase := "-"
	if s.bootstrap != nil {
		st := s.bootstrap.State()
		phase = st.Phase.String()
		if st.RetryCount > 0 {
			phase += fmt.Sprintf(" (retry %d)", st.RetryCount)
		}
	}
	mode := GestureIdle
	if s.touch.captured != nil {
		mode = s.touch.captured.interp.Mode()
	}
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nPhase: %s\nGesture: %s", fps, tps, phase, mode)
}
