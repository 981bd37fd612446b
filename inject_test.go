package arview

import "testing"

func TestInjectTapQueuesPressAndRelease(t *testing.T) {
	s := newTestScene()
	s.InjectTap(10, 20)
	if s.PendingInjections() != 2 {
		t.Fatalf("pending = %d, want 2", s.PendingInjections())
	}
	if f := s.injectQueue[0]; len(f) != 1 || f[0].X != 10 || f[0].Y != 20 {
		t.Errorf("press frame = %v", f)
	}
	if s.injectQueue[1] != nil {
		t.Errorf("release frame = %v", s.injectQueue[1])
	}
}

func TestInjectDragInterpolates(t *testing.T) {
	s := newTestScene()
	s.InjectDrag(0, 0, 100, 50, 5)
	if s.PendingInjections() != 6 {
		t.Fatalf("pending = %d, want 6", s.PendingInjections())
	}
	mid := s.injectQueue[2][0]
	assertNear(t, "mid x", mid.X, 50)
	assertNear(t, "mid y", mid.Y, 25)
	last := s.injectQueue[4][0]
	assertNear(t, "last x", last.X, 100)
	for i := 0; i < 5; i++ {
		if s.injectQueue[i][0].ID != injectTouchA {
			t.Errorf("frame %d uses touch %d", i, s.injectQueue[i][0].ID)
		}
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	s := newTestScene()
	s.InjectDrag(0, 0, 10, 10, 0)
	if s.PendingInjections() != 3 {
		t.Errorf("pending = %d, want 3", s.PendingInjections())
	}
}

func TestInjectPinchSpacing(t *testing.T) {
	s := newTestScene()
	s.InjectPinch(200, 100, 40, 120, 3)
	if s.PendingInjections() != 4 {
		t.Fatalf("pending = %d, want 4", s.PendingInjections())
	}
	for i, want := range []float64{40, 80, 120} {
		f := s.injectQueue[i]
		if len(f) != 2 {
			t.Fatalf("frame %d has %d touches", i, len(f))
		}
		assertNear(t, "spacing", distance(f[0], f[1]), want)
		assertNear(t, "center", (f[0].X+f[1].X)/2, 200)
		if f[0].Y != 100 || f[1].Y != 100 {
			t.Errorf("frame %d not horizontal: %v", i, f)
		}
	}
}

func TestInjectTouchesCopiesInput(t *testing.T) {
	s := newTestScene()
	pts := []TouchPoint{{ID: 1, X: 5, Y: 5}}
	s.InjectTouches(pts...)
	pts[0].X = 99
	if s.injectQueue[0][0].X != 5 {
		t.Error("queued frame aliases caller slice")
	}
}

func TestInjectedFramesConsumedOnePerUpdate(t *testing.T) {
	s := newTestScene()
	s.InjectDrag(0, 0, 10, 0, 4)
	step(s, 2)
	if s.PendingInjections() != 3 {
		t.Errorf("pending = %d, want 3", s.PendingInjections())
	}
	step(s, 3)
	if s.PendingInjections() != 0 {
		t.Errorf("pending = %d, want 0", s.PendingInjections())
	}
}
