package arview

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 3 float64 values simultaneously and hands them
// to an apply function after every step. Vector targets are written as one
// whole Vec3 so a frame never sees a half-applied transform. If the target
// node is disposed, the group stops immediately.
//
// There is no global animation manager. Callers (or the Scene, via
// Scene.AddTween) call Update themselves.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	values [3]float64
	apply  func(v [3]float64)
	target *Node
	Done   bool
}

// Update advances all tweens by dt seconds and applies the new values. If
// the target node has been disposed, Done is set to true and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.values[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(g.values)
}

func newVec3Tween(node *Node, from, to Vec3, duration float32, fn ease.TweenFunc, apply func(v [3]float64)) *TweenGroup {
	g := &TweenGroup{count: 3, target: node, apply: apply}
	g.tweens[0] = gween.New(float32(from.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(from.Y), float32(to.Y), duration, fn)
	g.tweens[2] = gween.New(float32(from.Z), float32(to.Z), duration, fn)
	return g
}

// TweenPosition creates a TweenGroup that animates the node's position to
// the given target over the specified duration using the easing function.
func TweenPosition(node *Node, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newVec3Tween(node, node.Position(), to, duration, fn, func(v [3]float64) {
		node.SetPosition(Vec3{v[0], v[1], v[2]})
	})
}

// TweenScale creates a TweenGroup that animates the node's scale to the
// given target over the specified duration using the easing function.
func TweenScale(node *Node, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newVec3Tween(node, node.Scale(), to, duration, fn, func(v [3]float64) {
		node.SetScale(Vec3{v[0], v[1], v[2]})
	})
}

// TweenAlpha creates a TweenGroup that animates node.Alpha to the target value
// over the specified duration using the easing function.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := tweenFloat(&node.Alpha, to, duration, fn)
	g.target = node
	g.apply = func(v [3]float64) { node.SetAlpha(v[0]) }
	return g
}

// tweenFloat animates a single field that is not owned by a node.
func tweenFloat(field *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(*field), float32(to), duration, fn)
	g.apply = func(v [3]float64) { *field = v[0] }
	return g
}
