package arview

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Transformable is the transform sink a GestureInterpreter writes to.
// Setters replace the whole vector so a frame never observes a partially
// updated transform.
type Transformable interface {
	Position() Vec3
	SetPosition(p Vec3)
	Scale() Vec3
	SetScale(s Vec3)
}

// FrameSource supplies the current video frame for a surface node.
// Frame may return nil when no frame has been decoded yet.
type FrameSource interface {
	Frame() *ebiten.Image
}

// TapContext carries tap event data.
type TapContext struct {
	Node     *Node
	UserData any
	X, Y     float64
}

// nodeIDCounter is a plain counter (scenes are single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is an element of the AR scene. Nodes with an Image or FrameSource are
// drawn as flat rectangular surfaces of Width x Height world units, centered
// on their position and facing the camera.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Accessed through Position/Scale so that writes are
	// whole-vector replacements.
	position Vec3
	scale    Vec3

	// Surface size in world units before scaling.
	Width, Height float64

	// Computed by updateWorldTransform.
	worldPosition  Vec3
	worldScale     Vec3
	worldAlpha     float64
	transformDirty bool

	// Visibility & interaction
	Alpha        float64
	Color        Color
	Visible      bool
	Interactable bool

	// Content
	Image  *ebiten.Image
	Frames FrameSource

	// Metadata
	UserData any

	// Per-node callbacks (nil by default)
	OnTap    func(TapContext)
	OnUpdate func(dt float64)

	disposed bool
}

// NewNode creates a node with unit scale, full alpha and no content.
func NewNode(name string) *Node {
	return &Node{
		ID:             nextNodeID(),
		Name:           name,
		scale:          Vec3{1, 1, 1},
		Alpha:          1,
		Color:          ColorWhite,
		Visible:        true,
		transformDirty: true,
	}
}

// NewSurface creates an interactable node that displays img on a
// width x height rectangle.
func NewSurface(name string, img *ebiten.Image, width, height float64) *Node {
	n := NewNode(name)
	n.Image = img
	n.Width = width
	n.Height = height
	n.Interactable = true
	return n
}

// content returns the image to draw for this node, preferring the frame source.
func (n *Node) content() *ebiten.Image {
	if n.Frames != nil {
		if img := n.Frames.Frame(); img != nil {
			return img
		}
	}
	return n.Image
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("arview: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("arview: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("arview: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Image = nil
	n.Frames = nil
	n.UserData = nil
	n.OnTap = nil
	n.OnUpdate = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// updateNodes runs OnUpdate callbacks depth-first.
func updateNodes(n *Node, dt float64) {
	if n.OnUpdate != nil {
		n.OnUpdate(dt)
	}
	for _, child := range n.children {
		updateNodes(child, dt)
	}
}
