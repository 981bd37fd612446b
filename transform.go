package arview

// identityScale is the scale of the implicit parent of the root node.
var identityScale = Vec3{1, 1, 1}

// updateWorldTransform recomputes a node's world position, scale and alpha.
// parentRecomputed indicates whether the parent was recomputed this frame,
// which forces recomputation of this node even if it's not dirty.
//
// Composition order: Scale -> Translate(position). Children inherit the
// parent's scale for both their offset and their own scale.
func updateWorldTransform(n *Node, parentPos, parentScale Vec3, parentAlpha float64, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.worldPosition = parentPos.Add(n.position.Mul(parentScale))
		n.worldScale = parentScale.Mul(n.scale)
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}

	for _, child := range n.children {
		updateWorldTransform(child, n.worldPosition, n.worldScale, n.worldAlpha, recompute)
	}
}

// --- Transform property accessors ---

// Position returns the node's local position.
func (n *Node) Position() Vec3 {
	return n.position
}

// SetPosition replaces the node's local position and marks it dirty.
func (n *Node) SetPosition(p Vec3) {
	n.position = p
	n.transformDirty = true
}

// Scale returns the node's local per-axis scale.
func (n *Node) Scale() Vec3 {
	return n.scale
}

// SetScale replaces the node's local scale and marks it dirty.
func (n *Node) SetScale(s Vec3) {
	n.scale = s
	n.transformDirty = true
}

// SetAlpha sets the node's alpha and marks it dirty.
func (n *Node) SetAlpha(a float64) {
	n.Alpha = a
	n.transformDirty = true
}

// MarkDirty marks the node's transform as dirty, forcing recomputation
// on the next frame. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// WorldPosition returns the position computed during the last transform update.
func (n *Node) WorldPosition() Vec3 {
	return n.worldPosition
}

// WorldScale returns the scale computed during the last transform update.
func (n *Node) WorldScale() Vec3 {
	return n.worldScale
}

// worldCorners returns the surface corners in world space in polygon order:
// top-left, top-right, bottom-right, bottom-left.
func (n *Node) worldCorners() [4]Vec3 {
	hw := n.Width * n.worldScale.X / 2
	hh := n.Height * n.worldScale.Y / 2
	p := n.worldPosition
	return [4]Vec3{
		{p.X - hw, p.Y + hh, p.Z},
		{p.X + hw, p.Y + hh, p.Z},
		{p.X + hw, p.Y - hh, p.Z},
		{p.X - hw, p.Y - hh, p.Z},
	}
}
