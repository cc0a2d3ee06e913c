package syntax

// TreeCursor walks a tree without materializing sibling lists.
type TreeCursor struct {
	stack []*Node
}

// NewTreeCursor starts a cursor at n. The cursor never moves above n.
func NewTreeCursor(n *Node) *TreeCursor {
	return &TreeCursor{stack: []*Node{n}}
}

// Node returns the current node.
func (c *TreeCursor) Node() *Node { return c.stack[len(c.stack)-1] }

// FieldName returns the field of the current node within its parent.
func (c *TreeCursor) FieldName() string {
	if len(c.stack) < 2 {
		return ""
	}
	return c.Node().FieldName()
}

// Depth returns how far the cursor is below its starting node.
func (c *TreeCursor) Depth() int { return len(c.stack) - 1 }

// GotoFirstChild moves to the first child.
func (c *TreeCursor) GotoFirstChild() bool {
	child := c.Node().Child(0)
	if child == nil {
		return false
	}
	c.stack = append(c.stack, child)
	return true
}

// GotoNextSibling moves to the next sibling.
func (c *TreeCursor) GotoNextSibling() bool {
	if len(c.stack) < 2 {
		return false
	}
	next := c.Node().NextSibling()
	if next == nil {
		return false
	}
	c.stack[len(c.stack)-1] = next
	return true
}

// GotoParent moves to the parent.
func (c *TreeCursor) GotoParent() bool {
	if len(c.stack) < 2 {
		return false
	}
	c.stack = c.stack[:len(c.stack)-1]
	return true
}

// Reset moves the cursor back to n.
func (c *TreeCursor) Reset(n *Node) {
	c.stack = append(c.stack[:0], n)
}
