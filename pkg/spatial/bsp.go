package spatial

import (
	"github.com/rogue3/dungeonforge/pkg/geom"
	"github.com/rogue3/dungeonforge/pkg/rng"
)

// BSPConfig controls recursive rectangle partitioning.
type BSPConfig struct {
	MinSize              int     // smallest leaf dimension before a split is refused
	MaxDepth             int     // recursion depth ceiling
	AspectRatioThreshold float64 // width/height ratio beyond which split direction is forced
	SplitRatio           float64 // center of the split-position distribution, in (0, 1)
	SplitVariance        float64 // half-width of the split-position jitter around SplitRatio
}

// BSPNode is one node of the binary space partition tree. Leaf nodes
// (Left == nil && Right == nil) are the candidate room sites.
type BSPNode struct {
	Rect  geom.Rect
	Left  *BSPNode
	Right *BSPNode
	Depth int
}

// IsLeaf reports whether n has no children.
func (n *BSPNode) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// BuildBSP recursively splits rect into a binary tree per cfg, drawing
// split direction and position decisions from stream.
func BuildBSP(rect geom.Rect, cfg BSPConfig, stream *rng.RNG) *BSPNode {
	root := &BSPNode{Rect: rect, Depth: 0}
	splitNode(root, cfg, stream)
	return root
}

func splitNode(n *BSPNode, cfg BSPConfig, stream *rng.RNG) {
	if n.Depth >= cfg.MaxDepth {
		return
	}
	if n.Rect.Width < 2*cfg.MinSize && n.Rect.Height < 2*cfg.MinSize {
		return
	}

	splitVertical := chooseSplitDirection(n.Rect, cfg, stream)

	if splitVertical {
		if n.Rect.Width < 2*cfg.MinSize {
			return
		}
		ratio := splitRatio(cfg, stream)
		pos := int(float64(n.Rect.Width) * ratio)
		pos = geom.Clamp(pos, cfg.MinSize, n.Rect.Width-cfg.MinSize)
		n.Left = &BSPNode{
			Rect:  geom.Rect{X: n.Rect.X, Y: n.Rect.Y, Width: pos, Height: n.Rect.Height},
			Depth: n.Depth + 1,
		}
		n.Right = &BSPNode{
			Rect:  geom.Rect{X: n.Rect.X + pos, Y: n.Rect.Y, Width: n.Rect.Width - pos, Height: n.Rect.Height},
			Depth: n.Depth + 1,
		}
	} else {
		if n.Rect.Height < 2*cfg.MinSize {
			return
		}
		ratio := splitRatio(cfg, stream)
		pos := int(float64(n.Rect.Height) * ratio)
		pos = geom.Clamp(pos, cfg.MinSize, n.Rect.Height-cfg.MinSize)
		n.Left = &BSPNode{
			Rect:  geom.Rect{X: n.Rect.X, Y: n.Rect.Y, Width: n.Rect.Width, Height: pos},
			Depth: n.Depth + 1,
		}
		n.Right = &BSPNode{
			Rect:  geom.Rect{X: n.Rect.X, Y: n.Rect.Y + pos, Width: n.Rect.Width, Height: n.Rect.Height - pos},
			Depth: n.Depth + 1,
		}
	}

	splitNode(n.Left, cfg, stream)
	splitNode(n.Right, cfg, stream)
}

// chooseSplitDirection reports true for a vertical split (left/right
// children) based on aspect ratio, falling back to a coin flip when the
// rectangle is within AspectRatioThreshold of square, and to the only
// splittable dimension when the other is too small.
func chooseSplitDirection(r geom.Rect, cfg BSPConfig, stream *rng.RNG) bool {
	canVertical := r.Width >= 2*cfg.MinSize
	canHorizontal := r.Height >= 2*cfg.MinSize

	aspect := float64(r.Width) / float64(r.Height)
	if aspect > cfg.AspectRatioThreshold && canVertical {
		return true
	}
	if aspect < 1/cfg.AspectRatioThreshold && canHorizontal {
		return false
	}
	switch {
	case canVertical && canHorizontal:
		return stream.Bool()
	case canVertical:
		return true
	default:
		return false
	}
}

func splitRatio(cfg BSPConfig, stream *rng.RNG) float64 {
	jitter := (stream.Float64() - 0.5) * 2 * cfg.SplitVariance
	return geom.ClampFloat(cfg.SplitRatio+jitter, 0.3, 0.7)
}

// Leaves returns every leaf node of the tree rooted at n, in left-to-right
// tree order.
func Leaves(n *BSPNode) []*BSPNode {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		return []*BSPNode{n}
	}
	leaves := Leaves(n.Left)
	leaves = append(leaves, Leaves(n.Right)...)
	return leaves
}

// RoomInLeaf chooses a room rectangle within leaf, inset by padding, with
// dimensions drawn uniformly from [minRoomSize, maxRoomSize] intersected
// with the available space, and a random offset within what remains.
func RoomInLeaf(leaf geom.Rect, padding, minRoomSize, maxRoomSize int, stream *rng.RNG) (geom.Rect, bool) {
	inset := leaf.Inset(padding)
	if inset.Width < minRoomSize || inset.Height < minRoomSize {
		return geom.Rect{}, false
	}

	maxW := min(maxRoomSize, inset.Width)
	maxH := min(maxRoomSize, inset.Height)
	width := minRoomSize
	if maxW > minRoomSize {
		width = stream.IntRange(minRoomSize, maxW)
	}
	height := minRoomSize
	if maxH > minRoomSize {
		height = stream.IntRange(minRoomSize, maxH)
	}

	slackX := inset.Width - width
	slackY := inset.Height - height
	offX, offY := 0, 0
	if slackX > 0 {
		offX = stream.Intn(slackX + 1)
	}
	if slackY > 0 {
		offY = stream.Intn(slackY + 1)
	}

	return geom.Rect{X: inset.X + offX, Y: inset.Y + offY, Width: width, Height: height}, true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
