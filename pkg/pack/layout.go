package pack

import (
	"sort"

	"github.com/matzehuels/spriteflow/pkg/errors"
)

// Layout algorithm names.
const (
	AlgorithmTopDown     = "top-down"
	AlgorithmLeftRight   = "left-right"
	AlgorithmDiagonal    = "diagonal"
	AlgorithmAltDiagonal = "alt-diagonal"
	AlgorithmBinaryTree  = "binary-tree"
)

// DefaultAlgorithm is used when Options.Algorithm is empty.
const DefaultAlgorithm = AlgorithmBinaryTree

// Algorithms lists the supported layout algorithms.
var Algorithms = []string{
	AlgorithmTopDown,
	AlgorithmLeftRight,
	AlgorithmDiagonal,
	AlgorithmAltDiagonal,
	AlgorithmBinaryTree,
}

// Size is the pixel size of one input image.
type Size struct {
	Width  int
	Height int
}

// Placement is the position and size of one image inside the spritesheet.
type Placement struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Layout places sizes on a canvas using the named algorithm. Placements are
// returned in input order. Padding separates neighbouring images; the
// trailing padding on the right and bottom edges is not part of the canvas.
func Layout(algorithm string, sizes []Size, padding int) ([]Placement, int, int, error) {
	if padding < 0 {
		return nil, 0, 0, errors.New(errors.ErrCodeInvalidInput, "padding must not be negative: %d", padding)
	}
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}

	var placements []Placement
	switch algorithm {
	case AlgorithmTopDown:
		placements = layoutLinear(sizes, padding, false, true)
	case AlgorithmLeftRight:
		placements = layoutLinear(sizes, padding, true, false)
	case AlgorithmDiagonal:
		placements = layoutLinear(sizes, padding, true, true)
	case AlgorithmAltDiagonal:
		placements = layoutAltDiagonal(sizes, padding)
	case AlgorithmBinaryTree:
		placements = layoutBinaryTree(sizes, padding)
	default:
		return nil, 0, 0, errors.New(errors.ErrCodeUnsupported, "unknown layout algorithm %q", algorithm)
	}

	width, height := 0, 0
	for _, p := range placements {
		width = max(width, p.X+p.Width)
		height = max(height, p.Y+p.Height)
	}
	return placements, width, height, nil
}

// layoutLinear advances along x, y or both for each item.
func layoutLinear(sizes []Size, padding int, advanceX, advanceY bool) []Placement {
	out := make([]Placement, len(sizes))
	x, y := 0, 0
	for i, s := range sizes {
		out[i] = Placement{X: x, Y: y, Width: s.Width, Height: s.Height}
		if advanceX {
			x += s.Width + padding
		}
		if advanceY {
			y += s.Height + padding
		}
	}
	return out
}

// layoutAltDiagonal runs the diagonal from the top-right to the bottom-left.
func layoutAltDiagonal(sizes []Size, padding int) []Placement {
	out := layoutLinear(sizes, padding, false, true)
	x := 0
	for i := len(sizes) - 1; i >= 0; i-- {
		out[i].X = x
		x += sizes[i].Width + padding
	}
	return out
}

// node is a region of the growing binary-tree canvas.
type node struct {
	x, y, w, h  int
	used        bool
	right, down *node
}

// layoutBinaryTree packs items largest-first into a canvas that grows right or
// down, whichever keeps it closer to square.
func layoutBinaryTree(sizes []Size, padding int) []Placement {
	out := make([]Placement, len(sizes))
	if len(sizes) == 0 {
		return out
	}

	order := make([]int, len(sizes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := sizes[order[a]], sizes[order[b]]
		ma, mb := max(sa.Width, sa.Height), max(sb.Width, sb.Height)
		if ma != mb {
			return ma > mb
		}
		return sa.Height > sb.Height
	})

	first := sizes[order[0]]
	p := &binaryPacker{root: &node{w: first.Width + padding, h: first.Height + padding}}
	for _, idx := range order {
		s := sizes[idx]
		w, h := s.Width+padding, s.Height+padding
		var fit *node
		if n := p.root.find(w, h); n != nil {
			fit = n.split(w, h)
		} else {
			fit = p.grow(w, h)
		}
		out[idx] = Placement{X: fit.x, Y: fit.y, Width: s.Width, Height: s.Height}
	}
	return out
}

type binaryPacker struct {
	root *node
}

func (n *node) find(w, h int) *node {
	if n == nil {
		return nil
	}
	if n.used {
		if r := n.right.find(w, h); r != nil {
			return r
		}
		return n.down.find(w, h)
	}
	if w <= n.w && h <= n.h {
		return n
	}
	return nil
}

func (n *node) split(w, h int) *node {
	n.used = true
	n.down = &node{x: n.x, y: n.y + h, w: n.w, h: n.h - h}
	n.right = &node{x: n.x + w, y: n.y, w: n.w - w, h: h}
	return n
}

func (p *binaryPacker) grow(w, h int) *node {
	canGrowDown := w <= p.root.w
	canGrowRight := h <= p.root.h
	shouldGrowRight := canGrowRight && p.root.h >= p.root.w+w
	shouldGrowDown := canGrowDown && p.root.w >= p.root.h+h

	switch {
	case shouldGrowRight:
		return p.growRight(w, h)
	case shouldGrowDown:
		return p.growDown(w, h)
	case canGrowRight:
		return p.growRight(w, h)
	default:
		// Items arrive largest-first, so one direction always fits.
		return p.growDown(w, h)
	}
}

func (p *binaryPacker) growRight(w, h int) *node {
	old := p.root
	p.root = &node{
		used:  true,
		w:     old.w + w,
		h:     old.h,
		down:  old,
		right: &node{x: old.w, y: 0, w: w, h: old.h},
	}
	return p.root.find(w, h).split(w, h)
}

func (p *binaryPacker) growDown(w, h int) *node {
	old := p.root
	p.root = &node{
		used:  true,
		w:     old.w,
		h:     old.h + h,
		down:  &node{x: 0, y: old.h, w: old.w, h: h},
		right: old,
	}
	return p.root.find(w, h).split(w, h)
}
