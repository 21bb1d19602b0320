// Package core provides the terminal drawing primitives shared by the
// renderer and the game view. It has no external dependencies so view code
// stays testable without a terminal.
package core

// Rect is an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Scale maps v from [fromLo, fromHi] onto [0, cells-1], rounding down.
// Values outside the source range land outside the target range.
func Scale(v, fromLo, fromHi float64, cells int) int {
	if fromHi <= fromLo || cells <= 0 {
		return 0
	}
	return int((v - fromLo) / (fromHi - fromLo) * float64(cells-1))
}
