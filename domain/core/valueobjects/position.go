package valueobjects

import "math"

// Position is a value object for a card's location in canvas coordinates
type Position struct {
	x float64
	y float64
}

// NewPosition creates a position at the given canvas coordinates
func NewPosition(x, y float64) Position {
	return Position{x: x, y: y}
}

// X returns the horizontal coordinate
func (p Position) X() float64 {
	return p.x
}

// Y returns the vertical coordinate
func (p Position) Y() float64 {
	return p.y
}

// Translate returns a position offset by the given delta
func (p Position) Translate(dx, dy float64) Position {
	return Position{x: p.x + dx, y: p.y + dy}
}

// Equals checks if two positions are equal
func (p Position) Equals(other Position) bool {
	return p.x == other.x && p.y == other.y
}

// Size is a value object for a card's width and height
type Size struct {
	width  float64
	height float64
}

// NewSize creates a size with the given dimensions
func NewSize(width, height float64) Size {
	return Size{width: width, height: height}
}

// Width returns the horizontal extent
func (s Size) Width() float64 {
	return s.width
}

// Height returns the vertical extent
func (s Size) Height() float64 {
	return s.height
}

// IsZero checks if the size is unset
func (s Size) IsZero() bool {
	return s.width == 0 && s.height == 0
}

// ClampMin returns a size no smaller than the given minimum in either
// dimension. Resize gestures clamp, they never reject.
func (s Size) ClampMin(minWidth, minHeight float64) Size {
	return Size{
		width:  math.Max(s.width, minWidth),
		height: math.Max(s.height, minHeight),
	}
}

// Equals checks if two sizes are equal
func (s Size) Equals(other Size) bool {
	return s.width == other.width && s.height == other.height
}
