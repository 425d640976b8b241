package interfaces

import "fmt"

// Point is a screen position in physical pixels.
type Point struct {
	X, Y int32
}

// Rect is a window rectangle; Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// Contains reports whether pt lies inside r.
func (r Rect) Contains(pt Point) bool {
	return pt.X >= r.Left && pt.X < r.Right && pt.Y >= r.Top && pt.Y < r.Bottom
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}
