package viewport

import (
	"fmt"
	"image"
	"math"
)

// Rect is an axis-aligned rectangle in canvas space. Edges are float64 so
// repeated zooming does not accumulate integer rounding.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// R is shorthand for constructing a Rect.
func R(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Empty reports whether the rectangle has no positive area.
func (r Rect) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// ContainsStrict reports whether (x, y) lies strictly inside r. Points on an
// edge are outside.
func (r Rect) ContainsStrict(x, y float64) bool {
	return r.Left < x && x < r.Right && r.Top < y && y < r.Bottom
}

// Clamp returns (x, y) moved onto the closest point of r, edges included.
func (r Rect) Clamp(x, y float64) (float64, float64) {
	return math.Max(r.Left, math.Min(r.Right, x)), math.Max(r.Top, math.Min(r.Bottom, y))
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, o.Left),
		Top:    math.Min(r.Top, o.Top),
		Right:  math.Max(r.Right, o.Right),
		Bottom: math.Max(r.Bottom, o.Bottom),
	}
}

// Intersect returns the overlap of r and o. The result may be Empty.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		Left:   math.Max(r.Left, o.Left),
		Top:    math.Max(r.Top, o.Top),
		Right:  math.Min(r.Right, o.Right),
		Bottom: math.Min(r.Bottom, o.Bottom),
	}
}

// ScaleAbout scales r by factor with (px, py) as the fixed point.
func (r Rect) ScaleAbout(px, py, factor float64) Rect {
	return Rect{
		Left:   px + (r.Left-px)*factor,
		Top:    py + (r.Top-py)*factor,
		Right:  px + (r.Right-px)*factor,
		Bottom: py + (r.Bottom-py)*factor,
	}
}

// Image truncates r to integer pixel coordinates.
func (r Rect) Image() image.Rectangle {
	return image.Rect(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom))
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.2f,%.2f)-(%.2f,%.2f)", r.Left, r.Top, r.Right, r.Bottom)
}
