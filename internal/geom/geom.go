// Package geom implements the pure geometry used to place a tracked item
// inside a bounded container.
//
// Coordinates have the origin in the top left corner of the container with
// the axes extending right and down. Nothing in this package holds state.
package geom

import "math"

// Point is a two dimensional coordinate, either in viewport space (raw
// events) or in container-local space.
type Point struct {
	X, Y float64
}

// Scale holds element dimensions.
type Scale struct {
	Width, Height float64
}

// Offset is a container's viewport-relative origin.
type Offset struct {
	Left, Top float64
}

// Rect is a bounding measurement as reported by a host.
// The zero Rect describes an element that is not attached.
type Rect struct {
	Left, Top, Width, Height float64
}

// Offset returns the origin of r.
func (r Rect) Offset() Offset {
	return Offset{Left: r.Left, Top: r.Top}
}

// Scale returns the dimensions of r.
func (r Rect) Scale() Scale {
	return Scale{Width: r.Width, Height: r.Height}
}

// Add returns the point p+p2.
func (p Point) Add(p2 Point) Point {
	return Point{X: p.X + p2.X, Y: p.Y + p2.Y}
}

// Sub returns the vector p-p2.
func (p Point) Sub(p2 Point) Point {
	return Point{X: p.X - p2.X, Y: p.Y - p2.Y}
}

// Mul returns p scaled by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Local translates a viewport point into the space of a container at o.
func (p Point) Local(o Offset) Point {
	return Point{X: p.X - o.Left, Y: p.Y - o.Top}
}

// Sum returns X+Y. Gesture thresholds compare sums rather than distances.
func (p Point) Sum() float64 {
	return p.X + p.Y
}

// Limits are the bounds an item position is clamped to. A NaN bound is
// unset and never applied.
type Limits struct {
	MinX, MaxX, MinY, MaxY float64
}

// Unbounded returns Limits with every bound unset.
func Unbounded() Limits {
	nan := math.NaN()
	return Limits{MinX: nan, MaxX: nan, MinY: nan, MaxY: nan}
}

// Center returns the midpoint of l on each axis. Axes with an unset bound
// center on 0.
func (l Limits) Center() Point {
	return Point{
		X: orZero((l.MaxX + l.MinX) / 2),
		Y: orZero((l.MaxY + l.MinY) / 2),
	}
}

func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func isSet(v float64) bool {
	return !math.IsNaN(v)
}

// ConvertRange linearly maps v from [oldMin, oldMax] onto [newMin, newMax].
// An empty old range yields NaN.
func ConvertRange(oldMin, oldMax, newMin, newMax, v float64) float64 {
	percent := (v - oldMin) / (oldMax - oldMin)
	return percent*(newMax-newMin) + newMin
}

// Clamp limits v to [min, max].
func Clamp(min, max, v float64) float64 {
	return math.Min(math.Max(min, v), max)
}

// LimitPosition clamps p into l. Unset bounds are ignored; the min bound
// wins when an axis is inverted.
func LimitPosition(l Limits, p Point) Point {
	if isSet(l.MinX) && p.X < l.MinX {
		p.X = l.MinX
	} else if isSet(l.MaxX) && p.X > l.MaxX {
		p.X = l.MaxX
	}

	if isSet(l.MinY) && p.Y < l.MinY {
		p.Y = l.MinY
	} else if isSet(l.MaxY) && p.Y > l.MaxY {
		p.Y = l.MaxY
	}

	return p
}

// CreateAdjustedLimits resolves the effective item bounds.
//
// A negative max is a distance from the far edge of the element. With
// limitBySize set, the bounds are derived from the element and item sizes
// instead: internal keeps the item fully inside the element, otherwise the
// item may overhang the element but must keep covering it. An item with no
// measured size leaves the explicit limits in place for the overhang case.
func CreateAdjustedLimits(l Limits, elem, item Scale, limitBySize, internal bool) Limits {
	if l.MaxX < 0 {
		l.MaxX = elem.Width + l.MaxX
	}
	if l.MaxY < 0 {
		l.MaxY = elem.Height + l.MaxY
	}

	if !limitBySize {
		return l
	}

	if internal {
		l.MinX, l.MinY = 0, 0
		l.MaxX = elem.Width - item.Width
		l.MaxY = elem.Height - item.Height
		if item.Width > elem.Width {
			l.MaxX = 0
		}
		if item.Height > elem.Height {
			l.MaxY = 0
		}
		return l
	}

	if item.Width == 0 && item.Height == 0 {
		return l
	}

	l.MaxX, l.MaxY = 0, 0
	l.MinX = elem.Width - item.Width
	l.MinY = elem.Height - item.Height
	if item.Width <= elem.Width {
		l.MinX = 0
	}
	if item.Height <= elem.Height {
		l.MinY = 0
	}
	return l
}

// CalculateItemPosition moves item by the active position delta scaled by
// multiplier.
func CalculateItemPosition(item, prevActive, active Point, multiplier float64) Point {
	return item.Add(active.Sub(prevActive).Mul(multiplier))
}

// AlignItemOnPosition rescales pos from the element's range [0, elem] onto
// the item's placement range [0, elem-item] on each axis.
func AlignItemOnPosition(elem, item Scale, pos Point) Point {
	return Point{
		X: ConvertRange(0, elem.Width, 0, elem.Width-item.Width, pos.X),
		Y: ConvertRange(0, elem.Height, 0, elem.Height-item.Height, pos.Y),
	}
}

// CenterItemOnPosition aligns the item on pos and then shifts it by the
// distance from pos to the element's center. At the element's center the
// shift vanishes.
func CenterItemOnPosition(elem, item Scale, pos Point) Point {
	p := AlignItemOnPosition(elem, item, pos)
	p.X += elem.Width/2 - pos.X
	p.Y += elem.Height/2 - pos.Y
	return p
}
