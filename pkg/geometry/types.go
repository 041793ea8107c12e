// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"image"
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// FromImagePoint converts an integer image point.
func FromImagePoint(p image.Point) Point2D {
	return Point2D{X: float64(p.X), Y: float64(p.Y)}
}

// ImagePoint rounds the point to the nearest pixel.
func (p Point2D) ImagePoint() image.Point {
	return image.Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Norm returns the distance from the origin.
func (p Point2D) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return Point2D{X: p.X * factor, Y: p.Y * factor}
}

// Line is an infinite line through Origin along the unit vector Dir.
type Line struct {
	Origin Point2D
	Dir    Point2D
}

// Distance returns the perpendicular distance from p to the line.
func (l Line) Distance(p Point2D) float64 {
	n := l.Dir.Norm()
	if n == 0 {
		return p.Distance(l.Origin)
	}
	d := p.Sub(l.Origin)
	return math.Abs(l.Dir.X*d.Y-l.Dir.Y*d.X) / n
}

// Centroid computes the centroid (average position) of a set of points.
func Centroid(points []Point2D) Point2D {
	if len(points) == 0 {
		return Point2D{}
	}
	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	n := float64(len(points))
	return Point2D{X: sumX / n, Y: sumY / n}
}

// ToImagePoints rounds every point to a pixel position.
func ToImagePoints(points []Point2D) []image.Point {
	out := make([]image.Point, len(points))
	for i, p := range points {
		out[i] = p.ImagePoint()
	}
	return out
}
