package model

import "gonum.org/v1/gonum/spatial/r2"

// Point is a position on the simulation plane.
type Point = r2.Vec

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// Heading returns the unit vector pointing from a to b. A zero vector is
// returned when the points coincide.
func Heading(a, b Point) Point {
	d := r2.Sub(b, a)
	if r2.Norm(d) == 0 {
		return Point{}
	}
	return r2.Unit(d)
}
