package nav

import (
	"fmt"
	"math"

	"github.com/kilianp07/taxifleet/core/model"
)

// Surface is a rectangular grid of navigable cells. Obstacles are marked by
// blocking cells; everything else is navigable.
type Surface struct {
	width   float64
	height  float64
	cell    float64
	blocked map[cellIndex]bool
}

type cellIndex struct {
	col int
	row int
}

// NewSurface creates a surface covering [0,width)x[0,height) with square
// cells of the given size.
func NewSurface(width, height, cell float64) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("surface dimensions must be positive: %gx%g", width, height)
	}
	if cell <= 0 || cell > width || cell > height {
		return nil, fmt.Errorf("cell size out of range: %g", cell)
	}
	return &Surface{
		width:   width,
		height:  height,
		cell:    cell,
		blocked: make(map[cellIndex]bool),
	}, nil
}

// Block marks every cell overlapping the rectangle [min,max] as non-navigable.
func (s *Surface) Block(min, max model.Point) {
	if min.X > max.X {
		min.X, max.X = max.X, min.X
	}
	if min.Y > max.Y {
		min.Y, max.Y = max.Y, min.Y
	}
	for col := int(math.Floor(min.X / s.cell)); col <= int(math.Floor(max.X/s.cell)); col++ {
		for row := int(math.Floor(min.Y / s.cell)); row <= int(math.Floor(max.Y/s.cell)); row++ {
			s.blocked[cellIndex{col, row}] = true
		}
	}
}

// Unblock clears the cells overlapping the rectangle.
func (s *Surface) Unblock(min, max model.Point) {
	if min.X > max.X {
		min.X, max.X = max.X, min.X
	}
	if min.Y > max.Y {
		min.Y, max.Y = max.Y, min.Y
	}
	for col := int(math.Floor(min.X / s.cell)); col <= int(math.Floor(max.X/s.cell)); col++ {
		for row := int(math.Floor(min.Y / s.cell)); row <= int(math.Floor(max.Y/s.cell)); row++ {
			delete(s.blocked, cellIndex{col, row})
		}
	}
}

// Navigable reports whether the point lies on the surface and outside any
// blocked cell.
func (s *Surface) Navigable(p model.Point) bool {
	if p.X < 0 || p.Y < 0 || p.X >= s.width || p.Y >= s.height {
		return false
	}
	return !s.blocked[s.indexOf(p)]
}

// NearestNavigable returns the closest navigable point to p within radius.
// Navigable inputs snap to themselves; blocked or off-surface inputs snap to
// the nearest navigable cell center.
func (s *Surface) NearestNavigable(p model.Point, radius float64) (model.Point, bool) {
	if s.Navigable(p) {
		return p, true
	}
	best := model.Point{}
	bestDist := math.Inf(1)
	minCol := int(math.Floor((p.X - radius) / s.cell))
	maxCol := int(math.Floor((p.X + radius) / s.cell))
	minRow := int(math.Floor((p.Y - radius) / s.cell))
	maxRow := int(math.Floor((p.Y + radius) / s.cell))
	for col := minCol; col <= maxCol; col++ {
		for row := minRow; row <= maxRow; row++ {
			center := model.Point{
				X: (float64(col) + 0.5) * s.cell,
				Y: (float64(row) + 0.5) * s.cell,
			}
			if !s.Navigable(center) {
				continue
			}
			if d := model.Dist(p, center); d <= radius && d < bestDist {
				best, bestDist = center, d
			}
		}
	}
	if math.IsInf(bestDist, 1) {
		return model.Point{}, false
	}
	return best, true
}

// Bounds returns the surface dimensions.
func (s *Surface) Bounds() (width, height float64) {
	return s.width, s.height
}

func (s *Surface) indexOf(p model.Point) cellIndex {
	return cellIndex{
		col: int(math.Floor(p.X / s.cell)),
		row: int(math.Floor(p.Y / s.cell)),
	}
}
