package nav

import (
	"time"

	corenav "github.com/kilianp07/taxifleet/core/nav"
	"github.com/kilianp07/taxifleet/core/model"
	"gonum.org/v1/gonum/spatial/r2"
)

// GridNavigator moves in a straight line across a Surface at constant speed.
// It implements corenav.Navigator; Advance is called by the world loop each
// tick to integrate motion.
type GridNavigator struct {
	surface    *Surface
	pos        model.Point
	dest       model.Point
	speed      float64
	stop       float64
	snapRadius float64
	active     bool
	paused     bool
}

var _ corenav.Navigator = (*GridNavigator)(nil)

// NewGridNavigator creates a navigator starting at the given position.
// The start point is snapped to the surface; snapRadius bounds both the
// start snap and every later destination snap.
func NewGridNavigator(surface *Surface, start model.Point, snapRadius float64) (*GridNavigator, error) {
	snapped, ok := surface.NearestNavigable(start, snapRadius)
	if !ok {
		return nil, corenav.ErrOffSurface
	}
	return &GridNavigator{
		surface:    surface,
		pos:        snapped,
		snapRadius: snapRadius,
	}, nil
}

// SetSpeed sets the travel speed in surface units per second.
func (n *GridNavigator) SetSpeed(speed float64) {
	n.speed = speed
}

// SetStoppingDistance sets the arrival tolerance radius.
func (n *GridNavigator) SetStoppingDistance(dist float64) {
	n.stop = dist
}

// SetDestination snaps the target to the nearest navigable point and starts
// travelling toward it. The previous destination is kept on error.
func (n *GridNavigator) SetDestination(target model.Point) error {
	snapped, ok := n.surface.NearestNavigable(target, n.snapRadius)
	if !ok {
		return corenav.ErrOffSurface
	}
	n.dest = snapped
	n.active = true
	n.paused = false
	return nil
}

// Pause suspends travel without discarding the destination.
func (n *GridNavigator) Pause() {
	n.paused = true
}

// Resume continues travel toward the current destination. The destination is
// re-snapped in case the surface changed while paused; an unreachable
// destination leaves the navigator stopped where it is.
func (n *GridNavigator) Resume() {
	if !n.active {
		return
	}
	snapped, ok := n.surface.NearestNavigable(n.dest, n.snapRadius)
	if !ok {
		n.active = false
		n.paused = false
		return
	}
	n.dest = snapped
	n.paused = false
}

// Pending reports whether the navigator is still travelling.
func (n *GridNavigator) Pending() bool {
	return n.active
}

// RemainingDistance returns the straight-line distance to the destination.
func (n *GridNavigator) RemainingDistance() float64 {
	return model.Dist(n.pos, n.dest)
}

// Position returns the current position.
func (n *GridNavigator) Position() model.Point {
	return n.pos
}

// Heading returns the unit vector toward the current destination, or the
// zero vector when idle.
func (n *GridNavigator) Heading() model.Point {
	if !n.active {
		return model.Point{}
	}
	return model.Heading(n.pos, n.dest)
}

// Advance integrates motion over dt. Paused and idle navigators do not move;
// the navigator stops once within stopping distance of the destination.
func (n *GridNavigator) Advance(dt time.Duration) {
	if !n.active || n.paused {
		return
	}
	remaining := model.Dist(n.pos, n.dest)
	if remaining <= n.stop {
		n.active = false
		return
	}
	step := n.speed * dt.Seconds()
	if step >= remaining {
		n.pos = n.dest
		n.active = false
		return
	}
	n.pos = r2.Add(n.pos, r2.Scale(step, model.Heading(n.pos, n.dest)))
}
