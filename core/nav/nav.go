// Package nav defines the capability interfaces a taxi needs from its
// navigation and perception layer. Implementations live under infra/nav;
// the fleet core never depends on a concrete navigator.
package nav

import (
	"errors"

	"github.com/kilianp07/taxifleet/core/model"
)

// ErrOffSurface is returned by SetDestination when no navigable point exists
// within the snapping radius of the requested target.
var ErrOffSurface = errors.New("nav: destination is not on the navigable surface")

// Navigator follows paths toward a destination. Each taxi owns exactly one
// navigator; no navigator is shared across taxis.
type Navigator interface {
	// SetSpeed sets the travel speed in surface units per second.
	SetSpeed(speed float64)
	// SetStoppingDistance sets the arrival tolerance radius.
	SetStoppingDistance(dist float64)
	// SetDestination snaps the target to the nearest navigable point within
	// the snapping radius and starts travelling toward it. ErrOffSurface is
	// returned when no such point exists; the navigator keeps its previous
	// destination in that case.
	SetDestination(target model.Point) error
	// Pause suspends travel without discarding the destination.
	Pause()
	// Resume continues travel toward the current destination, recomputing
	// the path if the surface changed underneath.
	Resume()
	// Pending reports whether the navigator is still travelling.
	Pending() bool
	// RemainingDistance returns the distance left to the destination.
	RemainingDistance() float64
	// Position returns the current position. The navigator owns it.
	Position() model.Point
}

// ObstacleSensor reports dynamic agents blocking the path ahead. The sensor
// must exclude the taxi that owns it.
type ObstacleSensor interface {
	// BlockedAhead reports whether another taxi sits within maxDistance in
	// front of the owner.
	BlockedAhead(maxDistance float64) bool
}
