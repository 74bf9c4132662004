package model

import "time"

// Rider is the passenger-side contract seen by the dispatcher and taxis.
// It is implemented by fleet.PassengerAgent.
type Rider interface {
	// ID returns the passenger identity.
	ID() string
	// Waiting reports whether the rider is still waiting to be matched.
	// The dispatcher drops queued requests whose rider gave up or was
	// already matched.
	Waiting() bool
	// Waited returns the time the rider has spent waiting so far.
	Waited() time.Duration
	// NotifyAssigned signals that a taxi was matched to the rider.
	NotifyAssigned(taxiID string)
	// NotifyPickup signals that the assigned taxi reached the pickup point.
	NotifyPickup()
	// NotifyDropoff signals trip completion at the dropoff point.
	NotifyDropoff(at Point)
}

// TripRequest binds a rider to a pickup and dropoff point. It is immutable
// once created; the dispatcher owns it while queued and hands it over to a
// taxi on assignment.
type TripRequest struct {
	Rider   Rider
	Pickup  Point
	Dropoff Point
}
