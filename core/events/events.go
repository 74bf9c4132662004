// Package events defines the fleet lifecycle events published on the
// in-process event bus. Subscribers include the telemetry publisher and the
// simulation statistics aggregator.
package events

import (
	"time"

	"github.com/kilianp07/taxifleet/core/model"
)

// RequestReceived is published when the dispatcher accepts or queues a trip
// request.
type RequestReceived struct {
	PassengerID string
	Pickup      model.Point
	Dropoff     model.Point
	Queued      bool
	Time        time.Time
}

// TripAssigned is published when a request is matched to a taxi.
type TripAssigned struct {
	TaxiID      string
	PassengerID string
	Pickup      model.Point
	Dropoff     model.Point
	Time        time.Time
}

// PassengerPickedUp is published when a taxi reaches the pickup point.
type PassengerPickedUp struct {
	TaxiID      string
	PassengerID string
	Time        time.Time
}

// TripCompleted is published when a taxi drops its passenger off.
type TripCompleted struct {
	TaxiID      string
	PassengerID string
	Dropoff     model.Point
	Time        time.Time
}

// TripCancelled is published when a passenger gives up waiting.
type TripCancelled struct {
	PassengerID string
	Waited      time.Duration
	Time        time.Time
}

// TaxiBlocked is published when a taxi starts or force-ends a braking phase.
type TaxiBlocked struct {
	TaxiID string
	// Forced is true when the stuck-recovery rule resumed the navigator
	// before the path was clear.
	Forced bool
	Time   time.Time
}
