package metrics

import (
	"time"

	"github.com/kilianp07/taxifleet/core/model"
)

// TripEvent describes a completed or abandoned trip for observability sinks.
type TripEvent struct {
	TaxiID      string
	PassengerID string
	Pickup      model.Point
	Dropoff     model.Point
	// Waited is how long the passenger waited before pickup or cancellation.
	Waited time.Duration
	Time   time.Time
}

// FleetSink records trip lifecycle outcomes.
type FleetSink interface {
	RecordTripCompleted(ev TripEvent) error
	RecordTripCancelled(ev TripEvent) error
}

// QueueDepthRecorder is implemented by sinks able to record the pending
// request queue depth.
type QueueDepthRecorder interface {
	RecordQueueDepth(depth int) error
}

// TaxiStateEvent is a snapshot of one taxi.
type TaxiStateEvent struct {
	TaxiID   string
	State    model.TaxiState
	Position model.Point
	Time     time.Time
}

// TaxiStateRecorder records taxi state snapshots.
type TaxiStateRecorder interface {
	RecordTaxiState(ev TaxiStateEvent) error
}

// NopSink implements FleetSink and the optional recorders with no-op methods.
type NopSink struct{}

func (NopSink) RecordTripCompleted(TripEvent) error  { return nil }
func (NopSink) RecordTripCancelled(TripEvent) error  { return nil }
func (NopSink) RecordQueueDepth(int) error           { return nil }
func (NopSink) RecordTaxiState(TaxiStateEvent) error { return nil }
