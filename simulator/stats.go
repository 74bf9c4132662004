package simulator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/taxifleet/core/events"
	"github.com/kilianp07/taxifleet/internal/eventbus"
)

// Stats tallies fleet lifecycle events from the bus.
type Stats struct {
	mu            sync.Mutex
	requests      int
	assigned      int
	pickedUp      int
	completed     int
	cancelled     int
	blocked       int
	forcedResumes int
	cancelledWait time.Duration
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	Requests      int
	Assigned      int
	PickedUp      int
	Completed     int
	Cancelled     int
	Blocked       int
	ForcedResumes int
	// CancelledWait is the cumulative time abandoned passengers waited.
	CancelledWait time.Duration
}

// Run consumes bus events until the context is canceled or the bus closes.
func (s *Stats) Run(ctx context.Context, bus eventbus.EventBus) {
	sub := bus.Subscribe(256)
	defer sub.Cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			s.record(ev)
		}
	}
}

func (s *Stats) record(ev eventbus.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch e := ev.(type) {
	case events.RequestReceived:
		s.requests++
	case events.TripAssigned:
		s.assigned++
	case events.PassengerPickedUp:
		s.pickedUp++
	case events.TripCompleted:
		s.completed++
	case events.TripCancelled:
		s.cancelled++
		s.cancelledWait += e.Waited
	case events.TaxiBlocked:
		s.blocked++
		if e.Forced {
			s.forcedResumes++
		}
	}
}

// Snapshot returns a copy of the counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{
		Requests:      s.requests,
		Assigned:      s.assigned,
		PickedUp:      s.pickedUp,
		Completed:     s.completed,
		Cancelled:     s.cancelled,
		Blocked:       s.blocked,
		ForcedResumes: s.forcedResumes,
		CancelledWait: s.cancelledWait,
	}
}

// String formats the counters for the end-of-run summary.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf("requests=%d assigned=%d picked_up=%d completed=%d cancelled=%d blocked=%d forced_resumes=%d",
		s.Requests, s.Assigned, s.PickedUp, s.Completed, s.Cancelled, s.Blocked, s.ForcedResumes)
}
