package fleet

import (
	"sync"
	"time"

	"github.com/kilianp07/taxifleet/core/metrics"
	"github.com/kilianp07/taxifleet/core/model"
	"github.com/kilianp07/taxifleet/core/nav"
)

// fakeNav is a navigator that teleports on demand.
type fakeNav struct {
	pos     model.Point
	dest    model.Point
	speed   float64
	stop    float64
	pending bool
	paused  bool
	resumes int
	pauses  int
	reject  bool
}

func (n *fakeNav) SetSpeed(s float64)            { n.speed = s }
func (n *fakeNav) SetStoppingDistance(d float64) { n.stop = d }

func (n *fakeNav) SetDestination(p model.Point) error {
	if n.reject {
		return nav.ErrOffSurface
	}
	n.dest = p
	n.pending = true
	return nil
}

func (n *fakeNav) Pause()  { n.paused = true; n.pauses++ }
func (n *fakeNav) Resume() { n.paused = false; n.resumes++ }

func (n *fakeNav) Pending() bool { return n.pending }

func (n *fakeNav) RemainingDistance() float64 { return model.Dist(n.pos, n.dest) }
func (n *fakeNav) Position() model.Point      { return n.pos }

// arrive teleports the navigator onto its destination.
func (n *fakeNav) arrive() {
	n.pos = n.dest
	n.pending = false
}

type fakeSensor struct {
	blocked bool
}

func (s *fakeSensor) BlockedAhead(float64) bool { return s.blocked }

// fakeRider implements model.Rider with recording hooks.
type fakeRider struct {
	id       string
	waiting  bool
	waited   time.Duration
	assigned []string
	pickedUp int
	dropped  int
	droppedAt model.Point
}

func (r *fakeRider) ID() string            { return r.id }
func (r *fakeRider) Waiting() bool         { return r.waiting }
func (r *fakeRider) Waited() time.Duration { return r.waited }

func (r *fakeRider) NotifyAssigned(taxiID string) {
	r.assigned = append(r.assigned, taxiID)
	r.waiting = false
}

func (r *fakeRider) NotifyPickup() { r.pickedUp++ }

func (r *fakeRider) NotifyDropoff(at model.Point) {
	r.dropped++
	r.droppedAt = at
}

// countingSink records trip outcomes.
type countingSink struct {
	mu        sync.Mutex
	completed []metrics.TripEvent
	cancelled []metrics.TripEvent
	depths    []int
}

func (s *countingSink) RecordTripCompleted(ev metrics.TripEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = append(s.completed, ev)
	return nil
}

func (s *countingSink) RecordTripCancelled(ev metrics.TripEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = append(s.cancelled, ev)
	return nil
}

func (s *countingSink) RecordQueueDepth(depth int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depths = append(s.depths, depth)
	return nil
}

func newTestTaxi(t testingT, id string, pos model.Point, sensor nav.ObstacleSensor) (*TaxiAgent, *fakeNav) {
	t.Helper()
	fn := &fakeNav{pos: pos}
	taxi, err := NewTaxiAgent(id, fn, sensor, TaxiConfig{}, nil, nil)
	if err != nil {
		t.Fatalf("new taxi %s: %v", id, err)
	}
	return taxi, fn
}

// testingT is the subset of *testing.T the helpers need.
type testingT interface {
	Fatalf(format string, args ...any)
	Helper()
}
