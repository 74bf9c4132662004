package fleet

import (
	"testing"
	"time"

	"github.com/kilianp07/taxifleet/core/model"
)

func TestRegisterTaxiIdempotent(t *testing.T) {
	d := NewFleetDispatcher(DispatcherConfig{}, nil, nil, nil)
	taxi, _ := newTestTaxi(t, "t1", model.Point{}, nil)
	d.RegisterTaxi(taxi)
	d.RegisterTaxi(taxi)
	other, _ := newTestTaxi(t, "t1", model.Point{X: 4}, nil)
	d.RegisterTaxi(other) // same identity, still a no-op
	if got := len(d.Snapshot().Taxis); got != 1 {
		t.Fatalf("expected registry size 1 got %d", got)
	}
}

func TestSelectBestTaxiNearest(t *testing.T) {
	d := NewFleetDispatcher(DispatcherConfig{}, nil, nil, nil)
	for _, tc := range []struct {
		id string
		x  float64
	}{{"far", 5}, {"near", 2}, {"farthest", 8}} {
		taxi, _ := newTestTaxi(t, tc.id, model.Point{X: tc.x}, nil)
		d.RegisterTaxi(taxi)
	}
	best := d.SelectBestTaxi(model.Point{})
	if best == nil || best.ID() != "near" {
		t.Fatalf("expected nearest taxi, got %v", best)
	}
}

func TestSelectBestTaxiTieBreak(t *testing.T) {
	d := NewFleetDispatcher(DispatcherConfig{}, nil, nil, nil)
	first, _ := newTestTaxi(t, "first", model.Point{X: 3}, nil)
	second, _ := newTestTaxi(t, "second", model.Point{X: -3}, nil)
	d.RegisterTaxi(first)
	d.RegisterTaxi(second)
	if best := d.SelectBestTaxi(model.Point{}); best.ID() != "first" {
		t.Fatalf("tie not broken by registration order, got %s", best.ID())
	}
}

func TestSelectBestTaxiSkipsBusy(t *testing.T) {
	d := NewFleetDispatcher(DispatcherConfig{}, nil, nil, nil)
	busy, _ := newTestTaxi(t, "busy", model.Point{X: 1}, nil)
	idle, _ := newTestTaxi(t, "idle", model.Point{X: 9}, nil)
	d.RegisterTaxi(busy)
	d.RegisterTaxi(idle)
	req := model.TripRequest{Rider: &fakeRider{id: "p0", waiting: true}, Pickup: model.Point{X: 2}, Dropoff: model.Point{X: 3}}
	if err := busy.AssignTrip(req); err != nil {
		t.Fatalf("assignment: %v", err)
	}
	if best := d.SelectBestTaxi(model.Point{}); best.ID() != "idle" {
		t.Fatalf("busy taxi selected")
	}
	if err := idle.AssignTrip(req); err == nil {
		// consume the idle taxi too, nothing should remain
		if d.SelectBestTaxi(model.Point{}) != nil {
			t.Fatalf("expected no candidate")
		}
	}
}

func TestReceiveRequestDirectAssignment(t *testing.T) {
	d := NewFleetDispatcher(DispatcherConfig{}, nil, nil, nil)
	taxi, _ := newTestTaxi(t, "t1", model.Point{}, nil)
	d.RegisterTaxi(taxi)
	rider := &fakeRider{id: "p1", waiting: true}
	if !d.ReceiveRequest(rider, model.Point{X: 1}, model.Point{X: 2}) {
		t.Fatalf("expected acceptance")
	}
	if taxi.State() != model.TaxiGoingToPickup {
		t.Fatalf("taxi not dispatched: %s", taxi.State())
	}
	if d.PendingRequests() != 0 {
		t.Fatalf("request queued despite direct assignment")
	}
	if len(rider.assigned) != 1 || rider.assigned[0] != "t1" {
		t.Fatalf("rider not notified of assignment: %v", rider.assigned)
	}
}

func TestReceiveRequestQueuesAndDrains(t *testing.T) {
	d := NewFleetDispatcher(DispatcherConfig{}, nil, nil, nil)
	rider := &fakeRider{id: "p1", waiting: true}
	if d.ReceiveRequest(rider, model.Point{X: 1}, model.Point{X: 2}) {
		t.Fatalf("expected rejection with empty fleet")
	}
	if d.PendingRequests() != 1 {
		t.Fatalf("expected queue length 1 got %d", d.PendingRequests())
	}

	taxi, _ := newTestTaxi(t, "t1", model.Point{}, nil)
	d.RegisterTaxi(taxi)
	d.OnTaxiAvailable(taxi)
	if d.PendingRequests() != 0 {
		t.Fatalf("queue not drained, %d left", d.PendingRequests())
	}
	if taxi.State() != model.TaxiGoingToPickup {
		t.Fatalf("taxi not dispatched after drain: %s", taxi.State())
	}
}

func TestDrainPreservesArrivalOrder(t *testing.T) {
	d := NewFleetDispatcher(DispatcherConfig{}, nil, nil, nil)
	first := &fakeRider{id: "p1", waiting: true}
	second := &fakeRider{id: "p2", waiting: true}
	third := &fakeRider{id: "p3", waiting: true}
	for _, r := range []*fakeRider{first, second, third} {
		d.ReceiveRequest(r, model.Point{X: 1}, model.Point{X: 2})
	}

	// One taxi: only the oldest request can be matched, the rest must keep
	// their relative order.
	taxi, _ := newTestTaxi(t, "t1", model.Point{}, nil)
	d.RegisterTaxi(taxi)
	d.TryAssignPendingRequests()

	if len(first.assigned) != 1 {
		t.Fatalf("oldest request not matched first")
	}
	if d.PendingRequests() != 2 {
		t.Fatalf("expected 2 pending got %d", d.PendingRequests())
	}
	d.mu.Lock()
	gotOrder := []string{d.pending[0].Rider.ID(), d.pending[1].Rider.ID()}
	d.mu.Unlock()
	if gotOrder[0] != "p2" || gotOrder[1] != "p3" {
		t.Fatalf("queue reordered: %v", gotOrder)
	}
}

func TestDrainDropsDeadRequests(t *testing.T) {
	d := NewFleetDispatcher(DispatcherConfig{}, nil, nil, nil)
	gone := &fakeRider{id: "p1", waiting: true}
	live := &fakeRider{id: "p2", waiting: true}
	d.ReceiveRequest(gone, model.Point{X: 1}, model.Point{X: 2})
	d.ReceiveRequest(live, model.Point{X: 3}, model.Point{X: 4})

	gone.waiting = false // rider gave up while queued
	taxi, _ := newTestTaxi(t, "t1", model.Point{}, nil)
	d.RegisterTaxi(taxi)
	d.TryAssignPendingRequests()

	if len(gone.assigned) != 0 {
		t.Fatalf("dead request matched to a taxi")
	}
	if len(live.assigned) != 1 {
		t.Fatalf("live request skipped")
	}
	if d.PendingRequests() != 0 {
		t.Fatalf("expected empty queue got %d", d.PendingRequests())
	}
}

func TestDuplicateRequestNotQueuedTwice(t *testing.T) {
	d := NewFleetDispatcher(DispatcherConfig{}, nil, nil, nil)
	rider := &fakeRider{id: "p1", waiting: true}
	d.ReceiveRequest(rider, model.Point{X: 1}, model.Point{X: 2})
	d.ReceiveRequest(rider, model.Point{X: 1}, model.Point{X: 2})
	if d.PendingRequests() != 1 {
		t.Fatalf("duplicate queued: %d", d.PendingRequests())
	}
}

func TestStepRetriesOnInterval(t *testing.T) {
	d := NewFleetDispatcher(DispatcherConfig{RetryIntervalSeconds: 5}, nil, nil, nil)
	rider := &fakeRider{id: "p1", waiting: true}
	d.ReceiveRequest(rider, model.Point{X: 1}, model.Point{X: 2})

	// Taxi becomes available without any availability event firing.
	taxi, _ := newTestTaxi(t, "t1", model.Point{}, nil)
	d.RegisterTaxi(taxi)

	for i := 0; i < 4; i++ {
		d.Step(time.Second)
	}
	if len(rider.assigned) != 0 {
		t.Fatalf("retry fired before interval elapsed")
	}
	d.Step(time.Second)
	if len(rider.assigned) != 1 {
		t.Fatalf("retry did not fire on interval")
	}
	if d.PendingRequests() != 0 {
		t.Fatalf("queue not drained by retry loop")
	}
}

func TestNoDoubleAssignment(t *testing.T) {
	d := NewFleetDispatcher(DispatcherConfig{}, nil, nil, nil)
	taxi, _ := newTestTaxi(t, "t1", model.Point{}, nil)
	d.RegisterTaxi(taxi)
	a := &fakeRider{id: "p1", waiting: true}
	b := &fakeRider{id: "p2", waiting: true}
	first := d.ReceiveRequest(a, model.Point{X: 1}, model.Point{X: 2})
	second := d.ReceiveRequest(b, model.Point{X: 1}, model.Point{X: 2})
	if !first || second {
		t.Fatalf("expected exactly one acceptance, got %v %v", first, second)
	}
	if len(a.assigned)+len(b.assigned) != 1 {
		t.Fatalf("one taxi produced %d assignments", len(a.assigned)+len(b.assigned))
	}
}

func TestDispatcherStateObservability(t *testing.T) {
	d := NewFleetDispatcher(DispatcherConfig{}, nil, nil, nil)
	if d.State() != model.DispatcherMonitoring {
		t.Fatalf("expected monitoring got %s", d.State())
	}
	d.ReceiveRequest(&fakeRider{id: "p1", waiting: true}, model.Point{X: 1}, model.Point{X: 2})
	if d.State() != model.DispatcherMonitoring {
		t.Fatalf("state not restored after operation: %s", d.State())
	}
}
