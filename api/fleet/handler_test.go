package fleet

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	corefleet "github.com/kilianp07/taxifleet/core/fleet"
	"github.com/kilianp07/taxifleet/core/model"
)

type staticProvider struct {
	snap corefleet.FleetSnapshot
}

func (s staticProvider) Snapshot() corefleet.FleetSnapshot { return s.snap }

func testSnapshot() corefleet.FleetSnapshot {
	return corefleet.FleetSnapshot{
		State:   "monitoring",
		Pending: 2,
		Taxis: []corefleet.TaxiSnapshot{
			{ID: "taxi-01", State: "available", Position: model.Point{X: 1, Y: 2}},
			{ID: "taxi-02", State: "passenger_aboard", PassengerID: "p1"},
		},
	}
}

func TestStatusHandler(t *testing.T) {
	h := NewStatusHandler(staticProvider{testSnapshot()})
	req := httptest.NewRequest("GET", "/api/fleet/status", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status %d", rec.Code)
	}
	var snap corefleet.FleetSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Pending != 2 || len(snap.Taxis) != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestStatusHandlerStateFilter(t *testing.T) {
	h := NewStatusHandler(staticProvider{testSnapshot()})
	req := httptest.NewRequest("GET", "/api/fleet/status?state=available", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var snap corefleet.FleetSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Taxis) != 1 || snap.Taxis[0].ID != "taxi-01" {
		t.Fatalf("filter not applied: %+v", snap.Taxis)
	}
}

func TestStatusHandlerRejectsPost(t *testing.T) {
	h := NewStatusHandler(staticProvider{testSnapshot()})
	req := httptest.NewRequest("POST", "/api/fleet/status", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 405 {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
