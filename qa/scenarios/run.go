package scenarios

import (
	"testing"
	"time"

	"github.com/kilianp07/taxifleet/core/fleet"
	coremetrics "github.com/kilianp07/taxifleet/core/metrics"
	"github.com/kilianp07/taxifleet/infra/logger"
	infranav "github.com/kilianp07/taxifleet/infra/nav"
)

const tick = 100 * time.Millisecond

type countSink struct {
	completed int
	cancelled int
}

func (c *countSink) RecordTripCompleted(coremetrics.TripEvent) error {
	c.completed++
	return nil
}

func (c *countSink) RecordTripCancelled(coremetrics.TripEvent) error {
	c.cancelled++
	return nil
}

// RunScenario plays the scenario tick by tick and asserts the expected trip
// outcomes.
func RunScenario(t *testing.T, sc *Scenario) {
	surface, err := infranav.NewSurface(sc.SurfaceWidth, sc.SurfaceHeight, sc.CellSize)
	if err != nil {
		t.Fatalf("surface: %v", err)
	}
	for _, ob := range sc.Obstacles {
		surface.Block(ob.Min.ToModel(), ob.Max.ToModel())
	}

	sink := &countSink{}
	d := fleet.NewFleetDispatcher(
		fleet.DispatcherConfig{RetryIntervalSeconds: sc.RetryIntervalSecs},
		logger.NopLogger{}, sink, nil,
	)

	taxiCfg := fleet.TaxiConfig{Speed: sc.TaxiSpeed}
	snapRadius := sc.SurfaceWidth + sc.SurfaceHeight
	var navs []*infranav.GridNavigator
	var taxis []*fleet.TaxiAgent
	for _, def := range sc.Taxis {
		nav, err := infranav.NewGridNavigator(surface, def.Position.ToModel(), snapRadius)
		if err != nil {
			t.Fatalf("taxi %s: %v", def.ID, err)
		}
		taxi, err := fleet.NewTaxiAgent(def.ID, nav, nil, taxiCfg, logger.NopLogger{}, nil)
		if err != nil {
			t.Fatalf("taxi %s: %v", def.ID, err)
		}
		d.RegisterTaxi(taxi)
		navs = append(navs, nav)
		taxis = append(taxis, taxi)
	}

	passengerCfg := fleet.PassengerConfig{
		StartDelaySeconds:   sc.StartDelaySeconds,
		RetryBackoffSeconds: sc.RetryBackoffSecs,
		MaxWaitSeconds:      sc.MaxWaitSeconds,
	}
	type scripted struct {
		def   PassengerDef
		at    time.Duration
		agent *fleet.PassengerAgent
	}
	pending := make([]*scripted, 0, len(sc.Passengers))
	for _, def := range sc.Passengers {
		pending = append(pending, &scripted{
			def: def,
			at:  time.Duration(def.SpawnAfterSeconds * float64(time.Second)),
		})
	}

	duration := time.Duration(sc.DurationSeconds * float64(time.Second))
	for clock := time.Duration(0); clock < duration; clock += tick {
		for _, p := range pending {
			if p.agent == nil && clock >= p.at {
				p.agent = fleet.NewPassengerAgent(
					p.def.ID, p.def.Pickup.ToModel(), p.def.Dropoff.ToModel(),
					d, passengerCfg, logger.NopLogger{}, nil,
				)
			}
		}
		d.Step(tick)
		for _, p := range pending {
			if p.agent != nil {
				p.agent.Step(tick)
			}
		}
		for _, taxi := range taxis {
			taxi.Step(tick)
		}
		for _, nav := range navs {
			nav.Advance(tick)
		}
	}

	if sink.completed != sc.Expected.Completed {
		t.Errorf("scenario %s: expected %d completed trips, got %d", sc.Name, sc.Expected.Completed, sink.completed)
	}
	if sink.cancelled != sc.Expected.Cancelled {
		t.Errorf("scenario %s: expected %d cancelled trips, got %d", sc.Name, sc.Expected.Cancelled, sink.cancelled)
	}
}
