// Package simulator drives a taxi fleet on a grid surface with randomly
// spawning passengers. It owns the tick loop; every agent advances by the
// same simulated step.
package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/kilianp07/taxifleet/config"
	"github.com/kilianp07/taxifleet/core/fleet"
	coremetrics "github.com/kilianp07/taxifleet/core/metrics"
	"github.com/kilianp07/taxifleet/core/model"
	"github.com/kilianp07/taxifleet/infra/logger"
	infranav "github.com/kilianp07/taxifleet/infra/nav"
	"github.com/kilianp07/taxifleet/internal/eventbus"
)

// stateSampleInterval is how often taxi states are pushed to the sink.
const stateSampleInterval = time.Second

// World holds the surface, the fleet and the live passengers.
type World struct {
	cfg        config.Config
	surface    *infranav.Surface
	dispatcher *fleet.FleetDispatcher
	taxis      []*fleet.TaxiAgent
	navs       []*infranav.GridNavigator
	passengers []*fleet.PassengerAgent
	spawner    *Spawner
	sink       coremetrics.FleetSink
	bus        eventbus.EventBus
	log        logger.Logger

	clock      time.Duration
	sinceState time.Duration
}

// NewWorld builds the surface, the taxis and the dispatcher from cfg.
// sink and bus may be nil.
func NewWorld(cfg config.Config, sink coremetrics.FleetSink, bus eventbus.EventBus, log logger.Logger) (*World, error) {
	surface, err := infranav.NewSurface(cfg.Simulation.SurfaceWidth, cfg.Simulation.SurfaceHeight, cfg.Simulation.CellSize)
	if err != nil {
		return nil, err
	}
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	w := &World{
		cfg:        cfg,
		surface:    surface,
		dispatcher: fleet.NewFleetDispatcher(cfg.Dispatcher, log, sink, bus),
		sink:       sink,
		bus:        bus,
		log:        log,
	}
	w.spawner = NewSpawner(rng, cfg.Simulation)

	for i := 0; i < cfg.Simulation.Taxis; i++ {
		id := fmt.Sprintf("taxi-%02d", i+1)
		nav, err := infranav.NewGridNavigator(surface, w.randomNavigable(rng), cfg.Simulation.SnapRadius)
		if err != nil {
			return nil, fmt.Errorf("taxi %s: %w", id, err)
		}
		sensor := infranav.NewRadarSensor(id, nav, w, 0)
		taxi, err := fleet.NewTaxiAgent(id, nav, sensor, cfg.Taxi, log, bus)
		if err != nil {
			return nil, fmt.Errorf("taxi %s: %w", id, err)
		}
		w.dispatcher.RegisterTaxi(taxi)
		w.taxis = append(w.taxis, taxi)
		w.navs = append(w.navs, nav)
	}
	return w, nil
}

// TaxiPositions implements the radar PositionSource over the live fleet.
func (w *World) TaxiPositions() map[string]model.Point {
	out := make(map[string]model.Point, len(w.taxis))
	for _, t := range w.taxis {
		out[t.ID()] = t.Position()
	}
	return out
}

// Step advances the whole world by dt of simulated time.
func (w *World) Step(dt time.Duration) {
	w.clock += dt

	if w.spawner.Due(dt, len(w.passengers)) {
		w.spawnPassenger()
	}

	w.dispatcher.Step(dt)
	for _, p := range w.passengers {
		p.Step(dt)
	}
	for _, t := range w.taxis {
		t.Step(dt)
	}
	for _, n := range w.navs {
		n.Advance(dt)
	}

	w.prunePassengers()
	w.sampleTaxiStates(dt)
}

// Run drives Step at the configured tick rate until the context is canceled
// or the configured duration elapses.
func (w *World) Run(ctx context.Context) error {
	tick := w.cfg.Simulation.Tick()
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	limit := w.cfg.Simulation.Duration()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Step(tick)
			if limit > 0 && w.clock >= limit {
				return nil
			}
		}
	}
}

// Snapshot returns the current fleet view.
func (w *World) Snapshot() fleet.FleetSnapshot {
	return w.dispatcher.Snapshot()
}

// Elapsed returns the simulated time advanced so far.
func (w *World) Elapsed() time.Duration {
	return w.clock
}

// Passengers returns the number of live passengers.
func (w *World) Passengers() int {
	return len(w.passengers)
}

func (w *World) spawnPassenger() {
	p := w.spawner.Spawn(w.surface, w.dispatcher, w.cfg.Passenger, w.log, w.bus)
	if p == nil {
		return
	}
	w.passengers = append(w.passengers, p)
	if w.log != nil {
		w.log.Debugf("passenger %s spawned", p.ID())
	}
}

func (w *World) prunePassengers() {
	live := w.passengers[:0]
	for _, p := range w.passengers {
		if p.State().Terminal() {
			continue
		}
		live = append(live, p)
	}
	w.passengers = live
}

func (w *World) sampleTaxiStates(dt time.Duration) {
	rec, ok := w.sink.(coremetrics.TaxiStateRecorder)
	if !ok {
		return
	}
	w.sinceState += dt
	if w.sinceState < stateSampleInterval {
		return
	}
	w.sinceState = 0
	now := time.Now()
	for _, t := range w.taxis {
		ev := coremetrics.TaxiStateEvent{
			TaxiID:   t.ID(),
			State:    t.State(),
			Position: t.Position(),
			Time:     now,
		}
		if err := rec.RecordTaxiState(ev); err != nil && w.log != nil {
			w.log.Warnf("record taxi state: %v", err)
		}
	}
}

func (w *World) randomNavigable(rng *rand.Rand) model.Point {
	return randomNavigable(rng, w.surface)
}
