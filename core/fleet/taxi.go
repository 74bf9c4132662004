package fleet

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/taxifleet/core/events"
	"github.com/kilianp07/taxifleet/core/logger"
	"github.com/kilianp07/taxifleet/core/metrics"
	"github.com/kilianp07/taxifleet/core/model"
	"github.com/kilianp07/taxifleet/core/nav"
	"github.com/kilianp07/taxifleet/internal/eventbus"
)

// ErrTaxiBusy is returned by AssignTrip when the taxi already owns a trip.
var ErrTaxiBusy = errors.New("fleet: taxi is not available")

// TaxiAgent executes trips assigned by the dispatcher. It owns exactly one
// navigator and at most one active trip at a time. All methods are driven
// from the simulation tick and must not be called concurrently.
type TaxiAgent struct {
	id     string
	state  model.TaxiState
	trip   *model.TripRequest
	nav    nav.Navigator
	sensor nav.ObstacleSensor
	cfg    TaxiConfig
	log    logger.Logger
	bus    eventbus.EventBus

	dispatcher *FleetDispatcher

	// resume holds the pre-interrupt phase while braking. Interrupts do not
	// nest, so a depth-1 slot is enough.
	resume model.TaxiState
	// braked accumulates simulated time spent in the current braking phase.
	braked time.Duration
	// enRoute is true while the navigator holds an accepted destination.
	enRoute bool
}

// NewTaxiAgent creates a taxi on the given navigator. A nil sensor disables
// the braking overlay entirely.
func NewTaxiAgent(id string, navigator nav.Navigator, sensor nav.ObstacleSensor, cfg TaxiConfig, log logger.Logger, bus eventbus.EventBus) (*TaxiAgent, error) {
	if navigator == nil {
		return nil, fmt.Errorf("fleet: nil navigator for taxi %s", id)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("fleet: taxi %s config: %w", id, err)
	}
	if log == nil {
		log = nopLogger{}
	}
	navigator.SetSpeed(cfg.Speed)
	navigator.SetStoppingDistance(cfg.StoppingDistance)
	return &TaxiAgent{
		id:     id,
		state:  model.TaxiAvailable,
		nav:    navigator,
		sensor: sensor,
		cfg:    cfg,
		log:    log,
		bus:    bus,
	}, nil
}

// ID returns the taxi identity.
func (t *TaxiAgent) ID() string { return t.id }

// State returns the current state machine phase.
func (t *TaxiAgent) State() model.TaxiState { return t.state }

// Position returns the taxi position, which is owned by the navigator.
func (t *TaxiAgent) Position() model.Point { return t.nav.Position() }

// Trip returns the active trip, or nil when the taxi is free.
func (t *TaxiAgent) Trip() *model.TripRequest { return t.trip }

// AssignTrip binds the taxi to a trip and starts the pickup leg. It fails
// with ErrTaxiBusy when a trip is already active and with the navigator's
// error when the pickup point cannot be reached; in both cases the taxi
// state is unchanged.
func (t *TaxiAgent) AssignTrip(req model.TripRequest) error {
	if t.state != model.TaxiAvailable {
		return fmt.Errorf("%w: %s is %s", ErrTaxiBusy, t.id, t.state)
	}
	if err := t.nav.SetDestination(req.Pickup); err != nil {
		t.log.Warnf("taxi %s: pickup unreachable: %v", t.id, err)
		return fmt.Errorf("assign taxi %s: %w", t.id, err)
	}
	r := req
	t.trip = &r
	t.enRoute = true
	t.state = model.TaxiGoingToPickup
	t.log.Infof("taxi %s assigned to passenger %s", t.id, riderID(req))
	return nil
}

// Step advances the taxi by one simulation tick of length dt.
func (t *TaxiAgent) Step(dt time.Duration) {
	if t.blockedAhead() {
		t.brake(dt)
		return
	}
	if t.state == model.TaxiWaiting {
		t.nav.Resume()
		t.state = t.resume
		t.braked = 0
	}
	if t.enRoute && !t.nav.Pending() && t.nav.RemainingDistance() <= t.cfg.StoppingDistance {
		t.destinationReached()
	}
}

func (t *TaxiAgent) blockedAhead() bool {
	if t.sensor == nil || !t.state.Moving() && t.state != model.TaxiWaiting {
		return false
	}
	return t.sensor.BlockedAhead(t.cfg.BrakeDistance)
}

// brake pauses the navigator while another taxi sits ahead. When the block
// persists past MaxBrakeTime the navigator is resumed regardless, so its own
// path recomputation can route around the obstacle; two taxis facing each
// other would otherwise deadlock.
func (t *TaxiAgent) brake(dt time.Duration) {
	if t.state != model.TaxiWaiting {
		t.resume = t.state
		t.state = model.TaxiWaiting
		t.braked = 0
		t.nav.Pause()
		taxiBrakes.WithLabelValues("false").Inc()
		t.publish(events.TaxiBlocked{TaxiID: t.id, Time: time.Now()})
		return
	}
	t.braked += dt
	if t.braked < t.cfg.MaxBrakeTime() {
		return
	}
	t.nav.Resume()
	t.state = t.resume
	t.braked = 0
	taxiBrakes.WithLabelValues("true").Inc()
	t.publish(events.TaxiBlocked{TaxiID: t.id, Forced: true, Time: time.Now()})
	t.log.Debugf("taxi %s forced resume after %s blocked", t.id, t.cfg.MaxBrakeTime())
}

func (t *TaxiAgent) destinationReached() {
	t.enRoute = false
	switch t.state {
	case model.TaxiGoingToPickup:
		t.pickupReached()
	case model.TaxiPassengerAboard:
		t.dropoffReached()
	}
}

func (t *TaxiAgent) pickupReached() {
	if t.trip == nil || t.trip.Rider == nil {
		// Already handled elsewhere; nothing to pick up.
		return
	}
	rider := t.trip.Rider
	rider.NotifyPickup()
	t.state = model.TaxiPassengerAboard
	t.publish(events.PassengerPickedUp{TaxiID: t.id, PassengerID: rider.ID(), Time: time.Now()})
	if err := t.nav.SetDestination(t.trip.Dropoff); err != nil {
		t.log.Errorf("taxi %s: dropoff unreachable: %v", t.id, err)
		return
	}
	t.enRoute = true
}

func (t *TaxiAgent) dropoffReached() {
	trip := t.trip
	t.trip = nil
	t.state = model.TaxiAvailable
	if trip == nil || trip.Rider == nil {
		return
	}
	trip.Rider.NotifyDropoff(trip.Dropoff)
	t.log.Infof("taxi %s completed trip for passenger %s", t.id, trip.Rider.ID())
	if t.dispatcher != nil {
		t.dispatcher.ReportTripCompleted(metrics.TripEvent{
			TaxiID:      t.id,
			PassengerID: trip.Rider.ID(),
			Pickup:      trip.Pickup,
			Dropoff:     trip.Dropoff,
			Waited:      trip.Rider.Waited(),
			Time:        time.Now(),
		})
		t.dispatcher.OnTaxiAvailable(t)
	}
}

func (t *TaxiAgent) publish(e eventbus.Event) {
	if t.bus != nil {
		t.bus.Publish(e)
	}
}

// Snapshot returns a read-only view of the taxi for status queries.
func (t *TaxiAgent) Snapshot() TaxiSnapshot {
	s := TaxiSnapshot{
		ID:       t.id,
		State:    t.state.String(),
		Position: t.nav.Position(),
		Braked:   t.state == model.TaxiWaiting,
	}
	if t.trip != nil && t.trip.Rider != nil {
		s.PassengerID = t.trip.Rider.ID()
	}
	return s
}

// TaxiSnapshot is a point-in-time view of one taxi.
type TaxiSnapshot struct {
	ID          string      `json:"id"`
	State       string      `json:"state"`
	Position    model.Point `json:"position"`
	PassengerID string      `json:"passenger_id,omitempty"`
	Braked      bool        `json:"braked"`
}
