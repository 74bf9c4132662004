package fleet

import (
	"errors"
	"time"

	"github.com/kilianp07/taxifleet/core/events"
	"github.com/kilianp07/taxifleet/core/logger"
	"github.com/kilianp07/taxifleet/core/metrics"
	"github.com/kilianp07/taxifleet/core/model"
	"github.com/kilianp07/taxifleet/internal/eventbus"
)

// ErrNoTripPlan is reported when a passenger tries to request a trip without
// pickup and dropoff points set.
var ErrNoTripPlan = errors.New("fleet: passenger has no trip plan")

// PassengerAgent requests trips from the dispatcher and reacts to taxi
// notifications. Like taxis it is driven from the simulation tick.
type PassengerAgent struct {
	id         string
	state      model.PassengerState
	pickup     model.Point
	dropoff    model.Point
	hasPlan    bool
	position   model.Point
	dispatcher *FleetDispatcher
	cfg        PassengerConfig
	log        logger.Logger
	bus        eventbus.EventBus

	// startDelay counts down before the first request fires.
	startDelay time.Duration
	started    bool
	// backoff counts down to the next retry after a rejected request.
	backoff time.Duration
	// waited accumulates unmatched waiting time and drives cancellation.
	waited time.Duration
	// assignedTaxi is non-empty once a taxi was matched. A passenger with an
	// assigned taxi never cancels.
	assignedTaxi string
}

// NewPassengerAgent creates a passenger that will request a trip from pickup
// to dropoff after the configured startup delay.
func NewPassengerAgent(id string, pickup, dropoff model.Point, d *FleetDispatcher, cfg PassengerConfig, log logger.Logger, bus eventbus.EventBus) *PassengerAgent {
	cfg.SetDefaults()
	if log == nil {
		log = nopLogger{}
	}
	return &PassengerAgent{
		id:         id,
		state:      model.PassengerInactive,
		pickup:     pickup,
		dropoff:    dropoff,
		hasPlan:    pickup != dropoff,
		position:   pickup,
		dispatcher: d,
		cfg:        cfg,
		log:        log,
		bus:        bus,
		startDelay: cfg.StartDelay(),
	}
}

// ID returns the passenger identity.
func (p *PassengerAgent) ID() string { return p.id }

// State returns the current protocol state.
func (p *PassengerAgent) State() model.PassengerState { return p.state }

// Position returns where the passenger currently stands.
func (p *PassengerAgent) Position() model.Point { return p.position }

// Waiting reports whether the passenger is still waiting to be matched.
func (p *PassengerAgent) Waiting() bool {
	return p.state == model.PassengerWaiting && p.assignedTaxi == ""
}

// Waited returns the accumulated unmatched waiting time.
func (p *PassengerAgent) Waited() time.Duration { return p.waited }

// Step advances the passenger by one simulation tick of length dt.
func (p *PassengerAgent) Step(dt time.Duration) {
	if p.state.Terminal() {
		return
	}
	if !p.started {
		p.startDelay -= dt
		if p.startDelay > 0 {
			return
		}
		p.started = true
		p.requestTrip()
		return
	}
	if p.state != model.PassengerWaiting || p.assignedTaxi != "" {
		return
	}
	p.waited += dt
	if p.waited >= p.cfg.MaxWait() {
		p.cancel()
		return
	}
	if p.backoff > 0 {
		p.backoff -= dt
		if p.backoff <= 0 {
			p.requestTrip()
		}
	}
}

// requestTrip runs one iteration of the request protocol. A retry that fires
// after the passenger reached a terminal state is a no-op.
func (p *PassengerAgent) requestTrip() {
	if p.state.Terminal() {
		return
	}
	if !p.hasPlan {
		p.log.Errorf("passenger %s: %v", p.id, ErrNoTripPlan)
		p.state = model.PassengerInactive
		return
	}
	p.state = model.PassengerRequesting
	accepted := p.dispatcher.ReceiveRequest(p, p.pickup, p.dropoff)
	p.state = model.PassengerWaiting
	if accepted {
		p.backoff = 0
		return
	}
	p.log.Debugf("passenger %s queued, retrying in %s", p.id, p.cfg.RetryBackoff())
	p.backoff = p.cfg.RetryBackoff()
}

func (p *PassengerAgent) cancel() {
	p.state = model.PassengerCancelled
	p.log.Infof("passenger %s gave up after %s", p.id, p.waited)
	if p.bus != nil {
		p.bus.Publish(events.TripCancelled{PassengerID: p.id, Waited: p.waited, Time: time.Now()})
	}
	if p.dispatcher != nil {
		p.dispatcher.ReportTripCancelled(metrics.TripEvent{
			PassengerID: p.id,
			Pickup:      p.pickup,
			Dropoff:     p.dropoff,
			Waited:      p.waited,
			Time:        time.Now(),
		})
	}
}

// NotifyAssigned records the matched taxi. The wait timer stops: a passenger
// with an assigned taxi cannot cancel anymore.
func (p *PassengerAgent) NotifyAssigned(taxiID string) {
	if p.state.Terminal() {
		return
	}
	p.assignedTaxi = taxiID
	p.state = model.PassengerWaiting
}

// NotifyPickup moves the passenger aboard the taxi.
func (p *PassengerAgent) NotifyPickup() {
	if p.state.Terminal() {
		return
	}
	p.state = model.PassengerOnTrip
}

// NotifyDropoff completes the trip and repositions the passenger.
func (p *PassengerAgent) NotifyDropoff(at model.Point) {
	if p.state.Terminal() {
		return
	}
	p.position = at
	p.state = model.PassengerCompleted
}
