package fleet

import (
	"math"
	"sync"
	"time"

	"github.com/kilianp07/taxifleet/core/events"
	"github.com/kilianp07/taxifleet/core/logger"
	"github.com/kilianp07/taxifleet/core/metrics"
	"github.com/kilianp07/taxifleet/core/model"
	"github.com/kilianp07/taxifleet/internal/eventbus"
)

// FleetDispatcher matches trip requests to taxis. It keeps a registry of
// taxis in registration order and a FIFO queue of requests that could not be
// matched yet. The queue is retried whenever a taxi frees up and, as a safety
// net, on a fixed interval driven by the simulation tick.
//
// A single mutex guards registry and queue so that selection and assignment
// never interleave, even when snapshots are read from other goroutines.
type FleetDispatcher struct {
	mu      sync.Mutex
	taxis   []*TaxiAgent
	byID    map[string]*TaxiAgent
	pending []model.TripRequest
	state   model.DispatcherState

	cfg          DispatcherConfig
	retryElapsed time.Duration

	log  logger.Logger
	sink metrics.FleetSink
	bus  eventbus.EventBus
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

// NewFleetDispatcher creates a dispatcher. A nil sink disables trip
// recording and a nil bus disables event publication.
func NewFleetDispatcher(cfg DispatcherConfig, log logger.Logger, sink metrics.FleetSink, bus eventbus.EventBus) *FleetDispatcher {
	cfg.SetDefaults()
	if log == nil {
		log = nopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &FleetDispatcher{
		byID:  make(map[string]*TaxiAgent),
		cfg:   cfg,
		log:   log,
		sink:  sink,
		bus:   bus,
		state: model.DispatcherMonitoring,
	}
}

// RegisterTaxi adds the taxi to the registry. Registering the same identity
// twice is a no-op; registration order is kept and breaks selection ties.
func (d *FleetDispatcher) RegisterTaxi(t *TaxiAgent) {
	if t == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byID[t.id]; ok {
		return
	}
	d.byID[t.id] = t
	d.taxis = append(d.taxis, t)
	t.dispatcher = d
	d.log.Infof("taxi %s registered, fleet size %d", t.id, len(d.taxis))
}

// ReceiveRequest matches the request to the nearest available taxi. When no
// taxi is available the request is queued at the tail and false is returned;
// the request stays queued until matched or its rider gives up. A rider that
// already has a queued request is not enqueued twice.
func (d *FleetDispatcher) ReceiveRequest(rider model.Rider, pickup, dropoff model.Point) bool {
	if rider == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = model.DispatcherProcessingRequest
	defer func() { d.state = model.DispatcherMonitoring }()

	req := model.TripRequest{Rider: rider, Pickup: pickup, Dropoff: dropoff}
	if d.assignLocked(req) {
		tripRequests.WithLabelValues("assigned").Inc()
		d.publish(events.RequestReceived{PassengerID: rider.ID(), Pickup: pickup, Dropoff: dropoff, Time: time.Now()})
		d.dropQueuedLocked(rider.ID())
		return true
	}
	tripRequests.WithLabelValues("queued").Inc()
	if !d.queuedLocked(rider.ID()) {
		d.pending = append(d.pending, req)
		d.recordQueueDepthLocked()
		d.publish(events.RequestReceived{PassengerID: rider.ID(), Pickup: pickup, Dropoff: dropoff, Queued: true, Time: time.Now()})
		d.log.Infof("no taxi for passenger %s, request queued (%d pending)", rider.ID(), len(d.pending))
	}
	return false
}

// OnTaxiAvailable is invoked by a taxi that finished its trip. It drains the
// pending queue immediately.
func (d *FleetDispatcher) OnTaxiAvailable(t *TaxiAgent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log.Debugf("taxi %s available", t.ID())
	d.drainLocked()
}

// Step advances the dispatcher clock. The pending queue is drained every
// retry interval regardless of availability events; this covers taxis that
// became available through other means and any missed event.
func (d *FleetDispatcher) Step(dt time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.retryElapsed += dt
	if d.retryElapsed < d.cfg.RetryInterval() {
		return
	}
	d.retryElapsed = 0
	d.drainLocked()
}

// TryAssignPendingRequests runs one drain pass over the queue.
func (d *FleetDispatcher) TryAssignPendingRequests() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drainLocked()
}

// drainLocked processes at most as many requests as were queued when the
// pass started, so requests re-enqueued during the pass are not retried
// twice. The pass stops at the first request that finds no taxi: every later
// request would fail the same way, and putting the head back keeps arrival
// order intact.
func (d *FleetDispatcher) drainLocked() {
	n := len(d.pending)
	for i := 0; i < n; i++ {
		req := d.pending[0]
		d.pending = d.pending[1:]
		if req.Rider == nil || !req.Rider.Waiting() {
			// Rider gave up or was matched through a fresh request.
			d.log.Debugf("dropping dead request for passenger %s", riderID(req))
			d.recordQueueDepthLocked()
			continue
		}
		if d.selectBestLocked(req.Pickup) == nil {
			d.pending = append([]model.TripRequest{req}, d.pending...)
			break
		}
		if !d.assignLocked(req) {
			// Selection raced an unreachable pickup; retry behind the rest.
			d.pending = append(d.pending, req)
			continue
		}
		d.recordQueueDepthLocked()
	}
	d.state = model.DispatcherMonitoring
}

// SelectBestTaxi returns the available taxi closest to the pickup point, or
// nil when the whole fleet is busy. Ties go to the earliest registered taxi.
func (d *FleetDispatcher) SelectBestTaxi(pickup model.Point) *TaxiAgent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selectBestLocked(pickup)
}

func (d *FleetDispatcher) selectBestLocked(pickup model.Point) *TaxiAgent {
	var best *TaxiAgent
	bestDist := math.Inf(1)
	for _, t := range d.taxis {
		if t.State() != model.TaxiAvailable {
			continue
		}
		if dist := model.Dist(t.Position(), pickup); dist < bestDist {
			best = t
			bestDist = dist
		}
	}
	return best
}

// assignLocked selects and assigns in one step. It returns false when no
// taxi is available or the assignment itself failed.
func (d *FleetDispatcher) assignLocked(req model.TripRequest) bool {
	taxi := d.selectBestLocked(req.Pickup)
	if taxi == nil {
		return false
	}
	d.state = model.DispatcherAssigningTaxi
	if err := taxi.AssignTrip(req); err != nil {
		d.log.Warnf("assignment failed: %v", err)
		return false
	}
	req.Rider.NotifyAssigned(taxi.ID())
	d.state = model.DispatcherSupervisingTrip
	d.publish(events.TripAssigned{
		TaxiID:      taxi.ID(),
		PassengerID: req.Rider.ID(),
		Pickup:      req.Pickup,
		Dropoff:     req.Dropoff,
		Time:        time.Now(),
	})
	return true
}

// ReportTripCompleted records a successful drop-off. Taxis call it before
// announcing availability; aggregation and display belong to the caller side
// of the configured sink.
func (d *FleetDispatcher) ReportTripCompleted(ev metrics.TripEvent) {
	tripsCompleted.Inc()
	passengerWait.WithLabelValues("completed").Observe(ev.Waited.Seconds())
	if err := d.sink.RecordTripCompleted(ev); err != nil {
		d.log.Errorf("trip metrics: %v", err)
	}
	d.publish(events.TripCompleted{TaxiID: ev.TaxiID, PassengerID: ev.PassengerID, Dropoff: ev.Dropoff, Time: ev.Time})
}

// ReportTripCancelled records a passenger abandoning an unmatched request.
func (d *FleetDispatcher) ReportTripCancelled(ev metrics.TripEvent) {
	tripsCancelled.Inc()
	passengerWait.WithLabelValues("cancelled").Observe(ev.Waited.Seconds())
	if err := d.sink.RecordTripCancelled(ev); err != nil {
		d.log.Errorf("trip metrics: %v", err)
	}
}

// PendingRequests returns the current queue depth.
func (d *FleetDispatcher) PendingRequests() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// State returns the observability-only dispatcher phase.
func (d *FleetDispatcher) State() model.DispatcherState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Snapshot returns a point-in-time view of the fleet for status queries.
func (d *FleetDispatcher) Snapshot() FleetSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	snap := FleetSnapshot{
		State:   d.state.String(),
		Pending: len(d.pending),
		Taxis:   make([]TaxiSnapshot, 0, len(d.taxis)),
	}
	for _, t := range d.taxis {
		snap.Taxis = append(snap.Taxis, t.Snapshot())
	}
	return snap
}

// FleetSnapshot is a point-in-time view of the dispatcher and its fleet.
type FleetSnapshot struct {
	State   string         `json:"state"`
	Pending int            `json:"pending_requests"`
	Taxis   []TaxiSnapshot `json:"taxis"`
}

func (d *FleetDispatcher) queuedLocked(riderID string) bool {
	for _, req := range d.pending {
		if req.Rider != nil && req.Rider.ID() == riderID {
			return true
		}
	}
	return false
}

func (d *FleetDispatcher) dropQueuedLocked(riderID string) {
	for i, req := range d.pending {
		if req.Rider != nil && req.Rider.ID() == riderID {
			d.pending = append(d.pending[:i], d.pending[i+1:]...)
			d.recordQueueDepthLocked()
			return
		}
	}
}

func (d *FleetDispatcher) recordQueueDepthLocked() {
	pendingRequests.Set(float64(len(d.pending)))
	if rec, ok := d.sink.(metrics.QueueDepthRecorder); ok {
		if err := rec.RecordQueueDepth(len(d.pending)); err != nil {
			d.log.Errorf("queue metrics: %v", err)
		}
	}
}

func (d *FleetDispatcher) publish(e eventbus.Event) {
	if d.bus != nil {
		d.bus.Publish(e)
	}
}

func riderID(req model.TripRequest) string {
	if req.Rider == nil {
		return "<nil>"
	}
	return req.Rider.ID()
}
