package fleet

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	tripRequests    *prometheus.CounterVec
	tripsCompleted  prometheus.Counter
	tripsCancelled  prometheus.Counter
	pendingRequests prometheus.Gauge
	passengerWait   *prometheus.HistogramVec
	taxiBrakes      *prometheus.CounterVec
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Counter, prometheus.Counter, prometheus.Gauge, *prometheus.HistogramVec, *prometheus.CounterVec) {
	req := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_requests_total",
			Help: "Trip requests received by the dispatcher",
		},
		[]string{"outcome"},
	)
	done := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trips_completed_total",
			Help: "Trips finished with a successful drop-off",
		},
	)
	gone := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trips_cancelled_total",
			Help: "Trips abandoned by passengers before pickup",
		},
	)
	pend := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pending_requests",
			Help: "Trip requests waiting in the dispatcher queue",
		},
	)
	wait := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "passenger_wait_seconds",
			Help:    "Time passengers spent waiting for a taxi",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
	brakes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxi_brake_events_total",
			Help: "Braking phases entered by taxis",
		},
		[]string{"forced"},
	)
	return req, done, gone, pend, wait, brakes
}

func init() {
	tripRequests, tripsCompleted, tripsCancelled, pendingRequests, passengerWait, taxiBrakes = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers fleet metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(tripRequests, tripsCompleted, tripsCancelled, pendingRequests, passengerWait, taxiBrakes)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	tripRequests, tripsCompleted, tripsCancelled, pendingRequests, passengerWait, taxiBrakes = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
