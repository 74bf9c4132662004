package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/kilianp07/taxifleet/core/metrics"
)

// PromSink records trip lifecycle events in Prometheus metrics. The counters
// complement the package-level collectors owned by core/fleet by labelling
// per-taxi outcomes.
type PromSink struct {
	trips *prometheus.CounterVec
	queue prometheus.Gauge
	state *prometheus.GaugeVec
}

// NewPromSink registers trip metrics on the default Prometheus registerer.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	trips := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taxi_trips_total",
		Help: "Trips per taxi and outcome",
	}, []string{"taxi_id", "outcome"})
	queue := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatcher_queue_depth",
		Help: "Pending trip requests in the dispatcher queue",
	})
	state := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "taxi_state",
		Help: "Current taxi state (one-hot per state label)",
	}, []string{"taxi_id", "state"})

	for _, c := range []prometheus.Collector{trips, queue, state} {
		if err := reg.Register(c); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			} else {
				switch ex := are.ExistingCollector.(type) {
				case *prometheus.CounterVec:
					trips = ex
				case prometheus.Gauge:
					queue = ex
				case *prometheus.GaugeVec:
					state = ex
				}
			}
		}
	}
	return &PromSink{trips: trips, queue: queue, state: state}, nil
}

// RecordTripCompleted increments the completed counter for the taxi.
func (s *PromSink) RecordTripCompleted(ev coremetrics.TripEvent) error {
	s.trips.WithLabelValues(ev.TaxiID, "completed").Inc()
	return nil
}

// RecordTripCancelled increments the cancelled counter. Cancellations happen
// before a taxi is matched, so the taxi label is empty.
func (s *PromSink) RecordTripCancelled(ev coremetrics.TripEvent) error {
	s.trips.WithLabelValues(ev.TaxiID, "cancelled").Inc()
	return nil
}

// RecordQueueDepth sets the queue depth gauge.
func (s *PromSink) RecordQueueDepth(depth int) error {
	s.queue.Set(float64(depth))
	return nil
}

// RecordTaxiState sets a one-hot gauge for the taxi's current state.
func (s *PromSink) RecordTaxiState(ev coremetrics.TaxiStateEvent) error {
	for _, st := range []string{"available", "going_to_pickup", "passenger_aboard", "waiting"} {
		val := 0.0
		if st == ev.State.String() {
			val = 1
		}
		s.state.WithLabelValues(ev.TaxiID, st).Set(val)
	}
	return nil
}

// StartPromServer exposes Prometheus metrics on the given address until the
// context is canceled. A dedicated ServeMux avoids interfering with other
// handlers.
func StartPromServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
