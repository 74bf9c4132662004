package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/taxifleet/core/metrics"
	"github.com/kilianp07/taxifleet/core/model"
)

func TestPromSinkRecordsTrips(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	ev := coremetrics.TripEvent{TaxiID: "taxi-1", PassengerID: "p1", Time: time.Now()}
	require.NoError(t, sink.RecordTripCompleted(ev))
	require.NoError(t, sink.RecordTripCompleted(ev))
	require.NoError(t, sink.RecordTripCancelled(coremetrics.TripEvent{PassengerID: "p2"}))

	got := testutil.ToFloat64(sink.trips.WithLabelValues("taxi-1", "completed"))
	require.Equal(t, 2.0, got)
	got = testutil.ToFloat64(sink.trips.WithLabelValues("", "cancelled"))
	require.Equal(t, 1.0, got)
}

func TestPromSinkQueueDepth(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordQueueDepth(4))
	require.Equal(t, 4.0, testutil.ToFloat64(sink.queue))
	require.NoError(t, sink.RecordQueueDepth(0))
	require.Equal(t, 0.0, testutil.ToFloat64(sink.queue))
}

func TestPromSinkTaxiStateOneHot(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordTaxiState(coremetrics.TaxiStateEvent{
		TaxiID: "taxi-1",
		State:  model.TaxiGoingToPickup,
		Time:   time.Now(),
	}))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.state.WithLabelValues("taxi-1", "going_to_pickup")))
	require.Equal(t, 0.0, testutil.ToFloat64(sink.state.WithLabelValues("taxi-1", "available")))
}

func TestPromSinkDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	_, err = NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
}
