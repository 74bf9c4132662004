package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/taxifleet/core/metrics"
	"github.com/kilianp07/taxifleet/infra/logger"
)

// InfluxSink writes trip events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.FleetSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordTripCompleted writes a completed trip as a trip_event point.
func (s *InfluxSink) RecordTripCompleted(ev coremetrics.TripEvent) error {
	return s.writeTrip("completed", ev)
}

// RecordTripCancelled writes an abandoned trip as a trip_event point.
func (s *InfluxSink) RecordTripCancelled(ev coremetrics.TripEvent) error {
	return s.writeTrip("cancelled", ev)
}

func (s *InfluxSink) writeTrip(outcome string, ev coremetrics.TripEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("trip_event").
		AddTag("outcome", outcome).
		AddTag("passenger_id", ev.PassengerID).
		AddTag("component", "fleet_dispatcher")
	if ev.TaxiID != "" {
		p = p.AddTag("taxi_id", ev.TaxiID)
	}
	p = p.AddField("pickup_x", round3(ev.Pickup.X)).
		AddField("pickup_y", round3(ev.Pickup.Y)).
		AddField("dropoff_x", round3(ev.Dropoff.X)).
		AddField("dropoff_y", round3(ev.Dropoff.Y)).
		AddField("waited_s", round3(ev.Waited.Seconds())).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordQueueDepth persists the dispatcher queue depth.
func (s *InfluxSink) RecordQueueDepth(depth int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("dispatcher_queue").
		AddTag("component", "fleet_dispatcher").
		AddField("depth", depth).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordTaxiState writes a snapshot of a taxi.
func (s *InfluxSink) RecordTaxiState(ev coremetrics.TaxiStateEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("taxi_state").
		AddTag("taxi_id", ev.TaxiID).
		AddTag("state", ev.State.String()).
		AddField("x", round3(ev.Position.X)).
		AddField("y", round3(ev.Position.Y)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client resources.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
