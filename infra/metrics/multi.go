package metrics

import coremetrics "github.com/kilianp07/taxifleet/core/metrics"

// MultiSink fanouts trip events to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.FleetSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.FleetSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTripCompleted forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordTripCompleted(ev coremetrics.TripEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordTripCompleted(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordTripCancelled forwards the record to all sinks.
func (m *MultiSink) RecordTripCancelled(ev coremetrics.TripEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordTripCancelled(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordQueueDepth forwards queue depth samples when supported by the sink.
func (m *MultiSink) RecordQueueDepth(depth int) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.QueueDepthRecorder); ok {
			if err := rec.RecordQueueDepth(depth); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordTaxiState forwards taxi snapshots when supported by the sink.
func (m *MultiSink) RecordTaxiState(ev coremetrics.TaxiStateEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.TaxiStateRecorder); ok {
			if err := rec.RecordTaxiState(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
