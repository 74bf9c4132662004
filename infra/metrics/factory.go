package metrics

import (
	"fmt"

	coremetrics "github.com/kilianp07/taxifleet/core/metrics"
)

// BuildSink assembles the configured sinks into a single FleetSink. With
// nothing enabled it returns a NopSink so callers can skip nil checks.
func BuildSink(cfg coremetrics.Config) (coremetrics.FleetSink, error) {
	var sinks []coremetrics.FleetSink
	if cfg.PrometheusEnabled {
		prom, err := NewPromSink(cfg)
		if err != nil {
			return nil, fmt.Errorf("prometheus sink: %w", err)
		}
		sinks = append(sinks, prom)
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMultiSink(sinks...), nil
	}
}
