// Package app wires the configuration into a runnable simulation service.
package app

import (
	"context"
	"fmt"

	apifleet "github.com/kilianp07/taxifleet/api/fleet"
	"github.com/kilianp07/taxifleet/config"
	coremetrics "github.com/kilianp07/taxifleet/core/metrics"
	"github.com/kilianp07/taxifleet/infra/logger"
	"github.com/kilianp07/taxifleet/infra/metrics"
	"github.com/kilianp07/taxifleet/infra/telemetry"
	"github.com/kilianp07/taxifleet/internal/eventbus"
	"github.com/kilianp07/taxifleet/simulator"
)

// Service orchestrates the world, the observability sinks and the telemetry
// publisher.
type Service struct {
	World *simulator.World
	Stats *simulator.Stats

	cfg       *config.Config
	bus       *eventbus.Bus
	log       logger.Logger
	sink      coremetrics.FleetSink
	publisher *telemetry.Publisher
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	sink, err := metrics.BuildSink(cfg.Metrics)
	if err != nil {
		return nil, err
	}
	bus := eventbus.New()

	var publisher *telemetry.Publisher
	if cfg.Telemetry.Enabled {
		publisher, err = telemetry.NewPublisher(cfg.Telemetry)
		if err != nil {
			return nil, fmt.Errorf("telemetry: %w", err)
		}
	}

	world, err := simulator.NewWorld(*cfg, sink, bus, logg)
	if err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}

	return &Service{
		World:     world,
		Stats:     &simulator.Stats{},
		cfg:       cfg,
		bus:       bus,
		log:       logg,
		sink:      sink,
		publisher: publisher,
	}, nil
}

// Run starts the tick loop and blocks until it finishes or the context is
// cancelled. The end-of-run statistics are logged before returning.
func (s *Service) Run(ctx context.Context) error {
	go s.Stats.Run(ctx, s.bus)
	if s.publisher != nil {
		go s.publisher.Run(ctx, s.bus)
	}
	if s.cfg.Metrics.PrometheusEnabled {
		addr := fmt.Sprintf(":%d", s.cfg.Metrics.PrometheusPort)
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.cfg.API.Enabled {
		go func() {
			if err := apifleet.StartServer(ctx, s.cfg.API.Addr, s.World); err != nil {
				s.log.Errorf("status api: %v", err)
			}
		}()
	}

	err := s.World.Run(ctx)
	s.log.Infof("simulation finished after %s: %s", s.World.Elapsed(), s.Stats.Snapshot())
	return err
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.publisher != nil {
		s.publisher.Close()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}
