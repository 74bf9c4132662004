package simulator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/kilianp07/taxifleet/config"
	"github.com/kilianp07/taxifleet/core/fleet"
	infranav "github.com/kilianp07/taxifleet/infra/nav"
)

func testSimConfig() config.SimulationConfig {
	c := config.SimulationConfig{SpawnIntervalSeconds: 2}
	c.SetDefaults()
	return c
}

func TestSpawnerDueFollowsMeanRate(t *testing.T) {
	s := NewSpawner(rand.New(rand.NewSource(7)), testSimConfig())
	spawns := 0
	for i := 0; i < 6000; i++ { // 600s at 100ms ticks, mean interval 2s
		if s.Due(100*time.Millisecond, 0) {
			spawns++
		}
	}
	if spawns < 200 || spawns > 400 {
		t.Fatalf("spawn count %d far from expected ~300", spawns)
	}
}

func TestSpawnerDueRespectsCap(t *testing.T) {
	cfg := testSimConfig()
	cfg.MaxPassengers = 2
	s := NewSpawner(rand.New(rand.NewSource(7)), cfg)
	for i := 0; i < 6000; i++ {
		if s.Due(100*time.Millisecond, 2) {
			t.Fatalf("spawned past the cap at tick %d", i)
		}
	}
}

func TestSpawnCreatesDistinctNavigablePoints(t *testing.T) {
	surface, err := infranav.NewSurface(50, 50, 5)
	if err != nil {
		t.Fatalf("surface: %v", err)
	}
	s := NewSpawner(rand.New(rand.NewSource(3)), testSimConfig())
	d := fleet.NewFleetDispatcher(fleet.DispatcherConfig{}, nil, nil, nil)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		p := s.Spawn(surface, d, fleet.PassengerConfig{}, nil, nil)
		if p == nil {
			t.Fatalf("spawn returned nil")
		}
		if seen[p.ID()] {
			t.Fatalf("duplicate passenger id %s", p.ID())
		}
		seen[p.ID()] = true
	}
}
