package simulator

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/taxifleet/config"
	"github.com/kilianp07/taxifleet/core/fleet"
	"github.com/kilianp07/taxifleet/core/model"
	"github.com/kilianp07/taxifleet/infra/logger"
	infranav "github.com/kilianp07/taxifleet/infra/nav"
	"github.com/kilianp07/taxifleet/internal/eventbus"
)

// Spawner generates passengers with exponential inter-arrival times, giving
// a Poisson-like arrival process.
type Spawner struct {
	rng  *rand.Rand
	mean time.Duration
	next time.Duration
	max  int
}

// NewSpawner creates a spawner using cfg's spawn interval and passenger cap.
func NewSpawner(rng *rand.Rand, cfg config.SimulationConfig) *Spawner {
	s := &Spawner{
		rng:  rng,
		mean: cfg.SpawnInterval(),
		max:  cfg.MaxPassengers,
	}
	s.next = s.draw()
	return s
}

// Due advances the spawn timer by dt and reports whether a passenger should
// spawn this tick. The cap suppresses the spawn but the timer keeps running.
func (s *Spawner) Due(dt time.Duration, live int) bool {
	s.next -= dt
	if s.next > 0 {
		return false
	}
	s.next = s.draw()
	if s.max > 0 && live >= s.max {
		return false
	}
	return true
}

// Spawn creates a passenger with a uuid identity and random distinct
// navigable pickup and dropoff points.
func (s *Spawner) Spawn(surface *infranav.Surface, d *fleet.FleetDispatcher, cfg fleet.PassengerConfig, log logger.Logger, bus eventbus.EventBus) *fleet.PassengerAgent {
	pickup := randomNavigable(s.rng, surface)
	dropoff := randomNavigable(s.rng, surface)
	for tries := 0; dropoff == pickup && tries < 10; tries++ {
		dropoff = randomNavigable(s.rng, surface)
	}
	if dropoff == pickup {
		return nil
	}
	return fleet.NewPassengerAgent(uuid.NewString(), pickup, dropoff, d, cfg, log, bus)
}

func (s *Spawner) draw() time.Duration {
	d := time.Duration(s.rng.ExpFloat64() * float64(s.mean))
	if d <= 0 {
		d = time.Millisecond
	}
	return d
}

// randomNavigable samples uniform points on the surface until one is
// navigable, falling back to snapping the last sample.
func randomNavigable(rng *rand.Rand, surface *infranav.Surface) model.Point {
	w, h := surface.Bounds()
	var p model.Point
	for i := 0; i < 32; i++ {
		p = model.Point{X: rng.Float64() * w, Y: rng.Float64() * h}
		if surface.Navigable(p) {
			return p
		}
	}
	if snapped, ok := surface.NearestNavigable(p, w+h); ok {
		return snapped
	}
	return p
}
