package nav

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	corenav "github.com/kilianp07/taxifleet/core/nav"
	"github.com/kilianp07/taxifleet/core/model"
)

// DefaultConeDegrees is the full opening angle of the radar cone.
const DefaultConeDegrees = 60.0

// PositionSource lists the current positions of every taxi keyed by ID.
// The world loop implements it.
type PositionSource interface {
	TaxiPositions() map[string]model.Point
}

// RadarSensor detects other taxis inside a forward cone. The owner is
// excluded; a stationary owner never reports a blockage since it has no
// heading.
type RadarSensor struct {
	ownerID string
	nav     *GridNavigator
	source  PositionSource
	coneCos float64
}

var _ corenav.ObstacleSensor = (*RadarSensor)(nil)

// NewRadarSensor creates a sensor owned by the taxi with the given ID,
// reading its position and heading from nav. coneDegrees is the full
// opening angle; zero or negative falls back to DefaultConeDegrees.
func NewRadarSensor(ownerID string, nav *GridNavigator, source PositionSource, coneDegrees float64) *RadarSensor {
	if coneDegrees <= 0 {
		coneDegrees = DefaultConeDegrees
	}
	return &RadarSensor{
		ownerID: ownerID,
		nav:     nav,
		source:  source,
		coneCos: math.Cos(coneDegrees / 2 * math.Pi / 180),
	}
}

// BlockedAhead reports whether another taxi sits within maxDistance inside
// the forward cone.
func (s *RadarSensor) BlockedAhead(maxDistance float64) bool {
	heading := s.nav.Heading()
	if heading == (model.Point{}) {
		return false
	}
	own := s.nav.Position()
	for id, pos := range s.source.TaxiPositions() {
		if id == s.ownerID {
			continue
		}
		rel := r2.Sub(pos, own)
		d := r2.Norm(rel)
		if d == 0 || d > maxDistance {
			continue
		}
		if r2.Dot(r2.Unit(rel), heading) >= s.coneCos {
			return true
		}
	}
	return false
}
