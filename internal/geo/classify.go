// Package geo provides the locality index, great-circle distance engine, and
// nearby/fringe neighbour search.
package geo

import "github.com/shopspring/decimal"

// Band is the proximity classification of a candidate locality.
type Band string

// Proximity bands.
const (
	BandNearby   Band = "nearby"
	BandFringe   Band = "fringe"
	BandExcluded Band = "excluded"
)

// Default band limits (kilometres, inclusive upper bounds).
const (
	DefaultNearbyKM = 10
	DefaultFringeKM = 50
)

// Bands holds the inclusive upper bounds of the nearby and fringe bands.
type Bands struct {
	Nearby decimal.Decimal
	Fringe decimal.Decimal
}

// DefaultBands returns the 10km / 50km bands.
func DefaultBands() Bands {
	return Bands{
		Nearby: decimal.NewFromInt(DefaultNearbyKM),
		Fringe: decimal.NewFromInt(DefaultFringeKM),
	}
}

// NewBands builds Bands from kilometre values.
func NewBands(nearbyKM, fringeKM float64) Bands {
	return Bands{
		Nearby: decimal.NewFromFloat(nearbyKM),
		Fringe: decimal.NewFromFloat(fringeKM),
	}
}

// Classify returns the band for a distance.
// Rules:
//   - nearby: 0 < d <= b.Nearby
//   - fringe: b.Nearby < d <= b.Fringe
//   - excluded: everything else, including the home locality itself (d == 0)
//     and UnknownDistance
func Classify(d decimal.Decimal, b Bands) Band {
	if !d.IsPositive() {
		return BandExcluded
	}
	if d.LessThanOrEqual(b.Nearby) {
		return BandNearby
	}
	if d.LessThanOrEqual(b.Fringe) {
		return BandFringe
	}
	return BandExcluded
}
