package geo

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/sells-group/suburb-cli/internal/model"
)

// EarthMeanRadiusKM is the spherical Earth radius used for all distances.
const EarthMeanRadiusKM = 6371

var (
	earthRadius = decimal.NewFromInt(EarthMeanRadiusKM)
	degToRad    = decimal.NewFromFloat(math.Pi / 180)

	// UnknownDistance is returned when either point lacks coordinates. It sits
	// outside both the nearby and fringe bands so the candidate is dropped.
	UnknownDistance = decimal.NewFromInt(100)
)

// Distancer computes the distance in kilometres between two localities.
type Distancer interface {
	Distance(home, candidate model.Locality) decimal.Decimal
}

// Haversine is the default Distancer.
type Haversine struct{}

// Distance implements Distancer.
func (Haversine) Distance(home, candidate model.Locality) decimal.Decimal {
	return Distance(home.Latitude, home.Longitude, candidate.Latitude, candidate.Longitude)
}

// DegreesToRadians converts decimal degrees to radians.
func DegreesToRadians(degrees decimal.Decimal) decimal.Decimal {
	return degrees.Mul(degToRad)
}

// Distance returns the great-circle distance between two points using the
// haversine formula, rounded half-to-even at 2 decimal places:
//
//	a = sin²(Δφ/2) + cos φ1 ⋅ cos φ2 ⋅ sin²(Δλ/2)
//	c = 2 ⋅ atan2(√a, √(1−a))
//	d = R ⋅ c
//
// Coordinate deltas are taken in decimal before conversion so that values
// read from the dataset do not pick up binary drift.
func Distance(lat1, lon1, lat2, lon2 *decimal.Decimal) decimal.Decimal {
	if lat1 == nil || lon1 == nil || lat2 == nil || lon2 == nil {
		return UnknownDistance
	}

	dLat := DegreesToRadians(lat2.Sub(*lat1)).InexactFloat64()
	dLon := DegreesToRadians(lon2.Sub(*lon1)).InexactFloat64()
	phi1 := DegreesToRadians(*lat1).InexactFloat64()
	phi2 := DegreesToRadians(*lat2).InexactFloat64()

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + sinLon*sinLon*math.Cos(phi1)*math.Cos(phi2)
	// Near-antipodal points can push a past 1 by an ulp.
	a = math.Min(1, a)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius.Mul(decimal.NewFromFloat(c)).RoundBank(2)
}
