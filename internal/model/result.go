package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Result is a single classified neighbour of the home locality.
type Result struct {
	Name      string           `json:"name" yaml:"name"`
	Postcode  int              `json:"postcode" yaml:"postcode"`
	Distance  decimal.Decimal  `json:"distance_km" yaml:"distance_km"`
	Latitude  *decimal.Decimal `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude *decimal.Decimal `json:"longitude,omitempty" yaml:"longitude,omitempty"`
}

// NewResult builds a Result for a candidate at the given distance.
func NewResult(l Locality, distance decimal.Decimal) Result {
	return Result{
		Name:      l.Name,
		Postcode:  l.Postcode,
		Distance:  distance,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
	}
}

// String renders the result the way the session prints it.
func (r Result) String() string {
	return NormalizeName(r.Name) + "  " + strconv.Itoa(r.Postcode)
}
