// Package model defines the locality reference records and search results.
package model

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// upper is shared by every normalisation path so index keys and queries agree.
var upper = cases.Upper(language.Und)

// Locality is one entry of the reference dataset. Latitude and Longitude are
// nil for non-physical (PO box / administrative) entries.
type Locality struct {
	Postcode  int              `json:"Pcode" yaml:"postcode"`
	Name      string           `json:"Locality" yaml:"name"`
	State     string           `json:"State" yaml:"state"`
	Longitude *decimal.Decimal `json:"Longitude" yaml:"longitude,omitempty"`
	Latitude  *decimal.Decimal `json:"Latitude" yaml:"latitude,omitempty"`
}

// NormalizeName uppercases a locality name for matching.
func NormalizeName(s string) string {
	return upper.String(s)
}

// Key returns the exact-match key: NAME-POSTCODE.
func (l Locality) Key() string {
	return LookupKey(NormalizeName(l.Name), strconv.Itoa(l.Postcode))
}

// LookupKey joins an already-normalised name and postcode into an index key.
func LookupKey(name, postcode string) string {
	return name + "-" + postcode
}

// HasCoordinates reports whether the locality is a physical location.
func (l Locality) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Validate checks the record invariants enforced at load time.
func (l Locality) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return eris.Errorf("model: locality with postcode %d has no name", l.Postcode)
	}
	if (l.Latitude == nil) != (l.Longitude == nil) {
		return eris.Errorf("model: locality %s has only one of latitude/longitude", l.Key())
	}
	return nil
}

func (l Locality) String() string {
	return "[Suburb: " + l.Name + ", Post Code: " + strconv.Itoa(l.Postcode) + "]"
}
