// Package session resolves suburb queries against the locality index and runs
// the interactive prompt loop.
package session

import (
	"github.com/sells-group/suburb-cli/internal/geo"
	"github.com/sells-group/suburb-cli/internal/model"
)

// Status is the outcome class of a resolved query.
type Status int

// Query outcomes. None of them is an error.
const (
	// StatusTerminate ends the session: both fields were empty.
	StatusTerminate Status = iota
	// StatusNotFound means no locality matched the name and postcode.
	StatusNotFound
	// StatusNonPhysical means the locality has no coordinates.
	StatusNonPhysical
	// StatusFound means at least one band has results.
	StatusFound
	// StatusEmpty means the search ran but both bands are empty.
	StatusEmpty
)

var statusNames = map[Status]string{
	StatusTerminate:   "terminate",
	StatusNotFound:    "not_found",
	StatusNonPhysical: "non_physical",
	StatusFound:       "found",
	StatusEmpty:       "empty",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}

// Query is a normalised suburb name and postcode pair.
type Query struct {
	Name     string `json:"name" yaml:"name"`
	Postcode string `json:"postcode" yaml:"postcode"`
}

// NewQuery uppercases both fields. The postcode is otherwise kept as typed,
// so "0200" does not match postcode 200.
func NewQuery(name, postcode string) Query {
	return Query{
		Name:     model.NormalizeName(name),
		Postcode: model.NormalizeName(postcode),
	}
}

// Empty reports whether both fields are empty.
func (q Query) Empty() bool {
	return q.Name == "" && q.Postcode == ""
}

// Outcome is the result of resolving one query.
type Outcome struct {
	Status  Status
	Query   Query
	Home    model.Locality
	Results geo.Results
}

// Resolver answers queries from a read-only index.
type Resolver struct {
	index    *geo.Index
	searcher *geo.Searcher
}

// NewResolver creates a Resolver. A nil searcher uses geo.NewSearcher defaults.
func NewResolver(index *geo.Index, searcher *geo.Searcher) *Resolver {
	if searcher == nil {
		searcher = geo.NewSearcher()
	}
	return &Resolver{index: index, searcher: searcher}
}

// Resolve looks up the home locality and searches its state for neighbours.
func (r *Resolver) Resolve(name, postcode string) Outcome {
	q := NewQuery(name, postcode)
	out := Outcome{Query: q}

	if q.Empty() {
		out.Status = StatusTerminate
		return out
	}

	home, ok := r.index.Lookup(q.Name, q.Postcode)
	if !ok {
		out.Status = StatusNotFound
		return out
	}
	out.Home = home

	if !home.HasCoordinates() {
		out.Status = StatusNonPhysical
		return out
	}

	out.Results = r.searcher.Search(home, r.index.Region(home.State))
	if out.Results.Empty() {
		out.Status = StatusEmpty
	} else {
		out.Status = StatusFound
	}
	return out
}
