package geo

import (
	"sort"

	"github.com/sells-group/suburb-cli/internal/model"
)

// Index holds the exact-match and per-state lookup structures built from the
// reference dataset. It is read-only once built and may be shared freely.
type Index struct {
	byKey   map[string]model.Locality
	byState map[string][]model.Locality
	size    int
}

// BuildIndex indexes records by NAME-POSTCODE and groups them by state.
// A later record with a duplicate key replaces the earlier one in the
// exact-match index; state groups keep every record in dataset order.
func BuildIndex(records []model.Locality) *Index {
	idx := &Index{
		byKey:   make(map[string]model.Locality, len(records)),
		byState: make(map[string][]model.Locality),
		size:    len(records),
	}
	for _, r := range records {
		idx.byKey[r.Key()] = r
		idx.byState[r.State] = append(idx.byState[r.State], r)
	}
	return idx
}

// Lookup finds a locality by normalised name and postcode as typed.
func (i *Index) Lookup(name, postcode string) (model.Locality, bool) {
	l, ok := i.byKey[model.LookupKey(name, postcode)]
	return l, ok
}

// Region returns the localities of a state in dataset order.
func (i *Index) Region(state string) []model.Locality {
	return i.byState[state]
}

// Regions returns the indexed state codes, sorted.
func (i *Index) Regions() []string {
	states := make([]string, 0, len(i.byState))
	for s := range i.byState {
		states = append(states, s)
	}
	sort.Strings(states)
	return states
}

// Len returns the number of records the index was built from.
func (i *Index) Len() int { return i.size }

// Keys returns the number of distinct exact-match keys.
func (i *Index) Keys() int { return len(i.byKey) }
