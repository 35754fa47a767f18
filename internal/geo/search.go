package geo

import (
	"slices"

	"github.com/sells-group/suburb-cli/internal/model"
)

// Search limits.
const (
	// DefaultScanCap stops a region scan once both bands hold more than this
	// many results. The collected set is not guaranteed to contain the true
	// closest localities.
	DefaultScanCap = 600
	// DefaultMaxResults caps each band after ranking.
	DefaultMaxResults = 15
)

// Results holds the classified neighbours of a home locality.
type Results struct {
	Nearby []model.Result `json:"nearby" yaml:"nearby"`
	Fringe []model.Result `json:"fringe" yaml:"fringe"`
}

// Empty reports whether neither band has any results.
func (r Results) Empty() bool {
	return len(r.Nearby) == 0 && len(r.Fringe) == 0
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithDistancer replaces the haversine distance engine.
func WithDistancer(d Distancer) SearcherOption {
	return func(s *Searcher) {
		s.distancer = d
	}
}

// WithBands overrides the nearby and fringe limits.
func WithBands(b Bands) SearcherOption {
	return func(s *Searcher) {
		s.bands = b
	}
}

// WithScanCap overrides the early-exit threshold. Values <= 0 are ignored.
func WithScanCap(n int) SearcherOption {
	return func(s *Searcher) {
		if n > 0 {
			s.scanCap = n
		}
	}
}

// WithLimit overrides the per-band result limit. Values <= 0 are ignored.
func WithLimit(n int) SearcherOption {
	return func(s *Searcher) {
		if n > 0 {
			s.limit = n
		}
	}
}

// Searcher classifies and ranks candidate localities around a home locality.
type Searcher struct {
	distancer Distancer
	bands     Bands
	scanCap   int
	limit     int
}

// NewSearcher creates a Searcher with the default haversine engine, 10/50km
// bands, a 600 scan cap and 15 results per band.
func NewSearcher(opts ...SearcherOption) *Searcher {
	s := &Searcher{
		distancer: Haversine{},
		bands:     DefaultBands(),
		scanCap:   DefaultScanCap,
		limit:     DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limit returns the per-band result limit.
func (s *Searcher) Limit() int { return s.limit }

// FindClose classifies candidates into nearby and fringe bands relative to
// home. Results are in scan order. home must have coordinates; candidates may
// include home itself, which falls out at distance zero.
func (s *Searcher) FindClose(home model.Locality, candidates []model.Locality) Results {
	res := Results{
		Nearby: []model.Result{},
		Fringe: []model.Result{},
	}

	for _, c := range candidates {
		d := s.distancer.Distance(home, c)

		switch Classify(d, s.bands) {
		case BandNearby:
			res.Nearby = append(res.Nearby, model.NewResult(c, d))
		case BandFringe:
			res.Fringe = append(res.Fringe, model.NewResult(c, d))
		}

		if len(res.Nearby) > s.scanCap && len(res.Fringe) > s.scanCap {
			return res
		}
	}

	return res
}

// Search runs FindClose and ranks the result.
func (s *Searcher) Search(home model.Locality, candidates []model.Locality) Results {
	return Rank(s.FindClose(home, candidates), s.limit)
}

// Rank sorts each band by ascending distance, keeping scan order between
// equal distances, and truncates each band to limit entries.
func Rank(r Results, limit int) Results {
	return Results{
		Nearby: rankBand(r.Nearby, limit),
		Fringe: rankBand(r.Fringe, limit),
	}
}

func rankBand(band []model.Result, limit int) []model.Result {
	out := slices.Clone(band)
	if out == nil {
		out = []model.Result{}
	}
	slices.SortStableFunc(out, func(a, b model.Result) int {
		return a.Distance.Cmp(b.Distance)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
