package session

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/suburb-cli/internal/model"
)

// Output formats.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatGeoJSON = "geojson"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatGeoJSON}

// Renderer writes an Outcome to w.
type Renderer interface {
	Render(w io.Writer, o Outcome) error
}

// NewRenderer returns the renderer for format. An empty format means text.
func NewRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return TextRenderer{}, nil
	case FormatJSON:
		return JSONRenderer{}, nil
	case FormatYAML:
		return YAMLRenderer{}, nil
	case FormatGeoJSON:
		return GeoJSONRenderer{}, nil
	default:
		return nil, eris.Errorf("session: unknown output format %q", format)
	}
}

// Message returns the user-facing message for statuses that carry one.
func Message(o Outcome) string {
	switch o.Status {
	case StatusNotFound:
		return fmt.Sprintf("Incorrect suburb and postcode combination - %s and %s\n"+
			"Please check the details and try again", o.Query.Name, o.Query.Postcode)
	case StatusNonPhysical:
		return fmt.Sprintf("The supplied suburb and postcode combination (%s, %s) is a non-physical address\n"+
			"Please check the details and try again", o.Query.Name, o.Query.Postcode)
	case StatusEmpty:
		return fmt.Sprintf("Nothing found for %s, %s!!\n", o.Query.Name, o.Query.Postcode)
	default:
		return ""
	}
}

// TextRenderer prints the interactive session output.
type TextRenderer struct{}

// Render implements Renderer.
func (TextRenderer) Render(w io.Writer, o Outcome) error {
	var sb strings.Builder
	switch o.Status {
	case StatusTerminate:
		return nil
	case StatusFound:
		sb.WriteString("\nNearby Suburbs:\n")
		for _, r := range o.Results.Nearby {
			sb.WriteString("\t" + r.String() + "\n")
		}
		sb.WriteString("\nFringe Suburbs:\n")
		for _, r := range o.Results.Fringe {
			sb.WriteString("\t" + r.String() + "\n")
		}
		sb.WriteString("\n\n")
	default:
		sb.WriteString(Message(o) + "\n")
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return eris.Wrap(err, "session: write text output")
	}
	return nil
}

// Report is the structured form of an Outcome.
type Report struct {
	Status  string          `json:"status" yaml:"status"`
	Query   Query           `json:"query" yaml:"query"`
	State   string          `json:"state,omitempty" yaml:"state,omitempty"`
	Message string          `json:"message,omitempty" yaml:"message,omitempty"`
	Nearby  []model.Result  `json:"nearby,omitempty" yaml:"nearby,omitempty"`
	Fringe  []model.Result  `json:"fringe,omitempty" yaml:"fringe,omitempty"`
	Home    *model.Locality `json:"home,omitempty" yaml:"home,omitempty"`
}

// NewReport converts an Outcome.
func NewReport(o Outcome) Report {
	rep := Report{
		Status:  o.Status.String(),
		Query:   o.Query,
		Message: strings.TrimRight(Message(o), "\n"),
	}
	if o.Status == StatusNonPhysical || o.Status == StatusFound || o.Status == StatusEmpty {
		home := o.Home
		rep.Home = &home
		rep.State = home.State
	}
	if o.Status == StatusFound {
		rep.Nearby = o.Results.Nearby
		rep.Fringe = o.Results.Fringe
	}
	return rep
}

// JSONRenderer writes one indented JSON Report per outcome.
type JSONRenderer struct{}

// Render implements Renderer.
func (JSONRenderer) Render(w io.Writer, o Outcome) error {
	if o.Status == StatusTerminate {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewReport(o)); err != nil {
		return eris.Wrap(err, "session: encode json report")
	}
	return nil
}

// YAMLRenderer writes one YAML document per outcome.
type YAMLRenderer struct{}

// Render implements Renderer.
func (YAMLRenderer) Render(w io.Writer, o Outcome) error {
	if o.Status == StatusTerminate {
		return nil
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewReport(o)); err != nil {
		return eris.Wrap(err, "session: encode yaml report")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "session: flush yaml report")
	}
	return nil
}

// GeoJSONRenderer writes a FeatureCollection with the home locality and every
// ranked neighbour as Point features. Outcomes without a located home produce
// an empty collection.
type GeoJSONRenderer struct{}

// Render implements Renderer.
func (GeoJSONRenderer) Render(w io.Writer, o Outcome) error {
	if o.Status == StatusTerminate {
		return nil
	}

	fc := geojson.FeatureCollection{Features: []*geojson.Feature{}}
	if o.Status == StatusFound || o.Status == StatusEmpty {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       o.Home.Key(),
			Geometry: point(o.Home.Longitude.InexactFloat64(), o.Home.Latitude.InexactFloat64()),
			Properties: map[string]any{
				"role":     "home",
				"name":     o.Home.Name,
				"postcode": o.Home.Postcode,
				"state":    o.Home.State,
			},
		})
		fc.Features = append(fc.Features, resultFeatures("nearby", o.Results.Nearby)...)
		fc.Features = append(fc.Features, resultFeatures("fringe", o.Results.Fringe)...)
	}

	data, err := json.MarshalIndent(&fc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "session: encode geojson")
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return eris.Wrap(err, "session: write geojson")
	}
	return nil
}

func resultFeatures(band string, results []model.Result) []*geojson.Feature {
	features := make([]*geojson.Feature, 0, len(results))
	for _, r := range results {
		if r.Latitude == nil || r.Longitude == nil {
			continue
		}
		features = append(features, &geojson.Feature{
			ID:       model.LookupKey(model.NormalizeName(r.Name), fmt.Sprint(r.Postcode)),
			Geometry: point(r.Longitude.InexactFloat64(), r.Latitude.InexactFloat64()),
			Properties: map[string]any{
				"role":        band,
				"name":        r.Name,
				"postcode":    r.Postcode,
				"distance_km": r.Distance.InexactFloat64(),
			},
		})
	}
	return features
}

func point(lon, lat float64) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{lon, lat}).SetSRID(4326)
}
