// Package geodoc holds geometry documents: GeoJSON feature collections decoded
// into orb geometries, plus the sanitizer that drops features with no usable
// coordinates.
package geodoc

import (
	"encoding/json"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature is one geometric entity and its attributes. Geometry is nil when the
// source feature had no usable geometry.
type Feature struct {
	Geometry   orb.Geometry
	Properties Attributes
}

// Document is a named collection of features for one thematic layer.
// Documents are treated as immutable once decoded.
type Document struct {
	Name     string
	Features []Feature
}

// Len returns the number of features.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Features)
}

// Bound returns the smallest bound enclosing every feature. Geometries with no
// points, such as a polygon whose only ring is empty, do not contribute. ok is
// false when no feature has a point.
func (d *Document) Bound() (b orb.Bound, ok bool) {
	if d == nil {
		return orb.Bound{}, false
	}
	for _, f := range d.Features {
		if f.Geometry == nil {
			continue
		}
		fb := f.Geometry.Bound()
		if fb.IsEmpty() {
			continue
		}
		if !ok {
			b, ok = fb, true
			continue
		}
		b = b.Union(fb)
	}
	return b, ok
}

// Equal reports whether two documents have structurally identical features.
func (d *Document) Equal(other *Document) bool {
	if d == other {
		return true
	}
	if d == nil || other == nil || len(d.Features) != len(other.Features) {
		return false
	}
	for i, f := range d.Features {
		g := other.Features[i]
		switch {
		case f.Geometry == nil && g.Geometry == nil:
		case f.Geometry == nil || g.Geometry == nil:
			return false
		case !orb.Equal(f.Geometry, g.Geometry):
			return false
		}
		if !f.Properties.Equal(g.Properties) {
			return false
		}
	}
	return true
}

// Collection is a GeoJSON FeatureCollection whose feature properties keep
// their source order when encoded.
type Collection struct {
	Type     string              `json:"type" doc:"Always FeatureCollection"`
	Features []CollectionFeature `json:"features"`
}

// CollectionFeature is one feature of a Collection.
type CollectionFeature struct {
	Type       string     `json:"type" doc:"Always Feature"`
	Geometry   Geometry   `json:"geometry"`
	Properties Attributes `json:"properties"`
}

// Geometry encodes an orb geometry as a GeoJSON geometry object.
type Geometry struct {
	Value orb.Geometry
}

func (g Geometry) MarshalJSON() ([]byte, error) {
	return json.Marshal(geojson.NewGeometry(g.Value))
}

// Schema describes Geometry as a GeoJSON geometry object.
func (Geometry) Schema(r huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type:                 huma.TypeObject,
		Description:          "GeoJSON geometry",
		AdditionalProperties: true,
	}
}

// FeatureCollection converts the document back to GeoJSON. Features without
// geometry are skipped.
func (d *Document) FeatureCollection() *Collection {
	fc := &Collection{Type: "FeatureCollection", Features: []CollectionFeature{}}
	if d == nil {
		return fc
	}
	for _, f := range d.Features {
		if f.Geometry == nil {
			continue
		}
		fc.Features = append(fc.Features, CollectionFeature{
			Type:       "Feature",
			Geometry:   Geometry{Value: f.Geometry},
			Properties: f.Properties,
		})
	}
	return fc
}
