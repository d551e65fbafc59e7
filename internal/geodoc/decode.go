package geodoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrNotFeatureCollection is returned when a payload parses as JSON but is not
// a GeoJSON FeatureCollection.
var ErrNotFeatureCollection = errors.New("not a geojson FeatureCollection")

type jsonCollection struct {
	Type     string        `json:"type"`
	Features []jsonFeature `json:"features"`
}

type jsonFeature struct {
	Geometry   json.RawMessage `json:"geometry"`
	Properties Attributes      `json:"properties"`
}

type jsonGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Decode parses a GeoJSON FeatureCollection. Only document-level problems are
// errors; a feature whose geometry is missing or cannot be decoded is kept
// with a nil Geometry so Sanitize can drop it.
func Decode(name string, data []byte) (*Document, error) {
	var raw jsonCollection
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if raw.Type != "FeatureCollection" {
		return nil, fmt.Errorf("decode %s: %w (type %q)", name, ErrNotFeatureCollection, raw.Type)
	}

	doc := &Document{Name: name, Features: make([]Feature, 0, len(raw.Features))}
	for _, rf := range raw.Features {
		doc.Features = append(doc.Features, Feature{
			Geometry:   decodeGeometry(rf.Geometry),
			Properties: rf.Properties,
		})
	}
	return doc, nil
}

// decodeGeometry returns nil for null geometry, missing, null or empty
// coordinates, and anything orb refuses to decode.
func decodeGeometry(data json.RawMessage) orb.Geometry {
	if isEmptyJSON(data) {
		return nil
	}
	var probe jsonGeometry
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil
	}
	if isEmptyJSON(probe.Coordinates) {
		return nil
	}

	var geom geojson.Geometry
	if err := json.Unmarshal(data, &geom); err != nil {
		return nil
	}
	return geom.Coordinates
}

func isEmptyJSON(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	if trimmed[0] != '[' || len(trimmed) < 2 {
		return false
	}
	return len(bytes.TrimSpace(trimmed[1:len(trimmed)-1])) == 0
}
