package geodoc

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestSanitizeDropsDegenerateFeatures(t *testing.T) {
	doc, err := Decode("poles", []byte(mixedCollection))
	if err != nil {
		t.Fatal(err)
	}
	clean := Sanitize(doc)

	if clean.Len() != 2 {
		t.Fatalf("Len = %d, want 2", clean.Len())
	}
	for i, f := range clean.Features {
		if !hasCoordinates(f.Geometry) {
			t.Errorf("feature %d kept without coordinates: %#v", i, f.Geometry)
		}
	}
	if doc.Len() != 7 {
		t.Errorf("input modified: Len = %d, want 7", doc.Len())
	}
}

func TestSanitizeIsSubsetAndIdempotent(t *testing.T) {
	docs := []*Document{
		{Name: "empty"},
		{Name: "all-bad", Features: []Feature{{}, {Geometry: orb.LineString{}}, {Geometry: orb.Polygon(nil)}}},
		{Name: "mixed", Features: []Feature{
			{Geometry: orb.Point{1, 2}, Properties: Attributes{{Key: "id", Value: "a"}}},
			{Geometry: orb.MultiPoint{}},
			{Geometry: orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}},
			{Geometry: orb.Collection{orb.Point{3, 4}}},
		}},
	}

	for _, doc := range docs {
		t.Run(doc.Name, func(t *testing.T) {
			once := Sanitize(doc)
			twice := Sanitize(once)
			if !once.Equal(twice) {
				t.Errorf("Sanitize not idempotent: %v vs %v", once.Features, twice.Features)
			}
			if once.Len() > doc.Len() {
				t.Errorf("sanitized has %d features, input %d", once.Len(), doc.Len())
			}
			j := 0
			for _, f := range once.Features {
				for j < len(doc.Features) && !sameFeature(doc.Features[j], f) {
					j++
				}
				if j == len(doc.Features) {
					t.Fatalf("feature %v not found in input order", f)
				}
				j++
			}
		})
	}
}

func TestSanitizeNil(t *testing.T) {
	if Sanitize(nil) != nil {
		t.Error("Sanitize(nil) should be nil")
	}
}

func sameFeature(a, b Feature) bool {
	if a.Geometry == nil || b.Geometry == nil {
		return a.Geometry == nil && b.Geometry == nil
	}
	return orb.Equal(a.Geometry, b.Geometry) && a.Properties.Equal(b.Properties)
}
