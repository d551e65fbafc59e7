package geodoc

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
)

func TestBoundSinglePointIsDegenerate(t *testing.T) {
	doc := &Document{Features: []Feature{{Geometry: orb.Point{5.685, 52.425}}}}
	b, ok := doc.Bound()
	if !ok {
		t.Fatal("Bound reported empty")
	}
	want := orb.Bound{Min: orb.Point{5.685, 52.425}, Max: orb.Point{5.685, 52.425}}
	if !b.Equal(want) {
		t.Errorf("Bound = %v, want %v", b, want)
	}
}

func TestBoundUnionsFeatures(t *testing.T) {
	doc := &Document{Features: []Feature{
		{Geometry: orb.Point{5.70, 52.41}},
		{Geometry: orb.LineString{{5.67, 52.43}, {5.69, 52.44}}},
	}}
	b, ok := doc.Bound()
	if !ok {
		t.Fatal("Bound reported empty")
	}
	want := orb.Bound{Min: orb.Point{5.67, 52.41}, Max: orb.Point{5.70, 52.44}}
	if !b.Equal(want) {
		t.Errorf("Bound = %v, want %v", b, want)
	}
}

func TestBoundEmpty(t *testing.T) {
	for _, doc := range []*Document{nil, {}, {Features: []Feature{{}}}} {
		if _, ok := doc.Bound(); ok {
			t.Errorf("Bound of %v reported non-empty", doc)
		}
	}
}

func TestEqual(t *testing.T) {
	a := &Document{Features: []Feature{{Geometry: orb.Point{1, 2}, Properties: Attributes{{Key: "id", Value: "x"}}}}}
	b := &Document{Features: []Feature{{Geometry: orb.Point{1, 2}, Properties: Attributes{{Key: "id", Value: "x"}}}}}
	c := &Document{Features: []Feature{{Geometry: orb.Point{1, 3}, Properties: Attributes{{Key: "id", Value: "x"}}}}}
	d := &Document{Features: []Feature{{Geometry: orb.Point{1, 2}, Properties: Attributes{{Key: "id", Value: "y"}}}}}

	if !a.Equal(b) {
		t.Error("a should equal b")
	}
	if a.Equal(c) {
		t.Error("a should differ from c (geometry)")
	}
	if a.Equal(d) {
		t.Error("a should differ from d (attributes)")
	}
	if a.Equal(nil) {
		t.Error("a should differ from nil")
	}
}

func TestFeatureCollectionSkipsMissingGeometry(t *testing.T) {
	doc := &Document{Features: []Feature{
		{Geometry: orb.Point{1, 2}, Properties: Attributes{{Key: "id", Value: "x"}}},
		{Properties: Attributes{{Key: "id", Value: "y"}}},
	}}
	fc := doc.FeatureCollection()
	if len(fc.Features) != 1 {
		t.Fatalf("got %d features, want 1", len(fc.Features))
	}
	if v, _ := fc.Features[0].Properties.Get("id"); v != "x" {
		t.Errorf("properties = %v", fc.Features[0].Properties)
	}
}

func TestFeatureCollectionKeepsPropertyOrder(t *testing.T) {
	doc, err := Decode("poles", []byte(`{"type":"FeatureCollection","features":[
	  {"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},
	   "properties":{"zeta":"z","alpha":12.50,"mid":true}}]}`))
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(doc.FeatureCollection())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"zeta":"z","alpha":12.50,"mid":true}}]}`
	if string(data) != want {
		t.Errorf("encoded\n%s\nwant\n%s", data, want)
	}
}

func TestBoundIgnoresEmptyRings(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		kept   int
		ok     bool
		bounds orb.Bound
	}{
		{
			name: "empty ring then point",
			data: `{"type":"FeatureCollection","features":[
			  {"type":"Feature","geometry":{"type":"Polygon","coordinates":[[]]},"properties":{}},
			  {"type":"Feature","geometry":{"type":"Point","coordinates":[5.685,52.425]},"properties":{}}]}`,
			kept:   2,
			ok:     true,
			bounds: orb.Bound{Min: orb.Point{5.685, 52.425}, Max: orb.Point{5.685, 52.425}},
		},
		{
			name: "only an empty ring",
			data: `{"type":"FeatureCollection","features":[
			  {"type":"Feature","geometry":{"type":"Polygon","coordinates":[[]]},"properties":{}}]}`,
			kept: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode("park", []byte(tt.data))
			if err != nil {
				t.Fatal(err)
			}
			clean := Sanitize(doc)
			if clean.Len() != tt.kept {
				t.Fatalf("kept %d features, want %d", clean.Len(), tt.kept)
			}
			b, ok := clean.Bound()
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v (bound %v)", ok, tt.ok, b)
			}
			if ok && !b.Equal(tt.bounds) {
				t.Errorf("Bound = %v, want %v", b, tt.bounds)
			}
		})
	}
}
