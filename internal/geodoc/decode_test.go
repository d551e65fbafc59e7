package geodoc

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/paulmach/orb"
)

const mixedCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [5.685, 52.425]}, "properties": {"id": "P1", "height": 12}},
    {"type": "Feature", "geometry": null, "properties": {"id": "P2"}},
    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": []}, "properties": {}},
    {"type": "Feature", "geometry": {"type": "Point"}, "properties": {"id": "P3"}},
    {"type": "Feature", "properties": {"id": "P4"}},
    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[5.68, 52.42], [5.69, 52.43]]}, "properties": null},
    {"type": "Feature", "geometry": {"type": "Blob", "coordinates": [1, 2]}, "properties": {"id": "P5"}}
  ]
}`

func TestDecodeKeepsEveryFeature(t *testing.T) {
	doc, err := Decode("poles", []byte(mixedCollection))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.Name != "poles" {
		t.Errorf("Name = %q, want poles", doc.Name)
	}
	if doc.Len() != 7 {
		t.Fatalf("Len = %d, want 7", doc.Len())
	}

	withGeometry := 0
	for _, f := range doc.Features {
		if f.Geometry != nil {
			withGeometry++
		}
	}
	if withGeometry != 2 {
		t.Errorf("features with geometry = %d, want 2", withGeometry)
	}

	p, ok := doc.Features[0].Geometry.(orb.Point)
	if !ok {
		t.Fatalf("first geometry is %T, want orb.Point", doc.Features[0].Geometry)
	}
	if !p.Equal(orb.Point{5.685, 52.425}) {
		t.Errorf("point = %v", p)
	}
	if doc.Features[5].Properties != nil {
		t.Errorf("null properties decoded to %v", doc.Features[5].Properties)
	}
}

func TestDecodePreservesAttributeOrder(t *testing.T) {
	data := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},
	   "properties":{"zeta":"z","alpha":1.50,"mid":true,"none":null}}]}`
	doc, err := Decode("x", []byte(data))
	if err != nil {
		t.Fatal(err)
	}
	attrs := doc.Features[0].Properties
	wantKeys := []string{"zeta", "alpha", "mid", "none"}
	wantText := []string{"z", "1.5", "true", "null"}
	if len(attrs) != len(wantKeys) {
		t.Fatalf("got %d attributes, want %d", len(attrs), len(wantKeys))
	}
	for i := range wantKeys {
		if attrs[i].Key != wantKeys[i] {
			t.Errorf("key[%d] = %q, want %q", i, attrs[i].Key, wantKeys[i])
		}
		if attrs[i].Text() != wantText[i] {
			t.Errorf("text[%d] = %q, want %q", i, attrs[i].Text(), wantText[i])
		}
	}
}

func TestDecodeRejectsNonCollections(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		notFC bool
	}{
		{"html error page", "<html>404</html>", false},
		{"truncated", `{"type":"FeatureCollection","features":[`, false},
		{"single feature", `{"type":"Feature","geometry":null}`, true},
		{"empty object", `{}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode("x", []byte(tt.data))
			if err == nil {
				t.Fatalf("Decode returned %v, want error", doc)
			}
			if got := errors.Is(err, ErrNotFeatureCollection); got != tt.notFC {
				t.Errorf("errors.Is(ErrNotFeatureCollection) = %v, want %v (%v)", got, tt.notFC, err)
			}
		})
	}
}

func TestAttributesRoundTripKeepsOrder(t *testing.T) {
	in := Attributes{{Key: "b", Value: "1"}, {Key: "a", Value: 2.5}}
	data, err := in.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"b":"1","a":2.5}` {
		t.Errorf("MarshalJSON = %s", data)
	}
}

func TestAttributeTextNumbers(t *testing.T) {
	tests := []struct {
		in   json.Number
		want string
	}{
		{"12", "12"},
		{"12.50", "12.5"},
		{"58.20", "58.2"},
		{"1e3", "1000"},
		{"-0.25", "-0.25"},
		{"1e21", "1e+21"},
	}
	for _, tt := range tests {
		if got := (Attribute{Key: "n", Value: tt.in}).Text(); got != tt.want {
			t.Errorf("Text(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
