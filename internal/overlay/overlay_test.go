package overlay

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-mission/internal/geodoc"
	"github.com/joeblew999/plat-mission/internal/layer"
)

func TestBuildPopupPole(t *testing.T) {
	attrs := geodoc.Attributes{{Key: "id", Value: "P1"}, {Key: "height", Value: "12"}}

	lines := PopupLines("Pole", attrs)
	want := []string{"Pole", "id: P1", "height: 12"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	html := BuildPopup("Pole", attrs)
	parts := strings.Split(strings.TrimSuffix(html, "<br/>"), "<br/>")
	wantHTML := []string{
		"<strong>Pole</strong>",
		"<strong>id:</strong> P1",
		"<strong>height:</strong> 12",
	}
	if len(parts) != len(wantHTML) {
		t.Fatalf("popup = %q", html)
	}
	for i := range wantHTML {
		if parts[i] != wantHTML[i] {
			t.Errorf("popup line %d = %q, want %q", i, parts[i], wantHTML[i])
		}
	}
}

func TestBuildPopupDoesNotEscape(t *testing.T) {
	html := BuildPopup("Edge", geodoc.Attributes{{Key: "note", Value: "<b>A&B</b>"}})
	if !strings.Contains(html, "<b>A&B</b>") {
		t.Errorf("value was altered: %q", html)
	}
}

func TestAdaptAbsentDocument(t *testing.T) {
	for _, cfg := range Configs() {
		if o := Adapt(nil, cfg); o != nil {
			t.Errorf("%s: Adapt(nil) = %v, want nil", cfg.Key, o)
		}
	}
}

func TestAdaptDispatchesOnStyle(t *testing.T) {
	doc := &geodoc.Document{Features: []geodoc.Feature{
		{Geometry: orb.Point{5.685, 52.425}, Properties: geodoc.Attributes{{Key: "id", Value: "N1"}}},
		{Geometry: orb.Point{5.686, 52.426}, Properties: geodoc.Attributes{{Key: "id", Value: "N2"}}},
	}}

	for _, cfg := range Configs() {
		t.Run(string(cfg.Key), func(t *testing.T) {
			o := Adapt(doc, cfg)
			if o == nil {
				t.Fatal("Adapt returned nil for a loaded document")
			}
			if !o.Checked {
				t.Error("overlay not checked by default")
			}
			if o.Name != cfg.Name {
				t.Errorf("Name = %q, want %q", o.Name, cfg.Name)
			}
			if len(o.Shapes) != 2 {
				t.Fatalf("got %d shapes, want 2", len(o.Shapes))
			}
			if !strings.HasPrefix(o.Shapes[1].Popup, "<strong>"+cfg.PopupTitle+"</strong>") {
				t.Errorf("popup = %q", o.Shapes[1].Popup)
			}
			switch cfg.Style.(type) {
			case AreaStyle:
				if o.Area == nil || o.Point != nil {
					t.Errorf("area config produced area=%v point=%v", o.Area, o.Point)
				}
			case PointStyle:
				if o.Point == nil || o.Area != nil {
					t.Errorf("point config produced area=%v point=%v", o.Area, o.Point)
				}
				if o.Point.FillOpacity != 1 {
					t.Errorf("marker fill opacity = %v, want 1", o.Point.FillOpacity)
				}
			}
			if o.Fit != (cfg.Key == layer.Park) {
				t.Errorf("Fit = %v for %s", o.Fit, cfg.Key)
			}
		})
	}
}

func TestOverlayJSON(t *testing.T) {
	cfg, _ := Lookup(layer.Poles)
	doc := &geodoc.Document{Features: []geodoc.Feature{
		{Geometry: orb.Point{1, 2}, Properties: geodoc.Attributes{{Key: "id", Value: "P1"}}},
	}}
	data, err := json.Marshal(Adapt(doc, cfg))
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		Key        string          `json:"key"`
		Order      int             `json:"order"`
		Style      json.RawMessage `json:"style"`
		PointStyle *PointStyle     `json:"pointStyle"`
		Data       struct {
			Features []struct {
				Properties map[string]string `json:"properties"`
			} `json:"features"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Key != "poles" || got.Order != 3 {
		t.Errorf("key/order = %s/%d", got.Key, got.Order)
	}
	if got.Style != nil {
		t.Errorf("point overlay carries area style %s", got.Style)
	}
	if got.PointStyle == nil || got.PointStyle.FillColor != "purple" {
		t.Errorf("pointStyle = %+v", got.PointStyle)
	}
	if len(got.Data.Features) != 1 || got.Data.Features[0].Properties["popup"] != "<strong>Pole</strong><br/><strong>id:</strong> P1<br/>" {
		t.Errorf("data = %+v", got.Data)
	}
}

type recordingFramer struct{ fits []orb.Bound }

func (r *recordingFramer) FitBounds(b orb.Bound) { r.fits = append(r.fits, b) }

func TestFitterSinglePoint(t *testing.T) {
	var f Fitter
	s := &recordingFramer{}
	doc := &geodoc.Document{Features: []geodoc.Feature{{Geometry: orb.Point{5.685, 52.425}}}}

	if !f.Fit(doc, s) {
		t.Fatal("Fit did not command the surface")
	}
	want := orb.Bound{Min: orb.Point{5.685, 52.425}, Max: orb.Point{5.685, 52.425}}
	if len(s.fits) != 1 || !s.fits[0].Equal(want) {
		t.Errorf("fits = %v, want [%v]", s.fits, want)
	}
}

func TestFitterSkipsEmptyAndUnchanged(t *testing.T) {
	var f Fitter
	s := &recordingFramer{}

	f.Fit(nil, s)
	f.Fit(&geodoc.Document{}, s)
	if len(s.fits) != 0 {
		t.Fatalf("empty documents produced fits %v", s.fits)
	}

	a := &geodoc.Document{Features: []geodoc.Feature{{Geometry: orb.Point{1, 1}}}}
	same := &geodoc.Document{Features: []geodoc.Feature{{Geometry: orb.Point{1, 1}}}}
	moved := &geodoc.Document{Features: []geodoc.Feature{{Geometry: orb.Point{2, 2}}}}

	f.Fit(a, s)
	f.Fit(a, s)
	f.Fit(same, s)
	if len(s.fits) != 1 {
		t.Fatalf("unchanged document refitted: %v", s.fits)
	}
	f.Fit(moved, s)
	if len(s.fits) != 2 {
		t.Errorf("changed document not refitted: %v", s.fits)
	}
}

func TestFitterSkipsEmptyRing(t *testing.T) {
	var f Fitter
	s := &recordingFramer{}
	doc := &geodoc.Document{Features: []geodoc.Feature{{Geometry: orb.Polygon{orb.Ring{}}}}}
	if f.Fit(doc, s) || len(s.fits) != 0 {
		t.Errorf("fitted a document with no points: %v", s.fits)
	}
}

func TestLegendMatchesConfigs(t *testing.T) {
	legend := Legend()
	want := []LegendEntry{
		{"■", "green", "Park Boundary"},
		{"■", "orange", "Mission Edges"},
		{"●", "red", "Mission Nodes"},
		{"●", "purple", "Poles"},
	}
	if len(legend) != len(want) {
		t.Fatalf("legend = %v", legend)
	}
	for i := range want {
		if legend[i] != want[i] {
			t.Errorf("legend[%d] = %v, want %v", i, legend[i], want[i])
		}
	}
}

func TestConfigsOrder(t *testing.T) {
	want := []layer.Key{layer.Park, layer.MissionLines, layer.MissionPoints, layer.Poles}
	for i, c := range Configs() {
		if c.Key != want[i] {
			t.Errorf("config %d = %s, want %s", i, c.Key, want[i])
		}
		if Order(c.Key) != i {
			t.Errorf("Order(%s) = %d", c.Key, Order(c.Key))
		}
	}
}
