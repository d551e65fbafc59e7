package overlay

import (
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/plat-mission/internal/geodoc"
	"github.com/joeblew999/plat-mission/internal/layer"
)

// Shape is one renderable feature with its popup.
type Shape struct {
	Geometry orb.Geometry
	Popup    string
}

// Overlay is a toggle-able map layer ready for a surface. Exactly one of Area
// and Point is set, taken from the config's style.
type Overlay struct {
	Key     layer.Key
	Name    string
	Order   int
	Checked bool
	Fit     bool
	Area    *AreaStyle
	Point   *PointStyle
	Shapes  []Shape

	// Source is the document the overlay was derived from.
	Source *geodoc.Document
}

// Adapt builds the overlay for doc. A nil doc means the layer has not loaded
// yet and yields nil.
func Adapt(doc *geodoc.Document, cfg Config) *Overlay {
	if doc == nil {
		return nil
	}
	o := &Overlay{
		Key:     cfg.Key,
		Name:    cfg.Name,
		Order:   Order(cfg.Key),
		Checked: true,
		Fit:     cfg.Fit,
		Shapes:  make([]Shape, 0, len(doc.Features)),
		Source:  doc,
	}
	switch s := cfg.Style.(type) {
	case AreaStyle:
		o.Area = &s
	case PointStyle:
		o.Point = &s
	}
	for _, f := range doc.Features {
		o.Shapes = append(o.Shapes, Shape{
			Geometry: f.Geometry,
			Popup:    BuildPopup(cfg.PopupTitle, f.Properties),
		})
	}
	return o
}

// FeatureCollection encodes the shapes as GeoJSON with each popup stored in
// the "popup" property.
func (o *Overlay) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range o.Shapes {
		f := geojson.NewFeature(s.Geometry)
		f.Properties["popup"] = s.Popup
		fc.Append(f)
	}
	return fc
}

type wireOverlay struct {
	Key        layer.Key                  `json:"key"`
	Name       string                     `json:"name"`
	Order      int                        `json:"order"`
	Checked    bool                       `json:"checked"`
	Fit        bool                       `json:"fit"`
	Style      *AreaStyle                 `json:"style,omitempty"`
	PointStyle *PointStyle                `json:"pointStyle,omitempty"`
	Data       *geojson.FeatureCollection `json:"data"`
}

// MarshalJSON encodes the overlay in the shape the browser map expects.
func (o *Overlay) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireOverlay{
		Key:        o.Key,
		Name:       o.Name,
		Order:      o.Order,
		Checked:    o.Checked,
		Fit:        o.Fit,
		Style:      o.Area,
		PointStyle: o.Point,
		Data:       o.FeatureCollection(),
	})
}
