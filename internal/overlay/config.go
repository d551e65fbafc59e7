// Package overlay turns loaded layer documents into styled, toggle-able map
// overlays with popups, and frames the map on the boundary layer.
package overlay

import "github.com/joeblew999/plat-mission/internal/layer"

// Style is either an AreaStyle or a PointStyle.
type Style interface {
	isStyle()
}

// AreaStyle styles polygon and line geometry.
type AreaStyle struct {
	Color       string  `json:"color" yaml:"color" doc:"Stroke color (CSS)"`
	Weight      float64 `json:"weight" yaml:"weight" doc:"Stroke width in pixels"`
	FillOpacity float64 `json:"fillOpacity,omitempty" yaml:"fillOpacity,omitempty" doc:"Fill opacity (0-1)"`
}

// PointStyle renders point geometry as a circle marker.
type PointStyle struct {
	Radius      float64 `json:"radius" yaml:"radius" doc:"Marker radius in pixels"`
	FillColor   string  `json:"fillColor" yaml:"fillColor" doc:"Marker fill color (CSS)"`
	Color       string  `json:"color" yaml:"color" doc:"Marker stroke color (CSS)"`
	Weight      float64 `json:"weight" yaml:"weight" doc:"Marker stroke width"`
	FillOpacity float64 `json:"fillOpacity" yaml:"fillOpacity" doc:"Marker fill opacity (0-1)"`
}

func (AreaStyle) isStyle()  {}
func (PointStyle) isStyle() {}

// Config is the fixed descriptor of one overlay.
type Config struct {
	Key         layer.Key
	Name        string
	Style       Style
	PopupTitle  string
	LegendLabel string
	Fit         bool
}

// Configs returns the four overlays in control order.
func Configs() []Config {
	return []Config{
		{
			Key:         layer.Park,
			Name:        "Park Boundary",
			Style:       AreaStyle{Color: "green", Weight: 2, FillOpacity: 0.1},
			PopupTitle:  "Park Boundary",
			LegendLabel: "Park Boundary",
			Fit:         true,
		},
		{
			Key:         layer.MissionLines,
			Name:        "Mission Graph (Edges)",
			Style:       AreaStyle{Color: "orange", Weight: 3},
			PopupTitle:  "Mission Edge",
			LegendLabel: "Mission Edges",
		},
		{
			Key:         layer.MissionPoints,
			Name:        "Mission Nodes / Docks",
			Style:       PointStyle{Radius: 6, FillColor: "red", Color: "white", Weight: 1, FillOpacity: 1},
			PopupTitle:  "Mission Node",
			LegendLabel: "Mission Nodes",
		},
		{
			Key:         layer.Poles,
			Name:        "Poles",
			Style:       PointStyle{Radius: 4, FillColor: "purple", Color: "white", Weight: 1, FillOpacity: 1},
			PopupTitle:  "Pole",
			LegendLabel: "Poles",
		},
	}
}

// Lookup returns the config for key.
func Lookup(key layer.Key) (Config, bool) {
	for _, c := range Configs() {
		if c.Key == key {
			return c, true
		}
	}
	return Config{}, false
}

// Order returns the position of key in the control, or -1.
func Order(key layer.Key) int {
	for i, c := range Configs() {
		if c.Key == key {
			return i
		}
	}
	return -1
}
