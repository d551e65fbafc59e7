// Package mapview composes the mission map: it owns one layer registry per
// view, issues the startup loads and renders overlays onto a map surface as
// layers arrive.
package mapview

import (
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-mission/internal/layer"
	"github.com/joeblew999/plat-mission/internal/overlay"
)

// Surface is a live map canvas together with its layer toggle control.
type Surface interface {
	overlay.Framer

	// SetBase sets the background tiles and initial view.
	SetBase(t TileSource)
	// SetLegend shows the static legend.
	SetLegend(entries []overlay.LegendEntry)
	// AddOverlay registers an overlay with the toggle control.
	AddOverlay(o *overlay.Overlay)
	// RemoveOverlay detaches the overlay for key.
	RemoveOverlay(key layer.Key)
}

// TileSource describes the base map.
type TileSource struct {
	URL         string    `json:"url" yaml:"url"`
	Attribution string    `json:"attribution" yaml:"attribution"`
	Center      orb.Point `json:"center" yaml:"center"` // lon, lat
	Zoom        int       `json:"zoom" yaml:"zoom"`
}

// Title is the heading shown above the map.
const Title = "Mission Visualizer – Biddinghuizen"

// DefaultTiles returns OpenStreetMap tiles centred on the mission area.
func DefaultTiles() TileSource {
	return TileSource{
		URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "&copy; OpenStreetMap contributors",
		Center:      orb.Point{5.685, 52.425},
		Zoom:        14,
	}
}
