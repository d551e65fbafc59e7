// Package service contains the server-side state of the mission visualizer:
// the shared layer catalog and the data directory listing.
package service

import (
	"github.com/joeblew999/plat-mission/internal/geodoc"
	"github.com/joeblew999/plat-mission/internal/layer"
)

// LayerStatus is the catalog's view of one layer.
// Huma reads the tags for OpenAPI and validation.
type LayerStatus struct {
	Key      layer.Key  `json:"key" doc:"Layer key" example:"poles"`
	Name     string     `json:"name" doc:"Display name" example:"Poles"`
	Source   string     `json:"source" doc:"URL the layer is loaded from" example:"/data/poles.geojson"`
	Loaded   bool       `json:"loaded" doc:"Whether the layer has loaded"`
	Features int        `json:"features" doc:"Number of features with coordinates" example:"42"`
	Bound    []float64  `json:"bound,omitempty" doc:"Bounding box as [minLon, minLat, maxLon, maxLat]"`
	Error    string     `json:"error,omitempty" doc:"Load failure, if any"`
	Legend   LegendItem `json:"legend" doc:"Legend entry for this layer"`
}

// LegendItem defines a legend entry.
type LegendItem struct {
	Symbol string `json:"symbol" doc:"Swatch glyph" example:"●"`
	Label  string `json:"label" doc:"Legend label"`
	Color  string `json:"color" doc:"Legend color (CSS)"`
}

// FeatureHit is one feature found by a spatial query.
type FeatureHit struct {
	Layer      layer.Key         `json:"layer" doc:"Layer the feature belongs to" example:"poles"`
	Index      int               `json:"index" doc:"Position of the feature in its layer"`
	Kind       string            `json:"kind" doc:"GeoJSON geometry type" example:"Point"`
	Properties geodoc.Attributes `json:"properties" doc:"Feature attributes in source order"`
	Bound      []float64         `json:"bound" doc:"Bounding box as [minLon, minLat, maxLon, maxLat]"`
}

// SourceFile represents a GeoJSON file in the data directory.
type SourceFile struct {
	Name     string `json:"name" doc:"File name" example:"poles.geojson"`
	Size     string `json:"size" doc:"Human-readable file size" example:"1.2 KB"`
	FileType string `json:"fileType" doc:"File type" example:"GeoJSON"`
	Layer    string `json:"layer,omitempty" doc:"Layer key served from this file" example:"poles"`
}
