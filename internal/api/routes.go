// Package api defines the Huma API routes and handlers.
package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-mission/internal/geodoc"
	"github.com/joeblew999/plat-mission/internal/layer"
	"github.com/joeblew999/plat-mission/internal/overlay"
	"github.com/joeblew999/plat-mission/internal/service"
)

// Services holds the service dependencies for API handlers.
type Services struct {
	Catalog *service.Catalog
	Source  *service.SourceService
}

// Types

type KeyInput struct {
	Key string `path:"key" doc:"Layer key" example:"poles"`
}

type NearInput struct {
	Lon    float64 `query:"lon" required:"true" minimum:"-180" maximum:"180" doc:"Longitude of the probe point" example:"5.685"`
	Lat    float64 `query:"lat" required:"true" minimum:"-90" maximum:"90" doc:"Latitude of the probe point" example:"52.425"`
	Radius float64 `query:"radius" minimum:"0" maximum:"1" default:"0.001" doc:"Half-width of the probe box in degrees"`
}

type OverlayBody struct {
	Key         layer.Key           `json:"key" doc:"Layer key" example:"park"`
	Name        string              `json:"name" doc:"Name shown in the layer control" example:"Park Boundary"`
	Order       int                 `json:"order" doc:"Position in the layer control"`
	PopupTitle  string              `json:"popupTitle" doc:"Heading of every feature popup" example:"Pole"`
	Fit         bool                `json:"fit" doc:"Whether the map frames this layer when it loads"`
	Source      string              `json:"source" doc:"Default path the layer is served from" example:"/data/parkBoundary.geojson"`
	Style       *overlay.AreaStyle  `json:"style,omitempty" doc:"Line and polygon style"`
	PointStyle  *overlay.PointStyle `json:"pointStyle,omitempty" doc:"Circle marker style"`
	LegendLabel string              `json:"legendLabel" doc:"Legend label" example:"Poles"`
}

type LayerGeoJSONOutput struct {
	Body *geodoc.Collection
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterOverlays registers the static overlay descriptors.
func (h *APIHandler) RegisterOverlays(api huma.API) {
	huma.Get(api, "/api/v1/overlays", h.GetOverlays, huma.OperationTags("overlays"))
}

// RegisterLayers registers layer catalog routes.
func (h *APIHandler) RegisterLayers(api huma.API) {
	huma.Get(api, "/api/v1/layers", h.GetLayers, huma.OperationTags("layers"))
	huma.Get(api, "/api/v1/layers/{key}", h.GetLayer, huma.OperationTags("layers"))
}

// RegisterFeatures registers spatial query routes.
func (h *APIHandler) RegisterFeatures(api huma.API) {
	huma.Get(api, "/api/v1/features/near", h.GetFeaturesNear, huma.OperationTags("features"))
}

// RegisterSources registers source listing routes.
func (h *APIHandler) RegisterSources(api huma.API) {
	huma.Get(api, "/api/v1/sources", h.GetSources, huma.OperationTags("sources"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *APIHandler) GetOverlays(ctx context.Context, input *struct{}) (*struct{ Body []OverlayBody }, error) {
	configs := overlay.Configs()
	out := make([]OverlayBody, 0, len(configs))
	for i, cfg := range configs {
		b := OverlayBody{
			Key:         cfg.Key,
			Name:        cfg.Name,
			Order:       i,
			PopupTitle:  cfg.PopupTitle,
			Fit:         cfg.Fit,
			Source:      layer.DefaultPaths[cfg.Key],
			LegendLabel: cfg.LegendLabel,
		}
		switch s := cfg.Style.(type) {
		case overlay.AreaStyle:
			b.Style = &s
		case overlay.PointStyle:
			b.PointStyle = &s
		}
		out = append(out, b)
	}
	return &struct{ Body []OverlayBody }{Body: out}, nil
}

func (h *APIHandler) GetLayers(ctx context.Context, input *struct{}) (*struct{ Body []service.LayerStatus }, error) {
	if h.svc == nil || h.svc.Catalog == nil {
		return &struct{ Body []service.LayerStatus }{Body: []service.LayerStatus{}}, nil
	}
	return &struct{ Body []service.LayerStatus }{Body: h.svc.Catalog.List()}, nil
}

func (h *APIHandler) GetLayer(ctx context.Context, input *KeyInput) (*LayerGeoJSONOutput, error) {
	if h.svc == nil || h.svc.Catalog == nil {
		return nil, huma.Error404NotFound("service not available")
	}
	key, ok := layer.ParseKey(input.Key)
	if !ok {
		return nil, huma.Error404NotFound("unknown layer " + input.Key)
	}
	doc, ok := h.svc.Catalog.Get(key)
	if !ok {
		return nil, huma.Error404NotFound("layer " + string(key) + " has not loaded")
	}
	return &LayerGeoJSONOutput{Body: doc.FeatureCollection()}, nil
}

func (h *APIHandler) GetFeaturesNear(ctx context.Context, input *NearInput) (*struct{ Body []service.FeatureHit }, error) {
	if h.svc == nil || h.svc.Catalog == nil {
		return &struct{ Body []service.FeatureHit }{Body: []service.FeatureHit{}}, nil
	}
	hits := h.svc.Catalog.Near(orb.Point{input.Lon, input.Lat}, input.Radius)
	return &struct{ Body []service.FeatureHit }{Body: hits}, nil
}

func (h *APIHandler) GetSources(ctx context.Context, input *struct{}) (*struct{ Body []service.SourceFile }, error) {
	if h.svc == nil || h.svc.Source == nil {
		return &struct{ Body []service.SourceFile }{Body: []service.SourceFile{}}, nil
	}
	sources, err := h.svc.Source.List()
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list sources", err)
	}
	return &struct{ Body []service.SourceFile }{Body: sources}, nil
}

// RegisterRoutes registers every APIHandler route group on api.
func RegisterRoutes(api huma.API, svc *Services) {
	huma.AutoRegister(api, NewAPIHandler(svc))
}
