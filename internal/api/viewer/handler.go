// Package viewer streams a live mission map to the browser. Each stream
// connection gets its own map view whose lifetime is the connection.
package viewer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"github.com/joeblew999/plat-mission/internal/humastar"
	"github.com/joeblew999/plat-mission/internal/layer"
	"github.com/joeblew999/plat-mission/internal/mapview"
	"github.com/joeblew999/plat-mission/internal/overlay"
	"github.com/joeblew999/plat-mission/internal/templates"
)

// StreamPath is where the viewer page subscribes.
const StreamPath = "/api/v1/map/stream"

// Handler serves the map stream.
type Handler struct {
	humastar.Handler

	// Fetcher overrides how layers are fetched. When nil, each view fetches
	// over HTTP from SourceURL, or from the host the page was served by.
	Fetcher   layer.Fetcher
	SourceURL string
	Log       logrus.FieldLogger
}

// NewHandler creates a viewer handler.
func NewHandler(renderer *templates.Renderer, fetcher layer.Fetcher, sourceURL string, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		Handler:   humastar.Handler{Renderer: renderer},
		Fetcher:   fetcher,
		SourceURL: sourceURL,
		Log:       log,
	}
}

func (h *Handler) RegisterRoutes(api huma.API) {
	huma.Get(api, StreamPath, h.MapStream, huma.OperationTags("viewer"))
}

// MapStream runs one map view for the life of the connection.
func (h *Handler) MapStream(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return h.Stream(h.serve), nil
}

func (h *Handler) serve(sse humastar.SSE) {
	ctx := sse.Context()
	r := sse.Request()
	log := h.Log.WithField("remote", r.RemoteAddr)

	fetcher, sources := h.sources(r)
	v := mapview.New(mapview.Options{Fetcher: fetcher, Sources: sources, Log: log})
	defer v.Close()

	surf := newSurface(sse, h.Renderer, log)
	done := make(chan struct{})
	go func() {
		defer close(done)
		v.Run(ctx, surf)
	}()

	log.Debug("map view opened")
	v.Start(ctx)
	v.Wait()
	if ctx.Err() == nil {
		rows := statusRows(v)
		surf.setStatus(rows)
		surf.setSummary(rows)
	}

	<-done
	log.Debug("map view closed")
}

func (h *Handler) sources(r *http.Request) (layer.Fetcher, map[layer.Key]string) {
	if h.Fetcher != nil {
		return h.Fetcher, layer.Sources(h.SourceURL)
	}
	base := h.SourceURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return layer.HTTPFetcher{}, layer.Sources(base)
}

type statusRow struct {
	Name   string
	State  string
	Loaded bool
	Failed bool
}

func statusRows(v *mapview.View) []statusRow {
	snap := v.Registry().Snapshot()
	failures := v.Failures()

	rows := make([]statusRow, 0, len(layer.Keys()))
	for _, cfg := range overlay.Configs() {
		row := statusRow{Name: cfg.Name, State: "not loaded"}
		if doc := snap.Get(cfg.Key); doc != nil {
			row.State, row.Loaded = plural(doc.Len(), "feature"), true
		} else if err := failures[cfg.Key]; err != nil {
			row.State, row.Failed = "failed", true
		}
		rows = append(rows, row)
	}
	return rows
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
