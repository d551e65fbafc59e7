package viewer

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"github.com/joeblew999/plat-mission/internal/humastar"
	"github.com/joeblew999/plat-mission/internal/layer"
	"github.com/joeblew999/plat-mission/internal/mapview"
	"github.com/joeblew999/plat-mission/internal/overlay"
	"github.com/joeblew999/plat-mission/internal/templates"
)

// surface drives the Leaflet map in the viewer page over a Datastar stream.
// Map commands become calls on window.missionMap; the legend and status
// panels are patched as HTML fragments.
type surface struct {
	mu       sync.Mutex // one event at a time on the stream
	sse      humastar.SSE
	renderer *templates.Renderer
	log      logrus.FieldLogger
}

var _ mapview.Surface = (*surface)(nil)

func newSurface(sse humastar.SSE, renderer *templates.Renderer, log logrus.FieldLogger) *surface {
	return &surface{sse: sse, renderer: renderer, log: log}
}

type baseMap struct {
	URL         string  `json:"url"`
	Attribution string  `json:"attribution"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Zoom        int     `json:"zoom"`
}

func (s *surface) SetBase(t mapview.TileSource) {
	s.call("setBase", baseMap{
		URL:         t.URL,
		Attribution: t.Attribution,
		Lat:         t.Center.Lat(),
		Lon:         t.Center.Lon(),
		Zoom:        t.Zoom,
	})
}

func (s *surface) SetLegend(entries []overlay.LegendEntry) {
	s.patch("legend", entries, "#legend")
}

func (s *surface) AddOverlay(o *overlay.Overlay) {
	s.call("addOverlay", o)
}

func (s *surface) RemoveOverlay(key layer.Key) {
	s.call("removeOverlay", key)
}

// FitBounds sends the bound as Leaflet corners, [[south, west], [north, east]].
func (s *surface) FitBounds(b orb.Bound) {
	s.call("fitBounds", [2][2]float64{
		{b.Min.Lat(), b.Min.Lon()},
		{b.Max.Lat(), b.Max.Lon()},
	})
}

func (s *surface) setStatus(rows []statusRow) {
	s.patch("status", rows, "#status")
}

// setSummary publishes the load counts as signals, plus an error naming the
// failed layers or a success once every layer is on the map.
func (s *surface) setSummary(rows []statusRow) {
	var loaded int
	var failed []string
	for _, r := range rows {
		switch {
		case r.Failed:
			failed = append(failed, r.Name)
		case r.Loaded:
			loaded++
		}
	}

	s.send("signals", func() error {
		return s.sse.Signals(map[string]any{"loaded": loaded, "failed": len(failed)})
	})
	switch {
	case len(failed) > 0:
		s.send("error", func() error {
			return s.sse.Error("failed to load: " + strings.Join(failed, ", "))
		})
	case loaded == len(rows):
		s.send("success", func() error {
			return s.sse.Success("all layers loaded")
		})
	}
}

func (s *surface) call(fn string, arg any) {
	data, err := json.Marshal(arg)
	if err != nil {
		s.log.WithError(err).WithField("call", fn).Error("encode map command")
		return
	}
	s.send(fn, func() error {
		return s.sse.Script(fmt.Sprintf("window.missionMap.%s(%s)", fn, data))
	})
}

func (s *surface) patch(tmpl string, data any, selector string) {
	html, err := s.renderer.Render(tmpl, data)
	if err != nil {
		s.log.WithError(err).WithField("template", tmpl).Error("render fragment")
		return
	}
	s.send(selector, func() error {
		return s.sse.Patch(html, selector)
	})
}

// send writes one event to the stream. A client that has gone away is only
// worth a debug line.
func (s *surface) send(event string, write func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := write(); err != nil {
		s.log.WithError(err).WithField("event", event).Debug("event not delivered")
	}
}
