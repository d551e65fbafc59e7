package mapview

import (
	"sort"
	"sync"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-mission/internal/layer"
	"github.com/joeblew999/plat-mission/internal/overlay"
)

// Recorder is an in-memory Surface. It keeps the attached overlays and every
// command it received, for headless rendering and tests.
type Recorder struct {
	mu       sync.Mutex
	base     TileSource
	legend   []overlay.LegendEntry
	overlays map[layer.Key]*overlay.Overlay
	fits     []orb.Bound
	adds     int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{overlays: make(map[layer.Key]*overlay.Overlay)}
}

func (r *Recorder) SetBase(t TileSource) {
	r.mu.Lock()
	r.base = t
	r.mu.Unlock()
}

func (r *Recorder) SetLegend(entries []overlay.LegendEntry) {
	r.mu.Lock()
	r.legend = entries
	r.mu.Unlock()
}

func (r *Recorder) AddOverlay(o *overlay.Overlay) {
	r.mu.Lock()
	r.overlays[o.Key] = o
	r.adds++
	r.mu.Unlock()
}

func (r *Recorder) RemoveOverlay(key layer.Key) {
	r.mu.Lock()
	delete(r.overlays, key)
	r.mu.Unlock()
}

func (r *Recorder) FitBounds(b orb.Bound) {
	r.mu.Lock()
	r.fits = append(r.fits, b)
	r.mu.Unlock()
}

// Base returns the last base map set.
func (r *Recorder) Base() TileSource {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.base
}

// Legend returns the legend set on the surface.
func (r *Recorder) Legend() []overlay.LegendEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.legend
}

// Overlays returns the attached overlays in control order.
func (r *Recorder) Overlays() []*overlay.Overlay {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*overlay.Overlay, 0, len(r.overlays))
	for _, o := range r.overlays {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Fits returns every bound the surface was asked to frame.
func (r *Recorder) Fits() []orb.Bound {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]orb.Bound(nil), r.fits...)
}

// Adds returns how many times an overlay was attached.
func (r *Recorder) Adds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.adds
}
