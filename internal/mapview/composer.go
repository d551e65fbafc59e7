package mapview

import (
	"github.com/joeblew999/plat-mission/internal/geodoc"
	"github.com/joeblew999/plat-mission/internal/layer"
	"github.com/joeblew999/plat-mission/internal/overlay"
)

// Composer derives the overlays for a registry snapshot and applies the
// difference to one surface. It is not safe for concurrent use; a view drives
// it from a single goroutine.
type Composer struct {
	configs  []overlay.Config
	attached map[layer.Key]*geodoc.Document
	fitter   overlay.Fitter
}

// NewComposer creates a composer for configs, in control order.
func NewComposer(configs []overlay.Config) *Composer {
	return &Composer{
		configs:  configs,
		attached: make(map[layer.Key]*geodoc.Document),
	}
}

// Render brings s in line with snap. Overlays whose document is unchanged are
// left alone; the fit layer is framed whenever its document changes.
func (c *Composer) Render(snap layer.Snapshot, s Surface) {
	for _, cfg := range c.configs {
		doc := snap.Get(cfg.Key)
		prev, attached := c.attached[cfg.Key]

		if doc == nil {
			if attached {
				s.RemoveOverlay(cfg.Key)
				delete(c.attached, cfg.Key)
			}
			continue
		}
		if attached && prev == doc {
			continue
		}

		o := overlay.Adapt(doc, cfg)
		if attached {
			s.RemoveOverlay(cfg.Key)
		}
		s.AddOverlay(o)
		c.attached[cfg.Key] = doc

		if o.Fit {
			c.fitter.Fit(doc, s)
		}
	}
}
