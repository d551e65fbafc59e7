package overlay

import (
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-mission/internal/geodoc"
)

// Framer is the part of a map surface that can frame a bound.
type Framer interface {
	FitBounds(b orb.Bound)
}

// Fitter frames a surface on a document's bound, once per distinct document.
type Fitter struct {
	last *geodoc.Document
}

// Fit commands s to frame doc. It does nothing for a nil document, a document
// without features, or a document structurally equal to the last one fitted.
// It reports whether the surface was commanded.
func (f *Fitter) Fit(doc *geodoc.Document, s Framer) bool {
	if doc == nil {
		return false
	}
	if f.last != nil && f.last.Equal(doc) {
		return false
	}
	b, ok := doc.Bound()
	if !ok {
		return false
	}
	f.last = doc
	s.FitBounds(b)
	return true
}
