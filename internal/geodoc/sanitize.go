package geodoc

import "github.com/paulmach/orb"

// Sanitize returns a copy of doc holding only the features with a geometry
// whose coordinate structure is non-empty. The input is never modified and a
// nil document yields nil.
func Sanitize(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	out := &Document{Name: doc.Name, Features: make([]Feature, 0, len(doc.Features))}
	for _, f := range doc.Features {
		if hasCoordinates(f.Geometry) {
			out.Features = append(out.Features, f)
		}
	}
	return out
}

func hasCoordinates(g orb.Geometry) bool {
	switch g := g.(type) {
	case nil:
		return false
	case orb.Point:
		return true
	case orb.MultiPoint:
		return len(g) > 0
	case orb.LineString:
		return len(g) > 0
	case orb.MultiLineString:
		return len(g) > 0
	case orb.Ring:
		return len(g) > 0
	case orb.Polygon:
		return len(g) > 0
	case orb.MultiPolygon:
		return len(g) > 0
	case orb.Bound:
		return true
	default:
		// collections have no coordinates of their own
		return false
	}
}
