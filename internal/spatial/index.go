// Package spatial indexes loaded layer features in an R-tree so the API can
// answer "what is near this point" without scanning every layer.
package spatial

import (
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-mission/internal/geodoc"
	"github.com/joeblew999/plat-mission/internal/layer"
)

// pointEpsilon pads zero-area bounds; the R-tree rejects zero lengths.
// Roughly 11 m at the equator.
const pointEpsilon = 0.0001

// Hit is a feature found by a query.
type Hit struct {
	Layer   layer.Key
	Index   int // position in the layer document
	Feature geodoc.Feature
	Bound   orb.Bound
}

type entry struct {
	hit Hit
}

// Bounds implements rtreego.Spatial.
func (e *entry) Bounds() rtreego.Rect {
	return toRect(e.hit.Bound)
}

// Index is a spatial index over every feature of every indexed layer.
type Index struct {
	mu     sync.RWMutex
	layers map[layer.Key]*geodoc.Document
	tree   *rtreego.Rtree
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		layers: make(map[layer.Key]*geodoc.Document),
		tree:   rtreego.NewTree(2, 25, 50),
	}
}

// Replace indexes doc as the content of key, dropping what was there.
func (x *Index) Replace(key layer.Key, doc *geodoc.Document) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if doc == nil {
		delete(x.layers, key)
	} else {
		x.layers[key] = doc
	}
	x.rebuild()
}

// rebuild recreates the tree from all layers. Mission layers hold at most a
// few thousand features, so a full rebuild per layer load is cheap.
func (x *Index) rebuild() {
	tree := rtreego.NewTree(2, 25, 50)
	for key, doc := range x.layers {
		for i, f := range doc.Features {
			if f.Geometry == nil {
				continue
			}
			b := f.Geometry.Bound()
			if b.IsEmpty() {
				continue
			}
			tree.Insert(&entry{hit: Hit{Layer: key, Index: i, Feature: f, Bound: b}})
		}
	}
	x.tree = tree
}

// Len returns the number of indexed features.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.tree.Size()
}

// Near returns features whose bound intersects the square of the given
// half-width (in degrees) around p, ordered by layer then position.
func (x *Index) Near(p orb.Point, radius float64) []Hit {
	if radius < pointEpsilon {
		radius = pointEpsilon
	}
	probe := orb.Bound{
		Min: orb.Point{p[0] - radius, p[1] - radius},
		Max: orb.Point{p[0] + radius, p[1] + radius},
	}
	return x.Intersecting(probe)
}

// Intersecting returns features whose bound intersects b.
func (x *Index) Intersecting(b orb.Bound) []Hit {
	x.mu.RLock()
	found := x.tree.SearchIntersect(toRect(b))
	x.mu.RUnlock()

	hits := make([]Hit, 0, len(found))
	for _, s := range found {
		hits = append(hits, s.(*entry).hit)
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Layer != hits[j].Layer {
			return hits[i].Layer < hits[j].Layer
		}
		return hits[i].Index < hits[j].Index
	})
	return hits
}

func toRect(b orb.Bound) rtreego.Rect {
	lonLength := b.Max[0] - b.Min[0]
	latLength := b.Max[1] - b.Min[1]
	if lonLength < pointEpsilon {
		lonLength = pointEpsilon
	}
	if latLength < pointEpsilon {
		latLength = pointEpsilon
	}
	rect, _ := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, []float64{lonLength, latLength})
	return rect
}
