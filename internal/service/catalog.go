package service

import (
	"context"
	"sync"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"github.com/joeblew999/plat-mission/internal/db"
	"github.com/joeblew999/plat-mission/internal/geodoc"
	"github.com/joeblew999/plat-mission/internal/layer"
	"github.com/joeblew999/plat-mission/internal/mapview"
	"github.com/joeblew999/plat-mission/internal/overlay"
	"github.com/joeblew999/plat-mission/internal/spatial"
)

// CatalogOptions configures a Catalog.
type CatalogOptions struct {
	Fetcher layer.Fetcher
	Sources map[layer.Key]string
	Table   *db.FeatureTable // optional SQL mirror
	Log     logrus.FieldLogger
}

// Catalog is the server's own copy of the mission layers. It loads them once
// at startup and keeps the spatial index and the feature table in step with
// its registry.
type Catalog struct {
	view    *mapview.View
	sources map[layer.Key]string
	index   *spatial.Index
	table   *db.FeatureTable
	log     logrus.FieldLogger

	mu     sync.Mutex
	synced map[layer.Key]*geodoc.Document

	start sync.Once
	done  chan struct{}
}

// NewCatalog creates a catalog. Nothing is fetched until Start.
func NewCatalog(opts CatalogOptions) *Catalog {
	if opts.Sources == nil {
		opts.Sources = layer.Sources("")
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	return &Catalog{
		view: mapview.New(mapview.Options{
			Fetcher: opts.Fetcher,
			Sources: opts.Sources,
			Log:     opts.Log,
		}),
		sources: opts.Sources,
		index:   spatial.NewIndex(),
		table:   opts.Table,
		log:     opts.Log,
		synced:  make(map[layer.Key]*geodoc.Document),
		done:    make(chan struct{}),
	}
}

// Start issues the layer loads and begins mirroring them into the index and
// table. It returns immediately; later calls do nothing.
func (c *Catalog) Start(ctx context.Context) {
	c.start.Do(func() { c.run(ctx) })
}

func (c *Catalog) run(ctx context.Context) {
	changes := c.view.Registry().Subscribe()
	c.view.Start(ctx)

	go func() {
		defer close(c.done)
		defer c.view.Registry().Unsubscribe(changes)

		c.sync(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				c.sync(ctx)
			}
		}
	}()
}

// Wait blocks until every load has finished and been mirrored.
func (c *Catalog) Wait() {
	c.view.Wait()
	c.sync(context.Background())
}

func (c *Catalog) sync(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.view.Registry().Snapshot()
	for key, doc := range snap {
		if c.synced[key] == doc {
			continue
		}
		c.index.Replace(key, doc)
		if c.table != nil {
			if err := c.table.Replace(ctx, string(key), doc); err != nil {
				c.log.WithField("layer", key).WithError(err).Error("feature table sync failed")
				continue
			}
		}
		c.synced[key] = doc
		c.log.WithFields(logrus.Fields{"layer": key, "features": doc.Len()}).Debug("layer indexed")
	}
}

// Get returns the loaded document for key, or false while it is absent.
func (c *Catalog) Get(key layer.Key) (*geodoc.Document, bool) {
	doc := c.view.Registry().Get(key)
	return doc, doc != nil
}

// List returns the status of every layer in control order.
func (c *Catalog) List() []LayerStatus {
	snap := c.view.Registry().Snapshot()
	failures := c.view.Failures()
	legend := overlay.Legend()

	out := make([]LayerStatus, 0, len(legend))
	for i, cfg := range overlay.Configs() {
		st := LayerStatus{
			Key:    cfg.Key,
			Name:   cfg.Name,
			Source: c.sources[cfg.Key],
			Legend: LegendItem{Symbol: legend[i].Symbol, Label: legend[i].Label, Color: legend[i].Color},
		}
		if doc := snap.Get(cfg.Key); doc != nil {
			st.Loaded = true
			st.Features = doc.Len()
			if b, ok := doc.Bound(); ok {
				st.Bound = boundSlice(b)
			}
		}
		if err := failures[cfg.Key]; err != nil {
			st.Error = err.Error()
		}
		out = append(out, st)
	}
	return out
}

// Near returns the features within radius degrees of p.
func (c *Catalog) Near(p orb.Point, radius float64) []FeatureHit {
	hits := c.index.Near(p, radius)
	out := make([]FeatureHit, 0, len(hits))
	for _, h := range hits {
		out = append(out, FeatureHit{
			Layer:      h.Layer,
			Index:      h.Index,
			Kind:       h.Feature.Geometry.GeoJSONType(),
			Properties: h.Feature.Properties,
			Bound:      boundSlice(h.Bound),
		})
	}
	return out
}

// Close stops the catalog's loads and waits for mirroring to stop.
func (c *Catalog) Close() {
	c.start.Do(func() { close(c.done) })
	c.view.Close()
	<-c.done
}

func boundSlice(b orb.Bound) []float64 {
	return []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]}
}
