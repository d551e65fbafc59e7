package mapview

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/joeblew999/plat-mission/internal/layer"
	"github.com/joeblew999/plat-mission/internal/overlay"
)

// Options configures a View.
type Options struct {
	Fetcher layer.Fetcher
	Sources map[layer.Key]string // defaults to layer.Sources("")
	Configs []overlay.Config     // defaults to overlay.Configs()
	Log     logrus.FieldLogger
}

// View is one mission map instance. Its registry lives exactly as long as the
// view: Close drops any load still in flight.
type View struct {
	registry *layer.Registry
	loader   *layer.Loader
	sources  map[layer.Key]string
	configs  []overlay.Config
	log      logrus.FieldLogger

	start  sync.Once
	ctx    context.Context
	cancel context.CancelFunc
	loads  sync.WaitGroup

	mu       sync.Mutex
	failures map[layer.Key]error
}

// New creates a view with every layer absent. No fetch happens until Start.
func New(opts Options) *View {
	if opts.Fetcher == nil {
		opts.Fetcher = layer.HTTPFetcher{}
	}
	if opts.Sources == nil {
		opts.Sources = layer.Sources("")
	}
	if opts.Configs == nil {
		opts.Configs = overlay.Configs()
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}

	reg := layer.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	return &View{
		registry: reg,
		loader:   &layer.Loader{Fetcher: opts.Fetcher, Registry: reg, Log: opts.Log},
		sources:  opts.Sources,
		configs:  opts.Configs,
		log:      opts.Log,
		ctx:      ctx,
		cancel:   cancel,
		failures: make(map[layer.Key]error),
	}
}

// Registry returns the view's layer registry.
func (v *View) Registry() *layer.Registry {
	return v.registry
}

// Start issues one concurrent load per layer. Later calls do nothing. The
// loads stop when ctx or the view ends, whichever is first.
func (v *View) Start(ctx context.Context) {
	v.start.Do(func() {
		loadCtx, cancel := context.WithCancel(v.ctx)
		stop := context.AfterFunc(ctx, cancel)

		for _, key := range layer.Keys() {
			url, ok := v.sources[key]
			if !ok {
				continue
			}
			v.loads.Add(1)
			go func(key layer.Key, url string) {
				defer v.loads.Done()
				if err := v.loader.Load(loadCtx, url, key); err != nil {
					v.fail(key, err)
				}
			}(key, url)
		}

		go func() {
			v.loads.Wait()
			stop()
			cancel()
		}()
	})
}

func (v *View) fail(key layer.Key, err error) {
	if v.registry.Closed() {
		return
	}
	v.mu.Lock()
	v.failures[key] = err
	v.mu.Unlock()
	v.log.WithField("layer", key).WithError(err).Warn("layer failed to load")
}

// Wait blocks until every load issued by Start has finished.
func (v *View) Wait() {
	v.loads.Wait()
}

// Failures returns the load error for each layer that failed.
func (v *View) Failures() map[layer.Key]error {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[layer.Key]error, len(v.failures))
	for k, err := range v.failures {
		out[k] = err
	}
	return out
}

// Run renders onto s until ctx is done or the view is closed. The base map and
// legend are set first, then overlays follow the registry.
func (v *View) Run(ctx context.Context, s Surface) {
	changes := v.registry.Subscribe()
	defer v.registry.Unsubscribe(changes)

	c := v.prepare(s)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			c.Render(v.registry.Snapshot(), s)
		}
	}
}

// RenderOnce draws the current state of the view onto s.
func (v *View) RenderOnce(s Surface) {
	v.prepare(s)
}

func (v *View) prepare(s Surface) *Composer {
	s.SetBase(DefaultTiles())
	s.SetLegend(overlay.Legend())

	c := NewComposer(v.configs)
	c.Render(v.registry.Snapshot(), s)
	return c
}

// Close tears the view down. Loads still in flight are cancelled and any
// result that arrives later is discarded.
func (v *View) Close() {
	v.registry.Close()
	v.cancel()
}
