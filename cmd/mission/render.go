package main

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-mission/internal/layer"
	"github.com/joeblew999/plat-mission/internal/mapview"
	"github.com/joeblew999/plat-mission/internal/overlay"
)

type renderedMap struct {
	Title    string                `yaml:"title"`
	Base     mapview.TileSource    `yaml:"base"`
	Legend   []overlay.LegendEntry `yaml:"legend"`
	Fit      []float64             `yaml:"fit,omitempty"`
	Overlays []renderedOverlay     `yaml:"overlays"`
	Failures map[string]string     `yaml:"failures,omitempty"`
}

type renderedOverlay struct {
	Key     layer.Key `yaml:"key"`
	Name    string    `yaml:"name"`
	Checked bool      `yaml:"checked"`
	Shapes  int       `yaml:"shapes"`
	Popups  []string  `yaml:"popups"`
}

// render loads every layer into a headless view and describes what a browser
// would show once all loads have settled.
func render(ctx context.Context, opts *Options, log logrus.FieldLogger) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	vopts := mapview.Options{
		Fetcher: layer.DirFetcher{Root: opts.DataDir},
		Sources: layer.Sources(""),
		Log:     log,
	}
	if opts.SourceURL != "" {
		vopts.Fetcher = layer.HTTPFetcher{}
		vopts.Sources = layer.Sources(opts.SourceURL)
	}

	v := mapview.New(vopts)
	defer v.Close()
	v.Start(ctx)
	v.Wait()

	failures := v.Failures()
	if len(failures) == len(layer.Keys()) {
		return nil, errors.New("no layer could be loaded")
	}

	rec := mapview.NewRecorder()
	v.RenderOnce(rec)

	out := renderedMap{
		Title:  mapview.Title,
		Base:   rec.Base(),
		Legend: rec.Legend(),
	}
	if fits := rec.Fits(); len(fits) > 0 {
		b := fits[len(fits)-1]
		out.Fit = []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]}
	}
	for _, o := range rec.Overlays() {
		ro := renderedOverlay{Key: o.Key, Name: o.Name, Checked: o.Checked, Shapes: len(o.Shapes)}
		for _, s := range o.Shapes {
			ro.Popups = append(ro.Popups, s.Popup)
		}
		out.Overlays = append(out.Overlays, ro)
	}
	if len(failures) > 0 {
		out.Failures = make(map[string]string, len(failures))
		for k, err := range failures {
			out.Failures[string(k)] = err.Error()
		}
	}

	return yaml.Marshal(out)
}
