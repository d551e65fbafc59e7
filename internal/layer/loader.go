package layer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/joeblew999/plat-mission/internal/geodoc"
)

// Loader fetches geometry documents, sanitizes them and publishes them into
// a registry.
type Loader struct {
	Fetcher  Fetcher
	Registry *Registry
	Log      logrus.FieldLogger
}

// Load fetches url and publishes the sanitized document under key. Errors are
// returned to the caller and nothing is published. A document that arrives
// after ctx is done, or after the registry is closed, is dropped.
func (l *Loader) Load(ctx context.Context, url string, key Key) error {
	log := l.logger().WithFields(logrus.Fields{"layer": key, "url": url})

	data, err := l.Fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	doc, err := geodoc.Decode(string(key), data)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	clean := geodoc.Sanitize(doc)

	if ctx.Err() != nil || !l.Registry.Publish(key, clean) {
		log.Debug("layer arrived after teardown, dropped")
		return nil
	}
	log.WithFields(logrus.Fields{
		"features": clean.Len(),
		"dropped":  doc.Len() - clean.Len(),
	}).Info("layer loaded")
	return nil
}

func (l *Loader) logger() logrus.FieldLogger {
	if l.Log == nil {
		return logrus.StandardLogger()
	}
	return l.Log
}
