package layer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrStatus is returned by HTTPFetcher for non-2xx responses.
var ErrStatus = errors.New("unexpected HTTP status")

// Fetcher retrieves a geometry document by URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// HTTPFetcher issues a GET per fetch.
type HTTPFetcher struct {
	Client *http.Client // nil uses http.DefaultClient
}

// Fetch implements Fetcher.
func (f HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// DirFetcher serves fetches from files in Root, keyed by the base name of the
// URL path. "/data/poles.geojson" reads Root/poles.geojson.
type DirFetcher struct {
	Root string
}

// Fetch implements Fetcher.
func (f DirFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." || strings.Contains(name, "..") {
		return nil, fmt.Errorf("invalid source path %q", rawURL)
	}
	return os.ReadFile(filepath.Join(f.Root, name))
}
