// Package missionclient is a small typed client for the mission API.
package missionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Client talks to one mission server.
type Client struct {
	BaseURL string
	HTTP    *http.Client // nil uses http.DefaultClient
}

// New creates a client for baseURL, e.g. "http://localhost:8086".
func New(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Error is a non-2xx response, carrying the problem detail when present.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("mission api: %d %s", e.Status, e.Detail)
}

type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type Info struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	DB       bool     `json:"db"`
	Layers   []string `json:"layers"`
	Features []string `json:"features"`
}

type LayerStatus struct {
	Key      string    `json:"key"`
	Name     string    `json:"name"`
	Loaded   bool      `json:"loaded"`
	Features int       `json:"features"`
	Bound    []float64 `json:"bound"`
	Error    string    `json:"error"`
}

type FeatureHit struct {
	Layer      string         `json:"layer"`
	Index      int            `json:"index"`
	Kind       string         `json:"kind"`
	Properties map[string]any `json:"properties"`
	Bound      []float64      `json:"bound"`
}

type QueryResult struct {
	Columns   []string         `json:"columns"`
	Rows      []map[string]any `json:"rows"`
	Count     int              `json:"count"`
	Truncated bool             `json:"truncated"`
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

func (c *Client) Info(ctx context.Context) (Info, error) {
	var out Info
	err := c.do(ctx, http.MethodGet, "/api/v1/info", nil, &out)
	return out, err
}

func (c *Client) Layers(ctx context.Context) ([]LayerStatus, error) {
	var out []LayerStatus
	err := c.do(ctx, http.MethodGet, "/api/v1/layers", nil, &out)
	return out, err
}

// Layer returns the raw GeoJSON of one loaded layer.
func (c *Client) Layer(ctx context.Context, key string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, "/api/v1/layers/"+url.PathEscape(key), nil, &out)
	return out, err
}

// Near returns the features within radius degrees of lon, lat.
func (c *Client) Near(ctx context.Context, lon, lat, radius float64) ([]FeatureHit, error) {
	q := url.Values{}
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("radius", strconv.FormatFloat(radius, 'f', -1, 64))
	var out []FeatureHit
	err := c.do(ctx, http.MethodGet, "/api/v1/features/near?"+q.Encode(), nil, &out)
	return out, err
}

// Query runs a read-only SQL query over the feature table.
func (c *Client) Query(ctx context.Context, query string) (QueryResult, error) {
	var out QueryResult
	err := c.do(ctx, http.MethodPost, "/api/v1/query", map[string]string{"query": query}, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var problem struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&problem)
		return &Error{Status: resp.StatusCode, Detail: problem.Detail}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
