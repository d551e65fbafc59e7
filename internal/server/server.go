package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/joeblew999/plat-mission/internal/api"
	"github.com/joeblew999/plat-mission/internal/api/viewer"
	"github.com/joeblew999/plat-mission/internal/db"
	"github.com/joeblew999/plat-mission/internal/layer"
	"github.com/joeblew999/plat-mission/internal/mapview"
	"github.com/joeblew999/plat-mission/internal/service"
	"github.com/joeblew999/plat-mission/internal/templates"
)

// Config holds the server configuration.
type Config struct {
	Host    string
	Port    string
	DataDir string // GeoJSON files served under /data
	WebDir  string // Optional web/ directory with static files and template overrides
	DBDir   string // DuckDB directory; empty keeps the feature table in memory

	// SourceURL is where layers are fetched from. Empty means the server's
	// own /data for browsers and DataDir for the server catalog.
	SourceURL string

	Log logrus.FieldLogger
}

// Server is the mission HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	db       *sql.DB
	services *api.Services
	renderer *templates.Renderer
	log      logrus.FieldLogger
}

// New creates a new mission server. Call Start to begin loading layers.
func New(cfg Config) *Server {
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	mux := http.NewServeMux()

	// Create Huma API with humago (pure stdlib) adapter
	humaConfig := huma.DefaultConfig("plat-mission API", "1.0.0")
	humaConfig.Info.Description = "Mission visualizer API: park boundary, poles and mission graph layers with a live map stream."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		renderer: loadRenderer(cfg.WebDir, cfg.Log),
		log:      cfg.Log,
	}

	// Initialize DuckDB connection
	var table *db.FeatureTable
	if conn, err := db.Open(db.Config{DataDir: cfg.DBDir, DBName: "mission"}); err != nil {
		s.log.WithError(err).Warn("duckdb unavailable, SQL endpoints disabled")
	} else if t, err := db.NewFeatureTable(context.Background(), conn); err != nil {
		s.log.WithError(err).Warn("feature table unavailable, SQL endpoints disabled")
		conn.Close()
	} else {
		s.db, table = conn, t
	}

	fetcher, sources := catalogSources(cfg)
	s.services = &api.Services{
		Catalog: service.NewCatalog(service.CatalogOptions{
			Fetcher: fetcher,
			Sources: sources,
			Table:   table,
			Log:     s.log.WithField("component", "catalog"),
		}),
		Source: service.NewSourceService(cfg.DataDir),
	}

	s.routes()
	return s
}

func catalogSources(cfg Config) (layer.Fetcher, map[layer.Key]string) {
	if cfg.SourceURL != "" {
		return layer.HTTPFetcher{}, layer.Sources(cfg.SourceURL)
	}
	return layer.DirFetcher{Root: cfg.DataDir}, layer.Sources("")
}

func loadRenderer(webDir string, log logrus.FieldLogger) *templates.Renderer {
	if webDir != "" {
		dir := filepath.Join(webDir, "templates")
		if _, err := os.Stat(dir); err == nil {
			r, err := templates.New(dir)
			if err == nil {
				log.WithField("dir", dir).Info("loaded templates")
				return r
			}
			log.WithError(err).Warn("template override failed, using built-in templates")
		}
	}
	return templates.Builtin()
}

// Start begins loading the server catalog. It returns immediately.
func (s *Server) Start(ctx context.Context) {
	s.services.Catalog.Start(ctx)
}

// Catalog returns the server's layer catalog.
func (s *Server) Catalog() *service.Catalog {
	return s.services.Catalog
}

// OpenAPI returns the API description.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close closes server resources.
func (s *Server) Close() error {
	s.services.Catalog.Close()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Server) routes() {
	// Register Huma REST API routes (OpenAPI-documented JSON endpoints)
	api.RegisterRoutes(s.humaAPI, s.services)
	api.NewInfoHandler(s.config.DataDir, s.db != nil).RegisterRoutes(s.humaAPI)
	api.NewDBHandler(s.db).RegisterRoutes(s.humaAPI)

	// Map stream for the viewer page
	viewer.NewHandler(s.renderer, nil, s.config.SourceURL, s.log.WithField("component", "viewer")).
		RegisterRoutes(s.humaAPI)

	// Static files
	s.mux.Handle("/data/", http.StripPrefix("/data/", s.handleData(s.config.DataDir)))
	if s.config.WebDir != "" {
		staticDir := filepath.Join(s.config.WebDir, "static")
		s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}

	// Page routes
	s.mux.HandleFunc("/viewer", s.handleViewer)
	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "plat-mission",
		"status":  "running",
		"viewer":  "/viewer",
	})
}

func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	html, err := s.renderer.Render("viewer", map[string]string{
		"Title":  mapview.Title,
		"Stream": viewer.StreamPath,
	})
	if err != nil {
		s.log.WithError(err).Error("render viewer")
		http.Error(w, "viewer unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// handleData serves the layer GeoJSON files with CORS so a viewer hosted
// elsewhere can fetch them.
func (s *Server) handleData(dataDir string) http.Handler {
	files := http.FileServer(http.Dir(dataDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if filepath.Ext(r.URL.Path) == ".geojson" {
			w.Header().Set("Content-Type", "application/geo+json")
		}

		files.ServeHTTP(w, r)
	})
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
// Request contexts derive from ctx, so open map streams end with it.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     s,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
