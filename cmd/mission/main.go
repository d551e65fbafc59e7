package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-mission/internal/mapview"
	"github.com/joeblew999/plat-mission/internal/server"
)

// Options defines all CLI flags and env vars for the mission server.
// Flags: --host, --port, --data-dir, --web-dir, --db-dir, --source-url, --log-level
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, SERVICE_WEB_DIR,
// SERVICE_DB_DIR, SERVICE_SOURCE_URL, SERVICE_LOG_LEVEL
type Options struct {
	Host      string `doc:"Host to bind to" default:"0.0.0.0"`
	Port      int    `doc:"Port to listen on" short:"p" default:"8086"`
	DataDir   string `doc:"Directory holding the layer GeoJSON files" default:"data"`
	WebDir    string `doc:"Optional web/ directory with static files and template overrides"`
	DBDir     string `doc:"Directory for the DuckDB feature table (empty: in memory)" default:".data"`
	SourceURL string `doc:"Base URL to fetch layers from instead of the data directory"`
	LogLevel  string `doc:"Log level: debug, info, warn or error" default:"info"`
}

func newLogger(opts *Options) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(opts.LogLevel); err == nil {
		log.SetLevel(level)
	}
	return log
}

func newServer(opts *Options, log logrus.FieldLogger) *server.Server {
	return server.New(server.Config{
		Host:      opts.Host,
		Port:      fmt.Sprintf("%d", opts.Port),
		DataDir:   opts.DataDir,
		WebDir:    opts.WebDir,
		DBDir:     opts.DBDir,
		SourceURL: opts.SourceURL,
		Log:       log,
	})
}

func main() {
	_ = godotenv.Load(".env")

	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		hooks.OnStart(func() {
			log := newLogger(opts)
			srv := newServer(opts, log)
			defer srv.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("%s\n", mapview.Title)
			fmt.Printf("  Server:  %s\n", baseURL)
			fmt.Printf("  Data:    %s\n", opts.DataDir)
			fmt.Println()
			fmt.Printf("  Viewer:  %s/viewer\n", baseURL)
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Println()

			srv.Start(ctx)
			if err := srv.ListenAndServe(ctx); err != nil {
				log.WithError(err).Fatal("server error")
			}
			log.Info("server stopped")
		})
	})

	cli.Root().Use = "mission"
	cli.Root().Short = "Mission visualizer for park boundary, poles and mission graph layers"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			log := newLogger(opts)
			log.SetLevel(logrus.ErrorLevel)
			opts.DBDir = ""
			srv := newServer(opts, log)
			defer srv.Close()
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			var err error
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// render subcommand: compose the map headlessly and print the result
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Load every layer and print the composed map as YAML",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			log := newLogger(opts)
			out, err := render(cmd.Context(), opts, log)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error rendering map: %v\n", err)
				os.Exit(1)
			}
			fmt.Print(string(out))
		}),
	}
	cli.Root().AddCommand(renderCmd)

	cli.Run()
}
