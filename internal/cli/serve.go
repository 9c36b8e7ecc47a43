package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/buildinfo"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/httputil"
	fgio "github.com/matzehuels/forcegraph/pkg/io"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
	"github.com/matzehuels/forcegraph/pkg/render"
)

const (
	shutdownTimeout = 5 * time.Second
	requestTimeout  = 30 * time.Second
)

// serveCommand creates the serve command for the HTTP frame server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and rendered frames over HTTP",
		Long: `Serve layouts and rendered frames over HTTP.

Endpoints (POST bodies are graph JSON documents):
  GET  /healthz     liveness and version
  POST /layout      layout JSON; query: scatter, radius, seed
  POST /frame.svg   settled frame as SVG
  POST /frame.png   settled frame as PNG
  POST /frame.txt   settled frame as braille text

Every response carries an X-Request-ID header.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, "+config.DefaultServerAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config, noCache bool) error {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := component(loggerFromContext(ctx), "serve")
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newServer(runner, cfg, logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printSuccess("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// server answers layout and frame requests through a shared runner.
type server struct {
	runner  *pipeline.Runner
	cfg     *config.Config
	logger  *log.Logger
	timeout time.Duration
}

func newServer(runner *pipeline.Runner, cfg *config.Config, logger *log.Logger) *server {
	return &server{runner: runner, cfg: cfg, logger: logger, timeout: requestTimeout}
}

// fail writes err as a coded JSON error. A simulation cut off by the
// request deadline is reported as TIMEOUT.
func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if stderrors.Is(err, context.DeadlineExceeded) && errors.GetCode(err) == "" {
		err = errors.Wrap(errors.ErrCodeTimeout, err, "request exceeded %s", s.timeout)
	}
	httputil.WriteError(w, r, err)
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(httputil.RequestID)
	r.Use(httputil.Observe(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/layout", s.handleLayout)
	for _, f := range render.Formats {
		r.Post("/frame"+f.Ext(), s.handleFrame(f))
	}
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	g, opts, err := s.request(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	layout, hit, err := s.runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	httputil.WriteJSON(w, http.StatusOK, layout)
}

func (s *server) handleFrame(format render.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, opts, err := s.request(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		opts.Formats = []string{string(format)}
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()
		res, err := s.runner.Execute(ctx, g, opts)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		setCacheHeader(w, res.CacheInfo.LayoutHit)
		w.Header().Set("Content-Type", format.ContentType())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.Artifacts[string(format)])
	}
}

// request decodes the graph body and the layout query parameters.
func (s *server) request(r *http.Request) (*graph.Store, pipeline.Options, error) {
	body, err := httputil.ReadBody(r)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	g, err := fgio.ReadJSON(bytes.NewReader(body))
	if err != nil {
		return nil, pipeline.Options{}, err
	}

	cfg := *s.cfg
	opts := pipeline.Options{Config: &cfg, Logger: s.logger}
	q := r.URL.Query()
	if v := q.Get("scatter"); v != "" {
		if err := pipeline.ValidateScatter(v); err != nil {
			return nil, opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "scatter")
		}
		opts.Scatter = v
	}
	if v := q.Get("radius"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil || radius <= 0 {
			return nil, opts, errors.New(errors.ErrCodeInvalidInput, "radius must be a positive number, got %q", v)
		}
		opts.Radius = radius
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, opts, errors.New(errors.ErrCodeInvalidInput, "seed must be an unsigned integer, got %q", v)
		}
		cfg.Physics.Seed = seed
	}
	return g, opts, nil
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
}
