package dashboard

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pfrederiksen/movewise/internal/format"
	"github.com/pfrederiksen/movewise/internal/logger"
	"golang.org/x/sync/errgroup"
)

const (
	AppTitle    = "MoveWise"
	AppSubtitle = "Everything you need to know before relocating for jobs"

	shutdownTimeout = 5 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"overview", "state", "compare"}

// Config holds the dependencies of a Server.
type Config struct {
	Source Source
	// Boundaries is the raw state boundary GeoJSON. The map is disabled when empty.
	Boundaries []byte
	Addr       string
}

// Server is the dashboard HTTP server.
type Server struct {
	source     Source
	boundaries []byte
	addr       string
	pages      map[string]*template.Template
}

// New parses the page templates and returns a server.
func New(cfg Config) (*Server, error) {
	if cfg.Source == nil {
		return nil, errors.New("dashboard: source is required")
	}

	funcs := template.FuncMap{
		"dollars": format.Dollars,
		"number":  format.Number,
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		pages[name] = t
	}

	return &Server{
		source:     cfg.Source,
		boundaries: cfg.Boundaries,
		addr:       cfg.Addr,
		pages:      pages,
	}, nil
}

// Handler returns the router with every dashboard route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		requestLogger,
	)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/overview", http.StatusFound)
	})
	r.Get("/overview", s.handleOverview)
	r.Get("/state", s.handleState)
	r.Get("/compare", s.handleCompare)
	r.Get("/map.geojson", s.handleMap)

	r.Route("/charts", func(r chi.Router) {
		r.Get("/living/{state}.svg", s.handleLivingChart)
		r.Get("/compare.svg", s.handleCompareChart)
		r.Get("/rent.svg", s.handleRentChart)
		r.Get("/distribution/{attribute}.svg", s.handleDistributionChart)
	})

	r.Get("/healthz", handleHealth)
	r.Get("/debug/metrics", handleMetrics)
	return r
}

// Serve listens on the configured address until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln and shuts down gracefully when ctx is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Dashboard listening", logger.Fields{"addr": "http://" + ln.Addr().String()})

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Debug("Shutting down dashboard", nil)
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		logger.RecordTiming("http_request", duration)
		logger.IncrCounter("http_requests")
		if ww.Status() >= http.StatusInternalServerError {
			logger.IncrCounter("http_errors")
		}
		logger.Debug("HTTP request", logger.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": duration.Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		})
	})
}
