package exporter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const shutdownTimeout = 5 * time.Second

const homePage = `<html>
<head><title>AWS ECS Exporter</title></head>
<body>
    AWS ECS Exporter
    <ul>
        <li><a href="/status">Exporter status</a></li>
        <li><a href="/metrics">Metrics</a></li>
    </ul>
</body>
</html>
`

const statusPage = `<html><head><title>AWS ECS Exporter</title></head><body>Ok</body></html>`

// Config holds the serving options for a Server.
type Config struct {
	// Listen is the host:port to bind.
	Listen string

	// CertFile and KeyFile enable TLS serving when both are set.
	CertFile string
	KeyFile  string
}

// Server is the HTTP front of the exporter.
type Server struct {
	cfg     Config
	scraper Scraper
	process prometheus.Gatherer
	// requests counts scrape invocations by outcome. It lives on the
	// process-wide registry: registered once at construction, read on
	// every scrape, never reset.
	requests *prometheus.CounterVec
	mux      *http.ServeMux
}

// New creates a Server wired to the process-wide default registry.
func New(cfg Config, scraper Scraper) *Server {
	return newServer(cfg, scraper, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// newServer lets tests substitute the process registry.
func newServer(cfg Config, scraper Scraper, reg prometheus.Registerer, process prometheus.Gatherer) *Server {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests",
		Help: "Number of HTTP requests received by the exporter.",
	}, []string{"status"})
	reg.MustRegister(requests)

	s := &Server{
		cfg:      cfg,
		scraper:  scraper,
		process:  process,
		requests: requests,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("/", s.home)
	s.mux.HandleFunc("/status", s.status)
	s.mux.HandleFunc("/metrics", s.metrics)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Listen, Handler: s}

	errc := make(chan error, 1)
	go func() {
		var err error
		if s.cfg.CertFile != "" {
			err = srv.ListenAndServeTLS(s.cfg.CertFile, s.cfg.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	slog.Info("exporter: listening", "addr", s.cfg.Listen, "tls", s.cfg.CertFile != "")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// home serves GET / — links to the other endpoints.
func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	// "/" is a subtree pattern; anything not routed elsewhere lands here.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(homePage))
}

// status serves GET /status — a fixed liveness payload.
func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(statusPage))
}

// metrics serves GET /metrics — one fresh scrape merged with the
// process-wide metrics. Always answers 200; a failed scrape degrades to
// process metrics only.
func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	scraped, err := s.scraper.Scrape(r.Context())
	status := "success"
	if err != nil {
		slog.Warn("exporter: scrape failed", "err", err)
		status = "error"
		scraped = prometheus.NewRegistry()
	}
	s.requests.WithLabelValues(status).Inc()

	families, err := prometheus.Gatherers{s.process, scraped}.Gather()
	if err != nil {
		// Gather reports inconsistencies but still returns everything it
		// could collect; serve that.
		slog.Warn("exporter: gather reported errors", "err", err)
	}

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			slog.Warn("exporter: encode metric family", "family", mf.GetName(), "err", err)
			return
		}
	}
}
