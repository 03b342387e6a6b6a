package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Logger interface {
	Error(format string, v ...interface{})
	Info(format string, v ...interface{})
}

// Server exposes the registry on /metrics. It satisfies service.Service.
type Server struct {
	srv *http.Server
	log Logger
}

func NewServer(addr string, m *Metrics, log Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(m))

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

func Handler(m *Metrics) http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (s *Server) Init() error {
	return nil
}

func (s *Server) Run(ctx context.Context) {
	s.log.Info("metrics listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("metrics server stopped: %v", err)
	}
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.Error("failed to stop metrics server: %v", err)
	}
}
