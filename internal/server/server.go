package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"threatscope/internal/config"
	"threatscope/internal/threat"
)

const shutdownTimeout = 10 * time.Second

// Server exposes the analysis service over HTTP and gRPC.
type Server struct {
	svc     *threat.Service
	store   *threat.Store
	cfg     *config.Config
	router  *mux.Router
	grpcSrv *grpc.Server
	log     zerolog.Logger
}

func New(svc *threat.Service, cfg *config.Config, log zerolog.Logger) *Server {
	s := &Server{
		svc:    svc,
		store:  svc.Store(),
		cfg:    cfg,
		router: mux.NewRouter(),
		log:    log,
	}
	s.routes()
	s.grpcSrv = grpc.NewServer(grpc.UnaryInterceptor(s.logUnary))
	RegisterThreatServiceServer(s.grpcSrv, &threatService{srv: s})
	return s
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := s.router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	v1.HandleFunc("/threats", s.handleThreats).Methods(http.MethodGet)
	v1.HandleFunc("/threats/{id}", s.handleThreat).Methods(http.MethodGet)
	v1.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	v1.HandleFunc("/state/error", s.handleClearError).Methods(http.MethodDelete)
	v1.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	v1.HandleFunc("/lookup/{ip}/host", s.handleLookupHost).Methods(http.MethodGet)
	v1.HandleFunc("/lookup/{ip}/vulns", s.handleLookupVulnReport).Methods(http.MethodGet)
	v1.HandleFunc("/lookup/{ip}/vulns/summary", s.handleLookupVulnSummary).Methods(http.MethodGet)
}

func (s *Server) Router() http.Handler { return withCORS(s.router) }

func (s *Server) metricsRouter() http.Handler {
	m := http.NewServeMux()
	m.Handle("/metrics", promhttp.Handler())
	return m
}

// Serve runs the HTTP API, the metrics listener and, when configured, the
// gRPC listener until ctx is cancelled or one of them fails.
func (s *Server) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	servers := []*http.Server{{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if s.cfg.MetricsAddr != "" {
		servers = append(servers, &http.Server{
			Addr:              s.cfg.MetricsAddr,
			Handler:           s.metricsRouter(),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	for _, hs := range servers {
		hs := hs
		g.Go(func() error {
			s.log.Info().Str("addr", hs.Addr).Msg("listening")
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrapf(err, "serve %s", hs.Addr)
			}
			return nil
		})
	}

	if s.cfg.GRPCAddr != "" {
		g.Go(func() error { return s.StartGRPC(s.cfg.GRPCAddr) })
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, hs := range servers {
			if err := hs.Shutdown(shutdownCtx); err != nil {
				s.log.Error().Err(err).Str("addr", hs.Addr).Msg("shutdown failed")
			}
		}
		s.grpcSrv.GracefulStop()
		return nil
	})

	return g.Wait()
}

// StartGRPC serves the gRPC API on addr until the server is stopped.
func (s *Server) StartGRPC(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", addr)
	}
	s.log.Info().Str("addr", addr).Msg("grpc listening")
	if err := s.grpcSrv.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
