package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jaxxstorm/netdiag/internal/config"
	"github.com/jaxxstorm/netdiag/internal/model"
	"github.com/jaxxstorm/netdiag/internal/namespace"
	"github.com/jaxxstorm/netdiag/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Diagnostics interface {
	BuildReport(ctx context.Context, serviceName, namespace string, requests []model.ProbeRequest) (model.DiagnosticReport, error)
	RunOne(ctx context.Context, req model.ProbeRequest) (model.ProbeResult, error)
}

type Options struct {
	Config      config.Config
	Diagnostics Diagnostics
	Resolver    *namespace.Resolver
	Registry    *prometheus.Registry
	Environment map[string]string
	Items       store.Repository[Item]
	Users       store.Repository[User]
	Host        HostInfo
	Logger      *zap.Logger
}

type Server struct {
	cfg         config.Config
	diagnostics Diagnostics
	resolver    *namespace.Resolver
	registry    *prometheus.Registry
	env         map[string]string
	items       store.Repository[Item]
	users       store.Repository[User]
	host        HostInfo
	logger      *zap.Logger
	started     time.Time
	router      *gin.Engine
}

func New(opts Options) *Server {
	cfg := opts.Config.WithDefaults()
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Resolver == nil {
		opts.Resolver = namespace.New(cfg.Identity, namespace.Options{ClusterDomain: cfg.ClusterDomain, Port: cfg.TargetPort})
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Environment == nil {
		opts.Environment = map[string]string{}
	}
	if opts.Items == nil {
		opts.Items = store.NewMemory(seedItems(time.Now().UTC())...)
	}
	if opts.Users == nil {
		opts.Users = store.NewMemory(seedUsers(time.Now().UTC())...)
	}
	if opts.Host.Hostname == "" {
		opts.Host = CurrentHost()
	}

	s := &Server{
		cfg:         cfg,
		diagnostics: opts.Diagnostics,
		resolver:    opts.Resolver,
		registry:    opts.Registry,
		env:         opts.Environment,
		items:       opts.Items,
		users:       opts.Users,
		host:        opts.Host,
		logger:      opts.Logger,
		started:     time.Now(),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + strconv.Itoa(s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logger.Info(s.cfg.Identity.Name+" service listening on port "+strconv.Itoa(s.cfg.Port),
		zap.String("role", string(s.cfg.Role)),
		zap.String("type", s.cfg.Role.Type()),
		zap.String("RACK", s.cfg.Identity.Rack),
		zap.String("APP", s.cfg.Identity.App),
		zap.String("SERVICE", s.cfg.Identity.Name),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down", zap.String("service", s.cfg.Identity.Name))
	return httpServer.Shutdown(shutdownCtx)
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(s.logger), recovery(s.logger))
	SetupRoutes(router, s)
	return router
}
