package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
	"github.com/jaxxstorm/netdiag/internal/aggregate"
	"github.com/jaxxstorm/netdiag/internal/config"
	"github.com/jaxxstorm/netdiag/internal/dnsclient"
	"github.com/jaxxstorm/netdiag/internal/metrics"
	"github.com/jaxxstorm/netdiag/internal/namespace"
	"github.com/jaxxstorm/netdiag/internal/output"
	"github.com/jaxxstorm/netdiag/internal/probe"
	"github.com/jaxxstorm/netdiag/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

var Version = "dev"

type CLI struct {
	Serve   ServeCmd   `cmd:"" default:"withargs" help:"Run a role-specific diagnostics service (default)."`
	Probe   ProbeCmd   `cmd:"probe" help:"Run probes once from this pod and print a report."`
	Version VersionCmd `cmd:"version" help:"Print version."`
}

type CommonFlags struct {
	Role          string        `enum:"frontend,api,database" default:"frontend" env:"ROLE" help:"Service role."`
	Service       string        `env:"SERVICE_NAME" help:"Service name. Falls back to SERVICE, then the role."`
	Rack          string        `env:"RACK" help:"Rack the service runs in."`
	App           string        `env:"APP" help:"App the service belongs to."`
	ClusterDomain string        `default:"svc.cluster.local" help:"Cluster DNS suffix for internal names."`
	TargetPort    int           `default:"3000" help:"Port internal services listen on."`
	ProbeTimeout  time.Duration `default:"5s" help:"Time budget per probe."`
	Parallelism   int           `default:"4" help:"Probes run concurrently per report."`
	DNSMode       string        `enum:"tool,native" default:"tool" help:"Resolve with nslookup or with the built-in client."`
	Verbose       bool          `help:"Enable verbose logging."`
	Debug         bool          `help:"Enable debug logging (includes raw DNS messages)."`
}

type ServeCmd struct {
	CommonFlags `embed:""`
	Port        int `default:"3000" env:"PORT" help:"Port to listen on."`
}

type ProbeCmd struct {
	CommonFlags `embed:""`
	Output      string   `enum:"pretty,json" default:"pretty" help:"Output format."`
	Probes      []string `arg:"" name:"probe" help:"Probes as kind:target[:argument], e.g. http:api:/health, dns:database, cmd:ping:api."`
}

type VersionCmd struct{}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("netdiag"),
		kong.Description("Diagnose service-to-service networking inside a rack."),
	)

	selected := ""
	if node := ctx.Selected(); node != nil {
		selected = node.Name
	}

	switch selected {
	case "version":
		fmt.Println(Version)
	case "probe":
		logger, err := newLogger(cli.Probe.Verbose, cli.Probe.Debug)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		runProbe(cli.Probe, logger)
	default:
		logger, err := newLogger(true, cli.Serve.Debug)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		runServe(cli.Serve, logger)
	}
}

type stack struct {
	cfg        config.Config
	resolver   *namespace.Resolver
	aggregator *aggregate.Aggregator
	registry   *prometheus.Registry
}

func buildStack(flags CommonFlags, port int, logger *zap.Logger) stack {
	name := flags.Service
	if name == "" {
		name = os.Getenv("SERVICE")
	}
	cfg := config.Config{
		Role:          config.Role(flags.Role),
		Port:          port,
		Identity:      config.NewIdentity(name, flags.Rack, flags.App),
		ClusterDomain: flags.ClusterDomain,
		TargetPort:    flags.TargetPort,
		ProbeTimeout:  flags.ProbeTimeout,
		Parallelism:   flags.Parallelism,
		DNSMode:       flags.DNSMode,
	}.WithDefaults()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer := metrics.New(registry)

	resolver := namespace.New(cfg.Identity, namespace.Options{
		ClusterDomain: cfg.ClusterDomain,
		Port:          cfg.TargetPort,
	})
	dns := dnsclient.New(dnsclient.Options{
		Mode:    dnsclient.ModeAuto,
		Timeout: cfg.ProbeTimeout,
		Logger:  logger,
	})
	runner := probe.NewRunner(resolver, probe.Options{
		Timeout:    cfg.ProbeTimeout,
		HTTPClient: &http.Client{},
		DNSMode:    probe.DNSMode(cfg.DNSMode),
		DNS:        dns,
		ResolvConf: dnsclient.SystemConfig,
		Observer:   observer,
		Logger:     logger,
	})
	aggregator := aggregate.New(runner, aggregate.Config{
		Parallelism: cfg.Parallelism,
		Logger:      logger,
		Observer:    observer,
	})

	return stack{cfg: cfg, resolver: resolver, aggregator: aggregator, registry: registry}
}

func runServe(cmd ServeCmd, logger *zap.Logger) {
	defer func() { _ = logger.Sync() }()
	if !cmd.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	st := buildStack(cmd.CommonFlags, cmd.Port, logger)
	srv := server.New(server.Options{
		Config:      st.cfg,
		Diagnostics: st.aggregator,
		Resolver:    st.resolver,
		Registry:    st.registry,
		Environment: environment(),
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func runProbe(cmd ProbeCmd, logger *zap.Logger) {
	requests, err := parseProbes(cmd.Probes)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	st := buildStack(cmd.CommonFlags, 0, logger)
	report, err := st.aggregator.BuildReport(context.Background(), st.cfg.Identity.Name, st.resolver.Namespace(), requests)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var rendered string
	if cmd.Output == "json" {
		rendered, err = output.RenderJSON(report)
	} else {
		rendered = output.RenderPretty(report)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(rendered)
	if report.Summary.Classification != "SUCCESS" {
		os.Exit(2)
	}
}

func environment() map[string]string {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

func newLogger(verbose bool, debug bool) (*zap.Logger, error) {
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}
