package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jaxxstorm/netdiag/internal/analyze"
	"github.com/jaxxstorm/netdiag/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Prober interface {
	Validate(req model.ProbeRequest) error
	Run(ctx context.Context, req model.ProbeRequest) model.ProbeResult
}

type ReportObserver interface {
	ObserveReport(report model.DiagnosticReport)
}

type Config struct {
	Parallelism int
	Logger      *zap.Logger
	Observer    ReportObserver
}

type Aggregator struct {
	prober Prober
	config Config
}

func New(prober Prober, cfg Config) *Aggregator {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Aggregator{prober: prober, config: cfg}
}

// BuildReport fails without running anything if any request is malformed.
func (a *Aggregator) BuildReport(ctx context.Context, serviceName, namespace string, requests []model.ProbeRequest) (model.DiagnosticReport, error) {
	if err := a.validate(requests); err != nil {
		return model.DiagnosticReport{}, err
	}

	report := model.DiagnosticReport{
		ID:          uuid.NewString(),
		ServiceName: serviceName,
		Namespace:   namespace,
		Timestamp:   time.Now().UTC(),
		Results:     a.runAll(ctx, requests),
	}
	report.Summary = analyze.Summarize(report.Results)

	if a.config.Observer != nil {
		a.config.Observer.ObserveReport(report)
	}
	a.config.Logger.Info("diagnostic report built",
		zap.String("id", report.ID),
		zap.String("service", serviceName),
		zap.String("namespace", namespace),
		zap.Int("probes", report.Summary.Total),
		zap.Int("failed", report.Summary.Failed),
		zap.String("classification", report.Summary.Classification),
	)
	return report, nil
}

func (a *Aggregator) RunOne(ctx context.Context, req model.ProbeRequest) (model.ProbeResult, error) {
	if err := a.validate([]model.ProbeRequest{req}); err != nil {
		return model.ProbeResult{}, err
	}
	return a.prober.Run(ctx, req), nil
}

func (a *Aggregator) validate(requests []model.ProbeRequest) error {
	for i, req := range requests {
		if err := a.prober.Validate(req); err != nil {
			return fmt.Errorf("probe %d (%s %q): %w", i, req.Kind, req.Target, err)
		}
	}
	return nil
}

func (a *Aggregator) runAll(ctx context.Context, requests []model.ProbeRequest) []model.ProbeResult {
	results := make([]model.ProbeResult, len(requests))

	// Probe failures are values, not errors, so the group never cancels.
	var g errgroup.Group
	g.SetLimit(a.config.Parallelism)
	for i, req := range requests {
		g.Go(func() error {
			results[i] = a.prober.Run(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
