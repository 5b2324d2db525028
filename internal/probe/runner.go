package probe

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jaxxstorm/netdiag/internal/model"
	"github.com/miekg/dns"
	"go.uber.org/zap"
)

const DefaultTimeout = 5 * time.Second

type DNSMode string

const (
	DNSModeTool   DNSMode = "tool"
	DNSModeNative DNSMode = "native"
)

type Request = model.ProbeRequest

type AddressResolver interface {
	Host(name string) string
	Resolve(name string) string
}

type DNSLookup interface {
	Lookup(ctx context.Context, conf *dns.ClientConfig, name string) ([]string, error)
}

type Observer interface {
	ObserveProbe(kind model.ProbeKind, outcome model.Outcome, d time.Duration)
}

type Options struct {
	Timeout    time.Duration
	HTTPClient *http.Client
	Executor   Executor
	DNSMode    DNSMode
	DNS        DNSLookup
	ResolvConf func() (*dns.ClientConfig, error)
	Observer   Observer
	Logger     *zap.Logger
}

type Runner struct {
	resolver AddressResolver
	opts     Options
}

func NewRunner(resolver AddressResolver, opts Options) *Runner {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Executor == nil {
		opts.Executor = NewOSExecutor()
	}
	if opts.DNSMode == "" {
		opts.DNSMode = DNSModeTool
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Runner{resolver: resolver, opts: opts}
}

func (r *Runner) Validate(req Request) error {
	switch req.Kind {
	case model.ProbeHTTP:
		_, err := r.httpURL(req)
		return err
	case model.ProbeDNS:
		return ValidateHost(req.Target)
	case model.ProbeCommand:
		_, err := r.commandArgv(req)
		return err
	default:
		return ValidationError("unsupported probe kind %q", req.Kind)
	}
}

func (r *Runner) Run(ctx context.Context, req Request) model.ProbeResult {
	start := time.Now()
	result := model.ProbeResult{
		Kind:      req.Kind,
		Target:    req.Target,
		Argument:  req.Argument,
		Timestamp: start.UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	var (
		payload any
		address string
		err     error
	)
	switch req.Kind {
	case model.ProbeHTTP:
		address, payload, err = r.runHTTP(ctx, req)
	case model.ProbeDNS:
		address, payload, err = r.runDNS(ctx, req)
	case model.ProbeCommand:
		address, payload, err = r.runCommand(ctx, req)
	default:
		err = ValidationError("unsupported probe kind %q", req.Kind)
	}

	elapsed := time.Since(start)
	result.Address = address
	result.Duration = elapsed.String()
	if err != nil {
		result.Outcome = model.OutcomeFailure
		result.Error = errorText(err)
		result.ErrorKind = string(KindOf(err))
	} else {
		result.Outcome = model.OutcomeSuccess
		result.Payload = payload
	}

	if r.opts.Observer != nil {
		r.opts.Observer.ObserveProbe(req.Kind, result.Outcome, elapsed)
	}
	r.opts.Logger.Debug("probe finished",
		zap.String("kind", string(req.Kind)),
		zap.String("target", req.Target),
		zap.String("argument", req.Argument),
		zap.String("outcome", string(result.Outcome)),
		zap.Duration("duration", elapsed),
		zap.String("error", result.Error),
	)
	return result
}

func errorText(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return string(KindOf(err)) + " error"
	}
	return msg
}

func splitLines(out []byte) []string {
	text := strings.TrimRight(string(out), "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}
