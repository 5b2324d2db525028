package probe

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jaxxstorm/netdiag/internal/model"
	"github.com/miekg/dns"
)

type staticResolver struct {
	urls map[string]string
}

func (s staticResolver) Host(name string) string {
	return name + ".rack1-myapp.svc.cluster.local"
}

func (s staticResolver) Resolve(name string) string {
	if u, ok := s.urls[name]; ok {
		return u
	}
	return "http://" + s.Host(name) + ":3000"
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []model.Outcome
}

func (o *recordingObserver) ObserveProbe(kind model.ProbeKind, outcome model.Outcome, d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func assertFailure(t *testing.T, result model.ProbeResult, kind ErrorKind) {
	t.Helper()
	if result.Outcome != model.OutcomeFailure {
		t.Fatalf("expected failure, got %s (payload %v)", result.Outcome, result.Payload)
	}
	if result.Error == "" {
		t.Fatalf("expected error message")
	}
	if result.Payload != nil {
		t.Fatalf("failure must not carry a payload: %v", result.Payload)
	}
	if result.ErrorKind != string(kind) {
		t.Fatalf("expected error kind %s, got %s (%s)", kind, result.ErrorKind, result.Error)
	}
}

func TestHTTPProbeDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"service":"database","database":{"status":"online"}}`))
	}))
	defer srv.Close()

	runner := NewRunner(staticResolver{urls: map[string]string{"database": srv.URL}}, Options{Timeout: time.Second})
	result := runner.Run(context.Background(), Request{Kind: model.ProbeHTTP, Target: "database", Argument: "/status"})
	if !result.Succeeded() {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if result.Address != srv.URL+"/status" {
		t.Fatalf("unexpected address: %s", result.Address)
	}
	if result.Error != "" || result.ErrorKind != "" {
		t.Fatalf("success must not carry an error: %#v", result)
	}

	raw, ok := result.Payload.(json.RawMessage)
	if !ok {
		t.Fatalf("expected raw json payload, got %T", result.Payload)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if body["service"] != "database" {
		t.Fatalf("unexpected payload: %v", body)
	}
}

func TestHTTPProbeAcceptsCallerURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	runner := NewRunner(nil, Options{Timeout: time.Second})
	result := runner.Run(context.Background(), Request{Kind: model.ProbeHTTP, Target: srv.URL, Argument: "/health"})
	if !result.Succeeded() {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if result.Address != srv.URL+"/health" {
		t.Fatalf("unexpected address: %s", result.Address)
	}
}

func TestHTTPProbeNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"down"}`))
	}))
	defer srv.Close()

	runner := NewRunner(nil, Options{Timeout: time.Second})
	result := runner.Run(context.Background(), Request{Kind: model.ProbeHTTP, Target: srv.URL})
	assertFailure(t, result, ErrTransport)
	if !strings.Contains(result.Error, "503") {
		t.Fatalf("expected status in error, got %s", result.Error)
	}
}

func TestHTTPProbeDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	runner := NewRunner(nil, Options{Timeout: time.Second})
	result := runner.Run(context.Background(), Request{Kind: model.ProbeHTTP, Target: srv.URL})
	assertFailure(t, result, ErrDecode)
}

func TestHTTPProbeRejectsTrailingGarbage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}<html>oops</html>`))
	}))
	defer srv.Close()

	runner := NewRunner(nil, Options{Timeout: time.Second})
	result := runner.Run(context.Background(), Request{Kind: model.ProbeHTTP, Target: srv.URL})
	assertFailure(t, result, ErrDecode)
}

func TestHTTPProbeAcceptsTrailingWhitespace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{\"ok\":true}\n"))
	}))
	defer srv.Close()

	runner := NewRunner(nil, Options{Timeout: time.Second})
	result := runner.Run(context.Background(), Request{Kind: model.ProbeHTTP, Target: srv.URL})
	if !result.Succeeded() {
		t.Fatalf("expected success, got %s", result.Error)
	}
}

func TestHTTPProbeConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	runner := NewRunner(nil, Options{Timeout: time.Second})
	result := runner.Run(context.Background(), Request{Kind: model.ProbeHTTP, Target: "http://" + addr})
	assertFailure(t, result, ErrTransport)
	if !strings.Contains(result.Error, "connection refused") {
		t.Fatalf("expected connection refused, got %s", result.Error)
	}
}

func TestHTTPProbeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	runner := NewRunner(nil, Options{Timeout: 50 * time.Millisecond})
	start := time.Now()
	result := runner.Run(context.Background(), Request{Kind: model.ProbeHTTP, Target: srv.URL})
	assertFailure(t, result, ErrTransport)
	if !strings.Contains(result.Error, "deadline exceeded") {
		t.Fatalf("expected deadline error, got %s", result.Error)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("timeout was not enforced")
	}
}

func TestDNSProbeSplitsToolOutput(t *testing.T) {
	exec := &MockExecutor{Responder: func(name string, args []string) ([]byte, error) {
		return []byte("Server:\t\t10.96.0.10\nAddress:\t10.96.0.10#53\n\nName:\tdatabase.rack1-myapp.svc.cluster.local\nAddress: 10.1.2.3\n"), nil
	}}
	observer := &recordingObserver{}
	runner := NewRunner(staticResolver{}, Options{Executor: exec, Observer: observer})

	result := runner.Run(context.Background(), Request{Kind: model.ProbeDNS, Target: "database.rack1-myapp.svc.cluster.local"})
	if !result.Succeeded() {
		t.Fatalf("expected success, got %s", result.Error)
	}
	lines, ok := result.Payload.([]string)
	if !ok || len(lines) != 5 {
		t.Fatalf("unexpected lines: %#v", result.Payload)
	}
	if lines[4] != "Address: 10.1.2.3" {
		t.Fatalf("unexpected last line: %q", lines[4])
	}

	calls := exec.Calls()
	if len(calls) != 1 || len(calls[0]) != 2 || calls[0][0] != "nslookup" || calls[0][1] != "database.rack1-myapp.svc.cluster.local" {
		t.Fatalf("unexpected invocation: %#v", calls)
	}
	if len(observer.outcomes) != 1 || observer.outcomes[0] != model.OutcomeSuccess {
		t.Fatalf("observer not notified: %#v", observer.outcomes)
	}
}

func TestDNSProbeToolFailureHasNoLines(t *testing.T) {
	exec := &MockExecutor{Responder: func(name string, args []string) ([]byte, error) {
		return []byte("** server can't find nope.example: NXDOMAIN\n"), errors.New("exit status 1")
	}}
	runner := NewRunner(staticResolver{}, Options{Executor: exec})

	result := runner.Run(context.Background(), Request{Kind: model.ProbeDNS, Target: "nope.example"})
	assertFailure(t, result, ErrTool)
	if !strings.Contains(result.Error, "NXDOMAIN") || !strings.Contains(result.Error, "exit status 1") {
		t.Fatalf("unexpected error: %s", result.Error)
	}
}

func TestDNSProbeMissingTool(t *testing.T) {
	exec := &MockExecutor{Missing: map[string]bool{"nslookup": true}}
	runner := NewRunner(staticResolver{}, Options{Executor: exec})

	result := runner.Run(context.Background(), Request{Kind: model.ProbeDNS, Target: "api"})
	assertFailure(t, result, ErrTool)
	if len(exec.Calls()) != 0 {
		t.Fatalf("missing tool must not be run")
	}
}

type stubLookup struct {
	lines []string
	err   error
}

func (s stubLookup) Lookup(ctx context.Context, conf *dns.ClientConfig, name string) ([]string, error) {
	return s.lines, s.err
}

func TestDNSProbeNativeMode(t *testing.T) {
	exec := &MockExecutor{}
	runner := NewRunner(staticResolver{}, Options{
		Executor:   exec,
		DNSMode:    DNSModeNative,
		DNS:        stubLookup{lines: []string{"Name:\tapi", "Address: 10.0.0.7"}},
		ResolvConf: func() (*dns.ClientConfig, error) { return &dns.ClientConfig{Servers: []string{"10.96.0.10"}, Ndots: 1}, nil },
	})

	result := runner.Run(context.Background(), Request{Kind: model.ProbeDNS, Target: "api"})
	if !result.Succeeded() {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if len(exec.Calls()) != 0 {
		t.Fatalf("native mode must not run external tools")
	}

	runner = NewRunner(staticResolver{}, Options{
		DNSMode:    DNSModeNative,
		DNS:        stubLookup{err: errors.New("** server can't find api: NXDOMAIN")},
		ResolvConf: func() (*dns.ClientConfig, error) { return &dns.ClientConfig{Servers: []string{"10.96.0.10"}, Ndots: 1}, nil },
	})
	assertFailure(t, runner.Run(context.Background(), Request{Kind: model.ProbeDNS, Target: "api"}), ErrTool)
}

func TestCommandProbeFallsBackToAlternative(t *testing.T) {
	exec := &MockExecutor{
		Missing: map[string]bool{"ifconfig": true},
		Responder: func(name string, args []string) ([]byte, error) {
			return []byte("1: lo: <LOOPBACK,UP>\n2: eth0: <BROADCAST,UP>\n"), nil
		},
	}
	runner := NewRunner(staticResolver{}, Options{Executor: exec})

	result := runner.Run(context.Background(), Request{Kind: model.ProbeCommand, Argument: ToolInterfaces})
	if !result.Succeeded() {
		t.Fatalf("expected success, got %s", result.Error)
	}
	calls := exec.Calls()
	if len(calls) != 1 || strings.Join(calls[0], " ") != "ip addr show" {
		t.Fatalf("unexpected invocations: %#v", calls)
	}
}

func TestCommandProbeAllAlternativesFail(t *testing.T) {
	exec := &MockExecutor{Responder: func(name string, args []string) ([]byte, error) {
		return nil, errors.New("exit status 2")
	}}
	runner := NewRunner(staticResolver{}, Options{Executor: exec})

	result := runner.Run(context.Background(), Request{Kind: model.ProbeCommand, Argument: ToolPorts})
	assertFailure(t, result, ErrTool)
	if !strings.Contains(result.Error, "netstat -tuln") || !strings.Contains(result.Error, "ss -tuln") {
		t.Fatalf("expected both attempts in error, got %s", result.Error)
	}
}

func TestCommandProbeDeadlineIsTransportFailure(t *testing.T) {
	exec := &MockExecutor{Responder: func(name string, args []string) ([]byte, error) {
		time.Sleep(100 * time.Millisecond)
		return nil, errors.New("signal: killed")
	}}
	runner := NewRunner(staticResolver{}, Options{Executor: exec, Timeout: 20 * time.Millisecond})

	result := runner.Run(context.Background(), Request{Kind: model.ProbeCommand, Target: "api.rack1-myapp.svc.cluster.local", Argument: ToolPing})
	assertFailure(t, result, ErrTransport)
	if !strings.Contains(result.Error, "deadline exceeded") {
		t.Fatalf("expected deadline in error, got %s", result.Error)
	}
}

func TestCommandProbeCurlUsesResolvedURL(t *testing.T) {
	exec := &MockExecutor{Responder: func(name string, args []string) ([]byte, error) {
		return []byte("{\"status\":\"healthy\"}\nStatus: 200\nTime: 0.004s"), nil
	}}
	runner := NewRunner(staticResolver{}, Options{Executor: exec})

	result := runner.Run(context.Background(), Request{Kind: model.ProbeCommand, Target: "api", Argument: ToolCurl})
	if !result.Succeeded() {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if result.Address != "http://api.rack1-myapp.svc.cluster.local:3000" {
		t.Fatalf("unexpected address: %s", result.Address)
	}
	calls := exec.Calls()
	want := []string{"curl", "-s", "-w", curlWriteOut, "http://api.rack1-myapp.svc.cluster.local:3000"}
	if len(calls) != 1 || strings.Join(calls[0], "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected invocation: %#v", calls)
	}
}

func TestInjectionTargetsAreNeverExecuted(t *testing.T) {
	targets := []string{
		"; rm -rf /",
		"$(whoami)",
		"api;id",
		"`id`",
		"api && cat /etc/passwd",
		"-oProxyCommand=id",
		"api | nc evil 1",
		"api\nid",
	}
	exec := &MockExecutor{Responder: func(name string, args []string) ([]byte, error) {
		return []byte("ran"), nil
	}}
	runner := NewRunner(staticResolver{}, Options{Executor: exec})

	for _, target := range targets {
		requests := []Request{
			{Kind: model.ProbeDNS, Target: target},
			{Kind: model.ProbeCommand, Target: target, Argument: ToolPing},
			{Kind: model.ProbeCommand, Target: target, Argument: ToolCurl},
			{Kind: model.ProbeHTTP, Target: target},
		}
		for _, req := range requests {
			if err := runner.Validate(req); !IsValidation(err) {
				t.Fatalf("expected validation error for %#v, got %v", req, err)
			}
			assertFailure(t, runner.Run(context.Background(), req), ErrValidation)
		}
	}
	if calls := exec.Calls(); len(calls) != 0 {
		t.Fatalf("unsafe targets reached the executor: %#v", calls)
	}
}

func TestValidateRejectsUnknownToolAndKind(t *testing.T) {
	runner := NewRunner(staticResolver{}, Options{Executor: &MockExecutor{}})
	if err := runner.Validate(Request{Kind: model.ProbeCommand, Argument: "rm"}); !IsValidation(err) {
		t.Fatalf("expected validation error for unknown tool, got %v", err)
	}
	if err := runner.Validate(Request{Kind: "SMTP", Target: "api"}); !IsValidation(err) {
		t.Fatalf("expected validation error for unknown kind, got %v", err)
	}
	if err := runner.Validate(Request{Kind: model.ProbeCommand, Argument: ToolPorts, Target: "api"}); !IsValidation(err) {
		t.Fatalf("expected validation error for unexpected target, got %v", err)
	}
	if err := runner.Validate(Request{Kind: model.ProbeHTTP, Target: "api", Argument: "/status?x=$(id)"}); !IsValidation(err) {
		t.Fatalf("expected validation error for unsafe path, got %v", err)
	}
}

func TestValidateHost(t *testing.T) {
	valid := []string{"api", "database.rack1-myapp.svc.cluster.local", "10.0.0.1", "::1", "_http._tcp.api.local", "example.com."}
	for _, host := range valid {
		if err := ValidateHost(host); err != nil {
			t.Fatalf("expected %q to be valid: %v", host, err)
		}
	}
	invalid := []string{"", "-api", "api..local", "api_", strings.Repeat("a", 64) + ".local", "a b"}
	for _, host := range invalid {
		if err := ValidateHost(host); err == nil {
			t.Fatalf("expected %q to be rejected", host)
		}
	}
}
