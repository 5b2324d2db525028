package model

import "time"

type ProbeKind string

const (
	ProbeHTTP    ProbeKind = "HTTP"
	ProbeDNS     ProbeKind = "DNS"
	ProbeCommand ProbeKind = "COMMAND"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

type ProbeRequest struct {
	Kind     ProbeKind `json:"kind"`
	Target   string    `json:"target,omitempty"`
	Argument string    `json:"argument,omitempty"`
}

// ProbeResult carries either Payload (success) or Error (failure), never both.
type ProbeResult struct {
	Kind      ProbeKind `json:"kind"`
	Target    string    `json:"target,omitempty"`
	Argument  string    `json:"argument,omitempty"`
	Address   string    `json:"address,omitempty"`
	Outcome   Outcome   `json:"outcome"`
	Payload   any       `json:"payload,omitempty"`
	Error     string    `json:"error,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	Duration  string    `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
}

func (r ProbeResult) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}

type Summary struct {
	Classification string   `json:"classification"`
	Total          int      `json:"total"`
	Succeeded      int      `json:"succeeded"`
	Failed         int      `json:"failed"`
	Evidence       []int    `json:"evidence"`
	Hints          []string `json:"hints,omitempty"`
}

type DiagnosticReport struct {
	ID          string         `json:"id"`
	ServiceName string         `json:"service"`
	Namespace   string         `json:"namespace"`
	Timestamp   time.Time      `json:"timestamp"`
	Context     map[string]any `json:"context,omitempty"`
	Results     []ProbeResult  `json:"results"`
	Summary     Summary        `json:"summary"`
}
