package main

import (
	"fmt"
	"strings"

	"github.com/jaxxstorm/netdiag/internal/model"
)

// parseProbes turns kind:target[:argument] specs into requests. Accepted
// forms are http:<service>[:<path>], http:<url>, dns:<host> and
// cmd:<tool>[:<target>].
func parseProbes(specs []string) ([]model.ProbeRequest, error) {
	requests := make([]model.ProbeRequest, 0, len(specs))
	for _, spec := range specs {
		req, err := parseProbe(spec)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func parseProbe(spec string) (model.ProbeRequest, error) {
	kind, rest, ok := strings.Cut(spec, ":")
	if !ok || rest == "" {
		return model.ProbeRequest{}, fmt.Errorf("probe %q: expected kind:target", spec)
	}

	switch strings.ToLower(kind) {
	case "http":
		if strings.HasPrefix(rest, "http://") || strings.HasPrefix(rest, "https://") {
			return model.ProbeRequest{Kind: model.ProbeHTTP, Target: rest}, nil
		}
		service, path, _ := strings.Cut(rest, ":")
		if path == "" {
			path = "/"
		}
		return model.ProbeRequest{Kind: model.ProbeHTTP, Target: service, Argument: path}, nil
	case "dns":
		return model.ProbeRequest{Kind: model.ProbeDNS, Target: rest}, nil
	case "cmd", "command":
		tool, target, _ := strings.Cut(rest, ":")
		return model.ProbeRequest{Kind: model.ProbeCommand, Target: target, Argument: tool}, nil
	default:
		return model.ProbeRequest{}, fmt.Errorf("probe %q: unknown kind %q (want http, dns or cmd)", spec, kind)
	}
}
