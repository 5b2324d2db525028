package analyze

import (
	"strings"

	"github.com/jaxxstorm/netdiag/internal/model"
)

type Classification string

const (
	ClassificationSuccess Classification = "SUCCESS"
	ClassificationPartial Classification = "PARTIAL"
	ClassificationFailure Classification = "FAILURE"
)

// Evidence lists the indices of failed results in request order.
func Summarize(results []model.ProbeResult) model.Summary {
	summary := model.Summary{Total: len(results), Evidence: []int{}}
	seen := map[string]struct{}{}
	for i, result := range results {
		if result.Succeeded() {
			summary.Succeeded++
			continue
		}
		summary.Failed++
		summary.Evidence = append(summary.Evidence, i)
		for _, hint := range hintsFor(result) {
			if _, ok := seen[hint]; ok {
				continue
			}
			seen[hint] = struct{}{}
			summary.Hints = append(summary.Hints, hint)
		}
	}

	switch {
	case summary.Failed == 0:
		summary.Classification = string(ClassificationSuccess)
	case summary.Succeeded == 0:
		summary.Classification = string(ClassificationFailure)
	default:
		summary.Classification = string(ClassificationPartial)
	}
	return summary
}

func hintsFor(result model.ProbeResult) []string {
	msg := strings.ToLower(result.Error)
	hints := []string{}
	switch {
	case strings.Contains(msg, "executable file not found"):
		hints = append(hints, "install the missing diagnostic tool in the service image")
	case strings.Contains(msg, "connection refused"):
		hints = append(hints, "target resolved but nothing is listening; check the service port and readiness")
	case strings.Contains(msg, "no such host"), strings.Contains(msg, "nxdomain"), strings.Contains(msg, "can't find"):
		hints = append(hints, "name did not resolve; verify RACK and APP match the deployed namespace")
	case strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "timeout"):
		hints = append(hints, "probe timed out; check network policies between services")
	}
	if result.ErrorKind == "decode" {
		hints = append(hints, "target answered with a non-JSON body")
	}
	return hints
}
