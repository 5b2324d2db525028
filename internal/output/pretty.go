package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jaxxstorm/netdiag/internal/model"
)

const maxPayloadLines = 12

func RenderPretty(report model.DiagnosticReport) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Render("netdiag")
	stepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	detailStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).PaddingLeft(6)
	successStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failureStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	lines := []string{
		fmt.Sprintf("%s %s (%s)", title, report.ServiceName, report.Namespace),
		"",
	}
	for i, result := range report.Results {
		statusLabel := successStyle.Render("OK  ")
		if !result.Succeeded() {
			statusLabel = failureStyle.Render("FAIL")
		}
		line := fmt.Sprintf("%s %02d %s %s", statusLabel, i+1, result.Kind, describe(result))
		if result.Duration != "" {
			line += " time=" + result.Duration
		}
		lines = append(lines, stepStyle.Render(line))

		if !result.Succeeded() {
			lines = append(lines, detailStyle.Render(fmt.Sprintf("%s error: %s", result.ErrorKind, normalizeSpace(result.Error))))
			continue
		}
		for _, detail := range payloadLines(result.Payload) {
			lines = append(lines, detailStyle.Render(detail))
		}
	}

	lines = append(lines, "")
	summary := fmt.Sprintf("%s %d/%d probes succeeded", report.Summary.Classification, report.Summary.Succeeded, report.Summary.Total)
	if report.Summary.Failed == 0 {
		lines = append(lines, successStyle.Render(summary))
	} else {
		lines = append(lines, failureStyle.Render(summary))
	}
	if len(report.Summary.Hints) > 0 {
		lines = append(lines, "Hints:")
		for _, hint := range report.Summary.Hints {
			lines = append(lines, "- "+hint)
		}
	}

	return strings.Join(lines, "\n")
}

func describe(result model.ProbeResult) string {
	parts := []string{}
	if result.Argument != "" && result.Kind == model.ProbeCommand {
		parts = append(parts, result.Argument)
	}
	if result.Target != "" {
		parts = append(parts, result.Target)
	}
	if result.Address != "" && result.Address != result.Target {
		parts = append(parts, "-> "+result.Address)
	}
	return strings.Join(parts, " ")
}

func payloadLines(payload any) []string {
	var lines []string
	switch v := payload.(type) {
	case []string:
		for _, line := range v {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
	case json.RawMessage:
		lines = []string{normalizeSpace(string(v))}
	case nil:
		return nil
	default:
		lines = []string{fmt.Sprint(v)}
	}
	if len(lines) > maxPayloadLines {
		more := len(lines) - maxPayloadLines
		lines = append(lines[:maxPayloadLines], fmt.Sprintf("... %d more lines", more))
	}
	return lines
}

func normalizeSpace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
