package output

import (
	"encoding/json"

	"github.com/jaxxstorm/netdiag/internal/model"
)

func RenderJSON(report model.DiagnosticReport) (string, error) {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
