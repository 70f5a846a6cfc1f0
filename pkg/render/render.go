// Package render defines output rendering for VitalSign results.
// Implementations handle different output targets: terminal and JSON.
package render

import (
	"io"

	"github.com/vitalsign/vitalsign/pkg/health"
	"github.com/vitalsign/vitalsign/pkg/playbook"
)

// Summary bundles everything a renderer needs to present one customer's
// current state.
type Summary struct {
	Customer  *health.CustomerProfile `json:"customer"`
	Metrics   health.Metrics          `json:"metrics"`
	Playbooks []*playbook.Playbook    `json:"playbooks,omitempty"`
}

// Renderer produces formatted output from a health summary.
type Renderer interface {
	// Render writes the formatted summary to the writer.
	Render(w io.Writer, s *Summary) error
}
