package render

import (
	"fmt"
	"io"
	"os"

	"github.com/vitalsign/vitalsign/pkg/health"
	"github.com/vitalsign/vitalsign/pkg/playbook"
)

// TerminalRenderer renders a summary as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func tierColor(tier health.Tier) string {
	if noColor() {
		return ""
	}
	switch tier {
	case health.TierHealthy:
		return colorGreen
	case health.TierAtRisk:
		return colorYellow
	case health.TierCritical, health.TierRedAlert:
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, s *Summary) error {
	tier := s.Metrics.Tier()
	tc := tierColor(tier)

	// Header
	name := s.Customer.Name
	if name == "" {
		name = s.Customer.CustomerID
	}
	fmt.Fprintf(w, "%s\n\n",
		bold(fmt.Sprintf("VitalSign: %s — %.1f (%s)",
			name, s.Metrics.Composite(), colored(string(tier), tc))))

	// Component scores
	fmt.Fprintf(w, "  Engagement     %5.1f\n", s.Metrics.EngagementScore)
	fmt.Fprintf(w, "  Value          %5.1f\n", s.Metrics.ValueRealizationScore)
	fmt.Fprintf(w, "  Relationship   %5.1f\n", s.Metrics.RelationshipHealthScore)
	fmt.Fprintf(w, "  Risk           %5.1f %s\n\n", s.Metrics.RiskIndicatorsScore, dim("(lower is better)"))

	// Flags
	if s.Customer.IsPostIncident {
		fmt.Fprintf(w, "  %s post-incident recovery in progress\n", colored("●", colorYellow))
	}
	if s.Customer.TrustRebuildingRequired {
		fmt.Fprintf(w, "  %s trust rebuilding required\n", colored("●", colorYellow))
	}
	if s.Customer.ExecutiveEscalationRequired {
		fmt.Fprintf(w, "  %s executive escalation required\n", colored("●", colorRed))
	}
	if s.Customer.IsPostIncident || s.Customer.TrustRebuildingRequired || s.Customer.ExecutiveEscalationRequired {
		fmt.Fprintln(w)
	}

	// Playbooks
	if len(s.Playbooks) > 0 {
		fmt.Fprintln(w, "Playbooks:")
		for _, pb := range s.Playbooks {
			marker := colorGreen
			if pb.Status == playbook.StatusActive {
				marker = colorYellow
			}
			fmt.Fprintf(w, "  %s %s %s — %.0f%% complete\n",
				colored("●", marker), bold(pb.PlaybookID), dim(string(pb.PlaybookType)),
				pb.CompletionPercentage())
			for _, a := range nextActions(pb, 3) {
				fmt.Fprintf(w, "      %s\n", dim(fmt.Sprintf("%s: %s", a.ActionID, a.Title)))
			}
		}
		fmt.Fprintln(w)
	}

	return nil
}

// nextActions returns up to limit actions still awaiting completion.
func nextActions(pb *playbook.Playbook, limit int) []*playbook.Action {
	var out []*playbook.Action
	for _, a := range pb.Actions {
		if a.Status == playbook.ActionPending || a.Status == playbook.ActionInProgress {
			out = append(out, a)
		}
		if len(out) == limit {
			break
		}
	}
	return out
}
