package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pravjet2007-code/devrunauto/internal/metrics"
	"github.com/pravjet2007-code/devrunauto/internal/mission"
)

const maxValueLength = 100

// FormatOutcome renders a terminal summary of a finished mission.
func FormatOutcome(out *mission.Outcome) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Outcome: %s", out.Status))
	if out.Reason != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", out.Reason))
	}
	sb.WriteString("\n")

	if len(out.Result) > 0 {
		sb.WriteString("Result:\n")
		keys := make([]string, 0, len(out.Result))
		for k := range out.Result {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, formatValueForDisplay(out.Result[k])))
		}
	}

	if len(out.History) > 0 {
		sb.WriteString(fmt.Sprintf("Executed %d action(s): ", len(out.History)))
		kinds := make([]string, 0, len(out.History))
		for _, h := range out.History {
			kinds = append(kinds, h.Action.Type)
		}
		sb.WriteString(strings.Join(kinds, " → "))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func FormatMissionMetrics(mm *metrics.MissionMetrics) string {
	if mm == nil {
		return "No metrics available."
	}
	var sb strings.Builder
	sb.WriteString("Execution metrics:\n")
	sb.WriteString(fmt.Sprintf("- Total: %d ms  (outcome=%s)\n", mm.DurationMs, mm.Outcome))
	for _, s := range mm.Steps {
		sb.WriteString(fmt.Sprintf("  Step %2d: capture %4d ms, plan %5d ms, act %4d ms  [%s]\n",
			s.Step, s.CaptureMs, s.PlanMs, s.ActMs, s.ActionType))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatValueForDisplay(value any) string {
	s := fmt.Sprintf("%v", value)
	s = strings.ReplaceAll(s, "\n", "\\n")

	if len(s) > maxValueLength {
		return s[:maxValueLength] + "..."
	}
	return s
}
