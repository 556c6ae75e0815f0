package metrics

import "time"

// StepMetrics times one perceive→plan→act iteration.
type StepMetrics struct {
	Step       int    `json:"step"`
	ActionType string `json:"action_type,omitempty"`
	CaptureMs  int64  `json:"capture_ms"`
	PlanMs     int64  `json:"plan_ms"`
	ActMs      int64  `json:"act_ms"`
}

type MissionMetrics struct {
	MissionID  string        `json:"mission_id,omitempty"`
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
	DurationMs int64         `json:"duration_ms"`
	Outcome    string        `json:"outcome"`
	Steps      []StepMetrics `json:"steps"`
}

// Finalize computes the derived duration once End is set.
func (m *MissionMetrics) Finalize() {
	m.DurationMs = m.End.Sub(m.Start).Milliseconds()
}
