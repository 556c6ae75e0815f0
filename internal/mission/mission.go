// Package mission owns the perceive→plan→act control loop: one device, one
// goal, a fixed step budget, and exactly one terminal outcome.
package mission

import (
	"github.com/pravjet2007-code/devrunauto/internal/metrics"
	"github.com/pravjet2007-code/devrunauto/internal/planner"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
)

// Session is one live device connection plus the mission context bound to it.
// It is owned exclusively by the control loop for the mission's lifetime.
type Session struct {
	Serial    string
	Width     int
	Height    int
	StepLimit int
}

// HistoryEntry records one processed action. Screenshots are never retained;
// this keeps planner context bounded.
type HistoryEntry struct {
	Step   int
	Action planner.Action
}

// Outcome is the mission's terminal report: exactly one of success (with a
// result payload), failed (with a reason), or timeout.
type Outcome struct {
	Status  Status                  `json:"status"`
	Result  map[string]any          `json:"result,omitempty"`
	Reason  string                  `json:"reason,omitempty"`
	History []HistoryEntry          `json:"-"`
	Metrics *metrics.MissionMetrics `json:"metrics,omitempty"`
}
