package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Action kinds the planner may emit. The vocabulary is closed; anything else
// is a decode failure.
const (
	ActionTap  = "tap"
	ActionType = "type"
	ActionKey  = "key"
	ActionWait = "wait"
	ActionBack = "back"
	ActionHome = "home"
	ActionDone = "done"
)

// Decision statuses.
const (
	StatusContinue = "continue"
	StatusDone     = "done"
	StatusFailed   = "failed"
)

// Action is one atomic device interaction. Box coordinates are in the fixed
// 0-1000 normalized space, [ymin, xmin, ymax, xmax]; only the executor may
// convert them to physical pixels.
type Action struct {
	Type    string         `json:"type"`
	Box     []int          `json:"bq_box,omitempty"`
	Text    string         `json:"text,omitempty"`
	Keycode Keycode        `json:"keycode,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Decision is the planner's structured output for one step. Analysis is
// advisory free text; Data on the action carries the result payload when
// Status is "done".
type Decision struct {
	Analysis string `json:"analysis"`
	Status   string `json:"status"`
	Action   Action `json:"action"`
}

// Planner maps (goal, action-kind history, screenshot) to the next Decision.
type Planner interface {
	Plan(ctx context.Context, goal string, history []string, screenshot []byte) (*Decision, error)
}

// Keycode tolerates models emitting key codes as JSON numbers or strings.
type Keycode string

func (k *Keycode) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*k = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*k = Keycode(strings.TrimSpace(v))
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		*k = Keycode(strconv.Itoa(int(n)))
		return nil
	}
	return fmt.Errorf("keycode: cannot decode %s", s)
}
