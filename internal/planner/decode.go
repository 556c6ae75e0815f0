package planner

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeError marks planner output that survived transport but not parsing.
// The retry wrapper treats it like any other planner failure.
type DecodeError struct {
	Raw   string
	Cause error
}

func (e *DecodeError) Error() string {
	raw := e.Raw
	if len(raw) > 200 {
		raw = raw[:200] + "..."
	}
	return fmt.Sprintf("undecodable planner output: %v (raw: %q)", e.Cause, raw)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// Ordered, pure text transforms applied before structural parsing. Models
// wrap the payload in prose or a fenced code block; one layer of each is
// stripped.
var cleanupStages = []func(string) string{
	strings.TrimSpace,
	stripCodeFence,
	extractObject,
	strings.TrimSpace,
}

// Decode turns raw model text into a validated Decision.
func Decode(raw string) (*Decision, error) {
	text := raw
	for _, stage := range cleanupStages {
		text = stage(text)
	}

	var d Decision
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		return nil, &DecodeError{Raw: raw, Cause: err}
	}
	if err := validateDecision(&d); err != nil {
		return nil, &DecodeError{Raw: raw, Cause: err}
	}
	return &d, nil
}

// stripCodeFence removes a single layer of triple-backtick fencing, with or
// without a language tag.
func stripCodeFence(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		rest := s[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return rest[:j]
		}
		return rest
	}
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+len("```"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return rest[:j]
		}
		return rest
	}
	return s
}

// extractObject trims incidental prose around the outermost JSON object.
func extractObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func validateDecision(d *Decision) error {
	if d.Status == "" {
		d.Status = StatusContinue
	}
	switch d.Status {
	case StatusContinue, StatusDone, StatusFailed:
	default:
		return fmt.Errorf("unknown status %q", d.Status)
	}

	switch d.Action.Type {
	case ActionTap:
		if err := validateBox(d.Action.Box); err != nil {
			return fmt.Errorf("tap action: %w", err)
		}
	case ActionType:
		if d.Action.Text == "" {
			return fmt.Errorf("type action missing text")
		}
		if len(d.Action.Box) > 0 {
			if err := validateBox(d.Action.Box); err != nil {
				return fmt.Errorf("type action: %w", err)
			}
		}
	case ActionKey:
		if d.Action.Keycode == "" {
			return fmt.Errorf("key action missing keycode")
		}
	case ActionWait, ActionBack, ActionHome, ActionDone:
	case "":
		// Terminal decisions may omit the action entirely.
		if d.Status == StatusContinue {
			return fmt.Errorf("continue decision missing action")
		}
	default:
		return fmt.Errorf("unknown action type %q", d.Action.Type)
	}
	return nil
}

func validateBox(box []int) error {
	if len(box) != 4 {
		return fmt.Errorf("bq_box must have 4 elements, got %d", len(box))
	}
	for _, v := range box {
		if v < 0 || v > 1000 {
			return fmt.Errorf("bq_box value %d outside 0-1000", v)
		}
	}
	if box[0] > box[2] || box[1] > box[3] {
		return fmt.Errorf("bq_box not ordered: %v", box)
	}
	return nil
}
