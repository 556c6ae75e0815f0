package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pravjet2007-code/devrunauto/internal/logger"
)

func init() {
	logger.InitDiscard()
}

// scriptedPlanner returns its outcomes in order and records call count.
type scriptedPlanner struct {
	outcomes []planOutcome
	calls    int
}

type planOutcome struct {
	decision *Decision
	err      error
}

func (s *scriptedPlanner) Plan(ctx context.Context, goal string, history []string, screenshot []byte) (*Decision, error) {
	if s.calls >= len(s.outcomes) {
		return nil, errors.New("scripted planner exhausted")
	}
	out := s.outcomes[s.calls]
	s.calls++
	return out.decision, out.err
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"HTTP 429", errors.New("googleapi: Error 429: too many requests"), Transient},
		{"Quota marker", errors.New("gemini generate: quota exceeded for project"), Transient},
		{"Resource exhausted", errors.New("rpc error: code = ResourceExhausted desc = out of tokens"), Transient},
		{"Rate limit", errors.New("Rate limit reached, slow down"), Transient},
		{"Network failure", errors.New("dial tcp: connection refused"), Fatal},
		{"Decode failure", &DecodeError{Raw: "nope", Cause: errors.New("invalid character")}, Fatal},
		{"Nil error", nil, Fatal},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Errorf("Classify(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestRetrySucceedsAfterQuotaErrors(t *testing.T) {
	want := &Decision{Status: StatusContinue, Action: Action{Type: ActionWait}}
	stub := &scriptedPlanner{outcomes: []planOutcome{
		{err: errors.New("429 rate limit")},
		{err: errors.New("quota exhausted")},
		{decision: want},
	}}

	base := 100 * time.Millisecond
	var slept []time.Duration
	r := WithRetry(stub, 3, base)
	r.sleep = func(d time.Duration) { slept = append(slept, d) }

	got, err := r.Plan(context.Background(), "goal", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want the scripted decision", got)
	}
	if stub.calls != 3 {
		t.Errorf("calls = %d, want 3", stub.calls)
	}

	// Backoff is attempt-indexed: 1*base then 2*base, not a constant delay.
	if len(slept) != 2 || slept[0] != base || slept[1] != 2*base {
		t.Errorf("backoff = %v, want [%v %v]", slept, base, 2*base)
	}
}

func TestRetryAbandonsNonQuotaErrorImmediately(t *testing.T) {
	stub := &scriptedPlanner{outcomes: []planOutcome{
		{err: errors.New("connection refused")},
		{decision: &Decision{Status: StatusContinue}},
	}}

	var slept []time.Duration
	r := WithRetry(stub, 3, time.Second)
	r.sleep = func(d time.Duration) { slept = append(slept, d) }

	got, err := r.Plan(context.Background(), "goal", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("calls = %d, want 1 (no second attempt)", stub.calls)
	}
	if len(slept) != 0 {
		t.Errorf("slept %v, want no backoff", slept)
	}
	if got.Status != StatusFailed || got.Analysis != "failed after retries" || got.Action.Type != ActionWait {
		t.Errorf("synthetic decision = %+v", got)
	}
}

func TestRetryExhaustionReturnsSyntheticDecision(t *testing.T) {
	stub := &scriptedPlanner{outcomes: []planOutcome{
		{err: errors.New("429")},
		{err: errors.New("429")},
		{err: errors.New("429")},
	}}

	r := WithRetry(stub, 3, time.Millisecond)
	r.sleep = func(time.Duration) {}

	got, err := r.Plan(context.Background(), "goal", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.calls != 3 {
		t.Errorf("calls = %d, want 3", stub.calls)
	}
	if got.Status != StatusFailed || got.Action.Type != ActionWait {
		t.Errorf("synthetic decision = %+v", got)
	}
}
