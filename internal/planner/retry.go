package planner

import (
	"context"
	"strings"
	"time"

	"github.com/pravjet2007-code/devrunauto/internal/logger"
)

// ErrorClass separates planner failures worth another attempt from ones that
// would just burn quota.
type ErrorClass int

const (
	// Transient covers rate-limit and quota exhaustion signals.
	Transient ErrorClass = iota
	// Fatal is everything else: abandon retrying immediately.
	Fatal
)

var quotaMarkers = []string{"429", "quota", "resource exhausted", "resource_exhausted", "rate limit"}

// Classify inspects an error for quota/rate-limit markers.
func Classify(err error) ErrorClass {
	if err == nil {
		return Fatal
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return Transient
		}
	}
	return Fatal
}

// Retry wraps a Planner with bounded retry and attempt-indexed backoff.
// Exhausted or abandoned retries yield a degraded failed Decision rather than
// an error, so the control loop folds it into its normal Failed transition.
type Retry struct {
	Inner    Planner
	Attempts int
	Base     time.Duration

	sleep func(time.Duration)
}

func WithRetry(inner Planner, attempts int, base time.Duration) *Retry {
	return &Retry{
		Inner:    inner,
		Attempts: attempts,
		Base:     base,
		sleep:    time.Sleep,
	}
}

func (r *Retry) Plan(ctx context.Context, goal string, history []string, screenshot []byte) (*Decision, error) {
	for attempt := 1; attempt <= r.Attempts; attempt++ {
		d, err := r.Inner.Plan(ctx, goal, history, screenshot)
		if err == nil {
			return d, nil
		}
		logger.Log.Printf("[Planner] attempt %d/%d failed: %v", attempt, r.Attempts, err)

		if Classify(err) == Fatal {
			break
		}
		if attempt < r.Attempts {
			wait := time.Duration(attempt) * r.Base
			logger.Log.Printf("[Planner] quota hit, backing off %s", wait)
			r.sleep(wait)
		}
	}

	return &Decision{
		Status:   StatusFailed,
		Analysis: "failed after retries",
		Action:   Action{Type: ActionWait},
	}, nil
}
