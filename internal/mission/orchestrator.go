package mission

import (
	"context"
	"time"

	"github.com/pravjet2007-code/devrunauto/internal/device"
	"github.com/pravjet2007-code/devrunauto/internal/executor"
	"github.com/pravjet2007-code/devrunauto/internal/logger"
	"github.com/pravjet2007-code/devrunauto/internal/metrics"
	"github.com/pravjet2007-code/devrunauto/internal/planner"
)

// Degraded-mode resolution when the device refuses to report its own.
const (
	defaultWidth  = 1080
	defaultHeight = 2400
)

const defaultStepLimit = 15

type Config struct {
	StepLimit int
	// StabilizeDelay pauses after each executed action so UI transitions
	// settle before the next capture.
	StabilizeDelay time.Duration
}

// Orchestrator drives one mission at a time. It owns the session, the step
// counter, and the history; nothing else mutates them.
type Orchestrator struct {
	devices device.Manager
	planner planner.Planner
	cfg     Config

	sleep func(time.Duration)
}

func New(devices device.Manager, p planner.Planner, cfg Config) *Orchestrator {
	if cfg.StepLimit <= 0 {
		cfg.StepLimit = defaultStepLimit
	}
	return &Orchestrator{
		devices: devices,
		planner: p,
		cfg:     cfg,
		sleep:   time.Sleep,
	}
}

// RunMission executes the control loop until the goal is reached, the planner
// gives up, or the step budget runs out. It never returns an error: every
// fatal condition folds into a terminal Outcome.
func (o *Orchestrator) RunMission(ctx context.Context, goal string) Outcome {
	mm := &metrics.MissionMetrics{Start: time.Now()}
	logger.Log.Printf("[Mission] Starting: %q", goal)

	dev, err := o.devices.Connect(ctx)
	if err != nil {
		logger.Log.Printf("[Mission] Connection error: %v", err)
		return o.finish(mm, Outcome{Status: StatusFailed, Reason: "connection failed"})
	}

	width, height, err := dev.Resolution(ctx)
	if err != nil {
		// Degraded mode, not an error: a wrong scale still beats a dead
		// mission, and the planner self-corrects from the next screenshot.
		width, height = defaultWidth, defaultHeight
		logger.Log.Printf("[Mission] Resolution query failed (%v), assuming %dx%d", err, width, height)
	}

	sess := Session{
		Serial:    dev.Serial(),
		Width:     width,
		Height:    height,
		StepLimit: o.cfg.StepLimit,
	}
	exec := executor.New(dev, sess.Width, sess.Height)
	logger.Log.Printf("[Mission] Session on %s at %dx%d, budget %d steps", sess.Serial, sess.Width, sess.Height, sess.StepLimit)

	var history []HistoryEntry
	var kinds []string

	for step := 1; step <= sess.StepLimit; step++ {
		if ctx.Err() != nil {
			return o.finish(mm, Outcome{Status: StatusFailed, Reason: "cancelled", History: history})
		}

		sm := metrics.StepMetrics{Step: step}

		captureStart := time.Now()
		img, err := dev.Screenshot(ctx)
		sm.CaptureMs = time.Since(captureStart).Milliseconds()
		if err != nil || len(img) == 0 {
			// Fatal: without visual grounding any action is a blind guess
			// with irreversible side effects on the device.
			logger.Log.Printf("[Mission] Capture failed on step %d: %v", step, err)
			mm.Steps = append(mm.Steps, sm)
			return o.finish(mm, Outcome{Status: StatusFailed, Reason: "vision lost", History: history})
		}

		planStart := time.Now()
		decision, err := o.planner.Plan(ctx, goal, kinds, img)
		sm.PlanMs = time.Since(planStart).Milliseconds()
		if err != nil {
			mm.Steps = append(mm.Steps, sm)
			return o.finish(mm, Outcome{Status: StatusFailed, Reason: err.Error(), History: history})
		}
		logger.Log.Printf("[Mission] Step %d/%d: %s", step, sess.StepLimit, decision.Analysis)

		switch decision.Status {
		case planner.StatusFailed:
			mm.Steps = append(mm.Steps, sm)
			return o.finish(mm, Outcome{Status: StatusFailed, Reason: decision.Analysis, History: history})

		case planner.StatusDone:
			sm.ActionType = decision.Action.Type
			mm.Steps = append(mm.Steps, sm)
			history = append(history, HistoryEntry{Step: step, Action: decision.Action})
			return o.finish(mm, Outcome{Status: StatusSuccess, Result: decision.Action.Data, History: history})
		}

		actStart := time.Now()
		if err := exec.Apply(ctx, decision.Action); err != nil {
			// Not retried: a failed injection and a no-op look identical on
			// the remote end. The next screenshot is the feedback signal.
			logger.Log.Printf("[Mission] Action failed on step %d: %v", step, err)
		}
		sm.ActMs = time.Since(actStart).Milliseconds()
		sm.ActionType = decision.Action.Type
		mm.Steps = append(mm.Steps, sm)

		history = append(history, HistoryEntry{Step: step, Action: decision.Action})
		kinds = append(kinds, decision.Action.Type)

		if o.cfg.StabilizeDelay > 0 {
			o.sleep(o.cfg.StabilizeDelay)
		}
	}

	return o.finish(mm, Outcome{Status: StatusTimeout, Reason: "step limit reached", History: history})
}

func (o *Orchestrator) finish(mm *metrics.MissionMetrics, out Outcome) Outcome {
	mm.End = time.Now()
	mm.Outcome = string(out.Status)
	mm.Finalize()
	out.Metrics = mm
	logger.Log.Printf("[Mission] Finished: %s (%s) after %d steps", out.Status, out.Reason, len(mm.Steps))
	return out
}
