// Package supervisor serializes missions against the single physical device.
// Missions queue up and run one at a time; results fan out on a channel.
package supervisor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pravjet2007-code/devrunauto/internal/logger"
	"github.com/pravjet2007-code/devrunauto/internal/mission"
)

const (
	StatusPending   = "PENDING"
	StatusRunning   = "RUNNING"
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
	StatusTimedOut  = "TIMED_OUT"
	StatusCancelled = "CANCELLED"
)

// Runner executes one mission to a terminal outcome.
type Runner interface {
	RunMission(ctx context.Context, goal string) mission.Outcome
}

type Mission struct {
	ID        string
	Goal      string
	State     string
	Submitted time.Time
}

type MissionResult struct {
	MissionID string          `json:"mission_id"`
	Goal      string          `json:"goal"`
	State     string          `json:"state"`
	Outcome   mission.Outcome `json:"outcome"`
}

var missionQueue = make(chan *Mission, 100) // Main work queue

// ResultChannel carries every finished mission. Consumed by the CLI loop or
// the task server, whichever is driving.
var ResultChannel = make(chan MissionResult, 100)

var curMu sync.Mutex
var curMission *Mission
var curCancel context.CancelFunc

// Start launches the single worker goroutine. The device is one shared
// physical resource, so there is never more than one worker.
func Start(runner Runner) {
	go func() {
		for m := range missionQueue {
			logger.Log.Printf("[Supervisor] Starting mission '%s' (ID: %s)", m.Goal, m.ID)
			m.State = StatusRunning
			runOne(runner, m)
		}
	}()
}

// Submit queues a goal and returns its mission ID.
func Submit(goal string) string {
	id := uuid.New().String()[:8]
	m := &Mission{
		ID:        id,
		Goal:      goal,
		State:     StatusPending,
		Submitted: time.Now(),
	}
	missionQueue <- m
	return id
}

// CancelCurrent cancels the running mission, if any. Cancellation lands
// between steps: the current capture/plan/act finishes first.
func CancelCurrent() (string, error) {
	curMu.Lock()
	defer curMu.Unlock()

	if curMission == nil || curMission.State != StatusRunning {
		return "", fmt.Errorf("no mission is currently running")
	}
	if curCancel == nil {
		return "", fmt.Errorf("internal error: cancel function not set")
	}
	id := curMission.ID
	curCancel()
	return id, nil
}

func runOne(runner Runner, m *Mission) {
	ctx, cancel := context.WithCancel(context.Background())
	curMu.Lock()
	curMission = m
	curCancel = cancel
	curMu.Unlock()
	defer func() {
		cancel()
		curMu.Lock()
		if curMission != nil && curMission.ID == m.ID {
			curMission = nil
			curCancel = nil
		}
		curMu.Unlock()
	}()

	out := runner.RunMission(ctx, m.Goal)
	if out.Metrics != nil {
		out.Metrics.MissionID = m.ID
	}
	m.State = stateFor(out)
	logger.Log.Printf("[Supervisor] Mission '%s' %s (ID: %s)", m.Goal, m.State, m.ID)

	ResultChannel <- MissionResult{
		MissionID: m.ID,
		Goal:      m.Goal,
		State:     m.State,
		Outcome:   out,
	}
}

func stateFor(out mission.Outcome) string {
	switch out.Status {
	case mission.StatusSuccess:
		return StatusSucceeded
	case mission.StatusTimeout:
		return StatusTimedOut
	default:
		if out.Reason == "cancelled" {
			return StatusCancelled
		}
		return StatusFailed
	}
}

// Goals that can spend money or commit to something get a confirmation prompt
// in the interactive loop.
var riskyGoalMarkers = []string{"order", "buy", "purchase", "pay", "checkout", "book"}

func IsGoalRisky(goal string) bool {
	g := strings.ToLower(goal)
	for _, marker := range riskyGoalMarkers {
		if strings.Contains(g, marker) {
			return true
		}
	}
	return false
}
