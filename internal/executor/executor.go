// Package executor turns one planner action into device calls. It holds no
// state beyond the session resolution and never retries: a failed injection
// is indistinguishable from a no-op on the remote device, so the loop's next
// screenshot is the only feedback signal.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/pravjet2007-code/devrunauto/internal/device"
	"github.com/pravjet2007-code/devrunauto/internal/logger"
	"github.com/pravjet2007-code/devrunauto/internal/planner"
)

// Android system key codes.
const (
	KeycodeHome  = "3"
	KeycodeBack  = "4"
	KeycodeEnter = "66"
)

const (
	defaultSettleDelay = 1500 * time.Millisecond
	defaultWaitDelay   = 2 * time.Second
)

type Executor struct {
	dev    device.Device
	width  int
	height int

	// SettleDelay sits between text injection and the submit key event.
	SettleDelay time.Duration
	// WaitDelay is how long a 'wait' action pauses.
	WaitDelay time.Duration

	sleep func(time.Duration)
}

func New(dev device.Device, width, height int) *Executor {
	return &Executor{
		dev:         dev,
		width:       width,
		height:      height,
		SettleDelay: defaultSettleDelay,
		WaitDelay:   defaultWaitDelay,
		sleep:       time.Sleep,
	}
}

// Apply dispatches a single action. 'done' is a no-op here; the control loop
// owns that transition.
func (e *Executor) Apply(ctx context.Context, action planner.Action) error {
	logger.Log.Printf("[Act] Executing: %s", action.Type)

	switch action.Type {
	case planner.ActionTap:
		x, y, err := e.tapPoint(action.Box)
		if err != nil {
			return err
		}
		return e.dev.Tap(ctx, x, y)

	case planner.ActionType:
		return e.typeThenSubmit(ctx, action)

	case planner.ActionKey:
		return e.dev.KeyEvent(ctx, string(action.Keycode))

	case planner.ActionBack:
		return e.dev.KeyEvent(ctx, KeycodeBack)

	case planner.ActionHome:
		return e.dev.KeyEvent(ctx, KeycodeHome)

	case planner.ActionWait:
		e.sleep(e.WaitDelay)
		return nil

	case planner.ActionDone:
		return nil

	default:
		return fmt.Errorf("executor: unknown action type %q", action.Type)
	}
}

// typeThenSubmit is a named policy: after injecting text it always sends
// enter. That is correct for the search-box flows this agent drives and is a
// deliberate simplification, not general text-field editing.
func (e *Executor) typeThenSubmit(ctx context.Context, action planner.Action) error {
	if len(action.Box) == 4 {
		x, y, err := e.tapPoint(action.Box)
		if err != nil {
			return err
		}
		if err := e.dev.Tap(ctx, x, y); err != nil {
			return err
		}
	}
	if err := e.dev.InputText(ctx, action.Text); err != nil {
		return err
	}
	e.sleep(e.SettleDelay)
	return e.dev.KeyEvent(ctx, KeycodeEnter)
}

// tapPoint maps a normalized [ymin, xmin, ymax, xmax] box to the physical
// pixel at its center.
func (e *Executor) tapPoint(box []int) (int, int, error) {
	if len(box) != 4 {
		return 0, 0, fmt.Errorf("executor: tap box must have 4 elements, got %v", box)
	}
	ymin, xmin, ymax, xmax := box[0], box[1], box[2], box[3]
	x := int(float64(xmin+xmax) / 2 / 1000 * float64(e.width))
	y := int(float64(ymin+ymax) / 2 / 1000 * float64(e.height))
	return x, y, nil
}
