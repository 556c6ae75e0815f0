package executor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pravjet2007-code/devrunauto/internal/logger"
	"github.com/pravjet2007-code/devrunauto/internal/planner"
)

func init() {
	logger.InitDiscard()
}

// recordingDevice captures every call as a formatted string.
type recordingDevice struct {
	calls []string
}

func (d *recordingDevice) Serial() string { return "fake-0" }

func (d *recordingDevice) Resolution(ctx context.Context) (int, int, error) {
	return 1080, 2400, nil
}

func (d *recordingDevice) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte("png"), nil
}

func (d *recordingDevice) Tap(ctx context.Context, x, y int) error {
	d.calls = append(d.calls, fmt.Sprintf("tap %d %d", x, y))
	return nil
}

func (d *recordingDevice) InputText(ctx context.Context, text string) error {
	d.calls = append(d.calls, "text "+text)
	return nil
}

func (d *recordingDevice) KeyEvent(ctx context.Context, code string) error {
	d.calls = append(d.calls, "key "+code)
	return nil
}

func newTestExecutor(dev *recordingDevice, w, h int) *Executor {
	e := New(dev, w, h)
	e.sleep = func(d time.Duration) {}
	return e
}

func TestTapScaling(t *testing.T) {
	const width, height = 1080, 2400

	testCases := []struct {
		name string
		box  []int
		x    int
		y    int
	}{
		{"Full screen box hits center", []int{0, 0, 1000, 1000}, width / 2, height / 2},
		{"Zero box hits origin", []int{0, 0, 0, 0}, 0, 0},
		{"Bottom right corner", []int{1000, 1000, 1000, 1000}, width, height},
		{"Asymmetric box", []int{400, 400, 600, 600}, 540, 1200},
		{"Narrow strip", []int{100, 250, 100, 750}, 540, 240},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dev := &recordingDevice{}
			e := newTestExecutor(dev, width, height)

			err := e.Apply(context.Background(), planner.Action{Type: planner.ActionTap, Box: tc.box})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := fmt.Sprintf("tap %d %d", tc.x, tc.y)
			if len(dev.calls) != 1 || dev.calls[0] != want {
				t.Errorf("calls = %v, want [%s]", dev.calls, want)
			}
		})
	}
}

func TestTypeThenSubmit(t *testing.T) {
	dev := &recordingDevice{}
	e := newTestExecutor(dev, 1000, 1000)

	err := e.Apply(context.Background(), planner.Action{Type: planner.ActionType, Text: "large fries"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"text large fries", "key " + KeycodeEnter}
	assertCalls(t, dev.calls, want)
}

func TestTypeWithBoxTapsFirst(t *testing.T) {
	dev := &recordingDevice{}
	e := newTestExecutor(dev, 1000, 1000)

	err := e.Apply(context.Background(), planner.Action{
		Type: planner.ActionType,
		Box:  []int{0, 0, 1000, 1000},
		Text: "aspirin",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"tap 500 500", "text aspirin", "key " + KeycodeEnter}
	assertCalls(t, dev.calls, want)
}

func TestSystemKeys(t *testing.T) {
	testCases := []struct {
		name   string
		action planner.Action
		want   []string
	}{
		{"Back", planner.Action{Type: planner.ActionBack}, []string{"key 4"}},
		{"Home", planner.Action{Type: planner.ActionHome}, []string{"key 3"}},
		{"Explicit keycode", planner.Action{Type: planner.ActionKey, Keycode: "66"}, []string{"key 66"}},
		{"Wait touches nothing", planner.Action{Type: planner.ActionWait}, nil},
		{"Done touches nothing", planner.Action{Type: planner.ActionDone}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dev := &recordingDevice{}
			e := newTestExecutor(dev, 1080, 2400)
			if err := e.Apply(context.Background(), tc.action); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertCalls(t, dev.calls, tc.want)
		})
	}
}

func TestUnknownActionFails(t *testing.T) {
	dev := &recordingDevice{}
	e := newTestExecutor(dev, 1080, 2400)
	if err := e.Apply(context.Background(), planner.Action{Type: "swipe"}); err == nil {
		t.Fatal("expected error for unknown action type")
	}
	if len(dev.calls) != 0 {
		t.Errorf("device was touched: %v", dev.calls)
	}
}

func TestTapWithBadBoxFails(t *testing.T) {
	dev := &recordingDevice{}
	e := newTestExecutor(dev, 1080, 2400)
	if err := e.Apply(context.Background(), planner.Action{Type: planner.ActionTap, Box: []int{1, 2, 3}}); err == nil {
		t.Fatal("expected error for short box")
	}
	if len(dev.calls) != 0 {
		t.Errorf("device was touched: %v", dev.calls)
	}
}

func assertCalls(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
