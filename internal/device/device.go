// Package device abstracts the physical touchscreen device behind a small
// capability interface so the control loop and executor can run against an
// in-memory fake. The adb implementation shells out to the platform bridge;
// none of its return values are treated as reliable — the next screenshot is
// the only ground truth.
package device

import (
	"context"
	"errors"
)

var (
	// ErrNoDevice means no connected device was found at connect time.
	ErrNoDevice = errors.New("device: no device found")
	// ErrNoImage means a capture produced no usable frame.
	ErrNoImage = errors.New("device: screenshot produced no image")
)

// Device is one live device connection.
type Device interface {
	// Serial identifies the connection for logs and task records.
	Serial() string
	// Resolution reports the physical screen size in pixels.
	Resolution(ctx context.Context) (width, height int, err error)
	// Screenshot captures the current frame as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)
	// Tap issues a single tap at a physical pixel coordinate.
	Tap(ctx context.Context, x, y int) error
	// InputText injects literal text into the focused field.
	InputText(ctx context.Context, text string) error
	// KeyEvent issues a platform key code.
	KeyEvent(ctx context.Context, code string) error
}

// Manager acquires device connections.
type Manager interface {
	Connect(ctx context.Context) (Device, error)
}
