package device

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pravjet2007-code/devrunauto/internal/logger"
)

// ADBManager connects to devices through the adb binary.
type ADBManager struct {
	// Serial pins a specific device. Empty picks the first one attached.
	Serial string
}

func (m *ADBManager) Connect(ctx context.Context) (Device, error) {
	out, err := runADB(ctx, "", "devices")
	if err != nil {
		return nil, fmt.Errorf("adb devices: %w", err)
	}
	serials := parseDeviceList(out)
	if len(serials) == 0 {
		return nil, ErrNoDevice
	}
	serial := m.Serial
	if serial == "" {
		serial = serials[0]
	} else if !containsString(serials, serial) {
		return nil, fmt.Errorf("%w: serial %q not attached", ErrNoDevice, serial)
	}
	logger.Log.Printf("[Device] Connected to %s", serial)
	return &adbDevice{serial: serial}, nil
}

type adbDevice struct {
	serial string
}

func (d *adbDevice) Serial() string { return d.serial }

func (d *adbDevice) Resolution(ctx context.Context) (int, int, error) {
	out, err := runADB(ctx, d.serial, "shell", "wm", "size")
	if err != nil {
		return 0, 0, fmt.Errorf("wm size: %w", err)
	}
	w, h, err := parseWMSize(out)
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

func (d *adbDevice) Screenshot(ctx context.Context) ([]byte, error) {
	// exec-out streams the PNG straight over the bridge, no temp file on the
	// device side.
	out, err := runADBRaw(ctx, d.serial, "exec-out", "screencap", "-p")
	if err != nil {
		return nil, fmt.Errorf("screencap: %w", err)
	}
	if !bytes.HasPrefix(out, pngMagic) {
		return nil, ErrNoImage
	}
	return out, nil
}

func (d *adbDevice) Tap(ctx context.Context, x, y int) error {
	_, err := runADB(ctx, d.serial, "shell", "input", "tap", strconv.Itoa(x), strconv.Itoa(y))
	return err
}

func (d *adbDevice) InputText(ctx context.Context, text string) error {
	_, err := runADB(ctx, d.serial, "shell", "input", "text", EscapeText(text))
	return err
}

func (d *adbDevice) KeyEvent(ctx context.Context, code string) error {
	_, err := runADB(ctx, d.serial, "shell", "input", "keyevent", code)
	return err
}

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// EscapeText rewrites characters `input text` treats as argument separators.
// adb uses %s for a literal space.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, "%", "%%")
	s = strings.ReplaceAll(s, " ", "%s")
	return s
}

func parseDeviceList(out string) []string {
	var serials []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == "device" {
			serials = append(serials, fields[0])
		}
	}
	return serials
}

// parseWMSize extracts the pixel dimensions from `wm size` output, e.g.
// "Physical size: 1080x2400". An override line, when present, wins because it
// is the size the display is actually running at.
func parseWMSize(out string) (int, int, error) {
	width, height := 0, 0
	found := false
	for _, line := range strings.Split(out, "\n") {
		idx := strings.Index(line, "size:")
		if idx < 0 {
			continue
		}
		dims := strings.SplitN(strings.TrimSpace(line[idx+len("size:"):]), "x", 2)
		if len(dims) != 2 {
			continue
		}
		w, werr := strconv.Atoi(strings.TrimSpace(dims[0]))
		h, herr := strconv.Atoi(strings.TrimSpace(dims[1]))
		if werr != nil || herr != nil || w <= 0 || h <= 0 {
			continue
		}
		width, height = w, h
		found = true
	}
	if !found {
		return 0, 0, fmt.Errorf("could not parse wm size output: %q", strings.TrimSpace(out))
	}
	return width, height, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func runADB(ctx context.Context, serial string, args ...string) (string, error) {
	out, err := runADBRaw(ctx, serial, args...)
	return string(out), err
}

func runADBRaw(ctx context.Context, serial string, args ...string) ([]byte, error) {
	full := args
	if serial != "" {
		full = append([]string{"-s", serial}, args...)
	}
	cmd := exec.CommandContext(ctx, "adb", full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("adb %s: %v (%s)", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
