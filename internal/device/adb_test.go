package device

import "testing"

func TestParseWMSize(t *testing.T) {
	testCases := []struct {
		name      string
		output    string
		width     int
		height    int
		expectErr bool
	}{
		{
			name:   "Physical size only",
			output: "Physical size: 1080x2400\n",
			width:  1080,
			height: 2400,
		},
		{
			name:   "Override size wins",
			output: "Physical size: 1080x2400\nOverride size: 720x1600\n",
			width:  720,
			height: 1600,
		},
		{
			name:   "Whitespace around dimensions",
			output: "Physical size:  1440 x 3200 ",
			width:  1440,
			height: 3200,
		},
		{
			name:      "Garbage output",
			output:    "error: device offline",
			expectErr: true,
		},
		{
			name:      "Empty output",
			output:    "",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, h, err := parseWMSize(tc.output)
			if tc.expectErr {
				if err == nil {
					t.Fatalf("expected error, got %dx%d", w, h)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w != tc.width || h != tc.height {
				t.Errorf("got %dx%d, want %dx%d", w, h, tc.width, tc.height)
			}
		})
	}
}

func TestParseDeviceList(t *testing.T) {
	out := "List of devices attached\nemulator-5554\tdevice\nZY22FJ4N7X\tdevice\nZY000OFFLINE\toffline\n\n"
	serials := parseDeviceList(out)
	want := []string{"emulator-5554", "ZY22FJ4N7X"}
	if len(serials) != len(want) {
		t.Fatalf("got %v, want %v", serials, want)
	}
	for i := range want {
		if serials[i] != want[i] {
			t.Errorf("serial %d: got %q, want %q", i, serials[i], want[i])
		}
	}
}

func TestEscapeText(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{"large fries", "large%sfries"},
		{"100% juice", "100%%%sjuice"},
		{"", ""},
	}
	for _, tc := range testCases {
		if got := EscapeText(tc.in); got != tc.want {
			t.Errorf("EscapeText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
