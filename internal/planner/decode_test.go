package planner

import (
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	plain := `{"analysis":"tap the search box","status":"continue","action":{"type":"tap","bq_box":[100,200,300,400]}}`

	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		check     func(t *testing.T, d *Decision)
	}{
		{
			name: "Plain JSON",
			raw:  plain,
			check: func(t *testing.T, d *Decision) {
				if d.Status != StatusContinue || d.Action.Type != ActionTap {
					t.Errorf("unexpected decision: %+v", d)
				}
			},
		},
		{
			name: "Fenced with json tag",
			raw:  "```json\n" + plain + "\n```",
			check: func(t *testing.T, d *Decision) {
				if d.Action.Type != ActionTap || d.Action.Box[3] != 400 {
					t.Errorf("unexpected decision: %+v", d)
				}
			},
		},
		{
			name: "Fenced without tag",
			raw:  "```\n" + plain + "\n```",
		},
		{
			name: "Prose around payload",
			raw:  "Sure! Here is the next step:\n" + plain + "\nLet me know how it goes.",
		},
		{
			name: "Numeric keycode",
			raw:  `{"status":"continue","action":{"type":"key","keycode":66}}`,
			check: func(t *testing.T, d *Decision) {
				if d.Action.Keycode != "66" {
					t.Errorf("keycode = %q, want %q", d.Action.Keycode, "66")
				}
			},
		},
		{
			name: "Missing status defaults to continue",
			raw:  `{"action":{"type":"wait"}}`,
			check: func(t *testing.T, d *Decision) {
				if d.Status != StatusContinue {
					t.Errorf("status = %q, want continue", d.Status)
				}
			},
		},
		{
			name: "Done with result payload",
			raw:  `{"status":"done","action":{"type":"done","data":{"price":"120"}}}`,
			check: func(t *testing.T, d *Decision) {
				if d.Action.Data["price"] != "120" {
					t.Errorf("data = %v", d.Action.Data)
				}
			},
		},
		{
			name:      "Not JSON at all",
			raw:       "I cannot help with that.",
			expectErr: true,
		},
		{
			name:      "Unknown status",
			raw:       `{"status":"maybe","action":{"type":"wait"}}`,
			expectErr: true,
		},
		{
			name:      "Unknown action type",
			raw:       `{"status":"continue","action":{"type":"swipe"}}`,
			expectErr: true,
		},
		{
			name:      "Tap without box",
			raw:       `{"status":"continue","action":{"type":"tap"}}`,
			expectErr: true,
		},
		{
			name:      "Tap with out-of-range box",
			raw:       `{"status":"continue","action":{"type":"tap","bq_box":[0,0,1200,500]}}`,
			expectErr: true,
		},
		{
			name:      "Tap with inverted box",
			raw:       `{"status":"continue","action":{"type":"tap","bq_box":[600,100,400,200]}}`,
			expectErr: true,
		},
		{
			name:      "Type without text",
			raw:       `{"status":"continue","action":{"type":"type"}}`,
			expectErr: true,
		},
		{
			name:      "Continue without action",
			raw:       `{"status":"continue"}`,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Decode(tc.raw)
			if tc.expectErr {
				if err == nil {
					t.Fatalf("expected decode error, got %+v", d)
				}
				var de *DecodeError
				if !errors.As(err, &de) {
					t.Errorf("error is not a *DecodeError: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.check != nil {
				tc.check(t, d)
			}
		})
	}
}

func TestDecodeFencedEqualsPlain(t *testing.T) {
	plain := `{"analysis":"a","status":"continue","action":{"type":"tap","bq_box":[400,400,600,600]}}`
	fenced := "```json\n" + plain + "\n```"

	dp, err := Decode(plain)
	if err != nil {
		t.Fatalf("plain: %v", err)
	}
	df, err := Decode(fenced)
	if err != nil {
		t.Fatalf("fenced: %v", err)
	}
	if dp.Status != df.Status || dp.Action.Type != df.Action.Type || dp.Analysis != df.Analysis {
		t.Errorf("fenced decode diverged: %+v vs %+v", dp, df)
	}
	for i := range dp.Action.Box {
		if dp.Action.Box[i] != df.Action.Box[i] {
			t.Errorf("box[%d]: %d vs %d", i, dp.Action.Box[i], df.Action.Box[i])
		}
	}
}
