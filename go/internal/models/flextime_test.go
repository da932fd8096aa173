package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFlexTimeUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
		want  time.Time
	}{
		{
			name:  "rfc3339",
			input: `"2026-03-01T12:30:00Z"`,
			valid: true,
			want:  time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name:  "space separated",
			input: `"2026-03-01 12:30:00"`,
			valid: true,
			want:  time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name:  "bare date",
			input: `"2026-03-01"`,
			valid: true,
			want:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "epoch millis",
			input: `1767225600000`,
			valid: true,
			want:  time.UnixMilli(1767225600000).UTC(),
		},
		{name: "null", input: `null`, valid: false},
		{name: "empty string", input: `""`, valid: false},
		{name: "garbage", input: `"soon"`, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexTime
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("unmarshal returned error: %v", err)
			}
			if f.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v", f.Valid, tt.valid)
			}
			if tt.valid && !f.Time.Equal(tt.want) {
				t.Errorf("Time = %v, want %v", f.Time, tt.want)
			}
		})
	}
}

func TestFlexTimeLabel(t *testing.T) {
	var f FlexTime
	if got := f.Label(); got != UnknownLabel {
		t.Errorf("invalid label = %q, want %q", got, UnknownLabel)
	}

	f = FlexTime{Time: time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC), Valid: true}
	if got := f.Label(); got != "01 Mar 2026 12:30" {
		t.Errorf("label = %q", got)
	}
}

func TestFlexTimeInsideStruct(t *testing.T) {
	// One broken date must not fail the whole entity.
	var item BetItem
	payload := `{"_id":"b1","name":"Box","start_time":"soon","end_time":"2026-03-01T12:00:00Z"}`
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if item.StartTime.Valid {
		t.Error("unparsable start_time should be invalid")
	}
	if !item.EndTime.Valid {
		t.Error("end_time should have parsed")
	}
	if item.WindowValid() {
		t.Error("window with one broken bound must not be valid")
	}
}

func TestWinnerFallbacks(t *testing.T) {
	w := WinnerAnnouncement{}
	if got := w.DisplayName(); got != "Anonymous" {
		t.Errorf("DisplayName = %q, want Anonymous", got)
	}
	if got := w.Image(); got != PlaceholderImage {
		t.Errorf("Image = %q, want placeholder", got)
	}

	w = WinnerAnnouncement{UserEmail: "a@b.c"}
	if got := w.DisplayName(); got != "a@b.c" {
		t.Errorf("DisplayName = %q, want email fallback", got)
	}
	w.UserName = "alice"
	if got := w.DisplayName(); got != "alice" {
		t.Errorf("DisplayName = %q, want username", got)
	}
}
