package models

import (
	"encoding/json"
	"time"
)

// UnknownLabel is shown wherever a timestamp could not be parsed.
const UnknownLabel = "Unknown"

// FlexTime is a timestamp that tolerates the backend's inconsistent date
// encoding. It unmarshals from an RFC3339 string, a bare date, or null, and
// records whether parsing succeeded instead of failing the whole payload.
type FlexTime struct {
	Time  time.Time
	Valid bool
}

var flexLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler. Unparsable input leaves the
// value zero with Valid=false; it never returns an error for bad dates.
func (f *FlexTime) UnmarshalJSON(data []byte) error {
	f.Time, f.Valid = time.Time{}, false

	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Some endpoints send epoch millis as a number.
		var ms int64
		if err := json.Unmarshal(data, &ms); err == nil && ms > 0 {
			f.Time = time.UnixMilli(ms).UTC()
			f.Valid = true
		}
		return nil
	}
	if s == "" {
		return nil
	}

	for _, layout := range flexLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			f.Time = t
			f.Valid = true
			return nil
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexTime) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Time.Format(time.RFC3339))
}

// Label renders the timestamp for display, falling back to UnknownLabel
// when the backend sent something unparsable.
func (f FlexTime) Label() string {
	if !f.Valid {
		return UnknownLabel
	}
	return f.Time.Format("02 Jan 2006 15:04")
}
