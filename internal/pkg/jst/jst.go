// Package jst converts the local date-time strings found in the CSV data into
// epoch seconds. The zone is fixed to Japan Standard Time.
package jst

import (
	"strings"
	"time"
)

const (
	Layout        = "2006/01/02 15:04"
	layoutLenient = "2006/1/2 15:04"
	layoutSeconds = "2006/1/2 15:04:05"
)

// Location is UTC+9 with no daylight saving.
var Location = time.FixedZone("JST", 9*60*60)

// ParseDateTime parses "YYYY/MM/DD HH:mm" as JST and returns epoch seconds.
// ok is false when s does not match, and the timestamp must not be used.
func ParseDateTime(s string) (ts int64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	for _, layout := range []string{layoutLenient, layoutSeconds} {
		t, err := time.ParseInLocation(layout, s, Location)
		if err == nil {
			return t.Unix(), true
		}
	}

	return 0, false
}

// Format renders epoch seconds back into the CSV layout.
func Format(ts int64) string {
	return time.Unix(ts, 0).In(Location).Format(Layout)
}
