package reconcile

import (
	"strconv"
	"time"
)

// Below this magnitude an all-digit timestamp is taken as Unix seconds and
// scaled to milliseconds; at or above it, as milliseconds already. The wallet
// API has emitted both over its lifetime.
const epochSecondsCeiling = 10_000_000_000

// Layouts tried for non-numeric timestamps, most common first. Layouts
// without a zone are interpreted in the supplied location.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05.999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
)

// NormalizeTimestamp parses a raw wallet timestamp into an instant.
//
// All-digit input is a Unix epoch value (seconds or milliseconds, decided by
// magnitude); anything else goes through layout parsing. The second return is
// false when the input is empty or unparseable in either path. Malformed
// records must not abort an aggregation pass, so this never panics and never
// returns an error, only "no value".
func NormalizeTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	if isAllDigits(raw) {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			// Digits but too large for int64; treat as malformed.
			return time.Time{}, false
		}
		if n < epochSecondsCeiling {
			n *= 1000
		}
		return time.UnixMilli(n).In(loc), true
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
