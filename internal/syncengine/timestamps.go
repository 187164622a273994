package syncengine

import (
	"strconv"
	"time"
)

// parseTimestamp accepts Unix seconds first, RFC3339 as fallback, per
// the remote's inconsistent timestamp representation. A nil pointer or
// an unparseable value yields (zero, false).
func parseTimestamp(raw *string) (time.Time, bool) {
	if raw == nil || *raw == "" {
		return time.Time{}, false
	}
	if secs, err := strconv.ParseInt(*raw, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// isItemUpdated reports whether raw's timestamp is strictly newer than
// lastSync. An unparseable timestamp is treated as "not updated" since
// there is no basis to claim the item changed.
func isItemUpdated(raw *string, lastSync *time.Time) bool {
	ts, ok := parseTimestamp(raw)
	if !ok {
		return false
	}
	if lastSync == nil {
		return true
	}
	return ts.After(*lastSync)
}

func latestOf(times ...*time.Time) *time.Time {
	var latest *time.Time
	for _, t := range times {
		if t == nil {
			continue
		}
		if latest == nil || t.After(*latest) {
			latest = t
		}
	}
	return latest
}
