package syncengine

import (
	"testing"
	"time"
)

func strp(s string) *string { return &s }

func TestParseTimestampAcceptsUnixSecondsAndRFC3339(t *testing.T) {
	if _, ok := parseTimestamp(nil); ok {
		t.Fatal("expected nil input to fail")
	}
	if _, ok := parseTimestamp(strp("")); ok {
		t.Fatal("expected empty string to fail")
	}
	if _, ok := parseTimestamp(strp("not-a-timestamp")); ok {
		t.Fatal("expected unparseable input to fail")
	}

	ts, ok := parseTimestamp(strp("1700000000"))
	if !ok {
		t.Fatal("expected unix seconds to parse")
	}
	if ts.Unix() != 1700000000 {
		t.Fatalf("expected unix 1700000000, got %d", ts.Unix())
	}

	ts2, ok := parseTimestamp(strp("2023-11-14T22:13:20Z"))
	if !ok {
		t.Fatal("expected RFC3339 to parse")
	}
	if !ts.Equal(ts2) {
		t.Fatalf("expected both formats to agree, got %v and %v", ts, ts2)
	}
}

func TestIsItemUpdatedWithNilLastSyncIsAlwaysUpdated(t *testing.T) {
	if !isItemUpdated(strp("1700000000"), nil) {
		t.Fatal("expected no prior sync to count as updated")
	}
}

func TestIsItemUpdatedComparesAgainstLastSync(t *testing.T) {
	last := time.Unix(1700000000, 0).UTC()
	if isItemUpdated(strp("1700000000"), &last) {
		t.Fatal("expected an equal timestamp to not count as updated")
	}
	if !isItemUpdated(strp("1700000001"), &last) {
		t.Fatal("expected a strictly newer timestamp to count as updated")
	}
	if isItemUpdated(strp("1699999999"), &last) {
		t.Fatal("expected an older timestamp to not count as updated")
	}
}

func TestIsItemUpdatedUnparseableIsNeverUpdated(t *testing.T) {
	last := time.Unix(1700000000, 0).UTC()
	if isItemUpdated(nil, &last) {
		t.Fatal("expected nil raw timestamp to never count as updated")
	}
	if isItemUpdated(strp("garbage"), &last) {
		t.Fatal("expected unparseable raw timestamp to never count as updated")
	}
}

func TestLatestOfPicksMostRecentNonNil(t *testing.T) {
	a := time.Unix(100, 0)
	b := time.Unix(200, 0)
	latest := latestOf(&a, nil, &b)
	if latest == nil || !latest.Equal(b) {
		t.Fatalf("expected b to be latest, got %v", latest)
	}
	if latestOf(nil, nil) != nil {
		t.Fatal("expected all-nil input to yield nil")
	}
}
