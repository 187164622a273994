package syncengine

import (
	"errors"
	"testing"
)

var errBoom = errors.New("boom")

func TestIdsNotInAlwaysReturnsNonNilSlice(t *testing.T) {
	out := idsNotIn(map[int]struct{}{1: {}}, map[int]struct{}{1: {}})
	if out == nil {
		t.Fatal("expected a non-nil empty slice, not nil, since nil means delete-all downstream")
	}
	if len(out) != 0 {
		t.Fatalf("expected no removed ids, got %v", out)
	}
}

func TestIdsNotInReturnsLocalOnlyIDs(t *testing.T) {
	local := map[int]struct{}{1: {}, 2: {}, 3: {}}
	server := map[int]struct{}{2: {}}
	out := idsNotIn(local, server)
	if len(out) != 2 {
		t.Fatalf("expected 2 removed ids, got %v", out)
	}
	seen := map[int]bool{}
	for _, id := range out {
		seen[id] = true
	}
	if !seen[1] || !seen[3] {
		t.Fatalf("expected ids 1 and 3 to be reported removed, got %v", out)
	}
}

func TestApplyIncrementalFoldsUpsertAndRemoveCounts(t *testing.T) {
	sc := &Scheduler{}
	n, err := sc.applyIncremental(
		func() (int, error) { return 3, nil },
		func() (int, error) { return 2, nil },
	)
	if err != nil {
		t.Fatalf("apply incremental: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected folded count 5, got %d", n)
	}
}

func TestApplyIncrementalShortCircuitsOnUpsertError(t *testing.T) {
	sc := &Scheduler{}
	removeCalled := false
	_, err := sc.applyIncremental(
		func() (int, error) { return 0, errBoom },
		func() (int, error) { removeCalled = true; return 0, nil },
	)
	if err != errBoom {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if removeCalled {
		t.Fatal("expected remove to be skipped when upsert fails")
	}
}
