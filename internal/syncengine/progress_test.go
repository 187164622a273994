package syncengine

import "testing"

func TestCalculateProgressTruncatesToInteger(t *testing.T) {
	cases := []struct {
		step, total int
		fraction    float64
		want        int
	}{
		{0, 6, 0, 0},
		{1, 6, 0, 16}, // 100/6 = 16.66... truncated to 16
		{5, 6, 0.5, 91},
		{6, 6, 0, 100},
	}
	for _, tc := range cases {
		got := calculateProgress(tc.step, tc.total, tc.fraction)
		if got != tc.want {
			t.Errorf("calculateProgress(%d, %d, %v) = %d, want %d", tc.step, tc.total, tc.fraction, got, tc.want)
		}
	}
}

func TestCalculateProgressClampsToValidRange(t *testing.T) {
	if got := calculateProgress(10, 6, 0); got != 100 {
		t.Fatalf("expected clamp to 100, got %d", got)
	}
	if got := calculateProgress(0, 0, 0); got != 100 {
		t.Fatalf("expected zero total steps to report 100, got %d", got)
	}
}

func TestProgressSinkSendIsNonBlockingWhenFull(t *testing.T) {
	sink := make(ProgressSink, 1)
	sink.send(SyncProgress{Progress: 1})
	// Channel is now full; a second send must not block.
	done := make(chan struct{})
	go func() {
		sink.send(SyncProgress{Progress: 2})
		close(done)
	}()
	<-done

	first := <-sink
	if first.Progress != 1 {
		t.Fatalf("expected the first queued event to survive, got %+v", first)
	}
	select {
	case extra := <-sink:
		t.Fatalf("expected the dropped event to never arrive, got %+v", extra)
	default:
	}
}

func TestProgressSinkSendOnNilChannelIsNoOp(t *testing.T) {
	var sink ProgressSink
	sink.send(SyncProgress{Progress: 1}) // must not panic
}
