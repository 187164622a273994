package main

import (
	"fmt"

	"github.com/Nomadcxx/xtreamcached/internal/syncengine"
)

// printProgress drains sink and prints one line per snapshot. Run in
// its own goroutine; returns once the sink is closed by the caller.
func printProgress(sink syncengine.ProgressSink) {
	for ev := range sink {
		fmt.Printf("  [%3d%%] %s: %s\n", ev.Progress, ev.Status, ev.CurrentStep)
	}
}
