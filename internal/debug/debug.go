package debug

import (
	"log"
	"time"
)

// Output logs a trace line when tracing is enabled.
func Output(enabled bool, format string, args ...interface{}) {
	if enabled {
		log.Printf(format, args...)
	}
}

// Timing logs the duration of a pipeline stage if tracing is enabled.
// Call the returned func when the stage completes.
func Timing(enabled bool, stage string) func() {
	if !enabled {
		return func() {}
	}

	start := time.Now()
	log.Printf("starting: %s", stage)

	return func() {
		log.Printf("completed: %s (took %v)", stage, time.Since(start))
	}
}
