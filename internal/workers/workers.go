package workers

import "runtime"

// Count returns a worker count scaled from the available CPUs. The
// multiplier adjusts for task weight (1.0 for CPU-bound, higher for jobs
// that spend part of their time in I/O); limit caps the result, 0 means
// no cap. The result is never below 1.
func Count(multiplier float64, limit int) int {
	available := runtime.GOMAXPROCS(0)

	n := int(float64(available) * multiplier)
	if n < 1 {
		n = 1
	}
	if limit > 0 && n > limit {
		n = limit
	}
	return n
}

// ForVideo returns the default video pool size: one worker per two CPUs.
// Each ffmpeg child is itself multithreaded, so a full worker per core
// oversubscribes the machine.
func ForVideo(limit int) int {
	return Count(0.5, limit)
}

// ForImages returns the default image pool size: one worker per CPU. Image
// jobs fan out per preset internally but each preset encode is short.
func ForImages(limit int) int {
	return Count(1.0, limit)
}
