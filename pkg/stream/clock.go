package stream

import "time"

var epoch = time.Now()

// LocalClock returns monotonic seconds, the time base of every pushed timestamp.
func LocalClock() float64 {
	return time.Since(epoch).Seconds()
}
