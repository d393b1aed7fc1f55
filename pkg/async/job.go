package async

import "time"

// Job runs f in its own goroutine. The returned channel is closed once f returns.
func Job(f func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		f()
	}()
	return done
}

// Every calls f once per interval until stop is closed.
func Every(interval time.Duration, stop <-chan struct{}, f func()) <-chan struct{} {
	return Job(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				f()
			}
		}
	})
}
