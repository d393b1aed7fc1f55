package async

// Gather0 is closed once every channel in c is closed.
func Gather0(c ...<-chan struct{}) <-chan struct{} {
	return Job(func() {
		for _, f := range c {
			if f != nil {
				<-f
			}
		}
	})
}
