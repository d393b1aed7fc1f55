package async

import (
	"bufio"
	"io"
)

// Line is closed once a full line, or the end of input, has been read from r.
func Line(r io.Reader) <-chan struct{} {
	return Job(func() {
		_, _ = bufio.NewReader(r).ReadBytes('\n')
	})
}
