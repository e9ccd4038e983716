package query

import (
	"bytes"
	"io"
	"os"
	"sync"
)

// captureMu serializes stream capture: os.Stdout/os.Stderr are process-wide
// state, so only one evaluation may hold the redirection at a time.
var captureMu sync.Mutex

// captureStreams redirects the process standard streams to a pipe for the
// duration of fn, returning whatever fn wrote. The original streams are
// restored on every exit path, including a panicking fn (the panic continues
// to propagate after restoration).
//
// The wrapped query engine may use the standard streams as a diagnostic side
// channel; letting those bytes through would corrupt the interactive display.
func captureStreams(fn func()) (captured string) {
	captureMu.Lock()
	defer captureMu.Unlock()

	r, w, err := os.Pipe()
	if err != nil {
		// No isolation available; run uncaptured rather than not at all.
		fn()
		return ""
	}

	origOut, origErr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = w, w

	done := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	defer func() {
		os.Stdout, os.Stderr = origOut, origErr
		_ = w.Close()
		captured = <-done
		_ = r.Close()
	}()

	fn()
	return captured
}
