// internal/jsonlutil/jsonlutil.go
package jsonlutil

import (
	"bufio"
	"encoding/json"
	"io"
)

// Start spins up a JSONL encoder goroutine for values of type T. Producers
// send finished reports on the returned channel and close it when done; the
// error channel yields exactly one value after the final flush.
//
// Scan reports for large genome sets stream out as they complete instead of
// accumulating in memory.
func Start[T any](out io.Writer, bufSize int) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 16
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bufio.NewWriterSize(out, 64<<10)
		enc := json.NewEncoder(bw)
		for v := range in {
			if err := enc.Encode(v); err != nil {
				done <- err
				return
			}
		}
		done <- bw.Flush()
	}()

	return in, done
}
