package port

import "io"

// ProgressSink receives streamed body bytes for display
type ProgressSink interface {
	io.Writer

	// Finish marks the transfer as complete
	Finish() error
}

// ProgressFunc starts a sink for one download. total is the declared
// length, or -1 when unknown.
type ProgressFunc func(rawURL string, total int64) ProgressSink
