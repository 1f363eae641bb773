// Package segment owns the on-disk output of a recording session: one open
// file at a time, and the rotation policy that decides when to close it.
package segment

import (
	"fmt"
	"time"
)

// Segment is one physical output file. Sequence numbers are 1-based and
// strictly increasing within a session; a segment transitions open -> closed
// exactly once and is never reopened.
type Segment struct {
	Seq      int
	Path     string
	Frames   int
	OpenedAt time.Time
	ClosedAt time.Time
}

// Duration returns how long the segment was open. Zero until closed.
func (s *Segment) Duration() time.Duration {
	if s.ClosedAt.IsZero() {
		return 0
	}
	return s.ClosedAt.Sub(s.OpenedAt)
}

// SinkError indicates the encoder sink for a segment could not be opened or
// written. It aborts the whole session: skipping a chunk would corrupt the
// sequence numbering.
type SinkError struct {
	Path string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s: %v", e.Path, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }
