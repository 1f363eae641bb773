// Package catalog records finished segments in the local database so the
// status API can report recording history across sessions. The catalog is
// bookkeeping only: a catalog failure never interrupts recording.
package catalog

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Recording is one finalized segment file.
type Recording struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Seq       int       `json:"seq"`
	Path      string    `json:"path"`
	Frames    int       `json:"frames"`
	FPS       float64   `json:"fps"`
	OpenedAt  time.Time `json:"opened_at"`
	ClosedAt  time.Time `json:"closed_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Duration returns how long the recording's segment was open.
func (r *Recording) Duration() time.Duration {
	return r.ClosedAt.Sub(r.OpenedAt)
}

func NewID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}
