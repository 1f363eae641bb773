package segment

import (
	"time"

	"github.com/littercam/littercam/internal/clock"
)

// State is the rotation controller's position in the session lifecycle.
type State int

const (
	NoSegment State = iota
	SegmentOpen
	SessionDone
)

func (s State) String() string {
	switch s {
	case NoSegment:
		return "no_segment"
	case SegmentOpen:
		return "segment_open"
	case SessionDone:
		return "session_done"
	default:
		return "unknown"
	}
}

// Signal is the controller's per-frame instruction to the capture loop.
type Signal int

const (
	// Continue keeps writing to the active segment.
	Continue Signal = iota
	// Rotate closes the active segment and opens its successor.
	Rotate
	// Stop closes the active segment and ends the session.
	Stop
)

// Controller decides when the active segment rotates and when the session
// ends. Both budgets are optional and independent: a zero chunk budget means
// a single unbounded segment, a zero total budget means the session runs
// until an external stop. Decisions are driven by elapsed-time comparisons
// against the injected clock, evaluated once per frame, never by timers.
type Controller struct {
	chunk time.Duration
	total time.Duration
	clk   clock.Clock

	state        State
	seq          int
	sessionStart time.Time
	chunkStart   time.Time
}

func NewController(chunk, total time.Duration, clk clock.Clock) *Controller {
	if clk == nil {
		clk = clock.System()
	}
	return &Controller{chunk: chunk, total: total, clk: clk, state: NoSegment}
}

// Begin starts the session clock and returns the first sequence number.
func (c *Controller) Begin() int {
	now := c.clk.Now()
	c.sessionStart = now
	c.chunkStart = now
	c.state = SegmentOpen
	c.seq = 1
	return c.seq
}

// Evaluate is called once per written frame, after the write. The session
// boundary outranks the chunk boundary: when both trip on the same frame the
// session stops, and the shutdown path closes the chunk, so no frame is
// dropped and no empty successor file is created.
func (c *Controller) Evaluate() Signal {
	if c.state != SegmentOpen {
		return Stop
	}

	now := c.clk.Now()
	chunkDue := c.chunk > 0 && now.Sub(c.chunkStart) >= c.chunk
	sessionDue := c.total > 0 && now.Sub(c.sessionStart) >= c.total

	if sessionDue {
		c.state = SessionDone
		return Stop
	}
	if chunkDue {
		return Rotate
	}
	return Continue
}

// Rotated records that the capture loop closed the active segment and opened
// its successor. It returns the new sequence number.
func (c *Controller) Rotated() int {
	c.seq++
	c.chunkStart = c.clk.Now()
	return c.seq
}

// Finish forces the terminal state. Used for external stops and read
// failures, which end the session regardless of budgets.
func (c *Controller) Finish() {
	c.state = SessionDone
}

func (c *Controller) State() State { return c.state }

// Seq returns the current segment sequence number.
func (c *Controller) Seq() int { return c.seq }

// SessionElapsed returns how long the session has been running.
func (c *Controller) SessionElapsed() time.Duration {
	if c.sessionStart.IsZero() {
		return 0
	}
	return c.clk.Now().Sub(c.sessionStart)
}

// ChunkElapsed returns how long the active segment has been open.
func (c *Controller) ChunkElapsed() time.Duration {
	if c.chunkStart.IsZero() {
		return 0
	}
	return c.clk.Now().Sub(c.chunkStart)
}
