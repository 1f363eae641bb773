package session

import (
	"sync"
	"time"

	"github.com/littercam/littercam/internal/clock"
)

// Session states reported through Snapshot.
const (
	StateRecording = "recording"
	StateDone      = "done"
	StateFailed    = "failed"
)

// Stats tracks the running counters for one recording session. The capture
// loop mutates it once per frame; the status API reads snapshots from another
// goroutine, so access is guarded.
type Stats struct {
	mu sync.Mutex

	clk         clock.Clock
	startedAt   time.Time
	state       string
	measuredFPS float64

	totalFrames int
	chunkFrames int
	segments    int
	currentSeq  int
	lastPath    string
}

// Snapshot is a point-in-time copy of the session counters.
type Snapshot struct {
	State          string    `json:"state"`
	StartedAt      time.Time `json:"started_at"`
	ElapsedSeconds float64   `json:"elapsed_s"`
	MeasuredFPS    float64   `json:"measured_fps"`
	TotalFrames    int       `json:"total_frames"`
	ChunkFrames    int       `json:"chunk_frames"`
	Segments       int       `json:"segments"`
	CurrentSeq     int       `json:"current_seq"`
	LastPath       string    `json:"last_path,omitempty"`
}

func NewStats(clk clock.Clock, measuredFPS float64) *Stats {
	if clk == nil {
		clk = clock.System()
	}
	return &Stats{
		clk:         clk,
		startedAt:   clk.Now(),
		state:       StateRecording,
		measuredFPS: measuredFPS,
	}
}

// FrameWritten bumps the frame counters and returns the new session total.
func (s *Stats) FrameWritten() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalFrames++
	s.chunkFrames++
	return s.totalFrames
}

// SegmentOpened records that the writer opened the segment with the given
// sequence number and path.
func (s *Stats) SegmentOpened(seq int, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentSeq = seq
	s.chunkFrames = 0
	s.lastPath = path
}

// SegmentClosed bumps the finished-segment count.
func (s *Stats) SegmentClosed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.segments++
}

// SetState marks the session done or failed.
func (s *Stats) SetState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// TotalFrames returns the session frame count so far.
func (s *Stats) TotalFrames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalFrames
}

// Snapshot returns a consistent copy of all counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:          s.state,
		StartedAt:      s.startedAt,
		ElapsedSeconds: s.clk.Now().Sub(s.startedAt).Seconds(),
		MeasuredFPS:    s.measuredFPS,
		TotalFrames:    s.totalFrames,
		ChunkFrames:    s.chunkFrames,
		Segments:       s.segments,
		CurrentSeq:     s.currentSeq,
		LastPath:       s.lastPath,
	}
}
