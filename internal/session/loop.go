// Package session drives the per-frame capture pipeline: read, annotate,
// write, evaluate rotation. It owns cleanup on every exit path.
package session

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"github.com/littercam/littercam/internal/capture"
	"github.com/littercam/littercam/internal/clock"
	"github.com/littercam/littercam/internal/segment"
)

// Preview is the optional live-view collaborator. Show renders the frame and
// reports true when the operator asked to stop from the preview window.
type Preview interface {
	Show(img *gocv.Mat) bool
	Close() error
}

// Config wires a capture loop. Source, Writer, Controller and Stats are
// required; the rest are optional collaborators.
type Config struct {
	Source     capture.Source
	Annotate   func(img *gocv.Mat, ts time.Time)
	Writer     *segment.Writer
	Controller *segment.Controller
	Stats      *Stats
	Preview    Preview // nil when headless

	// OnSegmentClosed is invoked for every finalized segment, in order.
	OnSegmentClosed func(seg *segment.Segment)

	Clock         clock.Clock
	Logger        *slog.Logger
	ProgressEvery int
}

// Loop pulls one frame at a time from the source and pushes it through the
// pipeline. Everything happens strictly in frame order on one goroutine;
// only Stop may be called from elsewhere.
type Loop struct {
	src      capture.Source
	annotate func(img *gocv.Mat, ts time.Time)
	writer   *segment.Writer
	ctrl     *segment.Controller
	stats    *Stats
	preview  Preview
	onClosed func(seg *segment.Segment)

	clk           clock.Clock
	logger        *slog.Logger
	progressEvery int

	stopped atomic.Bool
}

func New(cfg Config) *Loop {
	l := &Loop{
		src:           cfg.Source,
		annotate:      cfg.Annotate,
		writer:        cfg.Writer,
		ctrl:          cfg.Controller,
		stats:         cfg.Stats,
		preview:       cfg.Preview,
		onClosed:      cfg.OnSegmentClosed,
		clk:           cfg.Clock,
		logger:        cfg.Logger,
		progressEvery: cfg.ProgressEvery,
	}
	if l.clk == nil {
		l.clk = clock.System()
	}
	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}
	if l.annotate == nil {
		l.annotate = func(*gocv.Mat, time.Time) {}
	}
	if l.progressEvery <= 0 {
		l.progressEvery = 30
	}
	return l
}

// Stop requests an orderly shutdown. Safe to call from another goroutine,
// typically the signal handler; the loop notices before its next read.
func (l *Loop) Stop() {
	l.stopped.Store(true)
}

// Run executes the capture loop until a budget elapses, the operator stops
// it, or the source fails. Cleanup — closing the active segment, releasing
// the source and logging the final summary — runs on every exit path.
func (l *Loop) Run() (err error) {
	seq := l.ctrl.Begin()

	defer func() {
		l.closeActive()
		if cerr := l.src.Close(); cerr != nil {
			l.logger.Warn("failed to release frame source", "error", cerr)
		}
		l.ctrl.Finish()
		if err != nil {
			l.stats.SetState(StateFailed)
		} else {
			l.stats.SetState(StateDone)
		}
		l.logSummary()
	}()

	seg, err := l.writer.Open(seq)
	if err != nil {
		return fmt.Errorf("segment open: %w", err)
	}
	l.stats.SegmentOpened(seg.Seq, seg.Path)

	img := gocv.NewMat()
	defer img.Close()

	for {
		if l.stopped.Load() {
			l.logger.Info("stop requested, ending session")
			return nil
		}

		if !l.src.Read(&img) {
			return fmt.Errorf("frame read: %w", capture.ErrReadFailure)
		}

		l.annotate(&img, l.clk.Now())

		if werr := l.writer.Write(&img); werr != nil {
			return fmt.Errorf("frame write: %w", werr)
		}
		frames := l.stats.FrameWritten()

		if l.preview != nil && l.preview.Show(&img) {
			l.logger.Info("stop requested from preview window")
			return nil
		}

		if frames%l.progressEvery == 0 {
			l.logger.Info("recording progress",
				"frames", frames,
				"elapsed", l.ctrl.SessionElapsed().Round(100*time.Millisecond).String(),
				"segment", l.ctrl.Seq(),
			)
		}

		switch l.ctrl.Evaluate() {
		case segment.Rotate:
			if rerr := l.rotate(); rerr != nil {
				return rerr
			}
		case segment.Stop:
			l.logger.Info("recording budget reached")
			return nil
		}
	}
}

// rotate closes the active segment and opens its successor. A rotation
// happens strictly between two frame writes.
func (l *Loop) rotate() error {
	l.closeActive()

	seq := l.ctrl.Rotated()
	seg, err := l.writer.Open(seq)
	if err != nil {
		return fmt.Errorf("segment open: %w", err)
	}
	l.stats.SegmentOpened(seg.Seq, seg.Path)
	return nil
}

func (l *Loop) closeActive() {
	seg, err := l.writer.Close()
	if err != nil {
		l.logger.Warn("segment close failed", "error", err)
	}
	if seg == nil {
		return
	}
	l.stats.SegmentClosed()
	if l.onClosed != nil {
		l.onClosed(seg)
	}
}

func (l *Loop) logSummary() {
	snap := l.stats.Snapshot()
	l.logger.Info("recording complete",
		"state", snap.State,
		"duration", fmt.Sprintf("%.1fs", snap.ElapsedSeconds),
		"frames", snap.TotalFrames,
		"segments", snap.Segments,
		"last_file", snap.LastPath,
	)
}
