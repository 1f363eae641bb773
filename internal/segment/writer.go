package segment

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/littercam/littercam/internal/clock"
)

// ErrClosed is returned when a frame is written through a writer that has no
// open segment. That is a programming error in the capture loop, not an I/O
// condition.
var ErrClosed = errors.New("segment: write on closed writer")

// Sink is the encoder/muxer a segment's frames are appended to.
type Sink interface {
	Write(img *gocv.Mat) error
	Close() error
}

// SinkOpener opens an encoder sink for one segment file.
type SinkOpener func(path string) (Sink, error)

// VideoSinkOpener returns a SinkOpener backed by an OpenCV video writer using
// the given FourCC, frame rate and geometry. rate must be the calibrated
// capture rate or the file plays too fast or too slow.
func VideoSinkOpener(fourcc string, rate float64, width, height int) SinkOpener {
	return func(path string) (Sink, error) {
		vw, err := gocv.VideoWriterFile(path, fourcc, rate, width, height, true)
		if err != nil {
			return nil, err
		}
		if !vw.IsOpened() {
			vw.Close()
			return nil, fmt.Errorf("video writer did not open (codec %q)", fourcc)
		}
		return &videoSink{vw: vw}, nil
	}
}

type videoSink struct {
	vw *gocv.VideoWriter
}

func (s *videoSink) Write(img *gocv.Mat) error { return s.vw.Write(*img) }

func (s *videoSink) Close() error { return s.vw.Close() }

// WriterConfig configures a Writer for one session.
type WriterConfig struct {
	Dir          string
	SessionStamp string // session start time formatted as 20060102_150405
	Format       string // file extension without the dot
	Chunked      bool   // emit _partNNN suffixes
	Open         SinkOpener
	Clock        clock.Clock
	Logger       *slog.Logger
}

// Writer owns at most one open segment file at a time. It is not safe for
// concurrent use; the capture loop is its only caller.
type Writer struct {
	cfg     WriterConfig
	sink    Sink
	current *Segment
}

func NewWriter(cfg WriterConfig) *Writer {
	if cfg.Clock == nil {
		cfg.Clock = clock.System()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{cfg: cfg}
}

// Filename returns the file name for the given 1-based sequence number. An
// unchunked session gets a single file with no part suffix.
func (w *Writer) Filename(seq int) string {
	if !w.cfg.Chunked {
		return fmt.Sprintf("recording_%s.%s", w.cfg.SessionStamp, w.cfg.Format)
	}
	return fmt.Sprintf("recording_%s_part%03d.%s", w.cfg.SessionStamp, seq, w.cfg.Format)
}

// Open allocates the segment file for seq, creating the output directory if
// absent, and opens its encoder sink.
func (w *Writer) Open(seq int) (*Segment, error) {
	if w.current != nil {
		return nil, fmt.Errorf("segment %d is still open", w.current.Seq)
	}

	if err := os.MkdirAll(w.cfg.Dir, 0755); err != nil {
		return nil, &SinkError{Path: w.cfg.Dir, Err: err}
	}

	path := filepath.Join(w.cfg.Dir, w.Filename(seq))
	sink, err := w.cfg.Open(path)
	if err != nil {
		return nil, &SinkError{Path: path, Err: err}
	}

	w.sink = sink
	w.current = &Segment{Seq: seq, Path: path, OpenedAt: w.cfg.Clock.Now()}
	w.cfg.Logger.Info("segment opened", "seq", seq, "path", path)
	return w.current, nil
}

// Write appends one already-annotated frame to the open segment.
func (w *Writer) Write(img *gocv.Mat) error {
	if w.current == nil {
		return ErrClosed
	}
	if err := w.sink.Write(img); err != nil {
		return &SinkError{Path: w.current.Path, Err: err}
	}
	w.current.Frames++
	return nil
}

// Close flushes and finalizes the open segment so the file is independently
// playable, and returns it. Closing an already-closed writer is a no-op
// returning (nil, nil).
func (w *Writer) Close() (*Segment, error) {
	if w.current == nil {
		return nil, nil
	}

	seg := w.current
	seg.ClosedAt = w.cfg.Clock.Now()
	err := w.sink.Close()
	w.sink = nil
	w.current = nil

	w.cfg.Logger.Info("segment closed",
		"seq", seg.Seq,
		"frames", seg.Frames,
		"duration", seg.Duration().String(),
		"path", seg.Path,
	)
	if err != nil {
		return seg, &SinkError{Path: seg.Path, Err: err}
	}
	return seg, nil
}

// Current returns the open segment, or nil.
func (w *Writer) Current() *Segment { return w.current }
