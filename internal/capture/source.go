// Package capture owns the frame source: camera access and frame-rate
// calibration. The rest of the recorder sees frames only through the Source
// interface.
package capture

import (
	"errors"
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"
)

// ErrReadFailure is reported when the source stops yielding frames
// mid-stream. A broken source rarely self-heals, so reads are not retried.
var ErrReadFailure = errors.New("frame source stopped yielding frames")

// DeviceError indicates the capture device could not be opened.
type DeviceError struct {
	Index int
	Err   error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("camera %d unavailable: %v", e.Index, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// Source yields frames in capture order. Read fills img and returns false on
// end-of-stream or read failure. Width and Height report the negotiated frame
// geometry, which may differ from what was requested.
type Source interface {
	Read(img *gocv.Mat) bool
	Width() int
	Height() int
	ReportedFPS() float64
	Close() error
}

// Device is a webcam-backed Source.
type Device struct {
	cap         *gocv.VideoCapture
	width       int
	height      int
	reportedFPS float64
}

// OpenDevice opens the camera at index and applies the requested capture
// mode. The driver may negotiate different values; the actual geometry is
// exposed through Width/Height and a mismatch is logged rather than silently
// assumed away.
func OpenDevice(index, width, height, fps int, logger *slog.Logger) (*Device, error) {
	cap, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, &DeviceError{Index: index, Err: err}
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, &DeviceError{Index: index, Err: errors.New("device did not open")}
	}

	cap.Set(gocv.VideoCaptureFrameWidth, float64(width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(height))
	cap.Set(gocv.VideoCaptureFPS, float64(fps))

	d := &Device{
		cap:         cap,
		width:       int(cap.Get(gocv.VideoCaptureFrameWidth)),
		height:      int(cap.Get(gocv.VideoCaptureFrameHeight)),
		reportedFPS: cap.Get(gocv.VideoCaptureFPS),
	}

	logger.Info("camera initialized",
		"device", index,
		"width", d.width,
		"height", d.height,
		"reported_fps", d.reportedFPS,
	)
	if d.width != width || d.height != height {
		logger.Warn("camera negotiated a different resolution",
			"requested", fmt.Sprintf("%dx%d", width, height),
			"actual", fmt.Sprintf("%dx%d", d.width, d.height),
		)
	}

	return d, nil
}

func (d *Device) Read(img *gocv.Mat) bool {
	if ok := d.cap.Read(img); !ok || img.Empty() {
		return false
	}
	return true
}

func (d *Device) Width() int { return d.width }

func (d *Device) Height() int { return d.height }

// ReportedFPS returns the rate the driver claims. It is frequently wrong for
// physical devices; use Calibrate for the real value.
func (d *Device) ReportedFPS() float64 { return d.reportedFPS }

func (d *Device) Close() error { return d.cap.Close() }
