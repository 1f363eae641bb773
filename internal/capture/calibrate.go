package capture

import (
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/littercam/littercam/internal/clock"
)

// Calibrate measures the source's true delivery rate by reading samples
// frames as fast as the device permits. The measured rate is what every
// segment's encoder is opened with; the nominal rate is only a fallback for
// when the elapsed window is too small to divide by.
//
// The measurement happens once per session. A source whose rate drifts over a
// long session is not re-calibrated; chunk durations will skew accordingly.
//
// A source that yields no frames at all fails the session up front rather
// than letting it proceed with a nonsensical rate.
func Calibrate(src Source, samples, nominal int, clk clock.Clock, logger *slog.Logger) (float64, error) {
	logger.Info("measuring camera frame rate", "samples", samples)

	img := gocv.NewMat()
	defer img.Close()

	start := clk.Now()
	read := 0
	for i := 0; i < samples; i++ {
		if !src.Read(&img) {
			break
		}
		read++
	}
	elapsed := clk.Now().Sub(start)

	if read == 0 {
		return 0, fmt.Errorf("source produced no frames during calibration: %w", ErrReadFailure)
	}
	if elapsed <= 0 {
		logger.Warn("calibration window too short, using nominal rate", "nominal_fps", nominal)
		return float64(nominal), nil
	}

	measured := float64(read) / elapsed.Seconds()
	logger.Info("measured camera frame rate",
		"frames", read,
		"elapsed", elapsed.String(),
		"measured_fps", fmt.Sprintf("%.1f", measured),
	)
	return measured, nil
}
