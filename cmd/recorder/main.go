package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gocv.io/x/gocv"

	"github.com/littercam/littercam/internal/api"
	"github.com/littercam/littercam/internal/capture"
	"github.com/littercam/littercam/internal/catalog"
	"github.com/littercam/littercam/internal/clock"
	"github.com/littercam/littercam/internal/config"
	"github.com/littercam/littercam/internal/db"
	"github.com/littercam/littercam/internal/logging"
	"github.com/littercam/littercam/internal/overlay"
	"github.com/littercam/littercam/internal/preview"
	"github.com/littercam/littercam/internal/segment"
	"github.com/littercam/littercam/internal/session"
)

func main() {
	cfg, err := config.ParseFlags("recorder", os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "recorder: %v\n", err)
		os.Exit(2)
	}

	if cfg.ListCaps {
		printCapabilitiesHint()
		return
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "recorder: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	startTime := time.Now()
	logger := logging.NewLogger(cfg.LogLevel)

	sessionID := catalog.NewID()
	logger = logging.WithSessionID(logger, sessionID)

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Printf("║                  LITTERCAM RECORDER v%-6s               ║\n", config.Version)
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  Output:     %-45s ║\n", logging.SanitizePath(cfg.OutputDir))
	fmt.Printf("║  Mode:       %-45s ║\n", fmt.Sprintf("%dx%d @ %d fps, %s/%s", cfg.Width, cfg.Height, cfg.FPS, cfg.Codec, cfg.Format))
	if cfg.StatusPort > 0 {
		fmt.Printf("║  Status API: http://127.0.0.1:%-28d ║\n", cfg.StatusPort)
	}
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	logger.Info("starting recorder",
		"version", config.Version,
		"device", cfg.Device,
		"output_dir", cfg.OutputDir,
		"chunk", cfg.ChunkDuration.String(),
		"duration", cfg.TotalDuration.String(),
	)

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	src, err := capture.OpenDevice(cfg.Device, cfg.Width, cfg.Height, cfg.FPS, logger)
	if err != nil {
		return err
	}

	if cfg.TestCapture {
		return testCapture(src, logger)
	}

	measured, err := capture.Calibrate(src, config.CalibrationFrames, cfg.FPS, clock.System(), logger)
	if err != nil {
		src.Close()
		return err
	}

	// The catalog is bookkeeping. If the database cannot be opened the
	// session records without it.
	var repo catalog.Repository
	if !cfg.NoCatalog {
		database, err := db.New(cfg.DBPath(), logger)
		if err != nil {
			logger.Warn("recording catalog unavailable, continuing without it", "error", err)
		} else {
			defer database.Close()
			repo = catalog.NewRepository(database.Conn())
		}
	}

	stamp := startTime.Format("20060102_150405")
	writer := segment.NewWriter(segment.WriterConfig{
		Dir:          cfg.OutputDir,
		SessionStamp: stamp,
		Format:       cfg.Format,
		Chunked:      cfg.Chunked(),
		Open:         segment.VideoSinkOpener(cfg.FourCC(), measured, src.Width(), src.Height()),
		Logger:       logger,
	})
	ctrl := segment.NewController(cfg.ChunkDuration, cfg.TotalDuration, clock.System())
	stats := session.NewStats(clock.System(), measured)

	var pv session.Preview
	if !cfg.Headless {
		w := preview.NewWindow("littercam (press q to stop)")
		defer w.Close()
		pv = w
	}

	var onClosed func(seg *segment.Segment)
	if repo != nil {
		onClosed = func(seg *segment.Segment) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			rec := &catalog.Recording{
				ID:        catalog.NewID(),
				SessionID: sessionID,
				Seq:       seg.Seq,
				Path:      seg.Path,
				Frames:    seg.Frames,
				FPS:       measured,
				OpenedAt:  seg.OpenedAt,
				ClosedAt:  seg.ClosedAt,
				CreatedAt: time.Now().UTC(),
			}
			if err := repo.CreateRecording(ctx, rec); err != nil {
				logger.Warn("failed to catalog segment", "seq", seg.Seq, "error", err)
			}
		}
	}

	loop := session.New(session.Config{
		Source:          src,
		Annotate:        overlay.New().Apply,
		Writer:          writer,
		Controller:      ctrl,
		Stats:           stats,
		Preview:         pv,
		OnSegmentClosed: onClosed,
		Clock:           clock.System(),
		Logger:          logger,
		ProgressEvery:   config.ProgressInterval,
	})

	if cfg.StatusPort > 0 {
		apiServer := api.NewServer(api.ServerConfig{
			Port:       cfg.StatusPort,
			Stats:      stats,
			Repository: repo,
			Logger:     logger,
			StartTime:  startTime,
			Version:    config.Version,
		})
		go func() {
			if err := apiServer.Start(); err != nil {
				logger.Error("status API error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := apiServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("status API shutdown failed", "error", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
		loop.Stop()
	}()

	return loop.Run()
}

// testCapture grabs one frame to verify the configured capture mode, reports
// what the driver actually delivered, and exits without recording anything.
func testCapture(src capture.Source, logger *slog.Logger) error {
	img := gocv.NewMat()
	defer img.Close()
	defer src.Close()

	if !src.Read(&img) {
		return fmt.Errorf("test capture: %w", capture.ErrReadFailure)
	}

	logger.Info("test capture succeeded",
		"frame_width", img.Cols(),
		"frame_height", img.Rows(),
		"negotiated_width", src.Width(),
		"negotiated_height", src.Height(),
		"driver_fps", src.ReportedFPS(),
	)
	fmt.Printf("OK: captured one %dx%d frame (driver reports %.1f fps)\n",
		img.Cols(), img.Rows(), src.ReportedFPS())
	return nil
}

func printCapabilitiesHint() {
	fmt.Println("To list cameras and their supported capture modes:")
	fmt.Println()
	fmt.Println("  v4l2-ctl --list-devices")
	fmt.Println("  v4l2-ctl -d /dev/video0 --list-formats-ext")
	fmt.Println()
	fmt.Println("Pass the device index with -camera and the mode with -resolution/-fps.")
}
