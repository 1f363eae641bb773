// Package config defines the recorder's command-line surface and validates it
// before any device is touched.
package config

import (
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// Default values
	DefaultOutputDir  = "/mnt/video_storage"
	DefaultResolution = "1920x1080"
	DefaultFPS        = 30
	DefaultCodec      = "H264"
	DefaultFormat     = "mp4"
	DefaultDevice     = 0
	DefaultStatusPort = 8787
	DefaultLogLevel   = "info"

	// MinChunkDuration is the smallest accepted chunk budget. Anything shorter
	// produces a flood of near-empty files.
	MinChunkDuration = time.Second

	// CalibrationFrames is the warm-up sample size used to measure the true
	// capture rate before the first segment is opened.
	CalibrationFrames = 30

	// ProgressInterval is how many frames pass between progress lines.
	ProgressInterval = 30

	// DBFilename is the recording catalog database, kept in the output dir.
	DBFilename = "littercam.db"
)

// Codecs maps the recognized codec names to the FourCC strings handed to the
// encoder.
var Codecs = map[string]string{
	"H264": "H264",
	"MJPG": "MJPG",
	"XVID": "XVID",
	"MP4V": "mp4v",
}

// Config holds one recording session's settings. It is immutable for the
// session's lifetime.
type Config struct {
	OutputDir     string
	Width         int
	Height        int
	FPS           int
	Codec         string
	Format        string
	Device        int
	TotalDuration time.Duration // zero means unbounded
	ChunkDuration time.Duration // zero means no rotation
	Headless      bool
	StatusPort    int // zero disables the status API
	NoCatalog     bool
	LogLevel      string

	// Utility modes
	TestCapture bool
	ListCaps    bool

	resolution string
}

// ParseFlags builds a Config from command-line arguments and validates it.
func ParseFlags(name string, args []string) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.OutputDir, "output", DefaultOutputDir, "output directory for recordings")
	fs.StringVar(&cfg.resolution, "resolution", DefaultResolution, "video resolution (WIDTHxHEIGHT)")
	fs.IntVar(&cfg.FPS, "fps", DefaultFPS, "nominal frame rate")
	fs.StringVar(&cfg.Codec, "codec", DefaultCodec, "video codec (H264, MJPG, XVID, MP4V)")
	fs.StringVar(&cfg.Format, "format", DefaultFormat, "output file format extension")
	fs.IntVar(&cfg.Device, "camera", DefaultDevice, "camera device index")
	fs.DurationVar(&cfg.TotalDuration, "duration", 0, "total recording duration (0 = until stopped)")
	fs.DurationVar(&cfg.ChunkDuration, "chunk", 0, "duration of each file chunk (0 = single file)")
	fs.BoolVar(&cfg.Headless, "headless", true, "run without video preview (for remote/SSH use)")
	fs.IntVar(&cfg.StatusPort, "status-port", DefaultStatusPort, "local status API port (0 = disabled)")
	fs.BoolVar(&cfg.NoCatalog, "no-catalog", false, "skip recording the segment catalog database")
	fs.StringVar(&cfg.LogLevel, "log-level", DefaultLogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.TestCapture, "test", false, "test camera settings without recording")
	fs.BoolVar(&cfg.ListCaps, "list", false, "print how to list camera capabilities")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	w, h, err := ParseResolution(c.resolution)
	if err != nil {
		return err
	}
	c.Width, c.Height = w, h

	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}

	c.Codec = strings.ToUpper(c.Codec)
	if _, ok := Codecs[c.Codec]; !ok {
		return fmt.Errorf("unknown codec %q (supported: H264, MJPG, XVID, MP4V)", c.Codec)
	}

	c.Format = strings.TrimPrefix(strings.ToLower(c.Format), ".")
	if c.Format == "" {
		return fmt.Errorf("format must not be empty")
	}

	if c.Device < 0 {
		return fmt.Errorf("camera index must not be negative, got %d", c.Device)
	}

	if c.TotalDuration < 0 {
		return fmt.Errorf("duration must not be negative, got %s", c.TotalDuration)
	}
	if c.ChunkDuration != 0 && c.ChunkDuration < MinChunkDuration {
		return fmt.Errorf("chunk duration %s is below the minimum %s", c.ChunkDuration, MinChunkDuration)
	}

	if c.StatusPort < 0 || c.StatusPort > 65535 {
		return fmt.Errorf("status port must be between 0 and 65535, got %d", c.StatusPort)
	}

	return nil
}

// ParseResolution splits a WIDTHxHEIGHT string into its two dimensions.
func ParseResolution(s string) (int, int, error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid resolution %q: use WIDTHxHEIGHT (e.g. 1920x1080)", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution width %q: %w", parts[0], err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution height %q: %w", parts[1], err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("resolution dimensions must be positive, got %dx%d", w, h)
	}
	return w, h, nil
}

// FourCC returns the encoder FourCC string for the configured codec.
func (c *Config) FourCC() string {
	return Codecs[c.Codec]
}

// DBPath returns the full path to the recording catalog database.
func (c *Config) DBPath() string {
	return filepath.Join(c.OutputDir, DBFilename)
}

// Chunked reports whether chunk rotation is configured.
func (c *Config) Chunked() bool {
	return c.ChunkDuration > 0
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
