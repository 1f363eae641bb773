package config

import (
	"testing"
	"time"
)

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := ParseFlags("recorder", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Width != 1920 || cfg.Height != 1080 {
		t.Errorf("default resolution = %dx%d, want 1920x1080", cfg.Width, cfg.Height)
	}
	if cfg.FPS != DefaultFPS {
		t.Errorf("default fps = %d, want %d", cfg.FPS, DefaultFPS)
	}
	if cfg.Codec != DefaultCodec {
		t.Errorf("default codec = %q, want %q", cfg.Codec, DefaultCodec)
	}
	if cfg.TotalDuration != 0 || cfg.ChunkDuration != 0 {
		t.Errorf("default budgets = %s/%s, want 0/0", cfg.TotalDuration, cfg.ChunkDuration)
	}
	if !cfg.Headless {
		t.Error("default headless = false, want true")
	}
}

func TestParseFlags_Resolution(t *testing.T) {
	cfg, err := ParseFlags("recorder", []string{"-resolution", "640x480"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("resolution = %dx%d, want 640x480", cfg.Width, cfg.Height)
	}
}

func TestParseFlags_BadResolution(t *testing.T) {
	cases := []string{"1920", "1920x", "x1080", "axb", "0x1080", "-640x480"}
	for _, res := range cases {
		if _, err := ParseFlags("recorder", []string{"-resolution", res}); err == nil {
			t.Errorf("resolution %q: expected error, got none", res)
		}
	}
}

func TestParseFlags_CodecNormalized(t *testing.T) {
	cfg, err := ParseFlags("recorder", []string{"-codec", "mjpg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Codec != "MJPG" {
		t.Errorf("codec = %q, want MJPG", cfg.Codec)
	}
	if cfg.FourCC() != "MJPG" {
		t.Errorf("fourcc = %q, want MJPG", cfg.FourCC())
	}
}

func TestParseFlags_UnknownCodec(t *testing.T) {
	if _, err := ParseFlags("recorder", []string{"-codec", "AV1"}); err == nil {
		t.Error("expected error for unknown codec, got none")
	}
}

func TestParseFlags_ChunkBelowMinimum(t *testing.T) {
	if _, err := ParseFlags("recorder", []string{"-chunk", "200ms"}); err == nil {
		t.Error("expected error for sub-second chunk duration, got none")
	}
}

func TestParseFlags_Budgets(t *testing.T) {
	cfg, err := ParseFlags("recorder", []string{"-duration", "12s", "-chunk", "5s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TotalDuration != 12*time.Second {
		t.Errorf("duration = %s, want 12s", cfg.TotalDuration)
	}
	if cfg.ChunkDuration != 5*time.Second {
		t.Errorf("chunk = %s, want 5s", cfg.ChunkDuration)
	}
	if !cfg.Chunked() {
		t.Error("Chunked() = false, want true")
	}
}

func TestParseFlags_FormatNormalized(t *testing.T) {
	cfg, err := ParseFlags("recorder", []string{"-format", ".AVI"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Format != "avi" {
		t.Errorf("format = %q, want avi", cfg.Format)
	}
}
