package api

import (
	"time"

	"github.com/littercam/littercam/internal/catalog"
	"github.com/littercam/littercam/internal/session"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type StatusResponse struct {
	session.Snapshot
	Recordings int `json:"recordings"`
}

type RecordingResponse struct {
	ID        string  `json:"id"`
	SessionID string  `json:"session_id"`
	Seq       int     `json:"seq"`
	Path      string  `json:"path"`
	Frames    int     `json:"frames"`
	FPS       float64 `json:"fps"`
	DurationS float64 `json:"duration_s"`
	OpenedAt  string  `json:"opened_at"`
	ClosedAt  string  `json:"closed_at"`
}

type RecordingsResponse struct {
	Recordings []RecordingResponse `json:"recordings"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func RecordingToResponse(r *catalog.Recording) RecordingResponse {
	return RecordingResponse{
		ID:        r.ID,
		SessionID: r.SessionID,
		Seq:       r.Seq,
		Path:      r.Path,
		Frames:    r.Frames,
		FPS:       r.FPS,
		DurationS: r.Duration().Seconds(),
		OpenedAt:  r.OpenedAt.Format(time.RFC3339),
		ClosedAt:  r.ClosedAt.Format(time.RFC3339),
	}
}
