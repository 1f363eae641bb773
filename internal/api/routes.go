package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))
	r.Get("/status", statusHandler(cfg))
	r.Get("/recordings", listRecordingsHandler(cfg))

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: uptime,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StatusResponse{Snapshot: cfg.Stats.Snapshot()}

		if cfg.Repository != nil {
			if count, err := cfg.Repository.CountRecordings(r.Context()); err == nil {
				resp.Recordings = count
			}
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

func listRecordingsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// catalog disabled: report an empty history rather than an error
		if cfg.Repository == nil {
			WriteJSON(w, http.StatusOK, RecordingsResponse{Recordings: []RecordingResponse{}})
			return
		}

		limit := 50
		if l := r.URL.Query().Get("limit"); l != "" {
			parsed, err := strconv.Atoi(l)
			if err != nil || parsed < 1 || parsed > 500 {
				WriteError(w, http.StatusBadRequest, "limit must be between 1 and 500", "BAD_REQUEST")
				return
			}
			limit = parsed
		}

		recs, err := cfg.Repository.ListRecordings(r.Context(), limit)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list recordings", "INTERNAL_ERROR")
			return
		}

		resp := RecordingsResponse{Recordings: make([]RecordingResponse, len(recs))}
		for i, rec := range recs {
			resp.Recordings[i] = RecordingToResponse(rec)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}
