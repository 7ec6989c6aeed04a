// Package api provides HTTP API handlers for the sparkler effect app.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/ayusman/phuljhari/internal/store"
)

// RecordingController starts and stops video recordings. It is implemented
// by the recorder package.
type RecordingController interface {
	Start() (*store.Recording, error)
	Stop() (*store.Recording, error)
	IsRecording() bool
}

// RecordingsHandler handles HTTP requests for recording resources.
type RecordingsHandler struct {
	store      *store.Store
	controller RecordingController
}

// NewRecordingsHandler creates a new RecordingsHandler with the given store
// and controller. The controller may be nil, in which case the start and
// stop endpoints report that recording is unavailable.
func NewRecordingsHandler(s *store.Store, c RecordingController) *RecordingsHandler {
	return &RecordingsHandler{store: s, controller: c}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *RecordingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/recordings, /api/recordings/start,
	// /api/recordings/stop, /api/recordings/{id} and /api/recordings/{id}/download
	path := strings.TrimPrefix(r.URL.Path, "/api/recordings")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	case "start":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.start(w, r)
		return
	case "stop":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.stop(w, r)
		return
	}

	// Item endpoints: /api/recordings/{id} and /api/recordings/{id}/download
	id, rest, _ := strings.Cut(path, "/")
	if rest == "download" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.download(w, r, id)
		return
	}
	if rest != "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type recordingResponse struct {
	ID         string  `json:"id"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FPS        float64 `json:"fps"`
	Frames     int     `json:"frames"`
	StartedAt  string  `json:"started_at"`
	EndedAt    string  `json:"ended_at,omitempty"`
	InProgress bool    `json:"in_progress"`
}

type listRecordingsResponse struct {
	Recordings []recordingResponse `json:"recordings"`
	Recording  bool                `json:"recording"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Recording to a recordingResponse.
func toResponse(rec *store.Recording) recordingResponse {
	resp := recordingResponse{
		ID:         rec.ID,
		Width:      rec.Width,
		Height:     rec.Height,
		FPS:        rec.FPS,
		Frames:     rec.Frames,
		StartedAt:  rec.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		InProgress: rec.InProgress(),
	}
	if rec.EndedAt != nil {
		resp.EndedAt = rec.EndedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/recordings and returns all recordings.
func (h *RecordingsHandler) list(w http.ResponseWriter, r *http.Request) {
	recordings, err := h.store.Recordings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list recordings")
		return
	}

	response := listRecordingsResponse{
		Recordings: make([]recordingResponse, 0, len(recordings)),
	}
	if h.controller != nil {
		response.Recording = h.controller.IsRecording()
	}

	for _, rec := range recordings {
		response.Recordings = append(response.Recordings, toResponse(rec))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/recordings/{id} and returns a single recording.
func (h *RecordingsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := h.store.Recordings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Recording not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get recording")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(rec))
}

// start handles POST /api/recordings/start and begins a new recording.
func (h *RecordingsHandler) start(w http.ResponseWriter, r *http.Request) {
	if h.controller == nil {
		writeError(w, http.StatusServiceUnavailable, "Recording unavailable")
		return
	}

	rec, err := h.controller.Start()
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(rec))
}

// stop handles POST /api/recordings/stop and finishes the active recording.
func (h *RecordingsHandler) stop(w http.ResponseWriter, r *http.Request) {
	if h.controller == nil {
		writeError(w, http.StatusServiceUnavailable, "Recording unavailable")
		return
	}

	rec, err := h.controller.Stop()
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toResponse(rec))
}

// download handles GET /api/recordings/{id}/download and serves the video file.
func (h *RecordingsHandler) download(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := h.store.Recordings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Recording not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get recording")
		return
	}

	if rec.InProgress() {
		writeError(w, http.StatusConflict, "Recording still in progress")
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+rec.ID+".mp4\"")
	http.ServeFile(w, r, rec.Path)
}

// delete handles DELETE /api/recordings/{id} and removes a recording along
// with its video file.
func (h *RecordingsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := h.store.Recordings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Recording not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get recording")
		return
	}

	if rec.InProgress() {
		writeError(w, http.StatusConflict, "Recording still in progress")
		return
	}

	if err := h.store.Recordings().Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete recording")
		return
	}

	if err := os.Remove(rec.Path); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove recording file %s: %v", rec.Path, err)
	}

	w.WriteHeader(http.StatusNoContent)
}
