// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	service "github.com/okian/ballmaster/internal/app"
)

// UploadHandler handles video upload requests.
type UploadHandler struct {
	deps Dependencies
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(deps Dependencies) *UploadHandler {
	return &UploadHandler{deps: deps}
}

// uploadData is the response payload for an analyzed upload.
type uploadData struct {
	VideoName          string  `json:"video_name"`
	TotalKicks         int     `json:"total_kicks"`
	TotalSeries        int     `json:"total_series"`
	BestSeriesKicks    int     `json:"best_series_kicks"`
	BestSeriesDuration float64 `json:"best_series_duration"`
	ProcessingTime     float64 `json:"processing_time"`
	Score              float64 `json:"score"`
	Ranked             bool    `json:"ranked"`
	Summary            string  `json:"summary"`
	Duration           float64 `json:"duration"`
	FPS                float64 `json:"fps"`
}

// HandleUpload handles POST /upload requests. The video arrives as the
// multipart form field "video"; the response carries the full analysis.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("missing video file"))
		return
	}
	defer file.Close()

	up, err := h.deps.ProcessUpload(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, uploadStatus(err), err)
		return
	}

	message := "video analyzed"
	if up.Ranked {
		message = "video analyzed and ranked"
	}
	writeSuccess(w, http.StatusOK, message, uploadData{
		VideoName:          up.Entry.VideoName,
		TotalKicks:         up.Result.TotalKicks,
		TotalSeries:        up.Result.TotalSeries,
		BestSeriesKicks:    up.Entry.BestSeriesKicks,
		BestSeriesDuration: up.Entry.BestSeriesDuration,
		ProcessingTime:     up.Result.ProcessingTime,
		Score:              up.Entry.Score,
		Ranked:             up.Ranked,
		Summary:            up.Result.Summary,
		Duration:           up.Result.Duration,
		FPS:                up.Result.FPS,
	})
}

// uploadStatus maps service failures to HTTP status codes.
func uploadStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrBusy):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, service.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
