// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
)

// VideosHandler handles retained-video listing requests.
type VideosHandler struct {
	deps Dependencies
}

// NewVideosHandler creates a new videos handler.
func NewVideosHandler(deps Dependencies) *VideosHandler {
	return &VideosHandler{deps: deps}
}

// HandleGetVideos handles GET /videos requests.
func (h *VideosHandler) HandleGetVideos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	videos, err := h.deps.Videos(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeSuccess(w, http.StatusOK, fmt.Sprintf("%d videos", len(videos)), map[string]any{
		"videos": videos,
		"count":  len(videos),
	})
}
