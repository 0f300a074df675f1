// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/ballmaster/internal/adapters/repository"
)

// ResultsHandler handles leaderboard read requests.
type ResultsHandler struct {
	deps Dependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps Dependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// HandleGetResults handles GET /results?limit=N requests. Without a
// limit the whole board is returned.
func (h *ResultsHandler) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("limit must be an integer"))
			return
		}
		if n < 1 {
			writeError(w, http.StatusBadRequest,
				fmt.Errorf("limit must be between 1 and %d", h.deps.MaxResults()))
			return
		}
		limit = n
	}

	entries, err := h.deps.TopN(r.Context(), limit)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidLimit) {
			writeError(w, http.StatusBadRequest,
				fmt.Errorf("limit must be between 1 and %d", h.deps.MaxResults()))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeSuccess(w, http.StatusOK, fmt.Sprintf("%d results", len(entries)), map[string]any{
		"results": entries,
		"count":   len(entries),
	})
}
