package api

import (
	"encoding/json"
	"net/http"

	"github.com/Brightside-Labs/Compass/internal/criteria"
)

type CriteriaHandler struct {
	generator criteria.Generator
}

func NewCriteriaHandler(g criteria.Generator) *CriteriaHandler {
	return &CriteriaHandler{generator: g}
}

// Generate handles POST /psa/generate-acceptance-criteria.
func (h *CriteriaHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "criteria generation not configured")
		return
	}

	var req criteria.StoryInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}

	items, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeData(w, http.StatusOK, map[string][]string{"criteria": items})
}
