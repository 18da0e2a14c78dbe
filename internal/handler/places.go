package handler

import (
	"net/http"

	"github.com/shuv1824/flightsearch/internal/response"
	"github.com/shuv1824/flightsearch/internal/services/search"
	"github.com/shuv1824/flightsearch/internal/types"
)

type suggestResponse struct {
	Query   string                 `json:"query"`
	Options []types.LocationOption `json:"options"`
}

// SuggestPlaces runs one lookup without debouncing. Short queries return an
// empty list without calling upstream.
func (h *SearchHandler) SuggestPlaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	resp := suggestResponse{Query: q, Options: []types.LocationOption{}}
	if opts := h.aggregator.Suggest(r.Context(), q); opts != nil {
		resp.Options = opts
	}

	response.JSON(w, http.StatusOK, resp)
}

// Prefill parses a canonical query string and resolves its locations.
func (h *SearchHandler) Prefill(w http.ResponseWriter, r *http.Request) {
	q, err := search.ParseQuery(r.URL.RawQuery)
	if err != nil {
		response.ErrorJSON(w, http.StatusBadRequest, "invalid query string")
		return
	}

	response.JSON(w, http.StatusOK, h.resolver.Prefill(r.Context(), q))
}
