package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shuv1824/flightsearch/internal/response"
	"github.com/shuv1824/flightsearch/internal/services/export"
	"github.com/shuv1824/flightsearch/internal/services/search"
	"github.com/shuv1824/flightsearch/internal/types"
)

// Flights returns the itineraries for the query string. "visible" sets the
// load-more window and "page" asks for one fixed page instead. Failures are
// reported in the message field with an empty list.
func (h *SearchHandler) Flights(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := search.QueryFromValues(params)
	size := h.results.PageSize()

	page := 0
	if raw := params.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.ErrorJSON(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = n
	}

	items, err := h.results.Itineraries(r.Context(), q)
	if err != nil {
		var rErr *search.ResultError
		if !errors.As(err, &rErr) {
			response.ErrorJSON(w, http.StatusInternalServerError, search.MsgFetchFailed)
			return
		}
		response.JSON(w, http.StatusOK, search.Results{
			Itineraries: []types.Itinerary{},
			Message:     rErr.Message,
		})
		return
	}

	if page > 0 {
		shown := search.Page(items, page, size)
		if shown == nil {
			shown = []types.Itinerary{}
		}
		end := min((page-1)*size+len(shown), len(items))
		response.JSON(w, http.StatusOK, search.Results{
			Itineraries: shown,
			Visible:     len(shown),
			Total:       len(items),
			HasMore:     len(shown) > 0 && end < len(items),
		})
		return
	}

	visible, _ := strconv.Atoi(params.Get("visible"))
	response.JSON(w, http.StatusOK, search.LoadMore(items, visible, size))
}

// ExportTrip returns the trip in the query string as an iCalendar file.
func (h *SearchHandler) ExportTrip(w http.ResponseWriter, r *http.Request) {
	q := search.QueryFromValues(r.URL.Query())
	p := h.resolver.Prefill(r.Context(), q)

	body, err := export.TripCalendar(p, h.now())
	if err != nil {
		response.ErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	response.Attachment(w, "text/calendar; charset=utf-8", "trip.ics", body)
}
