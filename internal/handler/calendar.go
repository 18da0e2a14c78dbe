package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/shuv1824/flightsearch/internal/response"
	"github.com/shuv1824/flightsearch/internal/services/calendar"
	"github.com/shuv1824/flightsearch/internal/services/session"
	"github.com/shuv1824/flightsearch/internal/types"
)

type calendarBody struct {
	Date     string `json:"date"`
	TripType string `json:"trip_type"`
}

type calendarResponse struct {
	calendar.View
	Dates calendar.Selection `json:"form_dates"`
}

// Calendar renders the two visible months, loading prices for any month of
// the current route that has not been requested yet.
func (h *SearchHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.renderCalendar(w, r, s)
}

func (h *SearchHandler) renderCalendar(w http.ResponseWriter, r *http.Request, s *session.Session) {
	s.SyncRoute()
	s.Picker.LoadPrices(r.Context())

	response.JSON(w, http.StatusOK, calendarResponse{
		View:  s.Picker.View(),
		Dates: s.Form.State().Dates,
	})
}

// CalendarAction applies one picker interaction.
func (h *SearchHandler) CalendarAction(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var body calendarBody
	action := mux.Vars(r)["action"]
	if action == "click" || action == "trip-type" {
		if err := response.Decode(r, &body); err != nil {
			response.ErrorJSON(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	switch action {
	case "open":
		s.Picker.Open(s.Form.State().Dates)

	case "click":
		day, err := time.ParseInLocation(types.DateLayout, body.Date, time.Local)
		if err != nil {
			response.ErrorJSON(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		if !s.Picker.Click(day) {
			response.Invalid(w, "date", "That date cannot be selected.")
			return
		}

	case "trip-type":
		t, valid := types.ParseTripType(body.TripType)
		if !valid {
			response.ErrorJSON(w, http.StatusBadRequest, "unknown trip type")
			return
		}
		s.Picker.SetTripType(t)

	case "next":
		s.Picker.Next()

	case "previous":
		s.Picker.Previous()

	case "reset":
		s.Picker.Reset()

	case "done":
		sel, err := s.Picker.Commit()
		if err != nil {
			response.Invalid(w, "dates", "Please choose your travel dates.")
			return
		}
		s.Form.SetDates(sel)

	case "cancel":
		s.Picker.Discard()

	default:
		response.ErrorJSON(w, http.StatusNotFound, "unknown calendar action")
		return
	}

	h.renderCalendar(w, r, s)
}
