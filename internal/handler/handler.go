package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/shuv1824/flightsearch/internal/response"
	"github.com/shuv1824/flightsearch/internal/services/search"
	"github.com/shuv1824/flightsearch/internal/services/session"
	"github.com/shuv1824/flightsearch/internal/services/suggest"
)

// SearchHandler serves the flight search API.
type SearchHandler struct {
	aggregator *suggest.Aggregator
	resolver   *search.Resolver
	results    *search.Service
	sessions   *session.Store
	router     search.Router
	now        func() time.Time
}

func NewSearchHandler(
	aggregator *suggest.Aggregator,
	resolver *search.Resolver,
	results *search.Service,
	sessions *session.Store,
	router search.Router,
) *SearchHandler {
	return &SearchHandler{
		aggregator: aggregator,
		resolver:   resolver,
		results:    results,
		sessions:   sessions,
		router:     router,
		now:        time.Now,
	}
}

// Health returns a simple health check response
func Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Routes registers the API on an /api/v1 subrouter.
func (h *SearchHandler) Routes(api *mux.Router) {
	// Stateless lookups
	api.HandleFunc("/places/suggest", h.SuggestPlaces).Methods(http.MethodGet)
	api.HandleFunc("/search/prefill", h.Prefill).Methods(http.MethodGet)
	api.HandleFunc("/flights", h.Flights).Methods(http.MethodGet)
	api.HandleFunc("/flights/export.ics", h.ExportTrip).Methods(http.MethodGet)

	// Form sessions
	api.HandleFunc("/sessions", h.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", h.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", h.DeleteSession).Methods(http.MethodDelete)

	s := api.PathPrefix("/sessions/{id}").Subrouter()
	s.HandleFunc("/prefill", h.PrefillSession).Methods(http.MethodPost)
	s.HandleFunc("/suggestions/{field}", h.SetSuggestionQuery).Methods(http.MethodPut)
	s.HandleFunc("/suggestions/{field}", h.GetSuggestions).Methods(http.MethodGet)
	s.HandleFunc("/locations/{field}", h.SelectLocation).Methods(http.MethodPut)
	s.HandleFunc("/swap", h.Swap).Methods(http.MethodPost)
	s.HandleFunc("/passengers", h.AdjustPassengers).Methods(http.MethodPost)
	s.HandleFunc("/cabin-class", h.SetCabinClass).Methods(http.MethodPut)
	s.HandleFunc("/calendar", h.Calendar).Methods(http.MethodGet)
	s.HandleFunc("/calendar/{action}", h.CalendarAction).Methods(http.MethodPost)
	s.HandleFunc("/search", h.Submit).Methods(http.MethodPost)
}

// session looks up the session named in the path and writes a 404 when it
// does not exist.
func (h *SearchHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.sessions.Get(mux.Vars(r)["id"])
	if errors.Is(err, session.ErrNotFound) {
		response.ErrorJSON(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	if err != nil {
		response.ErrorJSON(w, http.StatusInternalServerError, "failed to load session")
		return nil, false
	}
	return s, true
}

// validation writes 422 for a *search.ValidationError and reports whether
// err was one.
func validation(w http.ResponseWriter, err error) bool {
	var vErr *search.ValidationError
	if !errors.As(err, &vErr) {
		return false
	}
	response.Invalid(w, vErr.Field, vErr.Message)
	return true
}
