package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shuv1824/flightsearch/internal/response"
	"github.com/shuv1824/flightsearch/internal/services/search"
	"github.com/shuv1824/flightsearch/internal/services/session"
	"github.com/shuv1824/flightsearch/internal/services/suggest"
	"github.com/shuv1824/flightsearch/internal/types"
)

type sessionResponse struct {
	ID          string         `json:"id"`
	Form        search.State   `json:"form"`
	Origin      suggest.Result `json:"origin_suggestions"`
	Destination suggest.Result `json:"destination_suggestions"`
}

func snapshot(s *session.Session) sessionResponse {
	return sessionResponse{
		ID:          s.ID,
		Form:        s.Form.State(),
		Origin:      s.Origin.Result(),
		Destination: s.Destination.Result(),
	}
}

func (h *SearchHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	w.Header().Set("Location", "/api/v1/sessions/"+s.ID)
	response.JSON(w, http.StatusCreated, snapshot(s))
}

func (h *SearchHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	response.JSON(w, http.StatusOK, snapshot(s))
}

func (h *SearchHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(mux.Vars(r)["id"]); err != nil {
		response.ErrorJSON(w, http.StatusNotFound, "session not found")
		return
	}
	response.NoContent(w)
}

type prefillBody struct {
	Query string `json:"query"`
}

// PrefillSession loads a canonical query string into the form, the way a
// results page restores the search that produced it.
func (h *SearchHandler) PrefillSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var body prefillBody
	if err := response.Decode(r, &body); err != nil {
		response.ErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	q, err := search.ParseQuery(body.Query)
	if err != nil {
		response.ErrorJSON(w, http.StatusBadRequest, "invalid query string")
		return
	}

	p := h.resolver.Prefill(r.Context(), q)
	s.Form.Prefill(p)
	s.Picker.Open(p.Dates())
	s.SyncRoute()

	response.JSON(w, http.StatusOK, snapshot(s))
}

// suggester resolves the {field} path variable; it writes a 404 for
// anything but origin or destination.
func suggester(w http.ResponseWriter, r *http.Request, s *session.Session) (*suggest.Session, bool) {
	sg, err := s.Suggester(mux.Vars(r)["field"])
	if err != nil {
		response.ErrorJSON(w, http.StatusNotFound, "unknown field")
		return nil, false
	}
	return sg, true
}

type suggestionBody struct {
	Query string `json:"query"`
}

// SetSuggestionQuery records what the user typed. The lookup runs once the
// input has been quiet for the debounce period; poll GetSuggestions for it.
func (h *SearchHandler) SetSuggestionQuery(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	sg, ok := suggester(w, r, s)
	if !ok {
		return
	}

	var body suggestionBody
	if err := response.Decode(r, &body); err != nil {
		response.ErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sg.SetQuery(body.Query)
	response.JSON(w, http.StatusAccepted, sg.Result())
}

func (h *SearchHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	sg, ok := suggester(w, r, s)
	if !ok {
		return
	}
	response.JSON(w, http.StatusOK, sg.Result())
}

type locationBody struct {
	ID string `json:"id"`
}

// SelectLocation sets the origin or destination by option id. An empty id
// clears the field.
func (h *SearchHandler) SelectLocation(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	field := mux.Vars(r)["field"]
	var set func(*types.LocationOption)
	switch field {
	case session.FieldOrigin:
		set = s.Form.SetOrigin
	case session.FieldDestination:
		set = s.Form.SetDestination
	default:
		response.ErrorJSON(w, http.StatusNotFound, "unknown field")
		return
	}

	var body locationBody
	if err := response.Decode(r, &body); err != nil {
		response.ErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var opt *types.LocationOption
	if body.ID != "" {
		var err error
		opt, err = h.resolver.Resolve(r.Context(), body.ID)
		if errors.Is(err, search.ErrUnresolved) {
			response.Invalid(w, field, "Unknown location.")
			return
		}
		if err != nil {
			response.ErrorJSON(w, http.StatusBadGateway, "failed to look up location")
			return
		}
	}

	set(opt)
	s.SyncRoute()
	response.JSON(w, http.StatusOK, snapshot(s))
}

func (h *SearchHandler) Swap(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Form.Swap()
	s.SyncRoute()
	response.JSON(w, http.StatusOK, snapshot(s))
}

type passengersBody struct {
	Kind  types.PassengerKind `json:"kind"`
	Delta int                 `json:"delta"`
}

func (h *SearchHandler) AdjustPassengers(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var body passengersBody
	if err := response.Decode(r, &body); err != nil {
		response.ErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var err error
	switch body.Delta {
	case 1:
		err = s.Form.Increment(body.Kind)
	case -1:
		err = s.Form.Decrement(body.Kind)
	default:
		response.ErrorJSON(w, http.StatusBadRequest, "delta must be 1 or -1")
		return
	}
	if errors.Is(err, search.ErrUnknownPassengerKind) {
		response.ErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, snapshot(s))
}

type cabinBody struct {
	CabinClass string `json:"cabin_class"`
}

func (h *SearchHandler) SetCabinClass(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var body cabinBody
	if err := response.Decode(r, &body); err != nil {
		response.ErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c, valid := types.ParseCabinClass(body.CabinClass)
	if !valid {
		response.ErrorJSON(w, http.StatusBadRequest, "unknown cabin class")
		return
	}

	s.Form.SetCabinClass(c)
	response.JSON(w, http.StatusOK, snapshot(s))
}

type submitResponse struct {
	Location string `json:"location"`
}

// Submit validates the form and returns where the results live.
func (h *SearchHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	location, err := s.Form.Submit(h.router)
	if validation(w, err) {
		return
	}
	if err != nil {
		response.ErrorJSON(w, http.StatusInternalServerError, "failed to build search")
		return
	}

	response.JSON(w, http.StatusOK, submitResponse{Location: location})
}
