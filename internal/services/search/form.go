package search

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shuv1824/flightsearch/internal/services/calendar"
	"github.com/shuv1824/flightsearch/internal/types"
)

var ErrUnknownPassengerKind = errors.New("search: unknown passenger kind")

// ValidationError is a user-facing rejection of a search.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// State is a snapshot of the form.
type State struct {
	Origin      *types.LocationOption `json:"origin"`
	Destination *types.LocationOption `json:"destination"`
	Dates       calendar.Selection    `json:"dates"`
	Passengers  types.PassengerCounts `json:"passengers"`
	CabinClass  types.CabinClass      `json:"cabin_class"`
}

// Form is the search form of one client.
type Form struct {
	mu          sync.Mutex
	origin      *types.LocationOption
	destination *types.LocationOption
	dates       calendar.Selection
	passengers  types.PassengerCounts
	cabin       types.CabinClass
}

func NewForm() *Form {
	return &Form{
		dates:      calendar.Selection{TripType: types.RoundTrip},
		passengers: types.PassengerCounts{Adults: 1},
		cabin:      types.Economy,
	}
}

func (f *Form) SetOrigin(opt *types.LocationOption) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.origin = copyOption(opt)
}

func (f *Form) SetDestination(opt *types.LocationOption) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destination = copyOption(opt)
}

func copyOption(opt *types.LocationOption) *types.LocationOption {
	if opt == nil {
		return nil
	}
	c := *opt
	return &c
}

// Swap exchanges origin and destination.
func (f *Form) Swap() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.origin, f.destination = f.destination, f.origin
}

func (f *Form) Increment(kind types.PassengerKind) error {
	return f.adjust(kind, 1)
}

// Decrement lowers a passenger count; counts never drop below their floor
// (one adult, zero of everything else).
func (f *Form) Decrement(kind types.PassengerKind) error {
	return f.adjust(kind, -1)
}

func (f *Form) adjust(kind types.PassengerKind, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := &f.passengers
	switch kind {
	case types.Adults:
		p.Adults = max(p.Adults+delta, 1)
	case types.Children:
		p.Children = max(p.Children+delta, 0)
	case types.InfantsSeat:
		p.InfantsSeat = max(p.InfantsSeat+delta, 0)
	case types.InfantsLap:
		p.InfantsLap = max(p.InfantsLap+delta, 0)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPassengerKind, kind)
	}
	return nil
}

func (f *Form) SetCabinClass(c types.CabinClass) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cabin = c
}

// SetTripType changes the trip type; a one-way trip drops the return date.
func (f *Form) SetTripType(t types.TripType) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.dates.TripType = t
	switch t {
	case types.OneWay:
		f.dates.End = nil
		f.dates.AwaitingEnd = false
	case types.RoundTrip:
		if f.dates.Start != nil && f.dates.End == nil {
			f.dates.AwaitingEnd = true
		}
	}
}

// SetDates stores a committed calendar selection.
func (f *Form) SetDates(sel calendar.Selection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dates = sel
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	return State{
		Origin:      copyOption(f.origin),
		Destination: copyOption(f.destination),
		Dates:       f.dates,
		Passengers:  f.passengers,
		CabinClass:  f.cabin,
	}
}

// Query validates the form and builds the canonical search intent.
func (f *Form) Query() (Query, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case f.origin == nil:
		return Query{}, &ValidationError{Field: "origin", Message: "Please select where you are flying from."}
	case f.destination == nil:
		return Query{}, &ValidationError{Field: "destination", Message: "Please select where you are flying to."}
	case f.dates.Start == nil:
		return Query{}, &ValidationError{Field: "dates", Message: "Please choose a departure date."}
	}

	tripType := f.dates.TripType
	if tripType != types.OneWay {
		tripType = types.RoundTrip
	}

	q := Query{
		TripType:      tripType,
		From:          f.origin.ID,
		To:            f.destination.ID,
		DepartureDate: f.dates.Start.Format(types.DateLayout),
		Adults:        f.passengers.Adults,
		Children:      f.passengers.Children,
		InfantsSeat:   f.passengers.InfantsSeat,
		InfantsLap:    f.passengers.InfantsLap,
		FlightClass:   f.cabin,
	}
	if tripType == types.RoundTrip && f.dates.End != nil {
		q.ReturnDate = f.dates.End.Format(types.DateLayout)
	}
	return q, nil
}

// Submit validates the form and hands the canonical query string to router.
// No navigation happens when validation fails.
func (f *Form) Submit(router Router) (string, error) {
	q, err := f.Query()
	if err != nil {
		return "", err
	}
	return router.Navigate(Encode(q)), nil
}

// Prefill loads a resolved search intent into the form.
func (f *Form) Prefill(p Prefill) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.origin = copyOption(p.Origin)
	f.destination = copyOption(p.Destination)
	f.passengers = p.Query.Passengers()
	f.cabin = p.Query.FlightClass
	f.dates = p.Dates()
}
