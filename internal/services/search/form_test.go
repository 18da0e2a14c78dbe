package search

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shuv1824/flightsearch/internal/services/calendar"
	"github.com/shuv1824/flightsearch/internal/types"
)

var (
	heathrow = types.LocationOption{
		ID:          "LHR_95565050",
		SkyCode:     "LHR",
		EntityID:    "95565050",
		Name:        "London Heathrow",
		DisplayCode: "LHR",
		EntityType:  types.EntityAirport,
	}
	kennedy = types.LocationOption{
		ID:          "JFK_95565058",
		SkyCode:     "JFK",
		EntityID:    "95565058",
		Name:        "New York John F. Kennedy",
		DisplayCode: "JFK",
		EntityType:  types.EntityAirport,
	}
)

// recordingRouter remembers every navigation request.
type recordingRouter struct {
	queries []string
}

func (r *recordingRouter) Navigate(query string) string {
	r.queries = append(r.queries, query)
	return "/search?" + query
}

func date(m time.Month, d int) *time.Time {
	t := time.Date(2025, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

func TestFormDefaults(t *testing.T) {
	s := NewForm().State()

	if s.Passengers != (types.PassengerCounts{Adults: 1}) {
		t.Errorf("unexpected default passengers: %+v", s.Passengers)
	}
	if s.CabinClass != types.Economy {
		t.Errorf("expected economy, got %s", s.CabinClass)
	}
	if s.Dates.TripType != types.RoundTrip {
		t.Errorf("expected round trip, got %s", s.Dates.TripType)
	}
}

func TestPassengerFloors(t *testing.T) {
	f := NewForm()

	for _, kind := range []types.PassengerKind{types.Adults, types.Children, types.InfantsSeat, types.InfantsLap} {
		if err := f.Decrement(kind); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := f.State().Passengers; got != (types.PassengerCounts{Adults: 1}) {
		t.Errorf("counts dropped below floor: %+v", got)
	}

	for i := 0; i < 12; i++ {
		_ = f.Increment(types.Adults)
	}
	_ = f.Increment(types.Children)
	_ = f.Increment(types.InfantsLap)
	_ = f.Decrement(types.Adults)

	want := types.PassengerCounts{Adults: 12, Children: 1, InfantsLap: 1}
	if got := f.State().Passengers; got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	if err := f.Increment("pets"); !errors.Is(err, ErrUnknownPassengerKind) {
		t.Errorf("expected ErrUnknownPassengerKind, got %v", err)
	}
}

func TestSwap(t *testing.T) {
	f := NewForm()
	f.SetOrigin(&heathrow)
	f.SetDestination(&kennedy)

	f.Swap()
	s := f.State()
	if s.Origin.ID != kennedy.ID || s.Destination.ID != heathrow.ID {
		t.Errorf("swap failed: %+v -> %+v", s.Origin, s.Destination)
	}

	f.SetDestination(nil)
	f.Swap()
	s = f.State()
	if s.Origin != nil || s.Destination == nil || s.Destination.ID != kennedy.ID {
		t.Errorf("swap with one side empty failed: %+v / %+v", s.Origin, s.Destination)
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *Form)
		field string
	}{
		{
			name:  "missing origin",
			setup: func(f *Form) {},
			field: "origin",
		},
		{
			name: "origin set, destination missing",
			setup: func(f *Form) {
				f.SetOrigin(&heathrow)
			},
			field: "destination",
		},
		{
			name: "missing departure date",
			setup: func(f *Form) {
				f.SetOrigin(&heathrow)
				f.SetDestination(&kennedy)
			},
			field: "dates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewForm()
			tt.setup(f)
			router := &recordingRouter{}

			location, err := f.Submit(router)

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.field || vErr.Message == "" {
				t.Errorf("unexpected validation error: %+v", vErr)
			}
			if location != "" || len(router.queries) != 0 {
				t.Error("no navigation may happen on a rejected search")
			}
		})
	}
}

func TestSubmitRoundTrip(t *testing.T) {
	f := NewForm()
	f.SetOrigin(&heathrow)
	f.SetDestination(&kennedy)
	f.SetDates(calendar.Selection{
		Start:    date(time.July, 1),
		End:      date(time.July, 15),
		TripType: types.RoundTrip,
	})
	f.SetCabinClass(types.Business)
	_ = f.Increment(types.Children)

	router := &recordingRouter{}
	location, err := f.Submit(router)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "adults=1&children=1&departureDate=2025-07-01&flightClass=business&from=LHR_95565050" +
		"&infantsLap=0&infantsSeat=0&returnDate=2025-07-15&to=JFK_95565058&tripType=round-trip"
	if len(router.queries) != 1 || router.queries[0] != expected {
		t.Errorf("unexpected query:\n got  %v\n want %s", router.queries, expected)
	}
	if location != "/search?"+expected {
		t.Errorf("unexpected location %q", location)
	}
}

func TestSetTripTypeRoundTripAwaitsEnd(t *testing.T) {
	f := NewForm()
	f.SetTripType(types.OneWay)
	f.SetDates(calendar.Selection{Start: date(time.July, 1), TripType: types.OneWay})

	f.SetTripType(types.RoundTrip)

	d := f.State().Dates
	if d.TripType != types.RoundTrip || !d.AwaitingEnd {
		t.Errorf("expected round trip waiting for the return date, got %+v", d)
	}
}

func TestSubmitOneWayOmitsReturnDate(t *testing.T) {
	f := NewForm()
	f.SetOrigin(&heathrow)
	f.SetDestination(&kennedy)
	f.SetDates(calendar.Selection{
		Start:    date(time.July, 1),
		End:      date(time.July, 15),
		TripType: types.RoundTrip,
	})
	f.SetTripType(types.OneWay)

	location, err := f.Submit(PathRouter{Path: "/search"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(location, "returnDate") {
		t.Errorf("one-way search must not carry a return date: %s", location)
	}
	if !strings.Contains(location, "tripType=one-way") {
		t.Errorf("expected one-way trip type: %s", location)
	}
	if f.State().Dates.End != nil {
		t.Error("expected end date cleared on one-way")
	}
}
