// Package search holds the search form, its query string and the results.
package search

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shuv1824/flightsearch/internal/types"
)

// Query is the canonical search intent carried in the results URL.
type Query struct {
	TripType      types.TripType   `json:"trip_type"`
	From          string           `json:"from"`
	To            string           `json:"to"`
	DepartureDate string           `json:"departure_date"`
	ReturnDate    string           `json:"return_date,omitempty"`
	Adults        int              `json:"adults"`
	Children      int              `json:"children"`
	InfantsSeat   int              `json:"infants_seat"`
	InfantsLap    int              `json:"infants_lap"`
	FlightClass   types.CabinClass `json:"flight_class"`
}

// Encode renders q as a query string with keys in sorted order. The return
// date is left out when empty.
func Encode(q Query) string {
	v := url.Values{}
	v.Set("tripType", string(q.TripType))
	v.Set("from", q.From)
	v.Set("to", q.To)
	v.Set("departureDate", q.DepartureDate)
	if q.ReturnDate != "" {
		v.Set("returnDate", q.ReturnDate)
	}
	v.Set("adults", strconv.Itoa(q.Adults))
	v.Set("children", strconv.Itoa(q.Children))
	v.Set("infantsSeat", strconv.Itoa(q.InfantsSeat))
	v.Set("infantsLap", strconv.Itoa(q.InfantsLap))
	v.Set("flightClass", string(q.FlightClass))
	return v.Encode()
}

// ParseQuery is the inverse of Encode. Absent or malformed fields fall back
// to the form defaults.
func ParseQuery(raw string) (Query, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return Query{}, fmt.Errorf("search: parse query: %w", err)
	}
	return QueryFromValues(v), nil
}

func QueryFromValues(v url.Values) Query {
	q := Query{
		TripType:      types.RoundTrip,
		From:          v.Get("from"),
		To:            v.Get("to"),
		DepartureDate: v.Get("departureDate"),
		ReturnDate:    v.Get("returnDate"),
		Adults:        intParam(v, "adults", 1, 1),
		Children:      intParam(v, "children", 0, 0),
		InfantsSeat:   intParam(v, "infantsSeat", 0, 0),
		InfantsLap:    intParam(v, "infantsLap", 0, 0),
		FlightClass:   types.Economy,
	}
	if t, ok := types.ParseTripType(v.Get("tripType")); ok {
		q.TripType = t
	}
	if c, ok := types.ParseCabinClass(v.Get("flightClass")); ok {
		q.FlightClass = c
	}
	if q.TripType == types.OneWay {
		q.ReturnDate = ""
	}
	return q
}

func intParam(v url.Values, key string, def, floor int) int {
	n, err := strconv.Atoi(v.Get(key))
	if err != nil {
		return def
	}
	return max(n, floor)
}

// Passengers returns the passenger counts carried by q.
func (q Query) Passengers() types.PassengerCounts {
	return types.PassengerCounts{
		Adults:      q.Adults,
		Children:    q.Children,
		InfantsSeat: q.InfantsSeat,
		InfantsLap:  q.InfantsLap,
	}
}

// Router hands a canonical query string to whatever shows the results and
// returns the navigation target.
type Router interface {
	Navigate(query string) string
}

type PathRouter struct {
	Path string
}

func (r PathRouter) Navigate(query string) string {
	return r.Path + "?" + query
}
