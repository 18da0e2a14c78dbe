// Package export renders a search as a calendar the traveller can import.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/shuv1824/flightsearch/internal/services/search"
	"github.com/shuv1824/flightsearch/internal/types"
)

const productID = "-//flightsearch//trip export//EN"

var ErrIncompleteTrip = errors.New("export: trip needs origin, destination and departure date")

// TripCalendar renders one all-day event for the outbound flight and, for
// round trips with a return date, one for the return.
func TripCalendar(p search.Prefill, stamp time.Time) (string, error) {
	q := p.Query
	if q.From == "" || q.To == "" || q.DepartureDate == "" {
		return "", ErrIncompleteTrip
	}

	depart, err := time.Parse(types.DateLayout, q.DepartureDate)
	if err != nil {
		return "", fmt.Errorf("export: departure date: %w", err)
	}

	from := placeName(p.Origin, q.From)
	to := placeName(p.Destination, q.To)
	details := describe(q)

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	addFlight(cal, eventUID(q.From, q.To, q.DepartureDate), from, to, depart, details, stamp)

	if q.TripType == types.RoundTrip && q.ReturnDate != "" {
		back, err := time.Parse(types.DateLayout, q.ReturnDate)
		if err != nil {
			return "", fmt.Errorf("export: return date: %w", err)
		}
		if back.Before(depart) {
			return "", fmt.Errorf("export: return date %s before departure %s", q.ReturnDate, q.DepartureDate)
		}
		addFlight(cal, eventUID(q.To, q.From, q.ReturnDate), to, from, back, details, stamp)
	}

	return cal.Serialize(), nil
}

func addFlight(cal *ical.Calendar, uid, from, to string, day time.Time, details string, stamp time.Time) {
	ev := cal.AddEvent(uid)
	ev.SetSummary(fmt.Sprintf("Flight %s to %s", from, to))
	ev.SetAllDayStartAt(day)
	ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
	ev.SetDtStampTime(stamp)
	ev.SetLocation(from)
	ev.SetDescription(details)
}

func eventUID(from, to, date string) string {
	return strings.ToLower(fmt.Sprintf("%s-%s-%s@flightsearch", from, to, date))
}

// placeName prefers the resolved option's name and falls back to the sky code
// in the id.
func placeName(opt *types.LocationOption, id string) string {
	if opt != nil && opt.Name != "" {
		if opt.DisplayCode != "" {
			return fmt.Sprintf("%s (%s)", opt.Name, opt.DisplayCode)
		}
		return opt.Name
	}
	if sky, _, ok := types.SplitOptionID(id); ok {
		return sky
	}
	return id
}

func describe(q search.Query) string {
	n := q.Passengers().Total()
	noun := "travellers"
	if n == 1 {
		noun = "traveller"
	}
	return fmt.Sprintf("%d %s in %s", n, noun, strings.ReplaceAll(string(q.FlightClass), "_", " "))
}
