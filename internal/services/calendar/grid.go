package calendar

import (
	"time"

	"github.com/shuv1824/flightsearch/internal/types"
)

// Day is one cell of a month grid. Padding cells have DayNumber 0 and no date.
type Day struct {
	DayNumber       int     `json:"day_number"`
	Date            string  `json:"date,omitempty"`
	PriceLabel      string  `json:"price_label"`
	RawPrice        float64 `json:"raw_price"`
	IsPast          bool    `json:"is_past"`
	IsDisabled      bool    `json:"is_disabled"`
	IsSelectedStart bool    `json:"is_selected_start"`
	IsSelectedEnd   bool    `json:"is_selected_end"`
	IsInRange       bool    `json:"is_in_range"`
	IsLowestPrice   bool    `json:"is_lowest_price"`
}

type Month struct {
	Year    int        `json:"year"`
	Month   time.Month `json:"month"`
	Title   string     `json:"title"`
	Days    []Day      `json:"days"`
	Loading bool       `json:"loading"`
	Failed  bool       `json:"failed"`
}

// gridInput is everything a month grid is derived from.
type gridInput struct {
	today     time.Time
	selection Selection
	prices    PriceMap
	state     loadState
	known     bool
	threshold float64
	labels    *labeler
}

// buildMonth lays out a Monday-first grid for the month containing first.
func buildMonth(first time.Time, in gridInput) Month {
	year, month := first.Year(), first.Month()
	m := Month{
		Year:    year,
		Month:   month,
		Title:   first.Format("January 2006"),
		Loading: in.known && in.state == statePending,
		Failed:  in.known && in.state == stateFailed,
	}

	lead := (int(first.Weekday()) + 6) % 7
	for i := 0; i < lead; i++ {
		m.Days = append(m.Days, Day{IsDisabled: true})
	}

	sel := in.selection
	rangeActive := sel.TripType == types.RoundTrip && sel.Start != nil && sel.End != nil

	last := first.AddDate(0, 1, -1).Day()
	for d := 1; d <= last; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, first.Location())
		past := date.Before(in.today)

		day := Day{
			DayNumber:       d,
			Date:            date.Format(types.DateLayout),
			IsPast:          past,
			IsDisabled:      past,
			IsSelectedStart: sameDay(sel.Start, date),
			IsSelectedEnd:   sameDay(sel.End, date),
			IsInRange:       rangeActive && !date.Before(*sel.Start) && !date.After(*sel.End),
		}

		if !past && !m.Failed {
			if price, ok := in.prices[day.Date]; ok && price > 0 {
				day.RawPrice = price
				day.PriceLabel = in.labels.price(price)
				day.IsLowestPrice = in.threshold > 0 && price <= in.threshold
			}
		}

		m.Days = append(m.Days, day)
	}
	return m
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
