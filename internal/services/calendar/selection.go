// Package calendar implements the two-month date-range picker with prices.
package calendar

import (
	"errors"
	"time"

	"github.com/shuv1824/flightsearch/internal/types"
)

// ErrIncomplete is returned by Commit when the selection cannot be used yet.
var ErrIncomplete = errors.New("calendar: selection incomplete")

// Selection is the picked travel dates. End is only set for round trips,
// and never before Start.
type Selection struct {
	Start       *time.Time     `json:"start,omitempty"`
	End         *time.Time     `json:"end,omitempty"`
	AwaitingEnd bool           `json:"awaiting_end"`
	TripType    types.TripType `json:"trip_type"`
}

// Complete reports whether the selection can be committed.
func (s Selection) Complete() bool {
	if s.Start == nil {
		return false
	}
	return s.TripType != types.RoundTrip || s.End != nil
}

// normalized drops anything that breaks the selection invariant and copies
// the dates so callers never share pointers with the picker.
func (s Selection) normalized() Selection {
	out := Selection{TripType: s.TripType, AwaitingEnd: s.AwaitingEnd}
	if out.TripType != types.OneWay {
		out.TripType = types.RoundTrip
	}
	if s.Start == nil {
		out.AwaitingEnd = false
		return out
	}

	start := types.DateOnly(*s.Start)
	out.Start = &start

	if out.TripType == types.OneWay {
		out.AwaitingEnd = false
		return out
	}
	if s.End != nil && !types.DateOnly(*s.End).Before(start) {
		end := types.DateOnly(*s.End)
		out.End = &end
		out.AwaitingEnd = false
		return out
	}
	// a round trip with only a start always waits for its end date
	out.AwaitingEnd = true
	return out
}

func sameDay(a *time.Time, b time.Time) bool {
	return a != nil && a.Equal(b)
}
