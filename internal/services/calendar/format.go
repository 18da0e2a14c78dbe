package calendar

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shuv1824/flightsearch/internal/types"
)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"NGN": "₦",
	"JPY": "¥",
	"INR": "₹",
	"BDT": "৳",
}

// labeler renders whole-unit price labels with digit grouping, e.g. "$1,234".
type labeler struct {
	printer *message.Printer
	symbol  string
}

func newLabeler(code string) *labeler {
	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		unit = currency.USD
	}

	symbol, ok := symbols[unit.String()]
	if !ok {
		symbol = unit.String() + " "
	}

	return &labeler{
		printer: message.NewPrinter(language.English),
		symbol:  symbol,
	}
}

func (l *labeler) price(v float64) string {
	return l.symbol + l.printer.Sprintf("%d", int64(math.Round(v)))
}

func shortDate(t time.Time) string {
	return t.Format("Mon 2 Jan")
}

// summary is the one-line description of the selection shown above the grid.
func summary(sel Selection) string {
	if sel.TripType == types.OneWay {
		if sel.Start == nil {
			return ""
		}
		return shortDate(*sel.Start)
	}

	switch {
	case sel.Start != nil && sel.End != nil:
		return shortDate(*sel.Start) + " - " + shortDate(*sel.End)
	case sel.Start != nil:
		return shortDate(*sel.Start) + " - Return date"
	default:
		return "Select dates"
	}
}
