package calendar

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shuv1824/flightsearch/internal/config"
	"github.com/shuv1824/flightsearch/internal/services/flightapi"
	"github.com/shuv1824/flightsearch/internal/types"
)

// View is the rendered state of the picker: the anchor month and the one after.
type View struct {
	Months        []Month   `json:"months"`
	Selection     Selection `json:"selection"`
	CanGoPrevious bool      `json:"can_go_previous"`
	CanCommit     bool      `json:"can_commit"`
	Summary       string    `json:"summary"`
	LowestPrice   string    `json:"lowest_price,omitempty"`
}

// Picker is the date-range selection state machine. Prices are cached per
// route and month; a route change drops them.
type Picker struct {
	client     flightapi.Client
	currency   string
	percentile float64
	labels     *labeler
	now        func() time.Time

	mu       sync.Mutex
	initial  Selection
	sel      Selection
	anchor   time.Time
	route    Route
	routeGen uint64
	prices   PriceMap
	months   map[monthKey]loadState
}

func NewPicker(client flightapi.Client, cfg config.CalendarConfig, currency string) *Picker {
	p := &Picker{
		client:     client,
		currency:   currency,
		percentile: cfg.LowestPercentile,
		labels:     newLabeler(currency),
		now:        time.Now,
		prices:     PriceMap{},
		months:     map[monthKey]loadState{},
	}
	p.sel = Selection{TripType: types.RoundTrip}
	p.initial = p.sel
	p.anchor = firstOfMonth(p.today())
	return p
}

func (p *Picker) today() time.Time {
	return types.DateOnly(p.now())
}

// localDay maps a date onto midnight of the same calendar day in the
// picker's time zone.
func (p *Picker) localDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.now().Location())
}

// Open starts an editing session from the given selection. Discard returns
// to it.
func (p *Picker) Open(initial Selection) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sel := initial.normalized()
	if sel.Start != nil {
		start := p.localDay(*sel.Start)
		sel.Start = &start
	}
	if sel.End != nil {
		end := p.localDay(*sel.End)
		sel.End = &end
	}

	p.initial = sel
	p.sel = sel

	current := firstOfMonth(p.today())
	p.anchor = current
	if sel.Start != nil {
		if m := firstOfMonth(*sel.Start); m.After(current) {
			p.anchor = m
		}
	}
}

// Click handles activation of a day cell. It returns false when the day is
// not selectable.
func (p *Picker) Click(date time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	day := p.localDay(date)
	if day.Before(p.today()) {
		return false
	}

	sel := &p.sel
	if sel.TripType == types.OneWay {
		sel.Start = &day
		sel.End = nil
		sel.AwaitingEnd = false
		return true
	}

	switch {
	case sel.Start == nil:
		sel.Start = &day
		sel.AwaitingEnd = true
	case sel.AwaitingEnd && !day.Before(*sel.Start):
		sel.End = &day
		sel.AwaitingEnd = false
	case sel.AwaitingEnd:
		sel.Start = &day
		sel.End = nil
	default:
		sel.Start = &day
		sel.End = nil
		sel.AwaitingEnd = true
	}
	return true
}

func (p *Picker) SetTripType(t types.TripType) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sel.TripType = t
	switch t {
	case types.OneWay:
		p.sel.End = nil
		p.sel.AwaitingEnd = false
	case types.RoundTrip:
		if p.sel.Start != nil && p.sel.End == nil {
			p.sel.AwaitingEnd = true
		}
	}
}

func (p *Picker) Next() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.anchor = p.anchor.AddDate(0, 1, 0)
}

// Previous moves the view back one month unless it already shows the
// current month.
func (p *Picker) Previous() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.canGoPreviousLocked() {
		return false
	}
	p.anchor = p.anchor.AddDate(0, -1, 0)
	return true
}

func (p *Picker) canGoPreviousLocked() bool {
	return p.anchor.After(firstOfMonth(p.today()))
}

// Reset clears the selection and returns to the current month. The trip
// type is kept.
func (p *Picker) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sel = Selection{TripType: p.sel.TripType}
	p.anchor = firstOfMonth(p.today())
}

// Commit accepts the in-progress selection if it is complete.
func (p *Picker) Commit() (Selection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.sel.Complete() {
		return Selection{}, ErrIncomplete
	}
	p.initial = p.sel
	return p.sel.normalized(), nil
}

// Discard reverts to the selection the picker was opened with.
func (p *Picker) Discard() Selection {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sel = p.initial
	return p.sel.normalized()
}

func (p *Picker) Selection() Selection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sel.normalized()
}

// SetRoute switches the price route. Prices of the previous route are
// dropped, including in-flight fetches.
func (p *Picker) SetRoute(r Route) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if r == p.route {
		return
	}
	p.route = r
	p.routeGen++
	p.prices = PriceMap{}
	p.months = map[monthKey]loadState{}
}

// LoadPrices fetches the visible months that have not been requested for the
// current route yet. Failed months stay blank until the route changes.
func (p *Picker) LoadPrices(ctx context.Context) {
	p.mu.Lock()
	if !p.route.Valid() {
		p.mu.Unlock()
		return
	}
	route, gen := p.route, p.routeGen

	var todo []time.Time
	for _, first := range p.visibleLocked() {
		key := keyOf(first)
		if _, seen := p.months[key]; seen {
			continue
		}
		p.months[key] = statePending
		todo = append(todo, first)
	}
	p.mu.Unlock()

	var g errgroup.Group
	for _, first := range todo {
		first := first
		g.Go(func() error {
			p.loadMonth(ctx, route, gen, first)
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Picker) loadMonth(ctx context.Context, route Route, gen uint64, first time.Time) {
	key := keyOf(first)
	days, err := p.client.PriceCalendar(ctx, flightapi.PriceCalendarRequest{
		OriginSkyID:         route.OriginSkyID,
		DestinationSkyID:    route.DestinationSkyID,
		OriginEntityID:      route.OriginEntityID,
		DestinationEntityID: route.DestinationEntityID,
		FromDate:            first.Format(types.DateLayout),
		ToDate:              first.AddDate(0, 1, -1).Format(types.DateLayout),
		Currency:            p.currency,
	})

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.routeGen {
		slog.Debug("discarding prices for previous route", "month", first.Format("2006-01"))
		return
	}
	if err != nil {
		// an abandoned request may be retried on the next load
		if ctx.Err() != nil {
			delete(p.months, key)
			return
		}
		slog.Warn("price calendar fetch failed", "month", first.Format("2006-01"), "error", err)
		p.months[key] = stateFailed
		return
	}

	for _, d := range days {
		if d.Price > 0 {
			p.prices[d.Day] = d.Price
		}
	}
	p.months[key] = stateLoaded
}

func (p *Picker) visibleLocked() []time.Time {
	return []time.Time{p.anchor, p.anchor.AddDate(0, 1, 0)}
}

// View renders the two visible months from the current state.
func (p *Picker) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	// prices of failed months never count towards the highlight
	var loaded []float64
	for date, price := range p.prices {
		if !p.failedDateLocked(date) {
			loaded = append(loaded, price)
		}
	}
	threshold := lowestThreshold(loaded, p.percentile)

	in := gridInput{
		today:     p.today(),
		selection: p.sel,
		prices:    p.prices,
		threshold: threshold,
		labels:    p.labels,
	}

	v := View{
		Selection:     p.sel.normalized(),
		CanGoPrevious: p.canGoPreviousLocked(),
		CanCommit:     p.sel.Complete(),
		Summary:       summary(p.sel),
	}
	for _, first := range p.visibleLocked() {
		in.state, in.known = p.months[keyOf(first)]
		v.Months = append(v.Months, buildMonth(first, in))
	}

	if lowest := lowestThreshold(loaded, 0); lowest > 0 {
		v.LowestPrice = p.labels.price(lowest)
	}
	return v
}

func (p *Picker) failedDateLocked(date string) bool {
	for key, state := range p.months {
		if state == stateFailed && key.contains(date) {
			return true
		}
	}
	return false
}
