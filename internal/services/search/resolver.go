package search

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shuv1824/flightsearch/internal/services/calendar"
	"github.com/shuv1824/flightsearch/internal/services/flightapi"
	"github.com/shuv1824/flightsearch/internal/services/suggest"
	"github.com/shuv1824/flightsearch/internal/types"
)

var ErrUnresolved = errors.New("search: location not found")

// Prefill is a parsed search intent with its locations resolved.
type Prefill struct {
	Query       Query                 `json:"query"`
	Origin      *types.LocationOption `json:"origin"`
	Destination *types.LocationOption `json:"destination"`
}

// Dates converts the query dates into a calendar selection. Unparseable
// dates are dropped.
func (p Prefill) Dates() calendar.Selection {
	sel := calendar.Selection{TripType: p.Query.TripType}
	if sel.TripType != types.OneWay {
		sel.TripType = types.RoundTrip
	}

	start, err := time.ParseInLocation(types.DateLayout, p.Query.DepartureDate, time.Local)
	if err != nil {
		return sel
	}
	sel.Start = &start

	if sel.TripType == types.RoundTrip {
		end, err := time.ParseInLocation(types.DateLayout, p.Query.ReturnDate, time.Local)
		if err == nil && !end.Before(start) {
			sel.End = &end
		} else {
			sel.AwaitingEnd = true
		}
	}
	return sel
}

// Resolver turns option ids from a query string back into options, using the
// lookup cache first and a place search by code otherwise.
type Resolver struct {
	cache  *suggest.Cache
	client flightapi.Client
}

func NewResolver(cache *suggest.Cache, client flightapi.Client) *Resolver {
	return &Resolver{cache: cache, client: client}
}

func (r *Resolver) Resolve(ctx context.Context, id string) (*types.LocationOption, error) {
	if opt, ok := r.cache.Get(id); ok {
		return &opt, nil
	}

	skyCode, _, ok := types.SplitOptionID(id)
	if !ok {
		return nil, ErrUnresolved
	}

	places, err := r.client.SearchPlaces(ctx, skyCode)
	if err != nil {
		return nil, err
	}

	opts := suggest.NormalizeAll(places)
	r.cache.Put(opts...)
	for _, o := range opts {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, ErrUnresolved
}

// Prefill resolves both ends of q. Locations that cannot be resolved are
// left empty.
func (r *Resolver) Prefill(ctx context.Context, q Query) Prefill {
	p := Prefill{Query: q}

	if q.From != "" {
		opt, err := r.Resolve(ctx, q.From)
		if err != nil {
			slog.Debug("could not resolve origin", "id", q.From, "error", err)
		}
		p.Origin = opt
	}
	if q.To != "" {
		opt, err := r.Resolve(ctx, q.To)
		if err != nil {
			slog.Debug("could not resolve destination", "id", q.To, "error", err)
		}
		p.Destination = opt
	}
	return p
}
