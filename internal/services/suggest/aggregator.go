package suggest

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/shuv1824/flightsearch/internal/config"
	"github.com/shuv1824/flightsearch/internal/services/flightapi"
	"github.com/shuv1824/flightsearch/internal/types"
)

// Aggregator runs the two-stage lookup: a text search followed by a
// nearby-airports lookup for every region among the text-search results.
type Aggregator struct {
	client      flightapi.Client
	cache       *Cache
	minLength   int
	radius      int
	fanoutLimit int
}

func NewAggregator(client flightapi.Client, cache *Cache, cfg config.SuggestConfig) *Aggregator {
	return &Aggregator{
		client:      client,
		cache:       cache,
		minLength:   cfg.MinQueryLength,
		radius:      cfg.NearbyRadius,
		fanoutLimit: cfg.FanoutLimit,
	}
}

// Eligible reports whether q is long enough to be searched.
func (a *Aggregator) Eligible(q string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(q)) >= a.minLength
}

// Cache returns the lookup cache results are written to.
func (a *Aggregator) Cache() *Cache {
	return a.cache
}

// Suggest returns the text-search options followed by the airports found
// around each region option, in region order. It never fails: a text-search
// error yields no options and a failed nearby lookup yields no airports for
// that region only.
func (a *Aggregator) Suggest(ctx context.Context, q string) []types.LocationOption {
	q = strings.TrimSpace(q)
	if !a.Eligible(q) {
		return nil
	}

	places, err := a.client.SearchPlaces(ctx, q)
	if err != nil {
		slog.Warn("place search failed", "query", q, "error", err)
		return nil
	}
	initial := NormalizeAll(places)

	// superseded while the text search was running
	if ctx.Err() != nil {
		return nil
	}

	var regions []types.LocationOption
	for _, o := range initial {
		if o.IsRegion() {
			regions = append(regions, o)
		}
	}

	nearby := make([][]types.LocationOption, len(regions))

	var g errgroup.Group
	if a.fanoutLimit > 0 {
		g.SetLimit(a.fanoutLimit)
	}
	for i, region := range regions {
		i, region := i, region
		g.Go(func() error {
			nearby[i] = a.nearbyFor(ctx, region)
			return nil
		})
	}
	_ = g.Wait()

	merged := initial
	for _, airports := range nearby {
		merged = append(merged, airports...)
	}

	if a.cache != nil {
		a.cache.Put(merged...)
	}
	return merged
}

func (a *Aggregator) nearbyFor(ctx context.Context, region types.LocationOption) []types.LocationOption {
	data, err := a.client.NearbyAirports(ctx, *region.Latitude, *region.Longitude, a.radius)
	if err != nil {
		slog.Debug("nearby airports lookup failed", "region", region.ID, "error", err)
		return nil
	}

	airports := NormalizeAll(data.Nearby)
	for i := range airports {
		airports[i].ParentID = region.ID
	}
	return airports
}
