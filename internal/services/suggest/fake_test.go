package suggest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shuv1824/flightsearch/internal/config"
	"github.com/shuv1824/flightsearch/internal/services/flightapi"
	"github.com/shuv1824/flightsearch/internal/types"
)

var errUpstream = errors.New("upstream unavailable")

type nearbyCall struct {
	lat, lng float64
	radius   int
}

// fakeClient is a scriptable flightapi.Client.
type fakeClient struct {
	mu          sync.Mutex
	search      func(ctx context.Context, q string) ([]types.PlaceRecord, error)
	nearby      func(ctx context.Context, lat, lng float64) ([]types.PlaceRecord, error)
	queries     []string
	nearbyCalls []nearbyCall
}

func (f *fakeClient) SearchPlaces(ctx context.Context, q string) ([]types.PlaceRecord, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	search := f.search
	f.mu.Unlock()

	if search == nil {
		return nil, nil
	}
	return search(ctx, q)
}

func (f *fakeClient) NearbyAirports(ctx context.Context, lat, lng float64, radius int) (types.NearbyAirportsData, error) {
	f.mu.Lock()
	f.nearbyCalls = append(f.nearbyCalls, nearbyCall{lat: lat, lng: lng, radius: radius})
	nearby := f.nearby
	f.mu.Unlock()

	if nearby == nil {
		return types.NearbyAirportsData{}, nil
	}
	recs, err := nearby(ctx, lat, lng)
	if err != nil {
		return types.NearbyAirportsData{}, err
	}
	return types.NearbyAirportsData{Nearby: recs}, nil
}

func (f *fakeClient) SearchItineraries(context.Context, flightapi.ItineraryRequest) ([]types.Itinerary, error) {
	return nil, flightapi.ErrNoResults
}

func (f *fakeClient) PriceCalendar(context.Context, flightapi.PriceCalendarRequest) ([]types.PriceDay, error) {
	return nil, nil
}

func (f *fakeClient) searchedQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func (f *fakeClient) nearbyLookups() []nearbyCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]nearbyCall(nil), f.nearbyCalls...)
}

func cityRecord(sky, entity, title, subtitle string, lat, lng float64) types.PlaceRecord {
	return types.PlaceRecord{
		SkyID:    sky,
		EntityID: entity,
		Presentation: &types.Presentation{
			Title:           title,
			SuggestionTitle: title + " (Any)",
			Subtitle:        subtitle,
		},
		Navigation: &types.Navigation{
			EntityID:      entity,
			EntityType:    "CITY",
			LocalizedName: title,
			GeoCode:       &types.GeoCode{Latitude: lat, Longitude: lng},
		},
	}
}

func countryRecord(sky, entity, title string) types.PlaceRecord {
	return types.PlaceRecord{
		SkyID:    sky,
		EntityID: entity,
		Presentation: &types.Presentation{
			Title:           title,
			SuggestionTitle: title,
		},
		Navigation: &types.Navigation{
			EntityID:      entity,
			EntityType:    "COUNTRY",
			LocalizedName: title,
		},
	}
}

func airportRecord(sky, entity, title, subtitle string) types.PlaceRecord {
	return types.PlaceRecord{
		SkyID:    sky,
		EntityID: entity,
		Presentation: &types.Presentation{
			Title:           title,
			SuggestionTitle: title + " (" + sky + ")",
			Subtitle:        subtitle,
		},
		Navigation: &types.Navigation{
			EntityID:      entity,
			EntityType:    "AIRPORT",
			LocalizedName: title,
		},
	}
}

func nearbyRecord(iata, entity, name, city, country string) types.PlaceRecord {
	return types.PlaceRecord{
		SkyID:    iata,
		EntityID: entity,
		Name:     name,
		IATA:     iata,
		City:     city,
		Country:  country,
	}
}

func testSuggestConfig() config.SuggestConfig {
	cfg := config.DefaultConfig().Suggest
	cfg.Debounce = 5 * time.Millisecond
	return cfg
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
