package flightapi

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"time"

	"github.com/shuv1824/flightsearch/internal/types"
	"github.com/shuv1824/flightsearch/internal/utils/mockdata"
)

// coordinate tolerance when matching a nearby-airports fixture group
const nearbyTolerance = 0.05

// MockClient serves the embedded fixtures. Prices are derived from the route
// and date so repeated calls return the same calendar.
type MockClient struct{}

func NewMockClient() (*MockClient, error) {
	if err := mockdata.Load(); err != nil {
		return nil, fmt.Errorf("flightapi: load mock data: %w", err)
	}
	return &MockClient{}, nil
}

func (m *MockClient) SearchPlaces(ctx context.Context, query string) ([]types.PlaceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var matches []types.PlaceRecord
	for _, p := range mockdata.Places() {
		if matchesPlace(p, q) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func matchesPlace(p types.PlaceRecord, q string) bool {
	if strings.Contains(strings.ToLower(p.SkyID), q) {
		return true
	}
	if p.Presentation == nil {
		return false
	}
	return strings.Contains(strings.ToLower(p.Presentation.SuggestionTitle), q) ||
		strings.Contains(strings.ToLower(p.Presentation.Subtitle), q)
}

func (m *MockClient) NearbyAirports(ctx context.Context, lat, lng float64, radius int) (types.NearbyAirportsData, error) {
	if err := ctx.Err(); err != nil {
		return types.NearbyAirportsData{}, err
	}

	for _, g := range mockdata.Nearby() {
		if math.Abs(g.Latitude-lat) <= nearbyTolerance && math.Abs(g.Longitude-lng) <= nearbyTolerance {
			return types.NearbyAirportsData{Nearby: g.Nearby}, nil
		}
	}
	return types.NearbyAirportsData{}, nil
}

func (m *MockClient) SearchItineraries(ctx context.Context, req ItineraryRequest) ([]types.Itinerary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	its := mockdata.Itineraries()
	if len(its) == 0 {
		return nil, ErrNoResults
	}
	out := make([]types.Itinerary, len(its))
	copy(out, its)
	return out, nil
}

func (m *MockClient) PriceCalendar(ctx context.Context, req PriceCalendarRequest) ([]types.PriceDay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	from, err := time.Parse(types.DateLayout, req.FromDate)
	if err != nil {
		return nil, fmt.Errorf("flightapi: invalid fromDate %q: %w", req.FromDate, err)
	}
	to, err := time.Parse(types.DateLayout, req.ToDate)
	if err != nil {
		return nil, fmt.Errorf("flightapi: invalid toDate %q: %w", req.ToDate, err)
	}

	route := req.OriginSkyID + req.DestinationSkyID
	var days []types.PriceDay
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day := d.Format(types.DateLayout)
		price := mockPrice(route, day)
		days = append(days, types.PriceDay{
			Day:   day,
			Group: priceGroup(price),
			Price: price,
		})
	}
	return days, nil
}

// mockPrice returns a stable price between 80 and 479.
func mockPrice(route, day string) float64 {
	h := fnv.New32a()
	h.Write([]byte(route))
	h.Write([]byte(day))
	return float64(80 + h.Sum32()%400)
}

func priceGroup(price float64) string {
	switch {
	case price < 180:
		return "low"
	case price < 340:
		return "medium"
	default:
		return "high"
	}
}
