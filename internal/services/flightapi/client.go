// Package flightapi talks to the flight data provider.
package flightapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/shuv1824/flightsearch/internal/types"
)

// Client is the flight data collaborator used by the suggestion, calendar and
// results services. Implementations must be safe for concurrent use.
type Client interface {
	SearchPlaces(ctx context.Context, query string) ([]types.PlaceRecord, error)
	NearbyAirports(ctx context.Context, lat, lng float64, radius int) (types.NearbyAirportsData, error)
	SearchItineraries(ctx context.Context, req ItineraryRequest) ([]types.Itinerary, error)
	PriceCalendar(ctx context.Context, req PriceCalendarRequest) ([]types.PriceDay, error)
}

type ItineraryRequest struct {
	OriginSkyID         string
	DestinationSkyID    string
	OriginEntityID      string
	DestinationEntityID string
	Date                string
	ReturnDate          string
	CabinClass          types.CabinClass
	Adults              int
	Children            int
	InfantsSeat         int
	InfantsLap          int
	SortBy              string
	Limit               int
	Currency            string
}

type PriceCalendarRequest struct {
	OriginSkyID         string
	DestinationSkyID    string
	OriginEntityID      string
	DestinationEntityID string
	FromDate            string
	ToDate              string
	Currency            string
}

// ErrNoResults is returned when the provider answers successfully with no data.
var ErrNoResults = errors.New("flightapi: no results")

// UpstreamError carries a message reported by the provider itself
// (status=false payloads or non-200 responses).
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("flightapi: upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("flightapi: upstream returned status %d: %s", e.StatusCode, e.Message)
}
