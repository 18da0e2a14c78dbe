package search

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shuv1824/flightsearch/internal/config"
	"github.com/shuv1824/flightsearch/internal/services/flightapi"
	"github.com/shuv1824/flightsearch/internal/types"
)

const (
	MsgMissingParams = "Missing search parameters."
	MsgNoResults     = "No results found."
	MsgFetchFailed   = "Failed to fetch flight results."
)

// ResultError is shown in place of the results list.
type ResultError struct {
	Message string
	Err     error
}

func (e *ResultError) Error() string {
	return e.Message
}

func (e *ResultError) Unwrap() error {
	return e.Err
}

// Service fetches itineraries for a canonical query.
type Service struct {
	client   flightapi.Client
	currency string
	pageSize int
}

func NewService(client flightapi.Client, upstream config.UpstreamConfig, results config.ResultsConfig) *Service {
	return &Service{
		client:   client,
		currency: upstream.Currency,
		pageSize: results.PageSize,
	}
}

func (s *Service) PageSize() int {
	return s.pageSize
}

// Itineraries returns the itineraries for q. Every error is a *ResultError
// carrying the message to show.
func (s *Service) Itineraries(ctx context.Context, q Query) ([]types.Itinerary, error) {
	if q.From == "" || q.To == "" || q.DepartureDate == "" {
		return nil, &ResultError{Message: MsgMissingParams}
	}

	originSky, originEntity, ok := types.SplitOptionID(q.From)
	if !ok {
		return nil, &ResultError{Message: MsgMissingParams}
	}
	destSky, destEntity, ok := types.SplitOptionID(q.To)
	if !ok {
		return nil, &ResultError{Message: MsgMissingParams}
	}

	req := flightapi.ItineraryRequest{
		OriginSkyID:         originSky,
		DestinationSkyID:    destSky,
		OriginEntityID:      originEntity,
		DestinationEntityID: destEntity,
		Date:                q.DepartureDate,
		CabinClass:          q.FlightClass,
		Adults:              max(q.Adults, 1),
		Children:            q.Children,
		InfantsSeat:         q.InfantsSeat,
		InfantsLap:          q.InfantsLap,
		Currency:            s.currency,
	}
	if q.TripType != types.OneWay {
		req.ReturnDate = q.ReturnDate
	}
	if req.CabinClass == "" {
		req.CabinClass = types.Economy
	}

	its, err := s.client.SearchItineraries(ctx, req)
	if err == nil {
		return its, nil
	}

	var upErr *flightapi.UpstreamError
	switch {
	case errors.Is(err, flightapi.ErrNoResults):
		return nil, &ResultError{Message: MsgNoResults, Err: err}
	case errors.As(err, &upErr) && upErr.Message != "":
		return nil, &ResultError{Message: upErr.Message, Err: err}
	default:
		slog.Error("itinerary search failed", "from", q.From, "to", q.To, "error", err)
		return nil, &ResultError{Message: MsgFetchFailed, Err: err}
	}
}

// Results is a load-more window over an itinerary list.
type Results struct {
	Itineraries []types.Itinerary `json:"itineraries"`
	Visible     int               `json:"visible"`
	Total       int               `json:"total"`
	HasMore     bool              `json:"has_more"`
	NextVisible int               `json:"next_visible"`
	Message     string            `json:"message,omitempty"`
}

// LoadMore shows the first visible items; a non-positive visible count shows
// one page. NextVisible is the count after one more "load more".
func LoadMore(items []types.Itinerary, visible, pageSize int) Results {
	total := len(items)
	if visible <= 0 {
		visible = pageSize
	}
	visible = min(visible, total)

	shown := []types.Itinerary{}
	if visible > 0 {
		shown = items[:visible]
	}
	return Results{
		Itineraries: shown,
		Visible:     visible,
		Total:       total,
		HasMore:     visible < total,
		NextVisible: min(visible+pageSize, total),
	}
}

// Page returns the 1-based page of items.
func Page(items []types.Itinerary, page, pageSize int) []types.Itinerary {
	if page < 1 || pageSize <= 0 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	return items[start:min(start+pageSize, len(items))]
}
