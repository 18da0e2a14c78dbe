package flightapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/shuv1824/flightsearch/internal/config"
	"github.com/shuv1824/flightsearch/internal/types"
)

const (
	defaultSortBy = "best"
	defaultLimit  = 50
)

// HTTPClient is the Sky Scrapper (RapidAPI) implementation of Client.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	host       string
	apiKey     string
	locale     string
	currency   string
}

func NewHTTPClient(cfg config.UpstreamConfig) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:  cfg.BaseURL,
		host:     cfg.Host,
		apiKey:   cfg.APIKey,
		locale:   cfg.Locale,
		currency: cfg.Currency,
	}
}

// envelope is the {status, data} wrapper shared by most endpoints.
type envelope struct {
	Status bool            `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// SearchPlaces calls searchAirport. The provider answers either with the
// usual envelope or with a bare array of places.
func (c *HTTPClient) SearchPlaces(ctx context.Context, query string) ([]types.PlaceRecord, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("locale", c.locale)

	body, err := c.get(ctx, "v1/flights/searchAirport", params)
	if err != nil {
		return nil, err
	}

	var places []types.PlaceRecord
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &places); err != nil {
			return nil, fmt.Errorf("flightapi: decode places: %w", err)
		}
		return places, nil
	}

	data, err := unwrap(body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || data[0] != '[' {
		return nil, nil
	}
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, fmt.Errorf("flightapi: decode places: %w", err)
	}
	return places, nil
}

func (c *HTTPClient) NearbyAirports(ctx context.Context, lat, lng float64, radius int) (types.NearbyAirportsData, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(radius))

	body, err := c.get(ctx, "v1/flights/getNearByAirports", params)
	if err != nil {
		return types.NearbyAirportsData{}, err
	}

	var resp types.NearbyAirportsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return types.NearbyAirportsData{}, fmt.Errorf("flightapi: decode nearby airports: %w", err)
	}
	if !resp.Status {
		return types.NearbyAirportsData{}, &UpstreamError{StatusCode: http.StatusOK, Message: "nearby airports unavailable"}
	}
	return resp.Data, nil
}

func (c *HTTPClient) SearchItineraries(ctx context.Context, req ItineraryRequest) ([]types.Itinerary, error) {
	params := url.Values{}
	params.Set("originSkyId", req.OriginSkyID)
	params.Set("destinationSkyId", req.DestinationSkyID)
	params.Set("originEntityId", req.OriginEntityID)
	params.Set("destinationEntityId", req.DestinationEntityID)
	params.Set("date", req.Date)
	if req.ReturnDate != "" {
		params.Set("returnDate", req.ReturnDate)
	}
	params.Set("cabinClass", string(req.CabinClass))
	params.Set("adults", strconv.Itoa(max(req.Adults, 1)))
	if req.Children > 0 {
		params.Set("childrens", strconv.Itoa(req.Children))
	}
	if req.InfantsSeat+req.InfantsLap > 0 {
		params.Set("infants", strconv.Itoa(req.InfantsSeat+req.InfantsLap))
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	params.Set("sortBy", sortBy)
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("currency", c.currencyOr(req.Currency))

	body, err := c.get(ctx, "v2/flights/searchFlightsComplete", params)
	if err != nil {
		return nil, err
	}

	data, err := unwrap(body)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Itineraries []types.Itinerary `json:"itineraries"`
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("flightapi: decode itineraries: %w", err)
		}
	}
	if len(payload.Itineraries) == 0 {
		return nil, ErrNoResults
	}
	return payload.Itineraries, nil
}

func (c *HTTPClient) PriceCalendar(ctx context.Context, req PriceCalendarRequest) ([]types.PriceDay, error) {
	params := url.Values{}
	params.Set("originSkyId", req.OriginSkyID)
	params.Set("destinationSkyId", req.DestinationSkyID)
	params.Set("originEntityId", req.OriginEntityID)
	params.Set("destinationEntityId", req.DestinationEntityID)
	params.Set("fromDate", req.FromDate)
	params.Set("toDate", req.ToDate)
	params.Set("currency", c.currencyOr(req.Currency))

	body, err := c.get(ctx, "v1/flights/getPriceCalendar", params)
	if err != nil {
		return nil, err
	}

	var resp types.PriceCalendarResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("flightapi: decode price calendar: %w", err)
	}
	if !resp.Status {
		return nil, &UpstreamError{StatusCode: http.StatusOK, Message: "price calendar unavailable"}
	}
	return resp.Data.Flights.Days, nil
}

func (c *HTTPClient) currencyOr(currency string) string {
	if currency != "" {
		return currency
	}
	return c.currency
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("flightapi: build request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flightapi: %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("flightapi: read %s: %w", path, err)
	}

	slog.Debug("upstream call", "path", path, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: messageOf(body)}
	}
	return body, nil
}

// unwrap returns the data member of an envelope, or an UpstreamError when the
// provider flags the call as failed.
func unwrap(body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("flightapi: decode envelope: %w", err)
	}
	if !env.Status {
		return nil, &UpstreamError{StatusCode: http.StatusOK, Message: messageOf(body)}
	}
	return bytes.TrimSpace(env.Data), nil
}

// messageOf extracts a message from an error payload. The provider sends
// either a string or a list whose first element is a string or an object.
func messageOf(body []byte) string {
	var env struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Message) == 0 {
		return ""
	}

	var msg string
	if err := json.Unmarshal(env.Message, &msg); err == nil {
		return msg
	}

	var list []json.RawMessage
	if err := json.Unmarshal(env.Message, &list); err != nil || len(list) == 0 {
		return ""
	}
	if err := json.Unmarshal(list[0], &msg); err == nil {
		return msg
	}
	var fields map[string]string
	if err := json.Unmarshal(list[0], &fields); err != nil {
		return ""
	}
	// maps are unordered, take the first key alphabetically
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return ""
	}
	return fields[keys[0]]
}
