package types

import (
	"strings"
	"time"
)

type EntityType string

const (
	EntityAirport EntityType = "AIRPORT"
	EntityCity    EntityType = "CITY"
	EntityCountry EntityType = "COUNTRY"
	EntityUnknown EntityType = "UNKNOWN"
)

// ParseEntityType maps an upstream entity type string to a known variant.
func ParseEntityType(s string) EntityType {
	switch EntityType(strings.ToUpper(strings.TrimSpace(s))) {
	case EntityAirport:
		return EntityAirport
	case EntityCity:
		return EntityCity
	case EntityCountry:
		return EntityCountry
	default:
		return EntityUnknown
	}
}

// LocationOption is the normalized suggestion shown in the origin/destination pickers.
type LocationOption struct {
	ID              string     `json:"id"`
	SkyCode         string     `json:"sky_code"`
	EntityID        string     `json:"entity_id"`
	Name            string     `json:"name"`
	SuggestionTitle string     `json:"suggestion_title"`
	Subtitle        string     `json:"subtitle"`
	DisplayCode     string     `json:"display_code"`
	EntityType      EntityType `json:"entity_type"`
	ParentID        string     `json:"parent_id,omitempty"`
	Latitude        *float64   `json:"latitude,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
}

// IsRegion reports whether nearby airports can be looked up for this option.
func (o LocationOption) IsRegion() bool {
	return o.EntityType != EntityAirport && o.Latitude != nil && o.Longitude != nil
}

// OptionID builds the composite id used across the form, the query string and the cache.
func OptionID(skyCode, entityID string) string {
	return skyCode + "_" + entityID
}

// SplitOptionID is the inverse of OptionID.
func SplitOptionID(id string) (skyCode, entityID string, ok bool) {
	skyCode, entityID, ok = strings.Cut(id, "_")
	if !ok || skyCode == "" || entityID == "" {
		return "", "", false
	}
	return skyCode, entityID, true
}

type TripType string

const (
	OneWay    TripType = "one-way"
	RoundTrip TripType = "round-trip"
)

func ParseTripType(s string) (TripType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one-way", "oneway", "one way":
		return OneWay, true
	case "round-trip", "round", "round trip", "roundtrip":
		return RoundTrip, true
	default:
		return "", false
	}
}

type CabinClass string

const (
	Economy        CabinClass = "economy"
	PremiumEconomy CabinClass = "premium_economy"
	Business       CabinClass = "business"
	First          CabinClass = "first"
)

func ParseCabinClass(s string) (CabinClass, bool) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")) {
	case "economy":
		return Economy, true
	case "premium_economy", "premium-economy":
		return PremiumEconomy, true
	case "business":
		return Business, true
	case "first":
		return First, true
	default:
		return "", false
	}
}

type PassengerKind string

const (
	Adults      PassengerKind = "adults"
	Children    PassengerKind = "children"
	InfantsSeat PassengerKind = "infantsSeat"
	InfantsLap  PassengerKind = "infantsLap"
)

type PassengerCounts struct {
	Adults      int `json:"adults"`
	Children    int `json:"children"`
	InfantsSeat int `json:"infants_seat"`
	InfantsLap  int `json:"infants_lap"`
}

func (p PassengerCounts) Total() int {
	return p.Adults + p.Children + p.InfantsSeat + p.InfantsLap
}

// PlaceRecord decodes both upstream place shapes. A full place carries
// Presentation and Navigation; a nearby-airport record carries Name/IATA/City/Country.
type PlaceRecord struct {
	SkyID        string        `json:"skyId"`
	EntityID     string        `json:"entityId"`
	Presentation *Presentation `json:"presentation,omitempty"`
	Navigation   *Navigation   `json:"navigation,omitempty"`

	Name     string    `json:"name,omitempty"`
	IATA     string    `json:"iata,omitempty"`
	City     string    `json:"city,omitempty"`
	Country  string    `json:"country,omitempty"`
	Distance *Distance `json:"distance,omitempty"`
}

type Presentation struct {
	Title           string `json:"title"`
	SuggestionTitle string `json:"suggestionTitle"`
	Subtitle        string `json:"subtitle,omitempty"`
}

type Navigation struct {
	EntityID      string   `json:"entityId"`
	EntityType    string   `json:"entityType"`
	LocalizedName string   `json:"localizedName"`
	GeoCode       *GeoCode `json:"geoCode,omitempty"`
}

type GeoCode struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Distance struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type NearbyAirportsData struct {
	Current *PlaceRecord  `json:"current,omitempty"`
	Nearby  []PlaceRecord `json:"nearby"`
	Recent  []PlaceRecord `json:"recent"`
}

// NearbyAirportsResponse represents the getNearByAirports API response
type NearbyAirportsResponse struct {
	Status    bool               `json:"status"`
	Timestamp int64              `json:"timestamp"`
	Data      NearbyAirportsData `json:"data"`
}

type Itinerary struct {
	ID    string `json:"id"`
	Price Price  `json:"price"`
	Legs  []Leg  `json:"legs"`
}

type Price struct {
	Raw       float64 `json:"raw"`
	Formatted string  `json:"formatted"`
}

type Leg struct {
	ID                string   `json:"id"`
	Origin            LegPlace `json:"origin"`
	Destination       LegPlace `json:"destination"`
	DurationInMinutes int      `json:"durationInMinutes"`
	StopCount         int      `json:"stopCount"`
	Departure         string   `json:"departure"`
	Arrival           string   `json:"arrival"`
	Carriers          Carriers `json:"carriers"`
}

type LegPlace struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayCode string `json:"displayCode"`
	City        string `json:"city,omitempty"`
}

type Carriers struct {
	Marketing []Carrier `json:"marketing"`
}

type Carrier struct {
	ID      int    `json:"id,omitempty"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// PriceDay is one entry of the getPriceCalendar API response
type PriceDay struct {
	Day   string  `json:"day"`
	Group string  `json:"group"`
	Price float64 `json:"price"`
}

type PriceCalendarResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Flights struct {
			NoPriceLabel string     `json:"noPriceLabel"`
			Days         []PriceDay `json:"days"`
		} `json:"flights"`
	} `json:"data"`
}

// DateOnly truncates t to local midnight of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

const DateLayout = "2006-01-02"
