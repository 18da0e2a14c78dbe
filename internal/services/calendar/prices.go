package calendar

import (
	"math"
	"sort"
	"time"

	"github.com/shuv1824/flightsearch/internal/types"
)

// PriceMap maps an ISO date to the cheapest known fare on that day.
type PriceMap map[string]float64

type monthKey struct {
	Year  int
	Month time.Month
}

func keyOf(t time.Time) monthKey {
	return monthKey{Year: t.Year(), Month: t.Month()}
}

func (k monthKey) contains(date string) bool {
	t, err := time.Parse(types.DateLayout, date)
	if err != nil {
		return false
	}
	return t.Year() == k.Year && t.Month() == k.Month
}

type loadState int

const (
	statePending loadState = iota + 1
	stateLoaded
	stateFailed
)

// Route identifies the origin/destination pair prices are fetched for.
type Route struct {
	OriginSkyID         string `json:"origin_sky_id"`
	OriginEntityID      string `json:"origin_entity_id"`
	DestinationSkyID    string `json:"destination_sky_id"`
	DestinationEntityID string `json:"destination_entity_id"`
}

func RouteOf(origin, destination *types.LocationOption) Route {
	var r Route
	if origin != nil {
		r.OriginSkyID, r.OriginEntityID = origin.SkyCode, origin.EntityID
	}
	if destination != nil {
		r.DestinationSkyID, r.DestinationEntityID = destination.SkyCode, destination.EntityID
	}
	return r
}

// Valid reports whether both ends of the route are known.
func (r Route) Valid() bool {
	return r.OriginSkyID != "" && r.OriginEntityID != "" &&
		r.DestinationSkyID != "" && r.DestinationEntityID != ""
}

// lowestThreshold sorts the given prices and returns the value at index
// floor(len*percentile). Zero prices are ignored; no prices yields 0.
func lowestThreshold(prices []float64, percentile float64) float64 {
	vals := make([]float64, 0, len(prices))
	for _, p := range prices {
		if p > 0 {
			vals = append(vals, p)
		}
	}
	if len(vals) == 0 {
		return 0
	}
	sort.Float64s(vals)

	idx := int(math.Floor(float64(len(vals)) * percentile))
	idx = min(max(idx, 0), len(vals)-1)
	return vals[idx]
}
