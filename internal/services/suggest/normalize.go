// Package suggest turns free-text queries into origin/destination suggestions.
package suggest

import (
	"regexp"

	"github.com/shuv1824/flightsearch/internal/types"
)

var codePattern = regexp.MustCompile(`\(([^)]+)\)`)

// Normalize converts one upstream place record into a LocationOption.
// Records with a presentation block are full places; anything else is
// treated as a nearby-airport record.
func Normalize(rec types.PlaceRecord) types.LocationOption {
	if rec.Presentation != nil {
		return normalizePlace(rec)
	}
	return normalizeNearby(rec)
}

func NormalizeAll(recs []types.PlaceRecord) []types.LocationOption {
	opts := make([]types.LocationOption, 0, len(recs))
	for _, r := range recs {
		opts = append(opts, Normalize(r))
	}
	return opts
}

func normalizePlace(rec types.PlaceRecord) types.LocationOption {
	p := rec.Presentation

	code := rec.SkyID
	if m := codePattern.FindStringSubmatch(p.SuggestionTitle); m != nil {
		code = m[1]
	}

	opt := types.LocationOption{
		ID:              types.OptionID(rec.SkyID, rec.EntityID),
		SkyCode:         rec.SkyID,
		EntityID:        rec.EntityID,
		Name:            p.Title,
		SuggestionTitle: p.SuggestionTitle,
		Subtitle:        p.Subtitle,
		DisplayCode:     code,
		EntityType:      types.EntityUnknown,
	}

	if nav := rec.Navigation; nav != nil {
		opt.EntityType = types.ParseEntityType(nav.EntityType)
		if nav.GeoCode != nil {
			lat, lng := nav.GeoCode.Latitude, nav.GeoCode.Longitude
			opt.Latitude = &lat
			opt.Longitude = &lng
		}
	}
	return opt
}

func normalizeNearby(rec types.PlaceRecord) types.LocationOption {
	return types.LocationOption{
		ID:              types.OptionID(rec.SkyID, rec.EntityID),
		SkyCode:         rec.SkyID,
		EntityID:        rec.EntityID,
		Name:            rec.Name,
		SuggestionTitle: rec.Name + " (" + rec.IATA + ")",
		Subtitle:        rec.City + ", " + rec.Country,
		DisplayCode:     rec.IATA,
		EntityType:      types.EntityAirport,
	}
}
