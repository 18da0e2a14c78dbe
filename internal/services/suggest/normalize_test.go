package suggest

import (
	"reflect"
	"testing"

	"github.com/shuv1824/flightsearch/internal/types"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		record   types.PlaceRecord
		expected types.LocationOption
		hasGeo   bool
	}{
		{
			name:   "airport takes code from parentheses",
			record: airportRecord("LHR", "95565050", "London Heathrow", "United Kingdom"),
			expected: types.LocationOption{
				ID:              "LHR_95565050",
				SkyCode:         "LHR",
				EntityID:        "95565050",
				Name:            "London Heathrow",
				SuggestionTitle: "London Heathrow (LHR)",
				Subtitle:        "United Kingdom",
				DisplayCode:     "LHR",
				EntityType:      types.EntityAirport,
			},
		},
		{
			name:   "country without parentheses falls back to sky code",
			record: countryRecord("UK", "29475375", "United Kingdom"),
			expected: types.LocationOption{
				ID:              "UK_29475375",
				SkyCode:         "UK",
				EntityID:        "29475375",
				Name:            "United Kingdom",
				SuggestionTitle: "United Kingdom",
				DisplayCode:     "UK",
				EntityType:      types.EntityCountry,
			},
		},
		{
			name:   "city keeps coordinates",
			record: cityRecord("LOND", "27544008", "London", "United Kingdom", 51.5, -0.12),
			expected: types.LocationOption{
				ID:              "LOND_27544008",
				SkyCode:         "LOND",
				EntityID:        "27544008",
				Name:            "London",
				SuggestionTitle: "London (Any)",
				Subtitle:        "United Kingdom",
				DisplayCode:     "Any",
				EntityType:      types.EntityCity,
			},
			hasGeo: true,
		},
		{
			name:   "nearby airport record",
			record: nearbyRecord("LGW", "95565051", "London Gatwick", "London", "United Kingdom"),
			expected: types.LocationOption{
				ID:              "LGW_95565051",
				SkyCode:         "LGW",
				EntityID:        "95565051",
				Name:            "London Gatwick",
				SuggestionTitle: "London Gatwick (LGW)",
				Subtitle:        "London, United Kingdom",
				DisplayCode:     "LGW",
				EntityType:      types.EntityAirport,
			},
		},
		{
			name: "unknown entity type and missing navigation",
			record: types.PlaceRecord{
				SkyID:        "XYZ",
				EntityID:     "1",
				Presentation: &types.Presentation{Title: "Somewhere"},
			},
			expected: types.LocationOption{
				ID:          "XYZ_1",
				SkyCode:     "XYZ",
				EntityID:    "1",
				Name:        "Somewhere",
				DisplayCode: "XYZ",
				EntityType:  types.EntityUnknown,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.record)

			if tt.hasGeo {
				if got.Latitude == nil || got.Longitude == nil {
					t.Fatalf("expected coordinates, got %+v", got)
				}
				if !got.IsRegion() {
					t.Error("expected city with coordinates to be a region")
				}
			} else if got.Latitude != nil || got.Longitude != nil {
				t.Errorf("expected no coordinates, got %v/%v", got.Latitude, got.Longitude)
			}

			got.Latitude, got.Longitude = nil, nil
			if got != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	records := []types.PlaceRecord{
		cityRecord("LOND", "27544008", "London", "United Kingdom", 51.5, -0.12),
		nearbyRecord("LGW", "95565051", "London Gatwick", "London", "United Kingdom"),
		{},
	}

	for _, r := range records {
		first := Normalize(r)
		second := Normalize(r)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("normalize not idempotent: %+v vs %+v", first, second)
		}
	}
}

func TestNormalizeAllPreservesOrder(t *testing.T) {
	opts := NormalizeAll([]types.PlaceRecord{
		countryRecord("UK", "1", "United Kingdom"),
		airportRecord("LHR", "2", "London Heathrow", "United Kingdom"),
	})
	if len(opts) != 2 || opts[0].ID != "UK_1" || opts[1].ID != "LHR_2" {
		t.Errorf("unexpected options: %+v", opts)
	}
}
