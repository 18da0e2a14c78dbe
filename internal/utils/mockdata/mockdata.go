// Package mockdata holds the fixtures served when no API key is configured.
package mockdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shuv1824/flightsearch/internal/types"
)

//go:embed fixtures/*.json
var fixtures embed.FS

// NearbyGroup is the set of airports returned around one coordinate.
type NearbyGroup struct {
	Latitude  float64             `json:"latitude"`
	Longitude float64             `json:"longitude"`
	Nearby    []types.PlaceRecord `json:"nearby"`
}

var (
	places      []types.PlaceRecord
	nearby      []NearbyGroup
	itineraries []types.Itinerary
	loadOnce    sync.Once
	loadErr     error
)

// Load decodes the embedded fixtures once. Safe to call multiple times.
func Load() error {
	loadOnce.Do(func() {
		var placesFile struct {
			Data []types.PlaceRecord `json:"data"`
		}
		if loadErr = decode("fixtures/places.json", &placesFile); loadErr != nil {
			return
		}
		places = placesFile.Data

		if loadErr = decode("fixtures/nearby.json", &nearby); loadErr != nil {
			return
		}

		var itinerariesFile struct {
			Data struct {
				Itineraries []types.Itinerary `json:"itineraries"`
			} `json:"data"`
		}
		if loadErr = decode("fixtures/itineraries.json", &itinerariesFile); loadErr != nil {
			return
		}
		itineraries = itinerariesFile.Data.Itineraries
	})

	return loadErr
}

func decode(name string, v any) error {
	file, err := fixtures.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil {
		return fmt.Errorf("mockdata: decode %s: %w", name, err)
	}
	return nil
}

func Places() []types.PlaceRecord {
	return places
}

func Nearby() []NearbyGroup {
	return nearby
}

func Itineraries() []types.Itinerary {
	return itineraries
}
