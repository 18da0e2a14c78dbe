package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shuv1824/flightsearch/internal/services/suggest"
	"github.com/shuv1824/flightsearch/internal/types"
)

func jfkRecord() types.PlaceRecord {
	return types.PlaceRecord{
		SkyID:    "JFK",
		EntityID: "95565058",
		Presentation: &types.Presentation{
			Title:           "New York John F. Kennedy",
			SuggestionTitle: "New York John F. Kennedy (JFK)",
			Subtitle:        "United States",
		},
		Navigation: &types.Navigation{EntityID: "95565058", EntityType: "AIRPORT"},
	}
}

func TestResolveFromCache(t *testing.T) {
	cache := suggest.NewCache(10)
	cache.Put(heathrow)
	client := &stubClient{}

	opt, err := NewResolver(cache, client).Resolve(context.Background(), heathrow.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.Name != heathrow.Name {
		t.Errorf("unexpected option %+v", opt)
	}
	if len(client.placeQueries) != 0 {
		t.Error("cache hit must not call upstream")
	}
}

func TestResolveFallsBackToSearch(t *testing.T) {
	cache := suggest.NewCache(10)
	client := &stubClient{places: []types.PlaceRecord{jfkRecord()}}
	r := NewResolver(cache, client)

	opt, err := r.Resolve(context.Background(), "JFK_95565058")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.DisplayCode != "JFK" {
		t.Errorf("unexpected option %+v", opt)
	}
	if len(client.placeQueries) != 1 || client.placeQueries[0] != "JFK" {
		t.Errorf("expected a search by sky code, got %v", client.placeQueries)
	}
	if _, ok := cache.Get("JFK_95565058"); !ok {
		t.Error("expected resolved option to be cached")
	}

	if _, err := r.Resolve(context.Background(), "JFK_000"); !errors.Is(err, ErrUnresolved) {
		t.Errorf("expected ErrUnresolved for unknown entity, got %v", err)
	}
	if _, err := r.Resolve(context.Background(), "garbage"); !errors.Is(err, ErrUnresolved) {
		t.Errorf("expected ErrUnresolved for malformed id, got %v", err)
	}
}

func TestPrefill(t *testing.T) {
	cache := suggest.NewCache(10)
	cache.Put(heathrow)
	client := &stubClient{placesErr: errors.New("down")}
	r := NewResolver(cache, client)

	q, err := ParseQuery("tripType=round-trip&from=LHR_95565050&to=JFK_95565058&departureDate=2025-07-01&returnDate=2025-07-15&adults=2&flightClass=business")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := r.Prefill(context.Background(), q)
	if p.Origin == nil || p.Origin.ID != heathrow.ID {
		t.Errorf("expected origin resolved from cache, got %+v", p.Origin)
	}
	if p.Destination != nil {
		t.Errorf("expected unresolved destination to stay empty, got %+v", p.Destination)
	}

	sel := p.Dates()
	if sel.Start == nil || sel.Start.Format(types.DateLayout) != "2025-07-01" {
		t.Errorf("unexpected start %v", sel.Start)
	}
	if sel.End == nil || sel.End.Format(types.DateLayout) != "2025-07-15" {
		t.Errorf("unexpected end %v", sel.End)
	}

	f := NewForm()
	f.Prefill(p)
	s := f.State()
	if s.Passengers.Adults != 2 || s.CabinClass != types.Business || s.Origin == nil {
		t.Errorf("form not prefilled: %+v", s)
	}
}

func TestPrefillDates(t *testing.T) {
	tests := []struct {
		name        string
		query       Query
		hasStart    bool
		hasEnd      bool
		awaitingEnd bool
	}{
		{"no dates", Query{TripType: types.RoundTrip}, false, false, false},
		{"one-way", Query{TripType: types.OneWay, DepartureDate: "2025-07-01"}, true, false, false},
		{"round trip without return", Query{TripType: types.RoundTrip, DepartureDate: "2025-07-01"}, true, false, true},
		{"return before departure", Query{TripType: types.RoundTrip, DepartureDate: "2025-07-10", ReturnDate: "2025-07-01"}, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := Prefill{Query: tt.query}.Dates()
			if (sel.Start != nil) != tt.hasStart || (sel.End != nil) != tt.hasEnd || sel.AwaitingEnd != tt.awaitingEnd {
				t.Errorf("unexpected selection %+v", sel)
			}
			if sel.Start != nil && sel.Start.Location() != time.Local {
				t.Error("expected local dates")
			}
		})
	}
}
