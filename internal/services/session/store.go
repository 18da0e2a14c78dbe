// Package session keeps the per-client search state in memory.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/shuv1824/flightsearch/internal/config"
	"github.com/shuv1824/flightsearch/internal/services/calendar"
	"github.com/shuv1824/flightsearch/internal/services/flightapi"
	"github.com/shuv1824/flightsearch/internal/services/search"
	"github.com/shuv1824/flightsearch/internal/services/suggest"
)

var (
	ErrNotFound     = errors.New("session: not found")
	ErrUnknownField = errors.New("session: unknown field")
)

const (
	FieldOrigin      = "origin"
	FieldDestination = "destination"
)

// Session is the server-side state of one client's search form.
type Session struct {
	ID          string
	Form        *search.Form
	Origin      *suggest.Session
	Destination *suggest.Session
	Picker      *calendar.Picker

	mu       sync.Mutex
	lastSeen time.Time
}

// Suggester returns the suggestion state of the origin or destination input.
func (s *Session) Suggester(field string) (*suggest.Session, error) {
	switch field {
	case FieldOrigin:
		return s.Origin, nil
	case FieldDestination:
		return s.Destination, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}

// SyncRoute points the picker at the form's current origin and destination.
func (s *Session) SyncRoute() {
	st := s.Form.State()
	s.Picker.SetRoute(calendar.RouteOf(st.Origin, st.Destination))
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) close() {
	s.Origin.Close()
	s.Destination.Close()
}

// Deps are the shared services every session is built from.
type Deps struct {
	Aggregator *suggest.Aggregator
	Client     flightapi.Client
	Suggest    config.SuggestConfig
	Calendar   config.CalendarConfig
	Currency   string
}

// Store holds sessions by id and drops the ones idle longer than ttl.
type Store struct {
	deps Deps
	ttl  time.Duration
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	cron *cron.Cron
}

func NewStore(deps Deps, cfg config.SessionsConfig) *Store {
	return &Store{
		deps:     deps,
		ttl:      cfg.TTL,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (st *Store) Create() *Session {
	s := &Session{
		ID:          uuid.NewString(),
		Form:        search.NewForm(),
		Origin:      suggest.NewSession(st.deps.Aggregator, st.deps.Suggest.Debounce),
		Destination: suggest.NewSession(st.deps.Aggregator, st.deps.Suggest.Debounce),
		Picker:      calendar.NewPicker(st.deps.Client, st.deps.Calendar, st.deps.Currency),
		lastSeen:    st.now(),
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	return s
}

// Get returns the session and marks it as used.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	s.touch(st.now())
	return s, nil
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	s.close()
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than the ttl and returns how many
// were removed.
func (st *Store) Sweep(now time.Time) int {
	var expired []*Session

	st.mu.Lock()
	for id, s := range st.sessions {
		if s.idleSince(now) > st.ttl {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		slog.Info("swept idle sessions", "count", len(expired))
	}
	return len(expired)
}

// StartSweeper runs Sweep on the given cron schedule until StopSweeper.
func (st *Store) StartSweeper(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { st.Sweep(st.now()) }); err != nil {
		return fmt.Errorf("session: invalid sweep schedule %q: %w", schedule, err)
	}
	c.Start()
	st.cron = c
	return nil
}

// StopSweeper stops the sweep job and waits for a running sweep to finish.
func (st *Store) StopSweeper() {
	if st.cron == nil {
		return
	}
	<-st.cron.Stop().Done()
	st.cron = nil
}
