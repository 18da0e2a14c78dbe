package suggest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shuv1824/flightsearch/internal/types"
)

// Result is the suggestion state observed by the client.
type Result struct {
	Query   string                 `json:"query"`
	Options []types.LocationOption `json:"options"`
	// Pending is set while the query waits out the debounce period.
	Pending bool `json:"pending"`
	// Loading is set while the lookup for Query is running.
	Loading bool `json:"loading"`
}

// Session keeps the suggestions of one input field. Every SetQuery bumps a
// generation counter; a lookup only commits if the counter still matches
// the value captured when it was scheduled.
type Session struct {
	agg      *Aggregator
	debounce time.Duration

	mu      sync.Mutex
	gen     uint64
	query   string
	options []types.LocationOption
	pending bool
	loading bool
	timer   *time.Timer
	cancel  context.CancelFunc
	closed  bool
}

func NewSession(agg *Aggregator, debounce time.Duration) *Session {
	return &Session{
		agg:      agg,
		debounce: debounce,
	}
}

// SetQuery records a new raw query. Short queries clear the suggestions
// immediately; longer ones are looked up once the input has been quiet for
// the debounce period.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.gen++
	s.stopLocked()
	s.query = q

	if !s.agg.Eligible(q) {
		s.options = nil
		s.pending = false
		s.loading = false
		return
	}

	s.pending = true
	s.loading = false
	gen := s.gen
	s.timer = time.AfterFunc(s.debounce, func() { s.run(gen) })
}

func (s *Session) run(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.pending = false
	s.loading = true
	q := s.query
	s.mu.Unlock()

	opts := s.agg.Suggest(ctx, q)

	s.mu.Lock()
	if gen == s.gen && !s.closed {
		s.options = opts
		s.loading = false
		s.cancel = nil
	} else {
		slog.Debug("discarding stale suggestions", "query", q)
	}
	s.mu.Unlock()

	cancel()
}

// Result returns a snapshot of the current suggestion state.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := make([]types.LocationOption, len(s.options))
	copy(opts, s.options)
	return Result{
		Query:   s.query,
		Options: opts,
		Pending: s.pending,
		Loading: s.loading,
	}
}

// Close stops the debounce timer and cancels any running lookup.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.gen++
	s.stopLocked()
}

func (s *Session) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
