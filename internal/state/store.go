package state

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/trueblocks/deskshell/internal/prefs"
)

// ErrUnknownRoute is returned by Navigate for a route the shell does not
// serve.
var ErrUnknownRoute = errors.New("unknown route")

const mirrorTimeout = 5 * time.Second

// Snapshot represents the shell state the UI renders from.
type Snapshot struct {
	Route         string
	MenuCollapsed bool
	HelpCollapsed bool
	LastTab       map[string]string

	Initialized         bool
	HasReadiness        bool
	LastChecked         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive readiness poll failures
}

// IsOffline returns true when the backend has been unreachable for multiple
// polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Mirror receives every layout change so it survives a restart.
type Mirror interface {
	SetMenuCollapsed(ctx context.Context, collapsed bool) error
	SetHelpCollapsed(ctx context.Context, collapsed bool) error
	SetLastView(ctx context.Context, route string) error
	SetLastTab(ctx context.Context, route, tab string) error
}

// Option customizes a Store.
type Option func(*Store)

// WithMirror sets where changes are mirrored.
func WithMirror(m Mirror) Option {
	return func(s *Store) { s.mirror = m }
}

// WithLogger sets the logger for mirror failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithRunner replaces the launcher of mirror calls. By default they run one
// at a time, in order, on a background goroutine.
func WithRunner(run func(func())) Option {
	return func(s *Store) { s.run = run }
}

// WithRoutes restricts Navigate to routes.
func WithRoutes(routes ...string) Option {
	return func(s *Store) {
		s.routes = make(map[string]bool, len(routes))
		for _, r := range routes {
			s.routes[r] = true
		}
	}
}

// Store coordinates concurrent access to the shell state. Every mutation goes
// through a named setter that also mirrors the change, fire and forget.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot

	mirror Mirror
	logger *log.Logger
	run    func(func())
	queue  mirrorQueue
	routes map[string]bool
}

// New builds a store starting at route "/".
func New(opts ...Option) *Store {
	s := &Store{snapshot: Snapshot{Route: "/"}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads persisted layout without mirroring it back.
func (s *Store) Restore(app prefs.App) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.MenuCollapsed = app.MenuCollapsed
	s.snapshot.HelpCollapsed = app.HelpCollapsed
	s.snapshot.LastTab = maps.Clone(app.LastTab)
	s.snapshot.Initialized = app.Initialized
}

// Current returns the active route.
func (s *Store) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Route
}

// Navigate switches to route.
func (s *Store) Navigate(route string) error {
	if s.routes != nil && !s.routes[route] {
		return fmt.Errorf("%w: %s", ErrUnknownRoute, route)
	}
	s.ForceRoute(route)
	return nil
}

// ForceRoute switches to route without checking it.
func (s *Store) ForceRoute(route string) {
	s.mu.Lock()
	s.snapshot.Route = route
	s.mu.Unlock()
	s.mirrorCall("set last view", func(ctx context.Context, m Mirror) error {
		return m.SetLastView(ctx, route)
	})
}

// SetMenuCollapsed collapses or expands the menu panel.
func (s *Store) SetMenuCollapsed(collapsed bool) {
	s.mu.Lock()
	s.snapshot.MenuCollapsed = collapsed
	s.mu.Unlock()
	s.mirrorCall("set menu collapsed", func(ctx context.Context, m Mirror) error {
		return m.SetMenuCollapsed(ctx, collapsed)
	})
}

// ToggleMenu flips the menu panel.
func (s *Store) ToggleMenu() error {
	s.SetMenuCollapsed(!s.Snapshot().MenuCollapsed)
	return nil
}

// SetHelpCollapsed collapses or expands the help panel.
func (s *Store) SetHelpCollapsed(collapsed bool) {
	s.mu.Lock()
	s.snapshot.HelpCollapsed = collapsed
	s.mu.Unlock()
	s.mirrorCall("set help collapsed", func(ctx context.Context, m Mirror) error {
		return m.SetHelpCollapsed(ctx, collapsed)
	})
}

// ToggleHelp flips the help panel.
func (s *Store) ToggleHelp() error {
	s.SetHelpCollapsed(!s.Snapshot().HelpCollapsed)
	return nil
}

// SetLastTab remembers the tab shown on route.
func (s *Store) SetLastTab(route, tab string) {
	s.mu.Lock()
	if s.snapshot.LastTab == nil {
		s.snapshot.LastTab = make(map[string]string)
	}
	s.snapshot.LastTab[route] = tab
	s.mu.Unlock()
	s.mirrorCall("set last tab", func(ctx context.Context, m Mirror) error {
		return m.SetLastTab(ctx, route, tab)
	})
}

// LastTab returns the tab last shown on route.
func (s *Store) LastTab(route string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.LastTab[route]
}

// UpdateReadiness records a readiness poll. When err is non-nil the previous
// answer is kept but the error is recorded for visibility.
func (s *Store) UpdateReadiness(initialized bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastChecked = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.Initialized = initialized
	s.snapshot.HasReadiness = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.LastTab = maps.Clone(s.snapshot.LastTab)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func (s *Store) mirrorCall(op string, call func(context.Context, Mirror) error) {
	if s.mirror == nil {
		return
	}
	m, logger := s.mirror, s.logger
	if logger == nil {
		logger = log.Default()
	}
	run := s.run
	if run == nil {
		run = s.queue.push
	}
	run(func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := call(ctx, m); err != nil {
			logger.Warn("mirror failed", "op", op, "err", err)
		}
	})
}

// mirrorQueue runs mirror calls in submission order so the last change is
// the last one written. The draining goroutine exits when the queue is empty.
type mirrorQueue struct {
	mu      sync.Mutex
	pending []func()
	running bool
}

func (q *mirrorQueue) push(f func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, f)
	if !q.running {
		q.running = true
		go q.drain()
	}
}

func (q *mirrorQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		f := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()
		f()
	}
}
