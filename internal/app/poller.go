package app

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/trueblocks/deskshell/internal/state"
)

// DefaultPollInterval is how often readiness is checked.
const DefaultPollInterval = 1500 * time.Millisecond

// Checker answers the readiness question.
type Checker interface {
	IsInitialized(ctx context.Context) (bool, error)
}

// Poller checks readiness on a fixed cadence, records each answer in the
// store and delivers successful answers on Updates.
type Poller struct {
	checker  Checker
	store    *state.Store
	interval time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	updates chan bool
	cancel  context.CancelFunc
	started bool
	stopped bool
}

// NewPoller builds a poller. A non-positive interval uses DefaultPollInterval.
func NewPoller(checker Checker, store *state.Store, interval time.Duration, logger *log.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Poller{
		checker:  checker,
		store:    store,
		interval: interval,
		logger:   logger,
		updates:  make(chan bool, 1),
	}
}

// Updates delivers readiness answers. It is closed by Stop.
func (p *Poller) Updates() <-chan bool {
	return p.updates
}

// Start launches the polling goroutine and returns immediately. The first
// check runs right away.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true
	ctx, p.cancel = context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		// A pending tick and the cancellation can be ready together, so the
		// context is checked again before every check.
		for ctx.Err() == nil {
			p.refresh(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop ends polling. No check starts and nothing is delivered after Stop
// returns; a check already in flight finishes and its answer is dropped.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	if p.cancel != nil {
		p.cancel()
	}
	close(p.updates)
}

func (p *Poller) refresh(ctx context.Context) {
	initialized, err := p.checker.IsInitialized(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	if p.store != nil {
		p.store.UpdateReadiness(initialized, err)
	}
	if err != nil {
		p.logger.Warn("readiness poll failed", "err", err)
		return
	}
	// Keep only the latest answer when the reader falls behind.
	select {
	case <-p.updates:
	default:
	}
	p.updates <- initialized
}
