package pager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pageflow-go/pageflow/pkg/observe"
)

// DataSource supplies a single page of items. Pages are 0-indexed. The
// paginator treats the source as opaque: it may cache, retry, or
// deduplicate internally. A fetch must honor ctx cancellation to make
// supersession effective.
type DataSource[T any] interface {
	FetchPage(ctx context.Context, page, pageSize int) ([]T, error)
}

// Config holds the paginator policy values.
type Config struct {
	// DefaultPage is the startup page cursor.
	DefaultPage int

	// PageSize is the number of items requested per page.
	PageSize int

	// MaxPage is the exclusive page bound: once the cursor reaches it,
	// MaximumReached is set and no further fetch is dispatched.
	MaxPage int

	// Logger is the base logger for the paginator's component logger.
	// Nil falls back to the global logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns the default paging policy.
func DefaultConfig() Config {
	return Config{
		DefaultPage: 0,
		PageSize:    20,
		MaxPage:     10,
	}
}

// Paginator drives incremental page loading over a DataSource. All state
// mutation is funneled through a single mutex; each published snapshot is
// a full value replacement, so subscribers observe a totally ordered
// sequence of immutable states.
type Paginator[T any] struct {
	src    DataSource[T]
	cfg    Config
	logger zerolog.Logger

	mu          sync.Mutex
	state       State[T]
	cursor      int
	top         int
	gen         uint64
	cancelFetch context.CancelFunc
	closed      bool

	ctx    context.Context
	cancel context.CancelFunc

	states *observe.Value[State[T]]
	errs   *observe.Events[error]
}

// New creates a paginator and immediately dispatches the load for the
// startup page: the first observable snapshot is already loading.
func New[T any](src DataSource[T], cfg Config) (*Paginator[T], error) {
	if src == nil {
		return nil, fmt.Errorf("data source is required")
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive (got %d)", cfg.PageSize)
	}
	if cfg.DefaultPage < 0 {
		return nil, fmt.Errorf("default page must not be negative (got %d)", cfg.DefaultPage)
	}
	if cfg.MaxPage <= cfg.DefaultPage {
		return nil, fmt.Errorf("max page must be greater than default page (got %d <= %d)",
			cfg.MaxPage, cfg.DefaultPage)
	}

	ctx, cancel := context.WithCancel(context.Background())

	logger := log.With().Str("component", "pager").Logger()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "pager").Logger()
	}

	p := &Paginator[T]{
		src:    src,
		cfg:    cfg,
		logger: logger,
		state:  State[T]{CurrentPage: cfg.DefaultPage},
		cursor: cfg.DefaultPage,
		top:    cfg.DefaultPage - 1,
		ctx:    ctx,
		cancel: cancel,
		states: observe.NewValue[State[T]](),
		errs:   observe.NewEvents[error](),
	}

	// Self-starting reactor: the startup cursor value triggers the first
	// fetch without an explicit start call.
	p.react(p.cursor)

	return p, nil
}

// LoadNextPage requests the next page. It is fire-and-forget: while a
// fetch is in flight or the maximum page bound has been reached the call
// is a no-op, and any failure in the dispatched work surfaces through
// Errors, never to the caller.
func (p *Paginator[T]) LoadNextPage() {
	// Isolation boundary: a failure in the advancement path surfaces
	// through the error channel, never as a panic in the caller.
	defer p.guard("load-next-page")

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	if p.state.IsLoading {
		loadsSuppressedTotal.WithLabelValues("loading").Inc()
		p.logger.Debug().Msg("Load suppressed: fetch in flight")
		return
	}
	if p.state.MaximumReached || p.state.CurrentPage > p.cfg.MaxPage {
		loadsSuppressedTotal.WithLabelValues("max_reached").Inc()
		p.logger.Debug().Msg("Load suppressed: maximum page reached")
		return
	}

	// Guard check, cursor advance, and the loading transition share one
	// critical section: concurrent callers serialize here, and the loser
	// observes IsLoading and is suppressed instead of advancing twice.
	p.cursor++
	p.reactLocked(p.cursor)
}

// Watch subscribes to the state stream. The most recent snapshot is
// replayed immediately, then every subsequent snapshot in order. The
// returned cancel func detaches the subscription.
func (p *Paginator[T]) Watch() (<-chan State[T], func()) {
	return p.states.Subscribe()
}

// Snapshot returns the current state.
func (p *Paginator[T]) Snapshot() State[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Errors returns the one-shot error channel. Each fetch failure and each
// caught unit-of-work panic is delivered there at most once.
func (p *Paginator[T]) Errors() <-chan error {
	return p.errs.C()
}

// Close cancels any in-flight fetch, stops the reactor, and closes the
// state stream. Idempotent; LoadNextPage after Close is a no-op.
func (p *Paginator[T]) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.cancelFetch != nil {
		p.cancelFetch()
		p.cancelFetch = nil
	}
	p.mu.Unlock()

	p.cancel()
	p.states.Close()
	p.errs.Close()
}

// react applies the page-change reaction for a new cursor value. The
// state transition is synchronous; only the fetch itself runs in its own
// goroutine.
func (p *Paginator[T]) react(page int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reactLocked(page)
}

// reactLocked is the reaction body. Callers must hold p.mu, which makes
// generation order match cursor order: a higher page is always assigned
// a higher generation, and a reaction for a page at or below the highest
// one already requested is stale and ignored.
func (p *Paginator[T]) reactLocked(page int) {
	if p.closed || p.state.MaximumReached {
		return
	}

	if page <= p.top {
		loadsSuppressedTotal.WithLabelValues("stale").Inc()
		p.logger.Debug().
			Int("page", page).
			Int("top_page", p.top).
			Msg("Ignoring reaction for an already superseded page")
		return
	}
	p.top = page

	if page >= p.cfg.MaxPage {
		if p.cancelFetch != nil {
			p.cancelFetch()
			p.cancelFetch = nil
		}
		st := p.state
		st.IsLoading = false
		st.MaximumReached = true
		p.replaceLocked(st)

		p.logger.Info().Int("page", page).Msg("Maximum page reached")
		return
	}

	// Latest wins: bump the generation and cancel the outstanding fetch
	// so a superseded result is both interrupted and, if it still
	// arrives, discarded.
	p.gen++
	gen := p.gen
	if p.cancelFetch != nil {
		p.cancelFetch()
	}
	fetchCtx, cancel := context.WithCancel(p.ctx)
	p.cancelFetch = cancel

	st := p.state
	st.IsLoading = true
	p.replaceLocked(st)

	p.logger.Debug().
		Int("page", page).
		Uint64("generation", gen).
		Msg("Dispatching page fetch")

	go p.fetch(fetchCtx, gen, page)
}

// fetch invokes the data source and applies the result if its generation
// is still current.
func (p *Paginator[T]) fetch(ctx context.Context, gen uint64, page int) {
	defer p.guard("fetch")

	start := time.Now()
	items, err := p.src.FetchPage(ctx, page, p.cfg.PageSize)
	fetchDuration.Observe(time.Since(start).Seconds())

	p.mu.Lock()

	if p.closed || gen != p.gen {
		p.mu.Unlock()
		loadsTotal.WithLabelValues("superseded").Inc()
		p.logger.Debug().
			Int("page", page).
			Uint64("generation", gen).
			Msg("Discarding superseded fetch result")
		return
	}

	if err != nil {
		// Cancellation of our own fetch context is supersession, not a
		// reportable failure.
		if errors.Is(err, context.Canceled) {
			p.mu.Unlock()
			p.logger.Debug().Int("page", page).Msg("Fetch cancelled")
			return
		}

		st := p.state
		st.IsLoading = false
		st.Err = err.Error()
		// The failed page still becomes current, so the next load
		// attempts the page after it.
		st.CurrentPage = page
		p.replaceLocked(st)
		p.mu.Unlock()

		loadsTotal.WithLabelValues("error").Inc()
		errorsTotal.Inc()
		p.logger.Warn().Err(err).Int("page", page).Msg("Page fetch failed")
		p.errs.Emit(err)
		return
	}

	st := p.state
	st.Items = mergeItems(st.Items, items)
	st.IsLoading = false
	st.Err = "" // a successful load clears a prior failure
	st.CurrentPage = page
	p.replaceLocked(st)
	total := len(st.Items)
	p.mu.Unlock()

	loadsTotal.WithLabelValues("ok").Inc()
	p.logger.Debug().
		Int("page", page).
		Int("items", len(items)).
		Int("total_items", total).
		Dur("duration", time.Since(start)).
		Msg("Page merged")
}

// replaceLocked installs a new snapshot and publishes it. Callers must
// hold p.mu; publish order therefore matches mutation order.
func (p *Paginator[T]) replaceLocked(st State[T]) {
	p.state = st
	p.states.Set(st)
}

// guard is the isolation boundary for a dispatched unit of work: a panic
// is caught here, logged, and forwarded once to the error channel instead
// of crashing the process or cancelling sibling work.
func (p *Paginator[T]) guard(unit string) {
	if r := recover(); r != nil {
		err := fmt.Errorf("%s: panic: %v", unit, r)
		errorsTotal.Inc()
		p.logger.Error().
			Str("unit", unit).
			Interface("panic", r).
			Msg("Unit of work failed")
		p.errs.Emit(err)
	}
}
