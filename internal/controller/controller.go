// Package controller implements the search-and-fetch interaction core: it owns
// the UI state, debounces search-as-you-type, fetches forecasts on selection
// and restores the last selected city on startup.
//
// All state mutation happens on the goroutine running Run. Actions may be
// called from any goroutine; they are queued onto that loop. Network calls run
// on their own goroutines and post their results back, so there is no
// cancellation: with DropStaleResponses off, whichever forecast response
// arrives last wins.
package controller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/valpere/nebo/internal/debounce"
	"github.com/valpere/nebo/internal/interfaces"
	"github.com/valpere/nebo/pkg/metrics"
	"github.com/valpere/nebo/pkg/weather"
)

const (
	DefaultCity           = "Tucuman, Argentina"
	DefaultPreferenceKey  = "city"
	DefaultDebounce       = 700 * time.Millisecond
	DefaultMinQueryLength = 3
)

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("controller: already running")

// Options tunes the controller. Zero values fall back to the defaults above.
type Options struct {
	DefaultCity    string
	PreferenceKey  string
	Debounce       time.Duration
	MinQueryLength int

	// DropStaleResponses discards forecast responses from superseded requests
	// instead of letting the last arrival win.
	DropStaleResponses bool

	Clock   clockwork.Clock
	Metrics *metrics.Metrics
}

func (o Options) withDefaults() Options {
	if o.DefaultCity == "" {
		o.DefaultCity = DefaultCity
	}
	if o.PreferenceKey == "" {
		o.PreferenceKey = DefaultPreferenceKey
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.MinQueryLength <= 0 {
		o.MinQueryLength = DefaultMinQueryLength
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	return o
}

type Controller struct {
	weather interfaces.WeatherSource
	prefs   interfaces.PreferenceSource
	logger  *zerolog.Logger
	opts    Options
	search  *debounce.Debouncer[string]

	events  chan func()
	done    chan struct{}
	running atomic.Bool
	wg      sync.WaitGroup

	snapshot atomic.Pointer[UIState]

	listenersMu sync.Mutex
	listeners   []func(UIState)

	persistMu     sync.Mutex
	lastPersisted uint64

	// owned by the loop goroutine
	runCtx      context.Context
	state       UIState
	query       string
	forecastSeq uint64
	persistSeq  uint64
}

func New(weatherSource interfaces.WeatherSource, prefs interfaces.PreferenceSource, logger *zerolog.Logger, opts Options) *Controller {
	opts = opts.withDefaults()

	c := &Controller{
		weather: weatherSource,
		prefs:   prefs,
		logger:  logger,
		opts:    opts,
		events:  make(chan func(), 16),
		done:    make(chan struct{}),
		state:   UIState{Candidates: []weather.Location{}},
	}

	// Built once for the controller's lifetime so bursts coalesce.
	c.search = debounce.New(opts.Debounce, c.handleSearch, debounce.WithClock(opts.Clock))

	initial := c.state
	c.snapshot.Store(&initial)

	return c
}

// Run restores the last city, fetches its forecast and then serves actions
// until ctx is done. It waits for in-flight requests before returning.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	c.runCtx = ctx
	defer func() {
		c.search.Cancel()
		close(c.done)
		c.wg.Wait()
	}()

	c.startup()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-c.events:
			fn()
		}
	}
}

// State returns the latest snapshot.
func (c *Controller) State() UIState {
	return *c.snapshot.Load()
}

// Subscribe registers fn to be called on the loop after every transition.
// fn must not block and must not wait on the controller.
func (c *Controller) Subscribe(fn func(UIState)) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// ToggleSearch flips search box visibility.
func (c *Controller) ToggleSearch() {
	c.count("toggle")
	c.post(func() {
		c.setSearchVisible(!c.state.SearchVisible)
	})
}

// SetSearchVisible opens or closes the search box.
func (c *Controller) SetSearchVisible(visible bool) {
	c.count("toggle")
	c.post(func() {
		c.setSearchVisible(visible)
	})
}

// QueryChanged is called with the full search text on every edit. An empty
// value clears candidates at once; anything else goes through the debouncer.
func (c *Controller) QueryChanged(value string) {
	c.count("query")
	if value == "" {
		c.search.Cancel()
	} else {
		c.search.Call(value)
	}

	c.post(func() {
		c.query = value
		if value == "" {
			c.update(func(s *UIState) { s.Candidates = []weather.Location{} })
		}
	})
}

// Select closes the search box and fetches the forecast for the candidate.
// The canonical "<name>, <country>" string is persisted once the response arrives.
func (c *Controller) Select(loc weather.Location) {
	c.count("select")
	city := loc.Label()
	c.post(func() {
		c.setSearchVisible(false)
		c.requestForecast(city, true)
	})
}

func (c *Controller) startup() {
	c.update(func(s *UIState) { s.Loading = true })

	c.spawn(func(ctx context.Context) {
		city := c.prefs.Retrieve(ctx, c.opts.PreferenceKey)
		if city == "" {
			city = c.opts.DefaultCity
		}
		c.logger.Info().Str("city", city).Msg("Loading initial forecast")

		c.post(func() { c.requestForecast(city, false) })
	})
}

// handleSearch runs on the debouncer's timer goroutine.
func (c *Controller) handleSearch(value string) {
	if utf8.RuneCountInString(value) < c.opts.MinQueryLength {
		return
	}
	c.post(func() { c.requestCandidates(value) })
}

func (c *Controller) requestCandidates(query string) {
	if !c.state.SearchVisible {
		c.logger.Debug().Str("query", query).Msg("Search closed, skipping location search")
		return
	}

	c.spawn(func(ctx context.Context) {
		locations, ok := c.weather.SearchLocations(ctx, query)
		if !ok {
			return
		}
		c.post(func() {
			if !c.state.SearchVisible {
				c.logger.Debug().Str("query", query).Msg("Search closed, discarding candidates")
				return
			}
			if utf8.RuneCountInString(c.query) < c.opts.MinQueryLength {
				c.logger.Debug().Str("query", query).Msg("Query cleared, discarding candidates")
				return
			}
			if locations == nil {
				locations = []weather.Location{}
			}
			c.update(func(s *UIState) { s.Candidates = locations })
		})
	})
}

func (c *Controller) requestForecast(city string, persist bool) {
	c.forecastSeq++
	seq := c.forecastSeq

	c.update(func(s *UIState) { s.Loading = true })

	c.spawn(func(ctx context.Context) {
		report := c.weather.Forecast(ctx, city)
		c.post(func() { c.applyForecast(seq, city, report, persist) })
	})
}

func (c *Controller) applyForecast(seq uint64, city string, report *weather.Report, persist bool) {
	if c.opts.DropStaleResponses && seq != c.forecastSeq {
		c.logger.Debug().
			Str("city", city).
			Uint64("seq", seq).
			Uint64("latest", c.forecastSeq).
			Msg("Dropping stale forecast response")
		return
	}

	c.update(func(s *UIState) {
		if report != nil {
			s.Report = report
		}
		s.Loading = false
	})

	if persist {
		c.persist(city)
	}
}

// persist writes off the loop; an older write never lands after a newer one.
func (c *Controller) persist(city string) {
	c.persistSeq++
	seq := c.persistSeq

	c.spawn(func(ctx context.Context) {
		c.persistMu.Lock()
		defer c.persistMu.Unlock()

		if seq < c.lastPersisted {
			return
		}
		c.prefs.Store(ctx, c.opts.PreferenceKey, city)
		c.lastPersisted = seq
	})
}

func (c *Controller) setSearchVisible(visible bool) {
	if !visible {
		c.search.Cancel()
		c.query = ""
	}
	c.update(func(s *UIState) {
		s.SearchVisible = visible
		if !visible {
			s.Candidates = []weather.Location{}
		}
	})
}

func (c *Controller) update(fn func(s *UIState)) {
	fn(&c.state)

	snapshot := c.state
	c.snapshot.Store(&snapshot)

	c.listenersMu.Lock()
	listeners := append([]func(UIState){}, c.listeners...)
	c.listenersMu.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
}

func (c *Controller) post(fn func()) {
	select {
	case c.events <- fn:
	case <-c.done:
	}
}

func (c *Controller) spawn(fn func(ctx context.Context)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn(c.runCtx)
	}()
}

func (c *Controller) count(action string) {
	if c.opts.Metrics != nil {
		c.opts.Metrics.IncrementCounter("ui_actions_total", action)
	}
}
