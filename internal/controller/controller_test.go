package controller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/nebo/internal/mocks"
	"github.com/valpere/nebo/internal/testutil"
	"github.com/valpere/nebo/pkg/metrics"
	"github.com/valpere/nebo/pkg/weather"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
	quiet   = 50 * time.Millisecond
)

type harness struct {
	t       *testing.T
	weather *mocks.MockWeatherSource
	prefs   *mocks.MockPreferenceSource
	clock   *clockwork.FakeClock
	ctrl    *Controller
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()

	mockCtrl := gomock.NewController(t)
	h := &harness{
		t:       t,
		weather: mocks.NewMockWeatherSource(mockCtrl),
		prefs:   mocks.NewMockPreferenceSource(mockCtrl),
		clock:   clockwork.NewFakeClock(),
	}

	opts.Clock = h.clock
	h.ctrl = New(h.weather, h.prefs, testutil.NewSilentTestLogger(), opts)
	return h
}

// run starts the loop; cleanup stops it before gomock verifies expectations.
func (h *harness) run() {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- h.ctrl.Run(ctx) }()

	h.t.Cleanup(func() {
		cancel()
		require.NoError(h.t, <-errCh)
	})
}

func (h *harness) waitUntil(cond func(UIState) bool) {
	h.t.Helper()
	require.Eventually(h.t, func() bool { return cond(h.ctrl.State()) }, waitFor, tick)
}

// startLoaded boots with an empty store and waits for the default city.
func (h *harness) startLoaded() *weather.Report {
	h.t.Helper()

	report := testutil.Report("Tucuman", "Argentina")
	h.prefs.EXPECT().Retrieve(gomock.Any(), DefaultPreferenceKey).Return("")
	h.weather.EXPECT().Forecast(gomock.Any(), DefaultCity).Return(report)

	h.run()
	h.waitUntil(func(s UIState) bool { return !s.Loading && s.Report == report })
	return report
}

func (h *harness) openSearch() {
	h.t.Helper()
	h.ctrl.SetSearchVisible(true)
	h.waitUntil(func(s UIState) bool { return s.SearchVisible })
}

// search types query, lets the debounce window pass and waits for candidates.
func (h *harness) search(query string, candidates []weather.Location) {
	h.t.Helper()
	h.weather.EXPECT().SearchLocations(gomock.Any(), query).Return(candidates, true)

	h.ctrl.QueryChanged(query)
	h.clock.Advance(DefaultDebounce)
	h.waitUntil(func(s UIState) bool { return len(s.Candidates) == len(candidates) })
}

func TestUIState_Phase(t *testing.T) {
	report := testutil.Report("Paris", "France")

	tests := []struct {
		name  string
		state UIState
		want  Phase
	}{
		{name: "initial", state: UIState{}, want: PhaseIdle},
		{name: "loading wins over everything", state: UIState{Loading: true, SearchVisible: true, Report: report}, want: PhaseLoading},
		{name: "search open", state: UIState{SearchVisible: true, Report: report}, want: PhaseSearchOpen},
		{name: "loaded", state: UIState{Report: report}, want: PhaseLoaded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Phase())
		})
	}

	assert.Equal(t, "search_open", PhaseSearchOpen.String())
	assert.Equal(t, "idle", Phase(42).String())
}

func TestNew_InitialState(t *testing.T) {
	h := newHarness(t, Options{})

	state := h.ctrl.State()
	assert.False(t, state.SearchVisible)
	assert.False(t, state.Loading)
	assert.Nil(t, state.Report)
	assert.NotNil(t, state.Candidates)
	assert.Empty(t, state.Candidates)

	assert.Equal(t, DefaultCity, h.ctrl.opts.DefaultCity)
	assert.Equal(t, DefaultPreferenceKey, h.ctrl.opts.PreferenceKey)
	assert.Equal(t, DefaultDebounce, h.ctrl.opts.Debounce)
	assert.Equal(t, DefaultMinQueryLength, h.ctrl.opts.MinQueryLength)
}

func TestStartup(t *testing.T) {
	t.Run("uses default city when nothing is stored", func(t *testing.T) {
		h := newHarness(t, Options{})
		h.startLoaded()

		assert.Equal(t, PhaseLoaded, h.ctrl.State().Phase())
	})

	t.Run("restores stored city without persisting", func(t *testing.T) {
		h := newHarness(t, Options{})
		report := testutil.Report("Tokyo", "Japan")

		h.prefs.EXPECT().Retrieve(gomock.Any(), "city").Return("Tokyo, Japan")
		h.weather.EXPECT().Forecast(gomock.Any(), "Tokyo, Japan").Return(report)
		h.prefs.EXPECT().Store(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		h.run()
		h.waitUntil(func(s UIState) bool { return !s.Loading && s.Report == report })
	})

	t.Run("custom default city and key", func(t *testing.T) {
		h := newHarness(t, Options{DefaultCity: "Kyiv, Ukraine", PreferenceKey: "last_city"})
		report := testutil.Report("Kyiv", "Ukraine")

		h.prefs.EXPECT().Retrieve(gomock.Any(), "last_city").Return("")
		h.weather.EXPECT().Forecast(gomock.Any(), "Kyiv, Ukraine").Return(report)

		h.run()
		h.waitUntil(func(s UIState) bool { return s.Report == report })
	})

	t.Run("loading while forecast in flight", func(t *testing.T) {
		h := newHarness(t, Options{})
		report := testutil.Report("Tucuman", "Argentina")
		release := make(chan struct{})

		h.prefs.EXPECT().Retrieve(gomock.Any(), "city").Return("")
		h.weather.EXPECT().Forecast(gomock.Any(), DefaultCity).DoAndReturn(
			func(ctx context.Context, city string) *weather.Report {
				<-release
				return report
			})

		h.run()
		h.waitUntil(func(s UIState) bool { return s.Loading })
		assert.Equal(t, PhaseLoading, h.ctrl.State().Phase())
		assert.Nil(t, h.ctrl.State().Report)

		close(release)
		h.waitUntil(func(s UIState) bool { return !s.Loading && s.Report == report })
	})

	t.Run("failed forecast clears loading and leaves report empty", func(t *testing.T) {
		h := newHarness(t, Options{})

		fetched := make(chan struct{})

		h.prefs.EXPECT().Retrieve(gomock.Any(), "city").Return("")
		h.weather.EXPECT().Forecast(gomock.Any(), DefaultCity).DoAndReturn(
			func(ctx context.Context, city string) *weather.Report {
				close(fetched)
				return nil
			})

		h.run()
		<-fetched
		h.waitUntil(func(s UIState) bool { return !s.Loading })
		assert.Equal(t, PhaseIdle, h.ctrl.State().Phase())
		assert.Nil(t, h.ctrl.State().Report)
	})
}

func TestRun_Twice(t *testing.T) {
	h := newHarness(t, Options{})
	h.startLoaded()

	assert.ErrorIs(t, h.ctrl.Run(context.Background()), ErrAlreadyRunning)
}

func TestToggleSearch(t *testing.T) {
	h := newHarness(t, Options{})
	h.startLoaded()

	h.ctrl.ToggleSearch()
	h.waitUntil(func(s UIState) bool { return s.SearchVisible })
	assert.Equal(t, PhaseSearchOpen, h.ctrl.State().Phase())

	h.search("Lon", testutil.Candidates())

	h.ctrl.ToggleSearch()
	h.waitUntil(func(s UIState) bool { return !s.SearchVisible })
	assert.Empty(t, h.ctrl.State().Candidates)
	assert.Equal(t, PhaseLoaded, h.ctrl.State().Phase())
}

func TestQueryChanged_BurstCoalesces(t *testing.T) {
	h := newHarness(t, Options{})
	h.startLoaded()
	h.openSearch()

	called := make(chan string, 4)
	h.weather.EXPECT().SearchLocations(gomock.Any(), "Lon").DoAndReturn(
		func(ctx context.Context, query string) ([]weather.Location, bool) {
			called <- query
			return testutil.Candidates(), true
		}).Times(1)

	h.ctrl.QueryChanged("L")
	h.clock.Advance(100 * time.Millisecond)
	h.ctrl.QueryChanged("Lo")
	h.clock.Advance(100 * time.Millisecond)
	h.ctrl.QueryChanged("Lon")

	h.clock.Advance(699 * time.Millisecond)
	assert.Never(t, func() bool { return len(called) > 0 }, quiet, tick)

	h.clock.Advance(time.Millisecond)
	h.waitUntil(func(s UIState) bool { return len(s.Candidates) == 3 })
	assert.Equal(t, testutil.Candidates(), h.ctrl.State().Candidates)
	assert.Equal(t, "Lon", <-called)
}

func TestQueryChanged_ShortQueryIsIgnored(t *testing.T) {
	h := newHarness(t, Options{})
	h.startLoaded()
	h.openSearch()
	h.search("Lon", testutil.Candidates())

	for _, query := range []string{"L", "Lo", "Ñu"} {
		h.ctrl.QueryChanged(query)
		h.clock.Advance(DefaultDebounce)
	}

	assert.Never(t, func() bool { return len(h.ctrl.State().Candidates) != 3 }, quiet, tick)
}

func TestQueryChanged_CustomMinLength(t *testing.T) {
	h := newHarness(t, Options{MinQueryLength: 1})
	h.startLoaded()
	h.openSearch()

	h.search("L", testutil.Candidates()[:1])
}

func TestQueryChanged_EmptyClearsImmediately(t *testing.T) {
	h := newHarness(t, Options{})
	h.startLoaded()
	h.openSearch()
	h.search("Lon", testutil.Candidates())

	// Pending "Lond" must never reach the weather source
	h.ctrl.QueryChanged("Lond")
	h.ctrl.QueryChanged("")

	h.waitUntil(func(s UIState) bool { return len(s.Candidates) == 0 })
	assert.True(t, h.ctrl.State().SearchVisible)

	h.clock.Advance(time.Second)
	assert.Never(t, func() bool { return len(h.ctrl.State().Candidates) > 0 }, quiet, tick)
}

func TestQueryChanged_FailedSearchKeepsCandidates(t *testing.T) {
	h := newHarness(t, Options{})
	h.startLoaded()
	h.openSearch()
	h.search("Lon", testutil.Candidates())

	failed := make(chan struct{})
	h.weather.EXPECT().SearchLocations(gomock.Any(), "Par").DoAndReturn(
		func(ctx context.Context, query string) ([]weather.Location, bool) {
			close(failed)
			return nil, false
		})

	h.ctrl.QueryChanged("Par")
	h.clock.Advance(DefaultDebounce)

	<-failed
	assert.Never(t, func() bool { return len(h.ctrl.State().Candidates) != 3 }, quiet, tick)
}

func TestQueryChanged_ResponseAfterCloseIsDiscarded(t *testing.T) {
	h := newHarness(t, Options{})
	h.startLoaded()
	h.openSearch()

	started := make(chan struct{})
	release := make(chan struct{})
	h.weather.EXPECT().SearchLocations(gomock.Any(), "Lon").DoAndReturn(
		func(ctx context.Context, query string) ([]weather.Location, bool) {
			close(started)
			<-release
			return testutil.Candidates(), true
		})

	h.ctrl.QueryChanged("Lon")
	h.clock.Advance(DefaultDebounce)
	<-started

	h.ctrl.SetSearchVisible(false)
	h.waitUntil(func(s UIState) bool { return !s.SearchVisible })

	close(release)
	assert.Never(t, func() bool { return len(h.ctrl.State().Candidates) > 0 }, quiet, tick)
}

func TestQueryChanged_ResponseAfterClearIsDiscarded(t *testing.T) {
	h := newHarness(t, Options{})
	h.startLoaded()
	h.openSearch()

	started := make(chan struct{})
	release := make(chan struct{})
	returned := make(chan struct{})
	h.weather.EXPECT().SearchLocations(gomock.Any(), "Lon").DoAndReturn(
		func(ctx context.Context, query string) ([]weather.Location, bool) {
			close(started)
			<-release
			defer close(returned)
			return testutil.Candidates(), true
		})

	h.ctrl.QueryChanged("Lon")
	h.clock.Advance(DefaultDebounce)
	<-started

	h.ctrl.QueryChanged("")
	h.waitUntil(func(s UIState) bool { return len(s.Candidates) == 0 })

	close(release)
	<-returned
	assert.Never(t, func() bool { return len(h.ctrl.State().Candidates) > 0 }, quiet, tick)
	assert.True(t, h.ctrl.State().SearchVisible)
}

func TestQueryChanged_ResponseAfterShortQueryIsDiscarded(t *testing.T) {
	h := newHarness(t, Options{})
	h.startLoaded()
	h.openSearch()

	started := make(chan struct{})
	release := make(chan struct{})
	h.weather.EXPECT().SearchLocations(gomock.Any(), "Lon").DoAndReturn(
		func(ctx context.Context, query string) ([]weather.Location, bool) {
			close(started)
			<-release
			return testutil.Candidates(), true
		})

	h.ctrl.QueryChanged("Lon")
	h.clock.Advance(DefaultDebounce)
	<-started

	h.ctrl.QueryChanged("")
	h.ctrl.QueryChanged("L")
	h.waitUntil(func(s UIState) bool { return len(s.Candidates) == 0 })

	close(release)
	assert.Never(t, func() bool { return len(h.ctrl.State().Candidates) > 0 }, quiet, tick)
}

func TestSelect(t *testing.T) {
	t.Run("fetches and persists the canonical city", func(t *testing.T) {
		h := newHarness(t, Options{})
		h.startLoaded()
		h.openSearch()
		h.search("Par", []weather.Location{{Name: "Paris", Country: "France"}})

		report := testutil.Report("Paris", "France")
		stored := make(chan string, 1)
		h.weather.EXPECT().Forecast(gomock.Any(), "Paris, France").Return(report)
		h.prefs.EXPECT().Store(gomock.Any(), "city", "Paris, France").Do(
			func(ctx context.Context, key, value string) { stored <- value })

		h.ctrl.Select(h.ctrl.State().Candidates[0])

		h.waitUntil(func(s UIState) bool { return !s.Loading && s.Report == report })
		state := h.ctrl.State()
		assert.False(t, state.SearchVisible)
		assert.Empty(t, state.Candidates)

		select {
		case v := <-stored:
			assert.Equal(t, "Paris, France", v)
		case <-time.After(waitFor):
			t.Fatal("selection was not persisted")
		}
	})

	t.Run("failed forecast keeps previous report and still persists", func(t *testing.T) {
		h := newHarness(t, Options{})
		previous := h.startLoaded()

		stored := make(chan struct{})
		h.weather.EXPECT().Forecast(gomock.Any(), "Atlantis, Nowhere").Return(nil)
		h.prefs.EXPECT().Store(gomock.Any(), "city", "Atlantis, Nowhere").Do(
			func(ctx context.Context, key, value string) { close(stored) })

		h.ctrl.Select(weather.Location{Name: "Atlantis", Country: "Nowhere"})

		<-stored
		state := h.ctrl.State()
		assert.False(t, state.Loading)
		assert.Same(t, previous, state.Report)
	})

	t.Run("loading while in flight", func(t *testing.T) {
		h := newHarness(t, Options{})
		h.startLoaded()

		release := make(chan struct{})
		report := testutil.Report("Paris", "France")
		h.weather.EXPECT().Forecast(gomock.Any(), "Paris, France").DoAndReturn(
			func(ctx context.Context, city string) *weather.Report {
				<-release
				return report
			})
		h.prefs.EXPECT().Store(gomock.Any(), "city", "Paris, France")

		h.ctrl.Select(weather.Location{Name: "Paris", Country: "France"})
		h.waitUntil(func(s UIState) bool { return s.Loading })

		close(release)
		h.waitUntil(func(s UIState) bool { return !s.Loading && s.Report == report })
	})
}

// blockingForecasts lets a test decide the order in which forecast responses arrive.
type blockingForecasts struct {
	started chan string
	release map[string]chan struct{}
}

func newBlockingForecasts(cities ...string) *blockingForecasts {
	b := &blockingForecasts{
		started: make(chan string, len(cities)),
		release: make(map[string]chan struct{}, len(cities)),
	}
	for _, city := range cities {
		b.release[city] = make(chan struct{})
	}
	return b
}

func (b *blockingForecasts) expect(h *harness, city string, report *weather.Report) {
	h.weather.EXPECT().Forecast(gomock.Any(), city).DoAndReturn(
		func(ctx context.Context, city string) *weather.Report {
			b.started <- city
			<-b.release[city]
			return report
		})
}

func TestSelect_LastArrivalWins(t *testing.T) {
	h := newHarness(t, Options{})
	h.startLoaded()

	first := testutil.Report("Paris", "France")
	second := testutil.Report("Tokyo", "Japan")
	forecasts := newBlockingForecasts("Paris, France", "Tokyo, Japan")
	forecasts.expect(h, "Paris, France", first)
	forecasts.expect(h, "Tokyo, Japan", second)

	var mu sync.Mutex
	var persisted []string
	h.prefs.EXPECT().Store(gomock.Any(), "city", gomock.Any()).Do(
		func(ctx context.Context, key, value string) {
			mu.Lock()
			defer mu.Unlock()
			persisted = append(persisted, value)
		}).MinTimes(1).MaxTimes(2)

	h.ctrl.Select(weather.Location{Name: "Paris", Country: "France"})
	<-forecasts.started
	h.ctrl.Select(weather.Location{Name: "Tokyo", Country: "Japan"})
	<-forecasts.started

	close(forecasts.release["Tokyo, Japan"])
	h.waitUntil(func(s UIState) bool { return s.Report == second })

	close(forecasts.release["Paris, France"])
	h.waitUntil(func(s UIState) bool { return s.Report == first && !s.Loading })

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(persisted) > 0 && persisted[len(persisted)-1] == "Paris, France"
	}, waitFor, tick)
}

func TestSelect_DropStaleResponses(t *testing.T) {
	h := newHarness(t, Options{DropStaleResponses: true})
	h.startLoaded()

	first := testutil.Report("Paris", "France")
	second := testutil.Report("Tokyo", "Japan")
	forecasts := newBlockingForecasts("Paris, France", "Tokyo, Japan")
	forecasts.expect(h, "Paris, France", first)
	forecasts.expect(h, "Tokyo, Japan", second)

	stored := make(chan struct{})
	h.prefs.EXPECT().Store(gomock.Any(), "city", "Tokyo, Japan").Do(
		func(ctx context.Context, key, value string) { close(stored) })

	h.ctrl.Select(weather.Location{Name: "Paris", Country: "France"})
	<-forecasts.started
	h.ctrl.Select(weather.Location{Name: "Tokyo", Country: "Japan"})
	<-forecasts.started

	close(forecasts.release["Tokyo, Japan"])
	h.waitUntil(func(s UIState) bool { return s.Report == second && !s.Loading })
	<-stored

	close(forecasts.release["Paris, France"])
	assert.Never(t, func() bool { return h.ctrl.State().Report == first }, quiet, tick)
}

func TestSubscribe(t *testing.T) {
	h := newHarness(t, Options{})

	var mu sync.Mutex
	var phases []Phase
	h.ctrl.Subscribe(func(s UIState) {
		mu.Lock()
		defer mu.Unlock()
		phases = append(phases, s.Phase())
	})

	h.startLoaded()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(phases) > 0 && phases[len(phases)-1] == PhaseLoaded
	}, waitFor, tick)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, PhaseLoading, phases[0])
}

func TestActionsAreCounted(t *testing.T) {
	m := metrics.New()
	h := newHarness(t, Options{Metrics: m})
	h.startLoaded()

	h.weather.EXPECT().Forecast(gomock.Any(), "Paris, France").Return(testutil.Report("Paris", "France"))
	h.prefs.EXPECT().Store(gomock.Any(), "city", "Paris, France").AnyTimes()

	h.ctrl.ToggleSearch()
	h.ctrl.QueryChanged("")
	h.ctrl.Select(weather.Location{Name: "Paris", Country: "France"})
	h.waitUntil(func(s UIState) bool { return s.Report != nil && s.Report.Location.Name == "Paris" && !s.Loading })

	assert.Equal(t, float64(1), m.CounterValue("ui_actions_total", "toggle"))
	assert.Equal(t, float64(1), m.CounterValue("ui_actions_total", "query"))
	assert.Equal(t, float64(1), m.CounterValue("ui_actions_total", "select"))
}
