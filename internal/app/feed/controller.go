package feed

import (
	"context"
	"sync"
	"time"

	"eventhound/shared/go/logging"
	"eventhound/shared/go/models"

	"github.com/rs/zerolog"
)

const (
	defaultCity      = "Chicago"
	defaultKeepAlive = 5 * time.Second

	// settingLastCity remembers the selected city across restarts.
	settingLastCity = "last_city"
)

// Loader produces one page of events for a city, or a user-facing error.
type Loader interface {
	Invoke(ctx context.Context, city string, page int) ([]models.Event, error)
}

// Settings is the optional string key/value store used to restore the
// selected city on start.
type Settings interface {
	Setting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Controller owns the observable feed state: loading phase, pagination
// cursor, selected city, search query and error message. Consumers observe
// published states through Subscribe; every page load carries a generation
// token and completions of a superseded generation are discarded wholesale,
// so overlapping refreshes cannot overwrite each other out of order.
type Controller struct {
	loader   Loader
	settings Settings

	mu           sync.Mutex
	selectedCity string
	searchQuery  string
	currentPage  int
	allEvents    []models.Event
	isRefreshing bool
	errorMessage string
	generation   uint64
	lastState    State

	keepAlive time.Duration
	feed      *broadcaster
	log       zerolog.Logger
}

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithSettings wires a settings store for persisting the selected city.
func WithSettings(settings Settings) Option {
	return func(c *Controller) {
		c.settings = settings
	}
}

// WithDefaultCity overrides the initial city.
func WithDefaultCity(city string) Option {
	return func(c *Controller) {
		if city != "" {
			c.selectedCity = city
		}
	}
}

// WithKeepAlive sets how long the published state outlives the last
// subscriber.
func WithKeepAlive(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.keepAlive = d
		}
	}
}

// New constructs a Controller. Call Start to trigger the initial refresh.
func New(loader Loader, opts ...Option) *Controller {
	c := &Controller{
		loader:       loader,
		selectedCity: defaultCity,
		keepAlive:    defaultKeepAlive,
		lastState:    State{Kind: StateLoading},
		log:          logging.Component("feed"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.feed = newBroadcaster(c.keepAlive)
	return c
}

// Start restores the last selected city from settings, when available, and
// kicks off the initial refresh in its own goroutine. Observe progress
// through Subscribe.
func (c *Controller) Start(ctx context.Context) {
	c.log.Debug().Msg("Starting feed controller")
	if c.settings != nil {
		city, err := c.settings.Setting(ctx, settingLastCity)
		if err == nil && city != "" {
			c.mu.Lock()
			c.selectedCity = city
			c.mu.Unlock()
		}
	}
	go c.Refresh(ctx)
}

// Subscribe returns a channel of published states plus a cancel func. The
// latest state is replayed immediately; slow consumers only ever miss
// intermediate values, never the most recent one. Cancelling ctx detaches
// the subscriber as well.
func (c *Controller) Subscribe(ctx context.Context) (<-chan State, func()) {
	ch, cancel := c.feed.subscribe()
	if done := ctx.Done(); done != nil {
		go func() {
			<-done
			cancel()
		}()
	}
	return ch, cancel
}

// Refresh resets pagination and reloads the first page. Triggered on start,
// on city change, and by explicit user refresh.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.isRefreshing = true
	c.errorMessage = ""
	c.currentPage = 0
	c.allEvents = nil
	c.publishLocked(State{Kind: StateLoading})
	c.mu.Unlock()

	c.loadPage(ctx, gen)

	c.mu.Lock()
	if gen == c.generation {
		c.isRefreshing = false
	}
	c.mu.Unlock()
}

// LoadMore fetches the next page. No-op unless the feed is in a loaded state
// and not already loading more. The load runs under the generation it
// started with, so a refresh in the meantime discards the result.
func (c *Controller) LoadMore(ctx context.Context) {
	c.mu.Lock()
	if c.lastState.Kind != StateEventsLoaded || c.lastState.IsLoadingMore {
		c.mu.Unlock()
		return
	}
	gen := c.generation
	c.currentPage++
	c.publishLocked(State{
		Kind:          StateEventsLoaded,
		Events:        c.lastState.Events,
		IsLoadingMore: true,
	})
	c.mu.Unlock()

	c.loadPage(ctx, gen)
}

// SetCity selects a new city, persists it when a settings store is wired,
// and refreshes.
func (c *Controller) SetCity(ctx context.Context, city string) {
	c.mu.Lock()
	c.selectedCity = city
	c.mu.Unlock()

	if c.settings != nil {
		if err := c.settings.SetSetting(ctx, settingLastCity, city); err != nil {
			c.log.Warn().Err(err).Str("city", city).Msg("Failed to persist selected city")
		}
	}

	c.Refresh(ctx)
}

// SetSearchQuery stores the query and re-filters the currently loaded
// events against the full accumulator. Does not trigger a fetch.
func (c *Controller) SetSearchQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.searchQuery = query
	c.log.Debug().Str("query", query).Msg("Filtering events")
	if c.lastState.Kind == StateEventsLoaded {
		c.publishLocked(State{
			Kind:   StateEventsLoaded,
			Events: models.FilterEvents(c.allEvents, query),
		})
	}
}

// CompleteAction publishes the one-shot ActionCompleted signal for an action
// id and immediately refreshes the feed.
func (c *Controller) CompleteAction(ctx context.Context, actionID string) {
	c.mu.Lock()
	c.publishLocked(State{Kind: StateActionCompleted, ActionID: actionID})
	c.mu.Unlock()

	c.Refresh(ctx)
}

// DismissError clears the error message without touching the main state.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorMessage = ""
}

// ErrorMessage returns the pending user-facing error, empty when none.
func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorMessage
}

// IsRefreshing reports whether a refresh is in flight.
func (c *Controller) IsRefreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRefreshing
}

// SelectedCity returns the current city.
func (c *Controller) SelectedCity() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedCity
}

// SearchQuery returns the current search query.
func (c *Controller) SearchQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchQuery
}

// loadPage invokes the loader for the current city and page, then folds the
// result into the published state. Completions for a stale generation are
// dropped without touching any state.
func (c *Controller) loadPage(ctx context.Context, gen uint64) {
	c.mu.Lock()
	city := c.selectedCity
	page := c.currentPage
	c.mu.Unlock()

	c.log.Debug().Str("city", city).Int("page", page).Msg("Loading events")
	events, err := c.loader.Invoke(ctx, city, page)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.log.Debug().Str("city", city).Int("page", page).Msg("Discarding stale page load")
		return
	}

	if err != nil {
		c.log.Error().Err(err).Str("city", city).Int("page", page).Msg("Failed to load events")
		c.errorMessage = "Failed to load events: " + err.Error()
		if len(c.allEvents) == 0 {
			c.publishLocked(State{Kind: StateEmpty})
			return
		}
		// Keep the accumulated results verbatim; no re-filter on failure.
		c.publishLocked(State{Kind: StateEventsLoaded, Events: c.allEvents})
		return
	}

	if page == 0 {
		c.allEvents = events
	} else {
		c.allEvents = append(c.allEvents, events...)
	}
	c.publishLocked(State{
		Kind:   StateEventsLoaded,
		Events: models.FilterEvents(c.allEvents, c.searchQuery),
	})
}

// publishLocked records and broadcasts the next state. Callers hold c.mu.
func (c *Controller) publishLocked(s State) {
	c.lastState = s
	c.feed.publish(s)
}
