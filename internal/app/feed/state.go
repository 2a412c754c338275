package feed

import "eventhound/shared/go/models"

// StateKind discriminates the closed set of feed states.
type StateKind int

const (
	// StateLoading is published while the first page of a refresh is in flight.
	StateLoading StateKind = iota
	// StateEmpty means a load failed with nothing accumulated to show.
	StateEmpty
	// StateEventsLoaded carries the filtered events plus the load-more flag.
	StateEventsLoaded
	// StateActionCompleted is a one-shot signal; the consumer reacts to it
	// and the controller immediately refreshes. Never a resting state.
	StateActionCompleted
)

// State is the single value published to subscribers. Exactly one kind is
// active at a time; Events and IsLoadingMore are meaningful only for
// StateEventsLoaded, ActionID only for StateActionCompleted.
type State struct {
	Kind          StateKind
	Events        []models.Event
	IsLoadingMore bool
	ActionID      string
}
