package events

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"

	"eventhound/internal/ticketapi"
	"eventhound/shared/go/logging"
	"eventhound/shared/go/models"

	"github.com/rs/zerolog"
)

// How long a detached cache write may run before it is abandoned.
const cacheWriteTimeout = 10 * time.Second

// RemoteSource fetches one page of raw events from the ticketing API
type RemoteSource interface {
	GetEvents(ctx context.Context, city string, page int) (*ticketapi.EventsResponse, error)
}

// Cache persists normalized events for offline reads
type Cache interface {
	SaveEvents(ctx context.Context, events []models.Event) error
	EventsByCity(ctx context.Context, city string) ([]models.Event, error)
}

// Service retrieves events from the remote source with a write-through to
// the local cache, falling back to cached events when the device is offline.
type Service struct {
	remote RemoteSource
	cache  Cache
	log    zerolog.Logger
}

// New constructs an events Service
func New(remote RemoteSource, cache Cache) *Service {
	return &Service{
		remote: remote,
		cache:  cache,
		log:    logging.Component("events"),
	}
}

// GetEvents returns the requested page of normalized events. Connectivity
// failures are recovered from the cache when possible; anything else fails
// with *Error of KindHTTP. The cache write-through runs detached: it is not
// cancelled with the caller and its failure never fails the fetch.
func (s *Service) GetEvents(ctx context.Context, city string, page int) ([]models.Event, error) {
	resp, err := s.remote.GetEvents(ctx, city, page)
	if err != nil {
		if isConnectivityError(err) {
			s.log.Error().Err(err).Str("city", city).Int("page", page).Msg("Network error getting events")
			return s.offlineFallback(ctx, city)
		}
		s.log.Error().Err(err).Str("city", city).Int("page", page).Msg("Unexpected error getting events")
		return nil, &Error{Kind: KindHTTP, Message: "Unexpected error: " + err.Error()}
	}

	raw := resp.Events()
	s.log.Debug().Int("count", len(raw)).Msg("Successfully fetched events from API")

	events := make([]models.Event, 0, len(raw))
	for _, e := range raw {
		events = append(events, e.Normalize())
	}

	if len(events) > 0 {
		go s.saveToCache(events)
	}

	return events, nil
}

// saveToCache runs on its own context so an abandoned fetch cannot cancel a
// pending write. Failures are logged and dropped.
func (s *Service) saveToCache(events []models.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
	defer cancel()

	if err := s.cache.SaveEvents(ctx, events); err != nil {
		s.log.Warn().Err(err).Int("count", len(events)).Msg("Failed to cache events")
		return
	}
	s.log.Debug().Int("count", len(events)).Msg("Saved events to local cache")
}

func (s *Service) offlineFallback(ctx context.Context, city string) ([]models.Event, error) {
	cached, err := s.cache.EventsByCity(ctx, city)
	if err != nil {
		// A broken cache during fallback reads the same as an empty one.
		s.log.Warn().Err(err).Str("city", city).Msg("Cache read failed during offline fallback")
	}
	if len(cached) > 0 {
		s.log.Debug().Int("count", len(cached)).Str("city", city).Msg("Falling back to cached events")
		return cached, nil
	}
	s.log.Warn().Str("city", city).Msg("No cached events found")
	return nil, &Error{Kind: KindNetwork, Message: "No internet and no cached events for city: " + city}
}

// isConnectivityError reports whether a fetch failure looks like the device
// being offline rather than a broken response. http.Client transport
// failures arrive as *url.Error, which satisfies net.Error; response status
// and decode failures do not.
func isConnectivityError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}
