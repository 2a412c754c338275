package events

import (
	"context"
	"errors"

	"eventhound/shared/go/models"
)

// User-facing messages for the two data-layer failure kinds.
const (
	msgNetworkUnavailable = "Network unavailable"
	msgGenericFailure     = "Error getting events, try again later"
)

// Repository hands back normalized events or a typed data-layer failure
type Repository interface {
	GetEvents(ctx context.Context, city string, page int) ([]models.Event, error)
}

// GetEventsUseCase is the seam between the data layer's error taxonomy and
// presentation-facing strings. Success passes through untouched.
type GetEventsUseCase struct {
	repo Repository
}

// NewGetEventsUseCase constructs the use case
func NewGetEventsUseCase(repo Repository) *GetEventsUseCase {
	return &GetEventsUseCase{repo: repo}
}

// Invoke fetches events for a city and page. On failure the returned error's
// message is the user-facing string.
func (u *GetEventsUseCase) Invoke(ctx context.Context, city string, page int) ([]models.Event, error) {
	events, err := u.repo.GetEvents(ctx, city, page)
	if err == nil {
		return events, nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case KindNetwork:
			return nil, errors.New(msgNetworkUnavailable)
		case KindHTTP:
			return nil, errors.New(msgGenericFailure)
		}
	}
	return nil, errors.New(msgGenericFailure)
}
