package models

import (
	"fmt"
	"strings"
	"time"
)

// Event is a normalized, cacheable event listing
type Event struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ImageURL  *string `json:"image_url,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // ISO date, e.g. "2025-07-19"
	EndDate   *string `json:"end_date,omitempty"`
	City      *string `json:"city,omitempty"`
	Location  *string `json:"location,omitempty"` // "venue, city, state" composite
}

// FormattedStartDate returns the start date as "JUL 19, 2025", or nil
// when the date is absent or unparseable.
func (e Event) FormattedStartDate() *string {
	return formatDate(e.StartDate)
}

// FormattedEndDate returns the end date in the same display format.
func (e Event) FormattedEndDate() *string {
	return formatDate(e.EndDate)
}

func formatDate(date *string) *string {
	if date == nil {
		return nil
	}
	d, err := time.Parse("2006-01-02", *date)
	if err != nil {
		return nil
	}
	formatted := fmt.Sprintf("%s %d, %d", strings.ToUpper(d.Format("Jan")), d.Day(), d.Year())
	return &formatted
}

// FilterEvents returns the events whose name or location contains the query,
// case-insensitively. An empty query matches everything.
func FilterEvents(events []Event, query string) []Event {
	q := strings.ToLower(query)
	if q == "" {
		return events
	}
	var filtered []Event
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Name), q) {
			filtered = append(filtered, e)
			continue
		}
		if e.Location != nil && strings.Contains(strings.ToLower(*e.Location), q) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
