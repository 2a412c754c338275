package ticketapi

import (
	"fmt"
	"strings"

	"eventhound/shared/go/models"
)

// EventsResponse is the paginated envelope returned by the ticketing API.
// Unknown fields are ignored; missing fields decode to zero values.
type EventsResponse struct {
	Embedded *EmbeddedEvents `json:"_embedded,omitempty"`
	Links    *Links          `json:"_links,omitempty"`
	Page     *Page           `json:"page,omitempty"`
}

// EmbeddedEvents carries the event list of a response page
type EmbeddedEvents struct {
	Events []APIEvent `json:"events"`
}

// APIEvent is the raw event shape on the wire
type APIEvent struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Type     string                `json:"type,omitempty"`
	URL      string                `json:"url,omitempty"`
	Locale   string                `json:"locale,omitempty"`
	Images   []Image               `json:"images,omitempty"`
	Dates    *Dates                `json:"dates,omitempty"`
	Embedded *EmbeddedEventDetails `json:"_embedded,omitempty"`
}

// EmbeddedEventDetails carries the venues nested under an event
type EmbeddedEventDetails struct {
	Venues []Venue `json:"venues"`
}

// Venue describes where an event takes place
type Venue struct {
	ID         string   `json:"id"`
	Name       string   `json:"name,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Timezone   string   `json:"timezone,omitempty"`
	City       *City    `json:"city,omitempty"`
	State      *State   `json:"state,omitempty"`
	Country    *Country `json:"country,omitempty"`
}

// City is a venue's city
type City struct {
	Name string `json:"name"`
}

// State is a venue's state or region
type State struct {
	Name      string `json:"name"`
	StateCode string `json:"stateCode"`
}

// Country is a venue's country
type Country struct {
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

// Image is one entry of an event's image list; the first entry is the
// representative image.
type Image struct {
	Ratio    string `json:"ratio,omitempty"`
	URL      string `json:"url,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
}

// Dates holds an event's schedule
type Dates struct {
	Start    *DateTime `json:"start,omitempty"`
	End      *DateTime `json:"end,omitempty"`
	Timezone string    `json:"timezone,omitempty"`
}

// DateTime is a local date/time pair, either part optional
type DateTime struct {
	LocalDate      string `json:"localDate,omitempty"`
	LocalTime      string `json:"localTime,omitempty"`
	DateTime       string `json:"dateTime,omitempty"`
	NoSpecificTime bool   `json:"noSpecificTime,omitempty"`
}

// Links holds the paging links of a response
type Links struct {
	First *Link `json:"first,omitempty"`
	Self  *Link `json:"self,omitempty"`
	Next  *Link `json:"next,omitempty"`
	Last  *Link `json:"last,omitempty"`
}

// Link is a single HAL link
type Link struct {
	Href string `json:"href"`
}

// Page describes the server-side pagination window
type Page struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

// Normalize flattens the raw API event into the persisted Event shape.
// Only the first image and the first venue are authoritative. When the venue
// carries both a city and a state, the location reads
// "<venue>, <city>, <stateCode>" and the city field is set; otherwise the
// location falls back to the bare venue name, or nil without a venue.
func (e APIEvent) Normalize() models.Event {
	var city, location, imageURL, startDate, endDate *string

	if e.Embedded != nil && len(e.Embedded.Venues) > 0 {
		venue := e.Embedded.Venues[0]
		loc := venue.Name
		if venue.City != nil && venue.State != nil {
			loc = fmt.Sprintf("%s, %s, %s", venue.Name, venue.City.Name, venue.State.StateCode)
			cityName := venue.City.Name
			city = &cityName
		}
		if strings.TrimSpace(loc) != "" {
			location = &loc
		}
	}

	if len(e.Images) > 0 && e.Images[0].URL != "" {
		url := e.Images[0].URL
		imageURL = &url
	}

	if e.Dates != nil {
		if e.Dates.Start != nil && e.Dates.Start.LocalDate != "" {
			d := e.Dates.Start.LocalDate
			startDate = &d
		}
		if e.Dates.End != nil && e.Dates.End.LocalDate != "" {
			d := e.Dates.End.LocalDate
			endDate = &d
		}
	}

	return models.Event{
		ID:        e.ID,
		Name:      e.Name,
		ImageURL:  imageURL,
		StartDate: startDate,
		EndDate:   endDate,
		City:      city,
		Location:  location,
	}
}
