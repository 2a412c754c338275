package ticketapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"eventhound/shared/go/logging"

	"github.com/rs/zerolog"
)

const defaultPageSize = 10

// Client fetches paginated event listings from the ticketing API
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a ticketing API client. A non-positive pageSize falls
// back to the API default of 10.
func NewClient(baseURL, apiKey string, pageSize int) *Client {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		pageSize: pageSize,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logging.Component("ticketapi"),
	}
}

// GetEvents requests one page of events for a city, sorted server-side by
// date ascending. Transport failures are returned wrapped so callers can
// still classify the underlying network error.
func (c *Client) GetEvents(ctx context.Context, city string, page int) (*EventsResponse, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("city", city)
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(c.pageSize))
	params.Set("sort", "date,asc")

	apiURL := c.baseURL + "/events.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ticketing api error: %s - %s", resp.Status, string(body))
	}

	var result EventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.log.Debug().
		Str("city", city).
		Int("page", page).
		Int("events", len(result.Events())).
		Msg("Fetched events page")

	return &result, nil
}

// Events returns the embedded event list, or an empty slice when the
// envelope has none.
func (r *EventsResponse) Events() []APIEvent {
	if r == nil || r.Embedded == nil {
		return nil
	}
	return r.Embedded.Events
}
