package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// TicketmasterClientWrapper provides an interface for event inventory lookups.
type TicketmasterClientWrapper interface {
	GetEvents(ctx context.Context, city, startDate, endDate string) ([]Event, error)
}

// Event is the flattened shape returned to the browser client.
type Event struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	URL      string  `json:"url,omitempty"`
	Date     string  `json:"date"`
	Venue    string  `json:"venue,omitempty"`
	City     string  `json:"city"`
	MinPrice float64 `json:"minPrice,omitempty"`
	MaxPrice float64 `json:"maxPrice,omitempty"`
	Image    string  `json:"image,omitempty"`
}

// TicketmasterClient implements TicketmasterClientWrapper using the
// Discovery v2 API.
type TicketmasterClient struct {
	APIKey     string
	BaseURL    string
	HttpClient *http.Client
}

// NewTicketmasterClient creates and returns a new instance of TicketmasterClient.
func NewTicketmasterClient(apiKey string) *TicketmasterClient {
	return &TicketmasterClient{
		APIKey:     apiKey,
		BaseURL:    "https://app.ticketmaster.com/discovery/v2",
		HttpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetEvents searches events in a city within the given date window, sorted
// by date ascending.
func (t *TicketmasterClient) GetEvents(ctx context.Context, city, startDate, endDate string) ([]Event, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}

	params := url.Values{}
	params.Set("apikey", t.APIKey)
	params.Set("city", city)
	params.Set("startDateTime", start.UTC().Format("2006-01-02T15:04:05Z"))
	params.Set("endDateTime", end.UTC().Format("2006-01-02T15:04:05Z"))
	params.Set("size", "200")
	params.Set("sort", "date,asc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.BaseURL+"/events.json?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ticketmaster request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, fmt.Errorf("ticketmaster returned %d: %s", resp.StatusCode, string(b))
	}

	var search struct {
		Embedded struct {
			Events []struct {
				ID     string `json:"id"`
				Name   string `json:"name"`
				URL    string `json:"url"`
				Images []struct {
					URL string `json:"url"`
				} `json:"images"`
				Dates struct {
					Start struct {
						LocalDate string `json:"localDate"`
					} `json:"start"`
				} `json:"dates"`
				PriceRanges []struct {
					Min float64 `json:"min"`
					Max float64 `json:"max"`
				} `json:"priceRanges"`
				Embedded struct {
					Venues []struct {
						Name string `json:"name"`
						City struct {
							Name string `json:"name"`
						} `json:"city"`
					} `json:"venues"`
				} `json:"_embedded"`
			} `json:"events"`
		} `json:"_embedded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, fmt.Errorf("invalid ticketmaster response: %w", err)
	}

	events := make([]Event, 0, len(search.Embedded.Events))
	for _, e := range search.Embedded.Events {
		ev := Event{
			ID:   e.ID,
			Name: e.Name,
			URL:  e.URL,
			Date: e.Dates.Start.LocalDate,
			City: city,
		}
		if len(e.Images) > 0 {
			ev.Image = e.Images[0].URL
		}
		if len(e.PriceRanges) > 0 {
			ev.MinPrice = e.PriceRanges[0].Min
			ev.MaxPrice = e.PriceRanges[0].Max
		}
		if len(e.Embedded.Venues) > 0 {
			ev.Venue = e.Embedded.Venues[0].Name
			if e.Embedded.Venues[0].City.Name != "" {
				ev.City = e.Embedded.Venues[0].City.Name
			}
		}
		events = append(events, ev)
	}

	return events, nil
}
