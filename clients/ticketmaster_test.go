package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const discoveryResponse = `{
  "_embedded": {
    "events": [
      {
        "id": "EVT1",
        "name": "City Symphony",
        "url": "https://tickets.example/EVT1",
        "images": [{"url": "https://img.example/evt1.jpg"}],
        "dates": {"start": {"localDate": "2025-06-10"}},
        "priceRanges": [{"min": 25.0, "max": 90.0}],
        "_embedded": {
          "venues": [{"name": "Grand Hall", "city": {"name": "Berlin"}}]
        }
      },
      {
        "id": "EVT2",
        "name": "Open Air Festival",
        "dates": {"start": {"localDate": "2025-06-12"}}
      }
    ]
  }
}`

func TestGetEvents(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(discoveryResponse))
	}))
	defer server.Close()

	client := NewTicketmasterClient("test-key")
	client.BaseURL = server.URL

	events, err := client.GetEvents(context.Background(), "Berlin", "2025-06-01", "2025-06-30")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "test-key", gotQuery["apikey"])
	assert.Equal(t, "Berlin", gotQuery["city"])
	assert.Equal(t, "2025-06-01T00:00:00Z", gotQuery["startDateTime"])
	assert.Equal(t, "date,asc", gotQuery["sort"])

	assert.Equal(t, "EVT1", events[0].ID)
	assert.Equal(t, "City Symphony", events[0].Name)
	assert.Equal(t, "Grand Hall", events[0].Venue)
	assert.Equal(t, "Berlin", events[0].City)
	assert.Equal(t, 25.0, events[0].MinPrice)

	// Sparse events fall back to the searched city.
	assert.Equal(t, "EVT2", events[1].ID)
	assert.Equal(t, "Berlin", events[1].City)
	assert.Empty(t, events[1].Venue)
}

func TestGetEventsRejectsBadDates(t *testing.T) {
	client := NewTicketmasterClient("test-key")

	_, err := client.GetEvents(context.Background(), "Berlin", "June 1st", "2025-06-30")
	assert.Error(t, err)

	_, err = client.GetEvents(context.Background(), "Berlin", "2025-06-01", "")
	assert.Error(t, err)
}

func TestGetEventsSurfacesUpstreamErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"fault":"rate limit"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewTicketmasterClient("test-key")
	client.BaseURL = server.URL

	_, err := client.GetEvents(context.Background(), "Berlin", "2025-06-01", "2025-06-30")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
