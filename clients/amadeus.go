package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// AmadeusClientWrapper provides an interface for hotel inventory lookups.
type AmadeusClientWrapper interface {
	GetHotels(ctx context.Context, cityCode, checkInDate, checkOutDate string) ([]HotelOffer, error)
}

// HotelOffer is the flattened shape returned to the browser client.
type HotelOffer struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Rating   string  `json:"rating,omitempty"`
	Location string  `json:"location"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	CheckIn  string  `json:"checkIn"`
	CheckOut string  `json:"checkOut"`
}

// AmadeusClient implements AmadeusClientWrapper against the Amadeus
// self-service REST API with OAuth2 client-credentials auth.
type AmadeusClient struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	HttpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewAmadeusClient creates and returns a new instance of AmadeusClient.
func NewAmadeusClient(clientID, clientSecret string) *AmadeusClient {
	return &AmadeusClient{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		BaseURL:      "https://test.api.amadeus.com",
		HttpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// token returns a cached access token, refreshing it when expired.
func (a *AmadeusClient) token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessToken != "" && time.Now().Before(a.tokenExpiry) {
		return a.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", a.ClientID)
	form.Set("client_secret", a.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.HttpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("amadeus token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return "", fmt.Errorf("amadeus token request returned %d: %s", resp.StatusCode, string(b))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("invalid amadeus token response: %w", err)
	}

	a.accessToken = tokenResp.AccessToken
	// Refresh a minute early to avoid racing the expiry.
	a.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)
	return a.accessToken, nil
}

func (a *AmadeusClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	tok, err := a.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Accept", "application/json")

	resp, err := a.HttpClient.Do(req)
	if err != nil {
		return fmt.Errorf("amadeus request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("amadeus returned %d: %s", resp.StatusCode, string(b))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// GetHotels looks up hotels in a city and fetches best-rate offers for the
// first ten of them, flattened into HotelOffer values.
func (a *AmadeusClient) GetHotels(ctx context.Context, cityCode, checkInDate, checkOutDate string) ([]HotelOffer, error) {
	cityParams := url.Values{}
	cityParams.Set("cityCode", cityCode)

	var citySearch struct {
		Data []struct {
			HotelID string `json:"hotelId"`
		} `json:"data"`
	}
	if err := a.get(ctx, "/v1/reference-data/locations/hotels/by-city", cityParams, &citySearch); err != nil {
		return nil, err
	}
	if len(citySearch.Data) == 0 {
		return []HotelOffer{}, nil
	}

	hotelIDs := make([]string, 0, 10)
	for _, h := range citySearch.Data {
		hotelIDs = append(hotelIDs, h.HotelID)
		if len(hotelIDs) == 10 {
			break
		}
	}

	offerParams := url.Values{}
	offerParams.Set("hotelIds", strings.Join(hotelIDs, ","))
	offerParams.Set("adults", "1")
	offerParams.Set("checkInDate", checkInDate)
	offerParams.Set("checkOutDate", checkOutDate)
	offerParams.Set("roomQuantity", "1")
	offerParams.Set("bestRateOnly", "true")
	offerParams.Set("currency", "EUR")

	var offerSearch struct {
		Data []struct {
			Hotel struct {
				HotelID string `json:"hotelId"`
				Name    string `json:"name"`
				Rating  string `json:"rating"`
				Address struct {
					CityName    string `json:"cityName"`
					CountryCode string `json:"countryCode"`
				} `json:"address"`
			} `json:"hotel"`
			Offers []struct {
				Price struct {
					Total    string `json:"total"`
					Currency string `json:"currency"`
				} `json:"price"`
			} `json:"offers"`
		} `json:"data"`
	}
	if err := a.get(ctx, "/v3/shopping/hotel-offers", offerParams, &offerSearch); err != nil {
		return nil, err
	}

	offers := make([]HotelOffer, 0, len(offerSearch.Data))
	for _, d := range offerSearch.Data {
		if len(d.Offers) == 0 {
			continue
		}
		price, err := strconv.ParseFloat(d.Offers[0].Price.Total, 64)
		if err != nil {
			continue
		}
		name := d.Hotel.Name
		if name == "" {
			name = "Unknown Hotel"
		}
		city := d.Hotel.Address.CityName
		if city == "" {
			city = cityCode
		}
		offers = append(offers, HotelOffer{
			ID:       d.Hotel.HotelID,
			Name:     name,
			Rating:   d.Hotel.Rating,
			Location: fmt.Sprintf("%s, %s", city, d.Hotel.Address.CountryCode),
			Price:    price,
			Currency: d.Offers[0].Price.Currency,
			CheckIn:  checkInDate,
			CheckOut: checkOutDate,
		})
	}

	return offers, nil
}
