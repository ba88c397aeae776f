package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrUserNotFound is returned by the client when the recommendations API
// has no data for the requested user.
var ErrUserNotFound = errors.New("recommend: user not found")

// Recommendations is the raw recommendation payload for one user, as served
// by the recommendations API.
type Recommendations struct {
	UserName    string  `json:"user_name"`
	GeneratedAt string  `json:"generated_at"`
	Tracks      []Track `json:"tracks"`
}

// Track is one recommended recording with its model score.
type Track struct {
	ArtistName    string  `json:"artist_name"`
	TrackName     string  `json:"track_name"`
	RecordingMBID string  `json:"recording_mbid"`
	Score         float64 `json:"score"`
}

// Client fetches recommendation payloads from the API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the API at baseURL. A nil httpClient falls
// back to a client with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// Recommendations fetches the raw recommendation payload for userName.
func (c *Client) Recommendations(ctx context.Context, userName string) (*Recommendations, error) {
	u := fmt.Sprintf("%s/1/user/%s/recommendations", c.baseURL, url.PathEscape(userName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("recommend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recommend: fetch recommendations for %q: %w", userName, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %q", ErrUserNotFound, userName)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("recommend: fetch recommendations for %q: unexpected status %d", userName, resp.StatusCode)
	}

	var payload Recommendations
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("recommend: decode recommendations for %q: %w", userName, err)
	}
	if payload.UserName == "" {
		payload.UserName = userName
	}
	return &payload, nil
}
