package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNoArt is returned when Last.fm knows nothing usable about the album.
var ErrNoArt = errors.New("no album art")

// DefaultEndpoint is the Last.fm API root.
const DefaultEndpoint = "https://ws.audioscrobbler.com/2.0/"

// Last.fm API response structures
type albumInfoResponse struct {
	Album   *albumInfo `json:"album"`
	Error   int        `json:"error"`
	Message string     `json:"message"`
}

type albumInfo struct {
	Name   string  `json:"name"`
	Artist string  `json:"artist"`
	Image  []image `json:"image"`
}

type image struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

// Client looks up album cover art with album.getinfo.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewClient creates a new Last.fm client. Every request is bounded by timeout.
func NewClient(apiKey, endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// AlbumArt returns the URL of the largest cover image Last.fm lists for the album.
func (c *Client) AlbumArt(ctx context.Context, artist, album string) (string, error) {
	params := url.Values{}
	params.Set("method", "album.getinfo")
	params.Set("artist", artist)
	params.Set("album", album)
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "beebridge/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	var info albumInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("Last.fm API request failed with status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if info.Error != 0 {
		return "", fmt.Errorf("Last.fm API error %d: %s", info.Error, info.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Last.fm API request failed with status %d", resp.StatusCode)
	}

	if info.Album == nil || len(info.Album.Image) == 0 {
		return "", fmt.Errorf("%w for %s - %s", ErrNoArt, artist, album)
	}
	// Images are listed from small to mega.
	return info.Album.Image[len(info.Album.Image)-1].URL, nil
}
