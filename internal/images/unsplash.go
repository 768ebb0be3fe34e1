package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultPhotoAPIBase = "https://api.unsplash.com"

// PhotoClient looks photos up by id.
type PhotoClient interface {
	GetPhoto(ctx context.Context, id string) (*Photo, error)
}

// Photo is the subset of the photo service payload the content layer uses.
// Pointer fields distinguish absent values from empty ones.
type Photo struct {
	ID             string     `json:"id"`
	Description    *string    `json:"description"`
	AltDescription *string    `json:"alt_description"`
	BlurHash       *string    `json:"blur_hash"`
	Width          *int       `json:"width"`
	Height         *int       `json:"height"`
	URLs           PhotoURLs  `json:"urls"`
	Links          PhotoLinks `json:"links"`
	User           struct {
		Name  *string    `json:"name"`
		Links PhotoLinks `json:"links"`
	} `json:"user"`
}

// PhotoURLs lists rendition URLs.
type PhotoURLs struct {
	Raw     *string `json:"raw"`
	Regular *string `json:"regular"`
}

// PhotoLinks lists public page links.
type PhotoLinks struct {
	HTML *string `json:"html"`
}

// UnsplashClient is a PhotoClient for the Unsplash API.
type UnsplashClient struct {
	accessKey string
	apiBase   string
	http      *http.Client
}

var _ PhotoClient = (*UnsplashClient)(nil)

// NewUnsplashClient creates a client. An empty apiBase uses the public API.
func NewUnsplashClient(accessKey, apiBase string, timeout time.Duration) *UnsplashClient {
	if apiBase == "" {
		apiBase = defaultPhotoAPIBase
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &UnsplashClient{
		accessKey: accessKey,
		apiBase:   strings.TrimRight(apiBase, "/"),
		http:      &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func (c *UnsplashClient) WithHTTPClient(client *http.Client) *UnsplashClient {
	if client != nil {
		c.http = client
	}
	return c
}

// GetPhoto fetches a single photo.
func (c *UnsplashClient) GetPhoto(ctx context.Context, id string) (*Photo, error) {
	endpoint := c.apiBase + "/photos/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("photo %s: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("photo %s: %w", id, err)
	}

	var photo Photo
	if err := json.NewDecoder(resp.Body).Decode(&photo); err != nil {
		return nil, fmt.Errorf("photo %s: decode: %w", id, err)
	}
	return &photo, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrPhotoNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode == http.StatusForbidden && strings.EqualFold(resp.Header.Get("X-Ratelimit-Remaining"), "0"):
		return ErrRateLimited
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
}
