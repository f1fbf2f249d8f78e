package thingspeak

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the public ThingSpeak API
	DefaultBaseURL = "https://api.thingspeak.com"
	// DefaultTimeout bounds every upstream request
	DefaultTimeout = 8 * time.Second
	// MaxResults is the largest page ThingSpeak serves
	MaxResults = 8000
)

// APIError is a non-2xx answer from ThingSpeak
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("thingspeak error (status %d): %s", e.StatusCode, e.Body)
}

// Client reads a single ThingSpeak channel
type Client struct {
	baseURL    string
	channelID  string
	readKey    string
	httpClient *http.Client
	cache      Cache
	cacheTTL   time.Duration
}

// ClientOption configures a Client
type ClientOption func(*Client)

// NewClient creates a client for channelID. readKey may be empty for public channels.
func NewClient(channelID, readKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		channelID: channelID,
		readKey:   readKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithBaseURL points the client at another API host
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets a custom timeout for the HTTP client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithCache keeps feed responses in cache for ttl
func WithCache(cache Cache, ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// ChannelID returns the channel the client reads
func (c *Client) ChannelID() string {
	return c.channelID
}

// GetFeeds returns the newest results entries of the channel, oldest first
func (c *Client) GetFeeds(ctx context.Context, results int) (*FeedsResponse, error) {
	if results < 1 {
		results = 1
	}
	if results > MaxResults {
		results = MaxResults
	}

	key := c.cacheKey(results)
	if c.cache != nil {
		if cached, ok := c.fromCache(ctx, key); ok {
			return cached, nil
		}
	}

	body, err := c.doRequest(ctx, results)
	if err != nil {
		return nil, err
	}

	var resp FeedsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode feeds: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
			log.Printf("⚠ Failed to cache feeds: %v", err)
		}
	}

	return &resp, nil
}

// GetLast returns the newest entry, or nil when the channel is empty
func (c *Client) GetLast(ctx context.Context) (*Feed, error) {
	resp, err := c.GetFeeds(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(resp.Feeds) == 0 {
		return nil, nil
	}
	last := resp.Feeds[len(resp.Feeds)-1]
	return &last, nil
}

func (c *Client) doRequest(ctx context.Context, results int) ([]byte, error) {
	params := url.Values{}
	if c.readKey != "" {
		params.Set("api_key", c.readKey)
	}
	params.Set("results", strconv.Itoa(results))

	endpoint := fmt.Sprintf("%s/channels/%s/feeds.json?%s", c.baseURL, url.PathEscape(c.channelID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	// ThingSpeak answers -1 for an unknown channel or a bad key
	if string(body) == "-1" {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: "channel not found or read key rejected"}
	}

	return body, nil
}

func (c *Client) cacheKey(results int) string {
	return fmt.Sprintf("thingspeak:%s:feeds:%d", c.channelID, results)
}

func (c *Client) fromCache(ctx context.Context, key string) (*FeedsResponse, bool) {
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Printf("⚠ Feed cache unavailable: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var resp FeedsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}
