// Package translate provides a client for the unofficial Google Translate
// endpoint. Callers treat translation as best-effort: on any failure the
// original text is used instead, so errors here never reach the user.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/interfaces"
)

const (
	DefaultBaseURL = "https://translate.googleapis.com"
	DefaultTimeout = 10 * time.Second
)

// Compile-time interface check
var _ interfaces.TranslationClient = (*Client)(nil)

// Client implements the TranslationClient interface.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new translation client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Translate converts text from source to target language. The gtx endpoint
// returns a nested array payload; the translated sentence chunks live at
// [0][i][0] and are concatenated.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	reqURL := c.baseURL + "/translate_a/single?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("translate API error: status %d: %s", resp.StatusCode, string(body))
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation payload")
	}

	var chunks [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &chunks); err != nil {
		return "", fmt.Errorf("unexpected translation payload shape: %w", err)
	}

	var b strings.Builder
	for _, chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(chunk[0], &part); err != nil {
			continue
		}
		b.WriteString(part)
	}

	translated := b.String()
	if translated == "" {
		return "", fmt.Errorf("translation produced no text")
	}

	c.logger.Debug().Str("source", source).Str("target", target).Msg("Translated query")
	return translated, nil
}
