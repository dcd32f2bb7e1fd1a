// Package yahoo provides a client for the unofficial Yahoo Finance API
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/interfaces"
	"github.com/okabet/tickerscope/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	// DefaultUserAgent identifies as a standard browser. Yahoo rejects
	// default Go client signatures.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Compile-time interface check
var _ interfaces.MarketDataClient = (*Client)(nil)

// Client implements the MarketDataClient interface against Yahoo Finance.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithUserAgent sets the outbound User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a provider API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request with the browser User-Agent.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// chartResponse mirrors the /v8/finance/chart payload.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetDailyCloses fetches daily close prices over the trailing lookback
// window, ordered by date ascending. Dates are reduced to timezone-naive
// calendar days; a trading calendar has no intraday meaning at daily-close
// granularity.
func (c *Client) GetDailyCloses(ctx context.Context, symbol string, lookbackYears int) ([]models.PricePoint, error) {
	params := url.Values{}
	params.Set("range", strconv.Itoa(lookbackYears)+"y")
	params.Set("interval", "1d")
	params.Set("includePrePost", "false")

	var data chartResponse
	if err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), params, &data); err != nil {
		return nil, err
	}

	if data.Chart.Error != nil {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    data.Chart.Error.Description,
			Endpoint:   "/v8/finance/chart",
		}
	}

	if len(data.Chart.Result) == 0 || len(data.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := data.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	points := make([]models.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Null closes appear on halted or partial days; skip them.
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		t := time.Unix(ts, 0).UTC()
		points = append(points, models.PricePoint{
			Date:  time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
			Close: *closes[i],
		})
	}

	return points, nil
}

// quoteSummaryResponse mirrors the /v10/finance/quoteSummary payload.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				LongName  string `json:"longName"`
				ShortName string `json:"shortName"`
			} `json:"price"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// GetProfile fetches naming metadata for a symbol.
func (c *Client) GetProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	params := url.Values{}
	params.Set("modules", "price")

	var data quoteSummaryResponse
	if err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), params, &data); err != nil {
		return nil, err
	}

	if data.QuoteSummary.Error != nil {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    data.QuoteSummary.Error.Description,
			Endpoint:   "/v10/finance/quoteSummary",
		}
	}

	if len(data.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no metadata for %s", symbol)
	}

	price := data.QuoteSummary.Result[0].Price
	return &models.CompanyProfile{
		Symbol:    symbol,
		LongName:  price.LongName,
		ShortName: price.ShortName,
	}, nil
}

// searchResponse mirrors the /v1/finance/search payload.
type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		LongName  string `json:"longname"`
		ShortName string `json:"shortname"`
		ExchDisp  string `json:"exchDisp"`
	} `json:"quotes"`
}

// SearchTickers finds candidate symbols for a free-text query, preserving
// the provider's relevance order.
func (c *Client) SearchTickers(ctx context.Context, query string, maxResults int) ([]models.CandidateSymbol, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", strconv.Itoa(maxResults))
	params.Set("newsCount", "0")

	var data searchResponse
	if err := c.get(ctx, "/v1/finance/search", params, &data); err != nil {
		return nil, err
	}

	candidates := make([]models.CandidateSymbol, 0, len(data.Quotes))
	for _, q := range data.Quotes {
		if q.Symbol == "" {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		if name == "" {
			name = q.Symbol
		}
		candidates = append(candidates, models.CandidateSymbol{
			Symbol:      q.Symbol,
			DisplayName: name,
			Exchange:    q.ExchDisp,
		})
		if len(candidates) == maxResults {
			break
		}
	}

	return candidates, nil
}
