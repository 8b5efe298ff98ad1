package kraken

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"KrakenSandbox/internal/model"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public REST endpoint of kraken.com.
const DefaultBaseURL = "https://api.kraken.com"

// Client issues the public market-data queries. It performs one request per call:
// no retries, no caching.
type Client struct {
	BaseURL string
	Client  *http.Client
}

// NewClient creates a client with optional proxy support. A zero timeout leaves requests
// bounded only by the caller's context.
func NewClient(baseURL, proxyURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Client{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (c *Client) Name() string { return "kraken" }

// Status succeeds iff the exchange answers with a 2xx response. The payload is decoded
// best effort and never causes a failure.
func (c *Client) Status(ctx context.Context) (model.SystemStatus, error) {
	body, err := c.get(ctx, "/0/public/SystemStatus", nil)
	if err != nil {
		return model.SystemStatus{}, err
	}
	var resp struct {
		Result model.SystemStatus `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Debug().Err(err).Msg("system status payload not understood")
	}
	return resp.Result, nil
}

// OHLC fetches candles for pair. interval (minutes) and since are sent only when non-nil,
// leaving the exchange defaults in effect otherwise.
func (c *Client) OHLC(ctx context.Context, pair string, interval *int, since *int64) (model.PriceSeries, error) {
	q := url.Values{}
	q.Set("pair", pair)
	if interval != nil {
		q.Set("interval", strconv.Itoa(*interval))
	}
	if since != nil {
		q.Set("since", strconv.FormatInt(*since, 10))
	}
	body, err := c.get(ctx, "/0/public/OHLC", q)
	if err != nil {
		return model.PriceSeries{}, err
	}
	if err := checkAPIError(pair, body); err != nil {
		return model.PriceSeries{}, err
	}
	series, err := NormalizeOHLC(pair, body)
	if err != nil {
		return model.PriceSeries{}, err
	}
	log.Debug().Str("pair", pair).Int("candles", series.Len()).Msg("ohlc fetched")
	return series, nil
}

// LatestPrice returns the price of the most recent executed trade for pair.
func (c *Client) LatestPrice(ctx context.Context, pair string) (float64, error) {
	q := url.Values{}
	q.Set("pair", pair)
	q.Set("count", "1")
	body, err := c.get(ctx, "/0/public/Trades", q)
	if err != nil {
		return 0, err
	}
	if err := checkAPIError(pair, body); err != nil {
		return 0, err
	}
	return ParseLatestPrice(pair, body)
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	endpoint := c.BaseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "KrakenSandbox/1.0")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{URL: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// checkAPIError treats a non-empty "error" array as an authoritative failure.
func checkAPIError(pair string, body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &DataFormatError{Pair: pair, Err: err}
	}
	if len(env.Error) > 0 {
		return &APIError{Messages: env.Error}
	}
	return nil
}
