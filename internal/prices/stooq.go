package prices

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const stooqBaseURL = "https://stooq.com/q/d/l/"

// StooqClient fetches daily closing series from Stooq's CSV endpoint.
type StooqClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewStooq returns a client with sane timeouts.
func NewStooq() *StooqClient {
	return &StooqClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    stooqBaseURL,
		userAgent:  "valuescope/1.0",
	}
}

// StooqSymbol maps a Tokyo Stock Exchange symbol to Stooq's convention,
// e.g. "9501.T" becomes "9501.jp". Symbols already in another market's
// notation pass through lowercased.
func StooqSymbol(symbol string) string {
	if code, ok := strings.CutSuffix(symbol, ".T"); ok {
		return code + ".jp"
	}
	return strings.ToLower(symbol)
}

// FetchDaily downloads the full daily history for the symbol.
func (c *StooqClient) FetchDaily(ctx context.Context, symbol string) ([]Observation, error) {
	q := url.Values{}
	q.Set("s", StooqSymbol(symbol))
	q.Set("i", "d")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "prices: build stooq request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "prices: fetch %s", symbol)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.New(fmt.Sprintf("prices: stooq returned %d for %s", resp.StatusCode, symbol))
	}

	obs, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "prices: parse stooq response for %s", symbol)
	}
	return obs, nil
}
