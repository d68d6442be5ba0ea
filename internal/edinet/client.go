// Package edinet is a thin client for the EDINET v2 document API: listing
// disclosure documents by filing date and downloading their XBRL archives.
package edinet

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.edinet-fsa.go.jp/api/v2"

	// DocTypeAnnualReport is the EDINET code for a securities report
	// (有価証券報告書).
	DocTypeAnnualReport = "120"

	// listResponseType asks for metadata plus the result list;
	// archiveResponseType asks for the submitted XBRL ZIP.
	listResponseType    = "2"
	archiveResponseType = "1"
)

// Document is one entry of the daily document list. Only the fields the
// pipeline filters on are decoded.
type Document struct {
	DocID       string `json:"docID"`
	EdinetCode  string `json:"edinetCode"`
	SecCode     string `json:"secCode"`
	FilerName   string `json:"filerName"`
	DocTypeCode string `json:"docTypeCode"`
	PeriodEnd   string `json:"periodEnd"`
	SubmitDate  string `json:"submitDateTime"`
}

type listResponse struct {
	Results []Document `json:"results"`
}

// Options configures the client.
type Options struct {
	BaseURL         string
	SubscriptionKey string
	UserAgent       string
	Timeout         time.Duration
	MaxRetries      int
	// RequestsPerSec throttles all API calls. EDINET tolerates about one
	// request per second before returning errors.
	RequestsPerSec float64
}

// Client calls the EDINET v2 API with rate limiting and retry.
type Client struct {
	client  *http.Client
	opts    Options
	limiter *rate.Limiter
}

// New creates a Client with the given options.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "valuescope/1.0"
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 1
	}
	return &Client{
		client:  &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSec), 1),
	}
}

// ListDocuments returns the documents filed on the given date
// (YYYY-MM-DD).
func (c *Client) ListDocuments(ctx context.Context, date string) ([]Document, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("type", listResponseType)

	resp, err := c.get(ctx, "/documents.json", q)
	if err != nil {
		return nil, eris.Wrapf(err, "edinet: list documents for %s", date)
	}
	defer resp.Body.Close() //nolint:errcheck

	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, eris.Wrapf(err, "edinet: decode document list for %s", date)
	}
	return list.Results, nil
}

// DownloadArchive fetches the XBRL ZIP for a document and writes it to
// destPath, creating parent directories as needed.
func (c *Client) DownloadArchive(ctx context.Context, docID, destPath string) error {
	q := url.Values{}
	q.Set("type", archiveResponseType)

	resp, err := c.get(ctx, "/documents/"+docID, q)
	if err != nil {
		return eris.Wrapf(err, "edinet: download %s", docID)
	}
	defer resp.Body.Close() //nolint:errcheck

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return eris.Wrapf(err, "edinet: create %s", filepath.Dir(destPath))
	}
	f, err := os.Create(destPath)
	if err != nil {
		return eris.Wrapf(err, "edinet: create %s", destPath)
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(f, resp.Body); err != nil {
		return eris.Wrapf(err, "edinet: write %s", destPath)
	}
	return nil
}

// AnnualReports filters a document list to securities reports filed by
// the given EDINET codes.
func AnnualReports(docs []Document, edinetCodes map[string]bool) []Document {
	var out []Document
	for _, d := range docs {
		if d.DocTypeCode != DocTypeAnnualReport {
			continue
		}
		if !edinetCodes[d.EdinetCode] {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (*http.Response, error) {
	if c.opts.SubscriptionKey != "" {
		q.Set("Subscription-Key", c.opts.SubscriptionKey)
	}
	rawURL := c.opts.BaseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	var lastErr error
	for attempt := range c.opts.MaxRetries {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limiter wait")
		}

		resp, err := c.client.Do(req.Clone(ctx))
		if err != nil {
			lastErr = err
			zap.L().Warn("edinet: request failed, retrying",
				zap.String("path", path),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("edinet: http %d from %s", resp.StatusCode, path)
			zap.L().Warn("edinet: retryable status",
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, eris.Errorf("edinet: http %d from %s", resp.StatusCode, path)
		}

		return resp, nil
	}

	return nil, eris.Wrap(lastErr, "all retries exhausted")
}

func (c *Client) backoff(ctx context.Context, attempt int) {
	base := time.Second
	maxBackoff := 30 * time.Second
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if d > maxBackoff {
		d = maxBackoff
	}
	d += time.Duration(rand.Int64N(int64(d) / 2))

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
