package api

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/damon-houk/nbk-rate-viewer/internal/domain/entity"
	domainservice "github.com/damon-houk/nbk-rate-viewer/internal/domain/service"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/logger"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/metrics"
)

const (
	// DefaultFeedURL is the national bank's daily rates endpoint
	DefaultFeedURL = "https://nationalbank.kz/rss/get_rates.cfm"

	// maximum number of body bytes quoted in a status error
	errorBodyLimit = 512
)

// NBKClient reads the national bank of Kazakhstan rate feed
type NBKClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewNBKClient creates a new feed client
func NewNBKClient(baseURL string, httpClient *http.Client, log logger.Logger) *NBKClient {
	if baseURL == "" {
		baseURL = DefaultFeedURL
	}

	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &NBKClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     log,
	}
}

// FetchRates retrieves all rates the feed publishes for date (dd.MM.yyyy)
func (c *NBKClient) FetchRates(ctx context.Context, date string) (*entity.RateSnapshot, error) {
	const op = "api.NBKClient.FetchRates"

	reqURL, err := c.requestURL(date)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	c.logger.Debug("Requesting rate feed", map[string]interface{}{
		"url":  reqURL,
		"date": date,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, op+": failed to create request")
	}
	req.Header.Add("Accept", "application/xml, text/xml")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.FeedDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FeedRequests.WithLabelValues(metrics.OutcomeTransport).Inc()
		return nil, errors.Wrapf(domainservice.ErrFeedUnavailable, "%s: failed to execute request: %v", op, err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	if resp.StatusCode != http.StatusOK {
		metrics.FeedRequests.WithLabelValues(metrics.OutcomeStatusError).Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, errors.Wrapf(domainservice.ErrFeedUnavailable, "%s: feed returned status %d, body: %s",
			op, resp.StatusCode, string(body))
	}

	snapshot, err := Parse(resp.Body)
	if err != nil {
		metrics.FeedRequests.WithLabelValues(metrics.OutcomeDecodeError).Inc()
		return nil, errors.Wrap(err, op)
	}

	metrics.FeedRequests.WithLabelValues(metrics.OutcomeOK).Inc()

	c.logger.Debug("Rate feed parsed", map[string]interface{}{
		"date":  date,
		"items": len(snapshot.Items),
	})

	return snapshot, nil
}

func (c *NBKClient) requestURL(date string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", errors.Wrap(err, "invalid feed url")
	}

	q := u.Query()
	q.Set("fdate", date)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
