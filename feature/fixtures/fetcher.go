package fixtures

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Fetcher downloads source pages.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches pages with browser-like headers and retries
// throttled or failing responses. Requests, retries included, are spaced at
// least PageDelayMs apart.
type HTTPFetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewHTTPFetcher builds a fetcher from the scraper configuration.
func NewHTTPFetcher(cfg Config, logger *zap.Logger) *HTTPFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.PageDelayMs > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Duration(cfg.PageDelayMs)*time.Millisecond), 1)
	}

	client := resty.New().
		SetTimeout(time.Duration(timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(15*time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			code := r.StatusCode()
			return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
		}).
		SetHeaders(map[string]string{
			"User-Agent":      cfg.UserAgent,
			"Referer":         cfg.Referer,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language": "pt-BR,pt;q=0.9,en;q=0.8",
			"Cache-Control":   "max-age=0",
		}).
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})

	return &HTTPFetcher{client: client, limiter: limiter, logger: logger}
}

// Fetch downloads url and returns the body of a 2xx response.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %d", url, res.StatusCode())
	}

	f.logger.Debug("Fetched page",
		zap.String("url", url),
		zap.Int("status", res.StatusCode()),
		zap.Int("bytes", len(res.Body())),
		zap.Duration("elapsed", res.Time()),
	)
	return res.Body(), nil
}
