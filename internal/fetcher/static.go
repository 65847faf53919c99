// Package fetcher retrieves product pages over plain HTTP, without a browser.
// It backs the static pre-pass tried before the browser is launched.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	colly "github.com/gocolly/colly/v2"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
)

// retryCountKey is the request context key for the retry count in OnError.
const retryCountKey = "retry_count"

var (
	// ErrChallenge is returned when the site answered with a bot challenge page.
	ErrChallenge = errors.New("bot challenge page")
	// ErrEmptyBody is returned when the response carried no body.
	ErrEmptyBody = errors.New("empty response body")
)

// StatusError reports a non-success HTTP status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d", e.Code)
}

// StaticFetcher fetches a single page with a fresh colly collector per call.
type StaticFetcher struct {
	cfg    Config
	logger logger.Interface
}

// NewStaticFetcher creates a static fetcher.
func NewStaticFetcher(cfg Config, log logger.Interface) *StaticFetcher {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &StaticFetcher{
		cfg:    cfg.WithDefaults(),
		logger: log.WithComponent("fetcher"),
	}
}

// Fetch returns the raw HTML of pageURL. Transient failures (429, 5xx,
// connection errors) are retried up to MaxRetries times.
func (f *StaticFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.RequestTimeout)
	defer cancel()

	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(f.cfg.UserAgent),
		colly.MaxBodySize(f.cfg.MaxBodySize),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.DetectCharset(),
	)
	c.SetRequestTimeout(f.cfg.RequestTimeout)
	c.SetRedirectHandler(RedirectPolicy(f.cfg.MaxRedirects))

	var (
		body     []byte
		fetchErr error
	)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml")
		r.Headers.Set("Accept-Language", f.cfg.AcceptLanguage)
	})

	c.OnResponse(func(r *colly.Response) {
		if isChallenge(r) {
			fetchErr = ErrChallenge
			return
		}
		body = r.Body
		fetchErr = nil
	})

	c.OnError(func(r *colly.Response, err error) {
		fetchErr = responseError(r, err)
		f.retry(ctx, r, err)
	})

	visitErr := c.Visit(pageURL)
	if fetchErr != nil {
		return "", fetchErr
	}
	if len(body) == 0 {
		if visitErr != nil {
			return "", fmt.Errorf("visit: %w", visitErr)
		}
		return "", ErrEmptyBody
	}

	f.logger.Debug("Fetched page", "url", pageURL, "bytes", len(body))
	return string(body), nil
}

// retry re-issues the request for transient errors until MaxRetries is reached.
func (f *StaticFetcher) retry(ctx context.Context, r *colly.Response, visitErr error) {
	if r == nil || r.Request == nil || !isTransient(r, visitErr) {
		return
	}

	count := 0
	if v := r.Request.Ctx.GetAny(retryCountKey); v != nil {
		if n, ok := v.(int); ok {
			count = n
		}
	}
	if count >= f.cfg.MaxRetries {
		f.logger.Warn("Static fetch failed after retries",
			"url", r.Request.URL.String(),
			"status", r.StatusCode,
			"retries", count,
		)
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(f.cfg.RetryDelay):
	}

	r.Request.Ctx.Put(retryCountKey, count+1)
	if retryErr := r.Request.Retry(); retryErr != nil {
		f.logger.Debug("Retry failed", "url", r.Request.URL.String(), "error", retryErr)
	}
}

func responseError(r *colly.Response, err error) error {
	if r != nil && r.StatusCode >= http.StatusBadRequest {
		return &StatusError{Code: r.StatusCode}
	}
	return fmt.Errorf("fetch: %w", err)
}

// isTransient returns true if the error looks retryable.
func isTransient(r *colly.Response, err error) bool {
	if r.StatusCode == http.StatusTooManyRequests || r.StatusCode >= http.StatusInternalServerError {
		return true
	}
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection refused", "connection reset", "temporary failure",
		"eof", "broken pipe", "i/o timeout", "connection timed out",
	} {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}

// isChallenge detects Cloudflare and captcha interstitials served with a 200.
func isChallenge(r *colly.Response) bool {
	hasCfRay := r.Headers != nil && r.Headers.Get("Cf-Ray") != ""
	hasCfMitigated := r.Headers != nil && strings.EqualFold(r.Headers.Get("Cf-Mitigated"), "challenge")
	if hasCfRay && hasCfMitigated {
		return true
	}

	bodyText := strings.ToLower(string(r.Body))
	return (hasCfRay && strings.Contains(bodyText, "just a moment")) ||
		strings.Contains(bodyText, "/errors/validatecaptcha") ||
		strings.Contains(bodyText, "enter the characters you see below")
}
