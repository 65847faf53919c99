// Package engine orchestrates review extraction for a single product URL:
// classify, try a static fetch, fall back to the browser, then extract.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/north-cloud/reviews/internal/browser"
	browsercfg "github.com/jonesrussell/north-cloud/reviews/internal/config/browser"
	"github.com/jonesrussell/north-cloud/reviews/internal/config/extraction"
	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/fetcher"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
	"github.com/jonesrussell/north-cloud/reviews/internal/marketplace"
	"github.com/jonesrussell/north-cloud/reviews/internal/metrics"
	"github.com/jonesrussell/north-cloud/reviews/internal/navigator"
	"github.com/jonesrussell/north-cloud/reviews/internal/review"
)

// PageFetcher fetches raw HTML without a browser.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// PageNavigator renders a page in a browser and returns its final HTML.
type PageNavigator interface {
	Navigate(ctx context.Context, pageURL string, profile marketplace.Profile) (string, error)
}

// Engine extracts reviews from product pages. It holds no per-call state and
// is safe for sequential reuse.
type Engine struct {
	opts      extraction.Config
	navigator PageNavigator
	fetcher   PageFetcher
	extractor *review.Extractor
	metrics   *metrics.Metrics
	logger    logger.Interface
}

// Option configures an Engine.
type Option func(*Engine)

// WithFetcher enables the static pre-pass.
func WithFetcher(f PageFetcher) Option {
	return func(e *Engine) {
		e.fetcher = f
	}
}

// WithMetrics records static hits and browser runs.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithExtractor replaces the default extractor.
func WithExtractor(x *review.Extractor) Option {
	return func(e *Engine) {
		e.extractor = x
	}
}

// New creates an Engine around nav.
func New(nav PageNavigator, opts extraction.Config, log logger.Interface, options ...Option) *Engine {
	if log == nil {
		log = logger.NewNoOp()
	}
	opts = opts.WithDefaults()
	e := &Engine{
		opts:      opts,
		navigator: nav,
		extractor: review.NewExtractor(log, opts),
		logger:    log.WithComponent("engine"),
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// NewDefault wires the production stack: a colly static fetcher and a rod
// browser navigator.
func NewDefault(
	browserCfg browsercfg.Config,
	opts extraction.Config,
	log logger.Interface,
	options ...Option,
) *Engine {
	nav := navigator.New(BrowserSessionFactory(browserCfg, log), browserCfg, log)
	static := fetcher.NewStaticFetcher(fetcher.Config{
		UserAgent:      browserCfg.UserAgent,
		RequestTimeout: opts.StaticTimeout,
		MaxRedirects:   opts.StaticMaxRedirects,
	}, log)
	return New(nav, opts, log, append([]Option{WithFetcher(static)}, options...)...)
}

// BrowserSessionFactory returns a factory that launches a fresh browser per
// navigation.
func BrowserSessionFactory(cfg browsercfg.Config, log logger.Interface) navigator.SessionFactory {
	return func(ctx context.Context) (navigator.Session, error) {
		s, err := browser.Open(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Extract returns the deduplicated reviews of productURL. It never fails:
// every error, and any panic, is logged and yields an empty result.
func (e *Engine) Extract(ctx context.Context, productURL string) (records []domain.ReviewRecord) {
	start := time.Now()
	m := marketplace.Classify(productURL)
	log := e.logger.WithURL(productURL).WithMarketplace(m.String())

	defer func() {
		if r := recover(); r != nil {
			log.Error("Extraction panicked", "panic", fmt.Sprint(r))
			records = []domain.ReviewRecord{}
		}
	}()

	if !e.opts.MarketplaceEnabled(m) {
		log.Info("Marketplace disabled, skipping")
		return []domain.ReviewRecord{}
	}

	profile := marketplace.For(m)

	if profile.StaticFirst && e.opts.StaticFirst && e.fetcher != nil {
		if found := e.extractStatic(ctx, productURL, profile, log); len(found) > 0 {
			e.incStatic()
			log.Info("Extracted reviews", "count", len(found), "path", "static", "duration", time.Since(start))
			return found
		}
	}

	if e.navigator == nil {
		log.Warn("No navigator configured")
		return []domain.ReviewRecord{}
	}

	e.incBrowser()
	html, err := e.navigator.Navigate(ctx, productURL, profile)
	if err != nil {
		log.Warn("Navigation failed", "error", err)
		return []domain.ReviewRecord{}
	}

	found, err := e.extractor.ExtractHTML(html, profile)
	if err != nil {
		log.Warn("Failed to parse page", "error", err)
		return []domain.ReviewRecord{}
	}

	log.Info("Extracted reviews", "count", len(found), "path", "browser", "duration", time.Since(start))
	return found
}

// extractStatic fetches the product page over HTTP and extracts from it. When
// the page has no cards but links to a review listing, the listing is fetched
// once as well.
func (e *Engine) extractStatic(
	ctx context.Context,
	productURL string,
	profile marketplace.Profile,
	log logger.Interface,
) []domain.ReviewRecord {
	ctx, cancel := context.WithTimeout(ctx, e.opts.StaticTimeout)
	defer cancel()

	doc, err := e.fetchDocument(ctx, productURL)
	if err != nil {
		log.Debug("Static fetch failed, falling back to browser", "error", err)
		return nil
	}
	if found := e.extractor.Extract(doc, profile); len(found) > 0 {
		return found
	}

	link := navigator.FindReviewLink(doc, productURL, profile)
	if link == "" {
		return nil
	}

	listing, err := e.fetchDocument(ctx, link)
	if err != nil {
		log.Debug("Static listing fetch failed", "link", link, "error", err)
		return nil
	}
	return e.extractor.Extract(listing, profile)
}

func (e *Engine) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	html, err := e.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (e *Engine) incStatic() {
	if e.metrics != nil {
		e.metrics.IncrementStaticHits()
	}
}

func (e *Engine) incBrowser() {
	if e.metrics != nil {
		e.metrics.IncrementBrowserRuns()
	}
}
