// Package navigator drives a browser session from a product page to the
// fullest review listing it can reach and returns the rendered HTML.
package navigator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	browsercfg "github.com/jonesrussell/north-cloud/reviews/internal/config/browser"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
	"github.com/jonesrussell/north-cloud/reviews/internal/marketplace"
)

// snapshotTimeout bounds the final DOM read when the caller's context has
// already expired.
const snapshotTimeout = 5 * time.Second

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Navigator opens one session per call and closes it on every exit path.
type Navigator struct {
	factory SessionFactory
	cfg     browsercfg.Config
	logger  logger.Interface
	sleep   Sleeper
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithSleeper replaces the context-aware sleep used for settle and scroll
// delays.
func WithSleeper(s Sleeper) Option {
	return func(n *Navigator) {
		n.sleep = s
	}
}

// New creates a Navigator.
func New(factory SessionFactory, cfg browsercfg.Config, log logger.Interface, opts ...Option) *Navigator {
	if log == nil {
		log = logger.NewNoOp()
	}
	n := &Navigator{
		factory: factory,
		cfg:     cfg.WithDefaults(),
		logger:  log.WithComponent("navigator"),
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Navigate loads pageURL, follows the review listing link when the page has
// one, pumps lazy-loaded reviews and returns the final HTML. Only failing to
// open a session or to load pageURL is an error; later failures are logged
// and the best snapshot obtained so far is returned.
func (n *Navigator) Navigate(ctx context.Context, pageURL string, profile marketplace.Profile) (string, error) {
	if n.factory == nil {
		return "", &NavigationError{Op: "open session", URL: pageURL, Err: errors.New("no session factory")}
	}

	session, err := n.factory(ctx)
	if err != nil {
		return "", &NavigationError{Op: "open session", URL: pageURL, Err: err}
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			n.logger.Warn("Failed to close browser session", "url", pageURL, "error", closeErr)
		}
	}()

	log := n.logger.WithURL(pageURL).With("marketplace", profile.Marketplace.String())

	if err = session.Navigate(ctx, pageURL); err != nil {
		return "", &NavigationError{Op: "load", URL: pageURL, Err: err}
	}
	if err = n.sleep(ctx, n.cfg.SettleDelay); err != nil {
		return n.snapshot(ctx, session, "", log), nil
	}

	productHTML := n.snapshot(ctx, session, "", log)
	current := n.currentURL(ctx, session, pageURL)

	if IsReviewListing(current, profile) {
		log.Debug("Page is already a review listing")
		n.pump(ctx, session, profile, log)
		return n.snapshot(ctx, session, productHTML, log), nil
	}

	link := n.reviewLink(productHTML, current, profile)
	if link == "" {
		log.Debug("No review listing link, staying on product page")
		n.scrollOnce(ctx, session, log)
		return n.snapshot(ctx, session, productHTML, log), nil
	}

	log.Debug("Following review listing link", "link", link)
	if err = session.Navigate(ctx, link); err != nil {
		log.Warn("Failed to open review listing", "link", link, "error", err)
		return productHTML, nil
	}
	if err = n.sleep(ctx, n.cfg.SettleDelay); err != nil {
		return n.snapshot(ctx, session, productHTML, log), nil
	}

	n.pump(ctx, session, profile, log)
	return n.snapshot(ctx, session, productHTML, log), nil
}

// pump scrolls to the bottom until the page stops growing. A stall triggers
// one click on a load-more control; a stall right after such a click, or a
// stall with no control to click, ends the pump. MaxScrolls bounds it.
func (n *Navigator) pump(ctx context.Context, session Session, profile marketplace.Profile, log logger.Interface) {
	previous, err := session.ScrollHeight(ctx)
	if err != nil {
		log.Warn("Failed to measure page height", "error", err)
		return
	}

	clickedOnLastStall := false
	for i := 0; i < n.cfg.MaxScrolls; i++ {
		if err = session.ScrollToBottom(ctx); err != nil {
			log.Warn("Scroll failed", "iteration", i, "error", err)
			return
		}
		if err = n.sleep(ctx, n.cfg.ScrollDelay); err != nil {
			return
		}

		height, heightErr := session.ScrollHeight(ctx)
		if heightErr != nil {
			log.Warn("Failed to measure page height", "iteration", i, "error", heightErr)
			return
		}
		if height > previous {
			previous = height
			clickedOnLastStall = false
			continue
		}

		if clickedOnLastStall {
			log.Debug("Load more control produced nothing new", "iterations", i+1)
			return
		}

		clicked, clickErr := session.ClickMatching(ctx, profile.LoadMore)
		if clickErr != nil {
			log.Warn("Load more click failed", "iteration", i, "error", clickErr)
			return
		}
		if !clicked {
			log.Debug("Reviews exhausted", "iterations", i+1, "height", height)
			return
		}
		clickedOnLastStall = true
	}
	log.Debug("Scroll limit reached", "max_scrolls", n.cfg.MaxScrolls)
}

// scrollOnce lets lazy review widgets on a product page render.
func (n *Navigator) scrollOnce(ctx context.Context, session Session, log logger.Interface) {
	if err := session.ScrollToBottom(ctx); err != nil {
		log.Warn("Scroll failed", "error", err)
		return
	}
	_ = n.sleep(ctx, n.cfg.ScrollDelay)
}

func (n *Navigator) reviewLink(pageHTML, baseURL string, profile marketplace.Profile) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		n.logger.Warn("Failed to parse product page", "error", err)
		return ""
	}
	return FindReviewLink(doc, baseURL, profile)
}

func (n *Navigator) currentURL(ctx context.Context, session Session, fallback string) string {
	current, err := session.CurrentURL(ctx)
	if err != nil || current == "" {
		return fallback
	}
	return current
}

// snapshot reads the DOM, falling back to the previous snapshot on failure.
// An expired ctx is replaced by a short detached one so a timeout still
// yields the reviews rendered so far.
func (n *Navigator) snapshot(ctx context.Context, session Session, fallback string, log logger.Interface) string {
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), snapshotTimeout)
		defer cancel()
	}

	html, err := session.HTML(ctx)
	if err != nil {
		log.Warn("Failed to read page HTML", "error", err)
		return fallback
	}
	return html
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
