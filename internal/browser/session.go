// Package browser drives a headless Chrome through rod to render product and
// review pages.
package browser

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	browsercfg "github.com/jonesrussell/north-cloud/reviews/internal/config/browser"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
)

// clickableSelector lists elements that may act as a "load more" control.
const clickableSelector = `button, a, [role="button"], input[type="button"], input[type="submit"]`

const (
	scrollScript = `() => { window.scrollTo(0, document.body.scrollHeight); }`
	heightScript = `() => document.body ? document.body.scrollHeight : 0`
	htmlScript   = `() => document.documentElement.outerHTML`
	hrefScript   = `() => window.location.href`
)

// Session is one isolated browser with a single page. It is not safe for
// concurrent use.
type Session struct {
	cfg      browsercfg.Config
	logger   logger.Interface
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	remote   bool
}

// Open launches Chrome (or connects to cfg.RemoteURL) and opens a page with
// the configured viewport and user agent.
func Open(ctx context.Context, cfg browsercfg.Config, log logger.Interface) (*Session, error) {
	if log == nil {
		log = logger.NewNoOp()
	}
	s := &Session{
		cfg:    cfg.WithDefaults(),
		logger: log.WithComponent("browser"),
		remote: cfg.RemoteURL != "",
	}

	if err := s.connect(); err != nil {
		_ = s.cleanup()
		return nil, err
	}
	if err := s.openPage(ctx); err != nil {
		_ = s.cleanup()
		return nil, err
	}
	return s, nil
}

func (s *Session) connect() error {
	controlURL := s.cfg.RemoteURL
	if !s.remote {
		l := launcher.New().
			Headless(s.cfg.Headless).
			Set("disable-blink-features", "AutomationControlled").
			Set("window-size", fmt.Sprintf("%d,%d", s.cfg.WindowWidth, s.cfg.WindowHeight))
		if s.cfg.NoSandbox {
			l = l.NoSandbox(true)
		}
		if s.cfg.DisableDevShm {
			l = l.Set("disable-dev-shm-usage")
		}
		if s.cfg.DisableGPU {
			l = l.Set("disable-gpu")
		}
		if s.cfg.Bin != "" {
			l = l.Bin(s.cfg.Bin)
		}
		s.launcher = l

		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = u
		s.logger.Debug("Launched local chrome", "control_url", controlURL)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}
	s.browser = b
	return nil
}

func (s *Session) openPage(ctx context.Context) error {
	var (
		page *rod.Page
		err  error
	)
	if s.cfg.Stealth {
		page, err = stealth.Page(s.browser)
	} else {
		page, err = s.browser.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	s.page = page

	if err = page.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.cfg.WindowWidth,
		Height:            s.cfg.WindowHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}
	if s.cfg.UserAgent != "" {
		if err = page.Context(ctx).SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: s.cfg.UserAgent,
		}); err != nil {
			return fmt.Errorf("set user agent: %w", err)
		}
	}
	return nil
}

// Navigate loads pageURL and waits for the load event. A load event that
// never fires is logged; the page is still usable.
func (s *Session) Navigate(ctx context.Context, pageURL string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.PageTimeout)
	defer cancel()

	if err := s.page.Context(navCtx).Navigate(pageURL); err != nil {
		return fmt.Errorf("navigate %s: %w", pageURL, err)
	}
	if err := s.page.Context(navCtx).WaitLoad(); err != nil {
		s.logger.Warn("Wait for load failed", "url", pageURL, "error", err)
	}
	return nil
}

// CurrentURL returns the address of the loaded document after redirects.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	res, err := s.page.Context(ctx).Eval(hrefScript)
	if err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return res.Value.Str(), nil
}

// HTML serialises the current DOM as outer HTML.
func (s *Session) HTML(ctx context.Context) (string, error) {
	res, err := s.page.Context(ctx).Eval(htmlScript)
	if err != nil {
		return "", fmt.Errorf("get DOM: %w", err)
	}
	return res.Value.Str(), nil
}

// ScrollToBottom scrolls the window to the end of the document.
func (s *Session) ScrollToBottom(ctx context.Context) error {
	if _, err := s.page.Context(ctx).Eval(scrollScript); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	return nil
}

// ScrollHeight returns document.body.scrollHeight.
func (s *Session) ScrollHeight(ctx context.Context) (int, error) {
	res, err := s.page.Context(ctx).Eval(heightScript)
	if err != nil {
		return 0, fmt.Errorf("measure height: %w", err)
	}
	return res.Value.Int(), nil
}

// ClickMatching clicks the first visible control whose text matches pattern.
// It reports whether a control was clicked.
func (s *Session) ClickMatching(ctx context.Context, pattern *regexp.Regexp) (bool, error) {
	if pattern == nil {
		return false, nil
	}

	elements, err := s.page.Context(ctx).Elements(clickableSelector)
	if err != nil {
		return false, fmt.Errorf("list controls: %w", err)
	}

	for _, el := range elements {
		text, textErr := el.Text()
		if textErr != nil || !pattern.MatchString(strings.TrimSpace(text)) {
			continue
		}
		if visible, visErr := el.Visible(); visErr != nil || !visible {
			continue
		}
		if scrollErr := el.ScrollIntoView(); scrollErr != nil {
			s.logger.Debug("Scroll into view failed", "error", scrollErr)
		}
		if clickErr := el.Click(proto.InputMouseButtonLeft, 1); clickErr != nil {
			return false, fmt.Errorf("click %q: %w", strings.TrimSpace(text), clickErr)
		}
		s.logger.Debug("Clicked control", "text", strings.TrimSpace(text))
		return true, nil
	}
	return false, nil
}

// Close tears down the page, the browser and the launched process. It is
// safe to call more than once.
func (s *Session) Close() error {
	return s.cleanup()
}

func (s *Session) cleanup() error {
	var errs []error
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close page: %w", err))
		}
		s.page = nil
	}
	if s.browser != nil {
		// A remote browser outlives the session; only its page is ours.
		if !s.remote {
			if err := s.browser.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close browser: %w", err))
			}
		}
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
		s.launcher = nil
	}
	return errors.Join(errs...)
}
