package fetcher

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrTooManyRedirects is returned when the redirect hop limit is exceeded.
	ErrTooManyRedirects = errors.New("too many redirects")
	// ErrLoginRedirect is returned when the site redirects a product page to a
	// sign-in or account verification page.
	ErrLoginRedirect = errors.New("redirected to login")
)

// loginPaths are path fragments of marketplace sign-in and verification pages.
var loginPaths = []string{
	"/ap/signin",
	"/account-verification",
	"/jms/",
	"/login",
}

// RedirectPolicy returns a redirect handler that follows redirects until the
// number of hops reaches maxHops and refuses redirects to login pages. When
// maxHops is <= 0, redirects are not limited beyond the default http client
// behavior (10).
func RedirectPolicy(maxHops int) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if maxHops > 0 && len(via) >= maxHops {
			return ErrTooManyRedirects
		}
		if isLoginPath(req.URL.Path) {
			return ErrLoginRedirect
		}
		return nil
	}
}

func isLoginPath(p string) bool {
	p = strings.ToLower(p)
	for _, fragment := range loginPaths {
		if strings.Contains(p, fragment) {
			return true
		}
	}
	return false
}
