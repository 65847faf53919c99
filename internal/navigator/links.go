package navigator

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/north-cloud/reviews/internal/marketplace"
	"github.com/jonesrussell/north-cloud/reviews/internal/review"
)

// FindReviewLink returns the absolute URL of the link leading to the full
// review listing, or "" when the page has none. Links whose text matches the
// profile's see-all pattern win over plain path matches.
func FindReviewLink(doc *goquery.Document, baseURL string, profile marketplace.Profile) string {
	if doc == nil || profile.ReviewPath == nil {
		return ""
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}

	var firstPathMatch, seeAll string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		target := resolveLink(base, href)
		if target == nil || !profile.ReviewPath.MatchString(target.Path) {
			return true
		}
		if sameDocument(base, target) {
			return true
		}

		abs := target.String()
		if firstPathMatch == "" {
			firstPathMatch = abs
		}
		if profile.SeeAll != nil && profile.SeeAll.MatchString(linkText(a)) {
			seeAll = abs
			return false
		}
		return true
	})

	if seeAll != "" {
		return seeAll
	}
	return firstPathMatch
}

// IsReviewListing reports whether pageURL already points at a review listing.
func IsReviewListing(pageURL string, profile marketplace.Profile) bool {
	u, err := url.Parse(pageURL)
	if err != nil || profile.ReviewPath == nil {
		return false
	}
	return profile.ReviewPath.MatchString(u.Path)
}

func resolveLink(base *url.URL, href string) *url.URL {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return nil
	}
	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}
	target := base.ResolveReference(ref)
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil
	}
	target.Fragment = ""
	return target
}

func sameDocument(a, b *url.URL) bool {
	return a.Host == b.Host && a.Path == b.Path && a.RawQuery == b.RawQuery
}

func linkText(a *goquery.Selection) string {
	if text := review.VisibleText(a); text != "" {
		return text
	}
	for _, attr := range []string{"aria-label", "title"} {
		if v, ok := a.Attr(attr); ok && v != "" {
			return v
		}
	}
	return ""
}
