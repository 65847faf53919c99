package review

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// ratingAttrs are the attributes inspected when deciding whether an element
// belongs to a rating widget.
var ratingAttrs = []string{"class", "style", "aria-label", "data-hook", "itemprop", "data-testid"}

// fieldAttrs are the attributes inspected when matching field keywords.
var fieldAttrs = []string{"class", "data-hook", "itemprop", "data-testid"}

// attrMatches reports whether any of the named attributes of sel matches re.
func attrMatches(sel *goquery.Selection, re *regexp.Regexp, names []string) bool {
	if re == nil {
		return false
	}
	for _, name := range names {
		if val, ok := sel.Attr(name); ok && val != "" && re.MatchString(val) {
			return true
		}
	}
	return false
}

// isRatingElement reports whether sel looks like part of a rating widget.
func isRatingElement(sel *goquery.Selection, re *regexp.Regexp) bool {
	return attrMatches(sel, re, ratingAttrs)
}
