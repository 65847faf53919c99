package review

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/marketplace"
)

// RatingStrategy infers a rating from a widget. ok is false when the
// strategy is not confident.
type RatingStrategy struct {
	Name  string
	Infer func(widget *goquery.Selection, profile marketplace.Profile) (value float64, ok bool)
}

// DefaultRatingStrategies are tried in order. When none is confident the
// rating is indeterminate.
var DefaultRatingStrategies = []RatingStrategy{
	{Name: "label", Infer: ratingFromLabel},
	{Name: "scale-text", Infer: ratingFromText},
	{Name: "filled-icons", Infer: ratingFromIcons},
}

var (
	firstNumber  = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	scaleNumber  = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:de|of|out of|sobre|/)\s*5(?:[.,]0)?\b`)
	bareNumber   = regexp.MustCompile(`^\s*(\d+(?:[.,]\d+)?)\s*$`)
	iconClass    = regexp.MustCompile(`(?i)star|icon|estrella`)
	halfIconUnit = 0.5
)

// ratingWidget returns the first rating element inside card and the group
// its strategies run against. A leaf widget that is not itself an icon is
// tried first so its own label is read; a leaf is then widened to its parent
// so that sibling icons are counted together.
func ratingWidget(card *goquery.Selection, profile marketplace.Profile) []*goquery.Selection {
	var widget *goquery.Selection
	card.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if isRatingElement(s, profile.Rating) {
			widget = s
			return false
		}
		return true
	})
	if widget == nil {
		return nil
	}

	if widget.Children().Length() == 0 {
		parent := widget.Parent()
		if parent.Length() > 0 && !sameSelection(parent, card) && parent.Children().Length() > 1 {
			if isIcon(widget) {
				return []*goquery.Selection{parent}
			}
			return []*goquery.Selection{widget, parent}
		}
	}
	return []*goquery.Selection{widget}
}

func sameSelection(a, b *goquery.Selection) bool {
	return a.Length() > 0 && b.Length() > 0 && a.Get(0) == b.Get(0)
}

// InferRating runs the default rating strategies over the card's rating
// widget. It returns nil when no widget exists or no strategy is confident.
func InferRating(card *goquery.Selection, profile marketplace.Profile) *float64 {
	value, _ := inferRatingWith(DefaultRatingStrategies, card, profile)
	return value
}

func inferRatingWith(
	strategies []RatingStrategy,
	card *goquery.Selection,
	profile marketplace.Profile,
) (*float64, string) {
	widgets := ratingWidget(card, profile)
	for _, strategy := range strategies {
		for _, widget := range widgets {
			if value, ok := strategy.Infer(widget, profile); ok {
				return domain.RatingPtr(value), strategy.Name
			}
		}
	}
	return nil, ""
}

// ratingFromLabel reads aria-label or title. The widget's own label may hold
// any number; descendant labels must state the 5 point scale, since per-icon
// labels ("1 star", "2 stars") name positions rather than the score.
func ratingFromLabel(widget *goquery.Selection, _ marketplace.Profile) (float64, bool) {
	for _, attr := range []string{"aria-label", "title"} {
		if label, ok := widget.Attr(attr); ok {
			if value, found := parseFirstNumber(label); found {
				return value, true
			}
		}
	}

	var (
		value float64
		found bool
	)
	widget.Find("[aria-label], [title]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, attr := range []string{"aria-label", "title"} {
			label, _ := s.Attr(attr)
			if value, found = parseScaleNumber(label); found {
				return false
			}
		}
		return true
	})
	return value, found
}

// ratingFromText reads "N de 5" / "N of 5" / "N out of 5" or a bare number
// from the widget text.
func ratingFromText(widget *goquery.Selection, _ marketplace.Profile) (float64, bool) {
	text := VisibleText(widget)
	if value, ok := parseScaleNumber(text); ok {
		return value, true
	}
	if m := bareNumber.FindStringSubmatch(text); m != nil {
		return parseNumber(m[1])
	}
	return 0, false
}

// ratingFromIcons counts icons carrying a fill marker. Half markers count as
// half a point. Without any marker the icon set is indistinguishable and the
// strategy is not confident.
func ratingFromIcons(widget *goquery.Selection, profile marketplace.Profile) (float64, bool) {
	icons := iconsOf(widget)
	if len(icons) == 0 {
		return 0, false
	}

	var score float64
	marked := false
	for _, icon := range icons {
		switch {
		case hasHalfMarker(icon, profile):
			score += halfIconUnit
			marked = true
		case hasFillMarker(icon, profile):
			score++
			marked = true
		}
	}
	if !marked {
		return 0, false
	}
	return score, true
}

// iconsOf returns icon-like descendants of widget, excluding elements nested
// inside another icon (an svg path is part of its svg).
func iconsOf(widget *goquery.Selection) []*goquery.Selection {
	var icons []*goquery.Selection
	widget.Find("*").Each(func(_ int, s *goquery.Selection) {
		if !isIcon(s) {
			return
		}
		for _, icon := range icons {
			if icon.Get(0) == s.Get(0) || isAncestor(icon, s) {
				return
			}
		}
		icons = append(icons, s)
	})
	return icons
}

func isIcon(s *goquery.Selection) bool {
	switch goquery.NodeName(s) {
	case "svg", "i", "img":
		return true
	}
	class, _ := s.Attr("class")
	return class != "" && iconClass.MatchString(class)
}

func isAncestor(ancestor, s *goquery.Selection) bool {
	target := ancestor.Get(0)
	for p := s.Get(0).Parent; p != nil; p = p.Parent {
		if p == target {
			return true
		}
	}
	return false
}

func hasHalfMarker(icon *goquery.Selection, profile marketplace.Profile) bool {
	return anyInSubtree(icon, func(s *goquery.Selection) bool {
		return attrMatches(s, profile.HalfClass, []string{"class"})
	})
}

func hasFillMarker(icon *goquery.Selection, profile marketplace.Profile) bool {
	return anyInSubtree(icon, func(s *goquery.Selection) bool {
		if attrMatches(s, profile.FillClass, []string{"class"}) {
			return true
		}
		for _, attr := range []string{"fill", "style", "color"} {
			val, ok := s.Attr(attr)
			if !ok {
				continue
			}
			val = strings.ToLower(val)
			for _, token := range profile.FillColors {
				if strings.Contains(val, token) {
					return true
				}
			}
		}
		return false
	})
}

// anyInSubtree applies pred to s and its descendants.
func anyInSubtree(s *goquery.Selection, pred func(*goquery.Selection) bool) bool {
	if pred(s) {
		return true
	}
	found := false
	s.Find("*").EachWithBreak(func(_ int, d *goquery.Selection) bool {
		found = pred(d)
		return !found
	})
	return found
}

func parseFirstNumber(s string) (float64, bool) {
	m := firstNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	return parseNumber(m)
}

func parseScaleNumber(s string) (float64, bool) {
	m := scaleNumber.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return parseNumber(m[1])
}

func parseNumber(s string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return domain.ClampRating(value), true
}
