package review

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/north-cloud/reviews/internal/config/extraction"
	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/marketplace"
)

// Candidate tags per field, in preference order.
var (
	contentTags = []string{"p", "span", "div"}
	titleTags   = []string{"h2", "h3", "h4", "h5", "strong", "a", "span", "p", "div"}
	authorTags  = []string{"span", "p", "div", "a", "strong"}
	dateTags    = []string{"time", "span", "p", "div"}
)

// ExtractCard reads the five review fields from card. ok is false when the
// card is rejected: its visible text is too short or its content is empty.
// Missing optional fields are reported as warnings.
func ExtractCard(
	card *goquery.Selection,
	profile marketplace.Profile,
	opts extraction.Config,
) (domain.ReviewRecord, []ExtractionWarning, bool) {
	fullText := VisibleText(card)
	if !exceedsLength(fullText, opts.MinCardTextLength) {
		return domain.ReviewRecord{}, nil, false
	}

	var warnings []ExtractionWarning
	warn := func(field, reason string) {
		warnings = append(warnings, ExtractionWarning{Field: field, Reason: reason})
	}

	content := contentOf(card, profile)
	if content == "" {
		warn(FieldContent, "no content element, using card text")
		content = fullText
	}
	content = strings.TrimSpace(truncateRunes(content, opts.MaxContentLength))
	if content == "" {
		return domain.ReviewRecord{}, warnings, false
	}

	record := domain.ReviewRecord{
		Content:     content,
		Rating:      InferRating(card, profile),
		Title:       fieldText(card, titleTags, profile.Title, profile),
		Author:      fieldText(card, authorTags, profile.Author, profile),
		Date:        dateOf(card, profile),
		Marketplace: profile.Marketplace,
	}

	if record.Rating == nil {
		warn(FieldRating, "rating indeterminate")
	}
	if record.Title == "" {
		warn(FieldTitle, "no title element")
	}
	if record.Author == "" {
		warn(FieldAuthor, "no author element")
	}
	if record.Date == "" {
		warn(FieldDate, "no date element")
	}

	return record, warnings, true
}

// contentOf returns the text of the first paragraph-like element whose
// attributes mark it as review content. Elements that also match another
// field or the rating widget are skipped.
func contentOf(card *goquery.Selection, profile marketplace.Profile) string {
	var text string
	card.Find(strings.Join(contentTags, ", ")).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !attrMatches(s, profile.Content, fieldAttrs) {
			return true
		}
		if matchesOtherField(s, profile) {
			return true
		}
		text = VisibleText(s)
		return text == ""
	})
	return text
}

func matchesOtherField(s *goquery.Selection, profile marketplace.Profile) bool {
	return attrMatches(s, profile.Title, fieldAttrs) ||
		attrMatches(s, profile.Author, fieldAttrs) ||
		attrMatches(s, profile.Date, fieldAttrs) ||
		isRatingElement(s, profile.Rating)
}

// fieldText returns the text of the first element, by tag preference, whose
// attributes match re.
func fieldText(card *goquery.Selection, tags []string, re *regexp.Regexp, profile marketplace.Profile) string {
	for _, tag := range tags {
		var text string
		card.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if !attrMatches(s, re, fieldAttrs) || isRatingElement(s, profile.Rating) {
				return true
			}
			text = VisibleText(s)
			return text == ""
		})
		if text != "" {
			return text
		}
	}
	return ""
}

// dateOf prefers a keyword-matched element; an empty time element falls back
// to its datetime attribute, and a card without a keyword match falls back
// to its first time element.
func dateOf(card *goquery.Selection, profile marketplace.Profile) string {
	for _, tag := range dateTags {
		var text string
		card.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if !attrMatches(s, profile.Date, fieldAttrs) {
				return true
			}
			text = timeText(s)
			return text == ""
		})
		if text != "" {
			return text
		}
	}
	return timeText(card.Find("time").First())
}

func timeText(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	if text := VisibleText(s); text != "" {
		return text
	}
	if datetime, ok := s.Attr("datetime"); ok {
		return strings.TrimSpace(datetime)
	}
	return ""
}
