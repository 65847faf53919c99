// Package review locates review cards in rendered product pages and extracts
// normalized review records from them.
package review

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/north-cloud/reviews/internal/config/extraction"
	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
	"github.com/jonesrussell/north-cloud/reviews/internal/marketplace"
)

// Extractor turns a rendered document into deduplicated review records.
type Extractor struct {
	logger     logger.Interface
	opts       extraction.Config
	strategies []CardStrategy
}

// NewExtractor creates an Extractor. Unset thresholds in opts take their defaults.
func NewExtractor(log logger.Interface, opts extraction.Config) *Extractor {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Extractor{
		logger:     log.WithComponent("review_extractor"),
		opts:       opts.WithDefaults(),
		strategies: DefaultCardStrategies,
	}
}

// WithStrategies returns a copy of e using the given card strategies.
func (e *Extractor) WithStrategies(strategies ...CardStrategy) *Extractor {
	clone := *e
	clone.strategies = strategies
	return &clone
}

// ExtractHTML parses rawHTML and extracts its reviews.
func (e *Extractor) ExtractHTML(rawHTML string, profile marketplace.Profile) ([]domain.ReviewRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}
	return e.Extract(doc, profile), nil
}

// Extract locates cards in doc, reads each one and drops duplicates.
func (e *Extractor) Extract(doc *goquery.Document, profile marketplace.Profile) []domain.ReviewRecord {
	cards, strategy := locateWith(e.strategies, doc, profile, e.opts)
	if len(cards) == 0 {
		e.logger.Debug("No review cards found", "marketplace", profile.Marketplace.String())
		return []domain.ReviewRecord{}
	}

	e.logger.Debug("Located review cards",
		"strategy", strategy,
		"cards", len(cards),
		"marketplace", profile.Marketplace.String(),
	)

	records := make([]domain.ReviewRecord, 0, len(cards))
	for i, card := range cards {
		record, warnings, ok := ExtractCard(card, profile, e.opts)
		for _, w := range warnings {
			e.logger.Debug("Extraction warning", "card", i, "field", w.Field, "reason", w.Reason)
		}
		if !ok {
			e.logger.Debug("Card rejected", "card", i)
			continue
		}
		records = append(records, record)
	}

	unique := Dedupe(records, e.opts.DedupPrefixLength)
	e.logger.Debug("Extracted reviews",
		"records", len(records),
		"unique", len(unique),
	)
	return unique
}
