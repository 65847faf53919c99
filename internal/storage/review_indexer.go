package storage

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/frontier"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
	"github.com/jonesrussell/north-cloud/reviews/internal/review"
)

// reviewIDNamespace scopes the name-based UUIDs of review documents.
var reviewIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("reviews.north-cloud"))

// ReviewDocument is one review as stored in Elasticsearch.
type ReviewDocument struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	ProductURL  string    `json:"product_url"`
	Marketplace string    `json:"marketplace"`
	Content     string    `json:"content"`
	Rating      *float64  `json:"rating"`
	HasRating   bool      `json:"has_rating"`
	Title       string    `json:"title,omitempty"`
	Author      string    `json:"author,omitempty"`
	ReviewDate  string    `json:"review_date,omitempty"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// ReviewIndexer writes review records to an Elasticsearch index.
type ReviewIndexer struct {
	store  DocumentStore
	index  string
	logger logger.Interface
	now    func() time.Time

	ensureOnce sync.Once
	ensureErr  error
}

// NewReviewIndexer creates an indexer writing to indexName.
func NewReviewIndexer(store DocumentStore, indexName string, log logger.Interface) *ReviewIndexer {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &ReviewIndexer{
		store:  store,
		index:  sanitizeIndexName(indexName),
		logger: log.WithComponent("review_indexer"),
		now:    time.Now,
	}
}

// Name identifies the sink in run summaries.
func (r *ReviewIndexer) Name() string {
	return "elasticsearch"
}

// Index returns the sanitized index name.
func (r *ReviewIndexer) Index() string {
	return r.index
}

// EnsureIndex creates the review index with its mapping if needed. Only the
// first call reaches Elasticsearch.
func (r *ReviewIndexer) EnsureIndex(ctx context.Context) error {
	r.ensureOnce.Do(func() {
		r.ensureErr = r.store.EnsureIndex(ctx, r.index, ReviewMapping())
		if r.ensureErr == nil {
			r.logger.Info("Review index ready", "index", r.index)
		}
	})
	return r.ensureErr
}

// Write indexes every record of product. Document ids derive from the
// normalized product URL and the record's dedup key, so re-running a product
// overwrites its documents instead of duplicating them. destination is
// ignored; the indexer always writes to its own index.
func (r *ReviewIndexer) Write(
	ctx context.Context,
	_ string,
	product domain.Product,
	records []domain.ReviewRecord,
) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	productID, err := frontier.URLHash(product.URL)
	if err != nil {
		productID = uuid.NewSHA1(reviewIDNamespace, []byte(product.URL)).String()
	}

	extractedAt := r.now().UTC()
	for i, rec := range records {
		doc := ReviewDocument{
			ID:          ReviewID(productID, rec.Content),
			ProductID:   productID,
			ProductName: product.Name,
			ProductURL:  product.URL,
			Marketplace: rec.Marketplace.String(),
			Content:     rec.Content,
			Rating:      rec.Rating,
			HasRating:   rec.HasRating(),
			Title:       rec.Title,
			Author:      rec.Author,
			ReviewDate:  rec.Date,
			ExtractedAt: extractedAt,
		}
		if indexErr := r.store.IndexDocument(ctx, r.index, doc.ID, doc); indexErr != nil {
			return fmt.Errorf("index review %d of %q: %w", i, product.Name, indexErr)
		}
	}

	r.logger.Debug("Indexed reviews", "index", r.index, "product", product.Name, "count", len(records))
	return nil
}

// ReviewID returns the document id of a review of productID.
func ReviewID(productID, content string) string {
	key := productID + "|" + review.DedupKey(content, 0)
	return uuid.NewSHA1(reviewIDNamespace, []byte(key)).String()
}

var (
	// invalidIndexNameChars matches all characters that are invalid in Elasticsearch index names.
	// Invalid characters: space, ", *, ,, /, <, >, ?, \, |
	invalidIndexNameChars = regexp.MustCompile(`[\s"*,/<>?\\|]`)
	// consecutiveUnderscores matches two or more consecutive underscores.
	consecutiveUnderscores = regexp.MustCompile(`_{2,}`)
)

// sanitizeIndexName lowercases name, replaces invalid characters, dots and
// dashes with underscores, collapses repeats and trims the ends.
func sanitizeIndexName(name string) string {
	normalized := strings.ToLower(name)
	normalized = invalidIndexNameChars.ReplaceAllString(normalized, "_")
	normalized = strings.ReplaceAll(normalized, ".", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = consecutiveUnderscores.ReplaceAllString(normalized, "_")
	normalized = strings.Trim(normalized, "_")

	if normalized == "" {
		return "reviews"
	}
	return normalized
}
