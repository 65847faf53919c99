package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
	"github.com/jonesrussell/north-cloud/reviews/internal/marketplace"
	"github.com/jonesrussell/north-cloud/reviews/internal/review"
)

// ErrProductNotFound is returned when a product has never been written.
var ErrProductNotFound = errors.New("product not found")

// ReviewRepository handles database operations for products and their reviews.
type ReviewRepository struct {
	db     *sqlx.DB
	logger logger.Interface
	now    func() time.Time
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *sqlx.DB, log logger.Interface) *ReviewRepository {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &ReviewRepository{
		db:     db,
		logger: log.WithComponent("review_repository"),
		now:    time.Now,
	}
}

// Name identifies the sink in run summaries.
func (r *ReviewRepository) Name() string {
	return "postgres"
}

// Write upserts the product and its reviews in one transaction. Review ids
// derive from the product and the review's dedup key, so re-running a product
// refreshes its rows. destination is ignored.
func (r *ReviewRepository) Write(
	ctx context.Context,
	_ string,
	product domain.Product,
	records []domain.ReviewRecord,
) error {
	urlHash, productID := productKey(product.URL)
	extractedAt := r.now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin write transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err = upsertProduct(ctx, tx, productID, urlHash, product, productMarketplace(product, records),
		len(records), extractedAt); err != nil {
		return err
	}

	for _, rec := range records {
		if err = upsertReview(ctx, tx, productID, rec, extractedAt); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit write transaction: %w", err)
	}

	r.logger.Debug("Stored reviews", "product", product.Name, "count", len(records))
	return nil
}

func upsertProduct(
	ctx context.Context,
	tx *sqlx.Tx,
	id uuid.UUID,
	urlHash string,
	product domain.Product,
	market domain.Marketplace,
	reviewCount int,
	extractedAt time.Time,
) error {
	query := `
		INSERT INTO products (id, url_hash, name, url, marketplace, review_count, last_extracted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (url_hash) DO UPDATE SET
			name = EXCLUDED.name,
			url = EXCLUDED.url,
			marketplace = EXCLUDED.marketplace,
			review_count = EXCLUDED.review_count,
			last_extracted_at = EXCLUDED.last_extracted_at,
			updated_at = NOW()
	`

	if _, err := tx.ExecContext(ctx, query,
		id, urlHash, product.Name, product.URL, market.String(), reviewCount, extractedAt,
	); err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}

func upsertReview(
	ctx context.Context,
	tx *sqlx.Tx,
	productID uuid.UUID,
	rec domain.ReviewRecord,
	extractedAt time.Time,
) error {
	query := `
		INSERT INTO reviews (id, product_id, marketplace, content, rating, title, author, review_date, extracted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			rating = EXCLUDED.rating,
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			review_date = EXCLUDED.review_date,
			extracted_at = EXCLUDED.extracted_at
	`

	if _, err := tx.ExecContext(ctx, query,
		ReviewID(productID, rec.Content),
		productID,
		rec.Marketplace.String(),
		rec.Content,
		nullableRating(rec.Rating),
		rec.Title,
		rec.Author,
		rec.Date,
		extractedAt,
	); err != nil {
		return fmt.Errorf("failed to upsert review: %w", err)
	}
	return nil
}

// UpdateStatus records the outcome string of a product, creating the product
// row when it has not been written yet.
func (r *ReviewRepository) UpdateStatus(ctx context.Context, product domain.Product, status string) error {
	urlHash, productID := productKey(product.URL)

	query := `
		INSERT INTO products (id, url_hash, name, url, marketplace, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (url_hash) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		productID, urlHash, product.Name, product.URL, marketplace.Classify(product.URL).String(), status,
	)
	if err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}
	return nil
}

// CountReviews returns the number of stored reviews of a product.
func (r *ReviewRepository) CountReviews(ctx context.Context, productURL string) (int, error) {
	urlHash, _ := productKey(productURL)

	query := `
		SELECT COUNT(rv.id)
		FROM products p
		LEFT JOIN reviews rv ON rv.product_id = p.id
		WHERE p.url_hash = $1
		GROUP BY p.id
	`

	var count int
	if err := r.db.GetContext(ctx, &count, query, urlHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", ErrProductNotFound, productURL)
		}
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

// ReviewID returns the row id of a review of productID.
func ReviewID(productID uuid.UUID, content string) uuid.UUID {
	return uuid.NewSHA1(productID, []byte(review.DedupKey(content, 0)))
}

func productMarketplace(product domain.Product, records []domain.ReviewRecord) domain.Marketplace {
	if len(records) > 0 && records[0].Marketplace != "" {
		return records[0].Marketplace
	}
	return marketplace.Classify(product.URL)
}
