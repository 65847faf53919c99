package database

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/jonesrussell/north-cloud/reviews/internal/frontier"
)

// idNamespace scopes the name-based UUIDs of products and reviews.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("postgres.reviews.north-cloud"))

// execRequireRows validates that an ExecContext result affected at least one row.
// Returns err if non-nil, or notFoundErr if rowsAffected is 0.
func execRequireRows(result sql.Result, err, notFoundErr error) error {
	if err != nil {
		return err
	}
	n, affectedErr := result.RowsAffected()
	if affectedErr != nil {
		return affectedErr
	}
	if n == 0 {
		return notFoundErr
	}
	return nil
}

// productKey returns the url hash and row id of a product URL. URLs that do
// not normalize are keyed on their raw text.
func productKey(rawURL string) (urlHash string, id uuid.UUID) {
	urlHash, err := frontier.URLHash(rawURL)
	if err != nil {
		urlHash = uuid.NewSHA1(idNamespace, []byte(rawURL)).String()
	}
	return urlHash, uuid.NewSHA1(idNamespace, []byte(urlHash))
}

// nullableRating maps an absent rating to SQL NULL.
func nullableRating(rating *float64) sql.NullFloat64 {
	if rating == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *rating, Valid: true}
}
