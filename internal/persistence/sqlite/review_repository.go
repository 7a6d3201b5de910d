package sqlite

import (
	"context"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/persistence"
)

// ReviewRepository implements persistence.ReviewRepository on SQLite.
type ReviewRepository struct {
	store *Store
}

// NewReviewRepository creates a review repository backed by the store.
func NewReviewRepository(store *Store) *ReviewRepository {
	return &ReviewRepository{store: store}
}

// CreateReview inserts a review. The product/user pair is unique.
func (r *ReviewRepository) CreateReview(ctx context.Context, review persistence.Review) error {
	if review.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO reviews (id, product_id, user_id, rating, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		review.ID,
		review.ProductID,
		review.UserID,
		review.Rating,
		review.Body,
		timeText(review.CreatedAt),
		timeText(review.UpdatedAt),
	)
	return mapError(err)
}

// GetReview retrieves one review by identifier.
func (r *ReviewRepository) GetReview(ctx context.Context, id string) (persistence.Review, error) {
	if id == "" {
		return persistence.Review{}, persistence.ErrNotFound
	}

	row := r.store.db.QueryRowContext(ctx, reviewSelect+` WHERE id = ?`, id)
	return scanReview(row)
}

// ListReviewsByProduct returns a product's reviews, newest first.
func (r *ReviewRepository) ListReviewsByProduct(ctx context.Context, productID string) ([]persistence.Review, error) {
	rows, err := r.store.db.QueryContext(ctx,
		reviewSelect+` WHERE product_id = ? ORDER BY created_at DESC, id DESC`, productID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var reviews []persistence.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// DeleteReview removes a review by identifier.
func (r *ReviewRepository) DeleteReview(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.store.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

const reviewSelect = `
	SELECT id, product_id, user_id, rating, body, created_at, updated_at
	FROM reviews`

func scanReview(row rowScanner) (persistence.Review, error) {
	var (
		review    persistence.Review
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&review.ID, &review.ProductID, &review.UserID,
		&review.Rating, &review.Body, &createdAt, &updatedAt,
	)
	if err != nil {
		return persistence.Review{}, mapError(err)
	}

	if review.CreatedAt, err = parseTimeText(createdAt); err != nil {
		return persistence.Review{}, err
	}
	if review.UpdatedAt, err = parseTimeText(updatedAt); err != nil {
		return persistence.Review{}, err
	}
	return review, nil
}
