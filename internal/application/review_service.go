package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// ReviewRepository captures the persistence operations needed by the service.
type ReviewRepository interface {
	CreateReview(ctx context.Context, review Review) (Review, error)
	GetReview(ctx context.Context, id string) (Review, error)
	DeleteReview(ctx context.Context, id string) error
	ListReviewsByProduct(ctx context.Context, productID string) ([]Review, error)
}

// PurchaseChecker reports whether a user holds a paid order for a product.
type PurchaseChecker interface {
	HasPurchased(ctx context.Context, userID, productID string) (bool, error)
}

// ReviewService gates product reviews behind verified purchases.
type ReviewService struct {
	reviews     ReviewRepository
	purchases   PurchaseChecker
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewReviewService wires dependencies for review operations.
func NewReviewService(reviews ReviewRepository, purchases PurchaseChecker, idGenerator func() string, now func() time.Time) *ReviewService {
	return NewReviewServiceWithLogger(reviews, purchases, idGenerator, now, nil)
}

// NewReviewServiceWithLogger constructs a review service with a specified logger.
func NewReviewServiceWithLogger(reviews ReviewRepository, purchases PurchaseChecker, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ReviewService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReviewService{
		reviews:     reviews,
		purchases:   purchases,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *ReviewService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReviewService", operation, attrs...)
}

// AddReview validates the review and persists it when the caller has a
// verified purchase of the product. One review per user per product.
func (s *ReviewService) AddReview(ctx context.Context, params AddReviewParams) (review Review, err error) {
	if s == nil {
		err = fmt.Errorf("ReviewService is nil")
		return
	}
	if s.reviews == nil {
		err = fmt.Errorf("review repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "AddReview",
		"principal_id", params.Principal.UserID,
		"product_id", params.Input.ProductID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add review", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("review_id", review.ID).InfoContext(ctx, "review added")
	}()

	if params.Principal.UserID == "" {
		err = ErrUnauthorized
		return
	}

	input := params.Input
	input.Body = strings.TrimSpace(input.Body)

	vErr := &ValidationError{}
	if input.ProductID == "" {
		vErr.add("product_id", "product is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		vErr.add("rating", "rating must be between 1 and 5")
	}
	if len(input.Body) > 2000 {
		vErr.add("body", "body must not exceed 2000 characters")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if s.purchases != nil {
		var purchased bool
		purchased, err = s.purchases.HasPurchased(ctx, params.Principal.UserID, input.ProductID)
		if err != nil {
			return
		}
		if !purchased {
			err = ErrUnauthorized
			return
		}
	}

	var existing []Review
	existing, err = s.reviews.ListReviewsByProduct(ctx, input.ProductID)
	if err != nil {
		return
	}
	for _, prior := range existing {
		if prior.UserID == params.Principal.UserID {
			err = ErrAlreadyExists
			return
		}
	}

	createdAt := s.now()
	review = Review{
		ID:        s.idGenerator(),
		ProductID: input.ProductID,
		UserID:    params.Principal.UserID,
		Rating:    input.Rating,
		Body:      input.Body,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	var persisted Review
	persisted, err = s.reviews.CreateReview(ctx, review)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	review = persisted
	return
}

// DeleteReview removes a review for its author or an administrator.
func (s *ReviewService) DeleteReview(ctx context.Context, principal Principal, reviewID string) error {
	if s == nil {
		return fmt.Errorf("ReviewService is nil")
	}
	if s.reviews == nil {
		return fmt.Errorf("review repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteReview",
		"principal_id", principal.UserID,
		"review_id", reviewID,
	)

	review, err := s.reviews.GetReview(ctx, reviewID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete review", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if review.UserID != principal.UserID && !principal.IsAdmin {
		logger.ErrorContext(ctx, "failed to delete review", "error", ErrUnauthorized, "error_kind", ErrorKind(ErrUnauthorized))
		return ErrUnauthorized
	}

	if err := s.reviews.DeleteReview(ctx, reviewID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete review", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "review deleted")
	return nil
}

// ListReviews returns the reviews of a product, newest first, together with
// the product's rating summary.
func (s *ReviewService) ListReviews(ctx context.Context, productID string) ([]Review, RatingSummary, error) {
	if s == nil {
		return nil, RatingSummary{}, fmt.Errorf("ReviewService is nil")
	}
	if s.reviews == nil {
		return nil, RatingSummary{ProductID: productID}, nil
	}

	reviews, err := s.reviews.ListReviewsByProduct(ctx, productID)
	if err != nil {
		return nil, RatingSummary{}, err
	}

	sorted := make([]Review, len(reviews))
	copy(sorted, reviews)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	summary := RatingSummary{ProductID: productID, Count: len(sorted)}
	if summary.Count > 0 {
		var total int
		for _, review := range sorted {
			total += review.Rating
		}
		summary.Average = float64(total) / float64(summary.Count)
	}

	return sorted, summary, nil
}
