package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/application"
)

type reviewService interface {
	AddReview(ctx context.Context, params application.AddReviewParams) (application.Review, error)
	DeleteReview(ctx context.Context, principal application.Principal, reviewID string) error
	ListReviews(ctx context.Context, productID string) ([]application.Review, application.RatingSummary, error)
}

type ReviewHandler struct {
	service   reviewService
	responder responder
	logger    *slog.Logger
}

func NewReviewHandler(service reviewService, logger *slog.Logger) *ReviewHandler {
	base := defaultLogger(logger)
	return &ReviewHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReviewHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReviewHandler", operation, attrs...)
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	productID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(productID) == "" {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "missing product id for review")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok || strings.TrimSpace(principal.UserID) == "" {
		h.log(r.Context(), "Create", "error_kind", "unauthorized").ErrorContext(r.Context(), "missing authenticated principal for review")
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req reviewRequest
	if err := decodeRequest(r, &req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "product_id", productID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode review request", "error", err)
		h.responder.handleBindError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "product_id", productID)

	review, err := h.service.AddReview(r.Context(), application.AddReviewParams{
		Principal: principal,
		Input: application.ReviewInput{
			ProductID: productID,
			Rating:    req.Rating,
			Body:      req.Body,
		},
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "review creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("review_id", review.ID).InfoContext(r.Context(), "review created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, reviewResponse{Review: toReviewDTO(review)})
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reviewID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(reviewID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing review id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "review_id", reviewID)

	if err := h.service.DeleteReview(r.Context(), principal, reviewID); err != nil {
		logger.ErrorContext(r.Context(), "review delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "review deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ReviewHandler) ListForProduct(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	productID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(productID) == "" {
		h.log(r.Context(), "ListForProduct", "error_kind", "bad_request").ErrorContext(r.Context(), "missing product id for reviews")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	logger := h.log(r.Context(), "ListForProduct", "product_id", productID)

	reviews, rating, err := h.service.ListReviews(r.Context(), productID)
	if err != nil {
		logger.ErrorContext(r.Context(), "review list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(reviews)).InfoContext(r.Context(), "reviews listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listReviewsResponse{
		Reviews: toReviewDTOs(reviews),
		Rating: ratingSummaryDTO{
			ProductID: rating.ProductID,
			Count:     rating.Count,
			Average:   rating.Average,
		},
	})
}

type reviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Body   string `json:"body" validate:"max=2000"`
}

type reviewResponse struct {
	Review reviewDTO `json:"review"`
}

type ratingSummaryDTO struct {
	ProductID string  `json:"product_id"`
	Count     int     `json:"count"`
	Average   float64 `json:"average"`
}

type listReviewsResponse struct {
	Reviews []reviewDTO      `json:"reviews"`
	Rating  ratingSummaryDTO `json:"rating"`
}

type reviewDTO struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating"`
	Body      string `json:"body,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toReviewDTO(review application.Review) reviewDTO {
	return reviewDTO{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Body:      review.Body,
		CreatedAt: formatTimestamp(review.CreatedAt),
		UpdatedAt: formatTimestamp(review.UpdatedAt),
	}
}

func toReviewDTOs(reviews []application.Review) []reviewDTO {
	if len(reviews) == 0 {
		return nil
	}
	out := make([]reviewDTO, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, toReviewDTO(review))
	}
	return out
}
