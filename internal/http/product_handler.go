package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/application"
)

type catalogService interface {
	CreateProduct(ctx context.Context, params application.CreateProductParams) (application.Product, error)
	UpdateProduct(ctx context.Context, params application.UpdateProductParams) (application.Product, error)
	DeleteProduct(ctx context.Context, principal application.Principal, productID string) error
	GetProduct(ctx context.Context, principal application.Principal, productID string) (application.Product, error)
	ListProducts(ctx context.Context, params application.ListProductsParams) ([]application.Product, error)
}

type ProductHandler struct {
	service   catalogService
	responder responder
	logger    *slog.Logger
}

func NewProductHandler(service catalogService, logger *slog.Logger) *ProductHandler {
	base := defaultLogger(logger)
	return &ProductHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ProductHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ProductHandler", operation, attrs...)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req productRequest
	if err := decodeRequest(r, &req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode product request", "error", err)
		h.responder.handleBindError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	product, err := h.service.CreateProduct(r.Context(), application.CreateProductParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "product creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("product_id", product.ID).InfoContext(r.Context(), "product created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, productResponse{Product: toProductDTO(product, principal.IsAdmin)})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	productID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(productID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing product id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req productRequest
	if err := decodeRequest(r, &req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "product_id", productID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode product update", "error", err)
		h.responder.handleBindError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "product_id", productID)

	product, err := h.service.UpdateProduct(r.Context(), application.UpdateProductParams{
		Principal: principal,
		ProductID: productID,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "product update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "product updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, productResponse{Product: toProductDTO(product, principal.IsAdmin)})
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	productID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(productID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing product id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "product_id", productID)

	if err := h.service.DeleteProduct(r.Context(), principal, productID); err != nil {
		logger.ErrorContext(r.Context(), "product delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "product deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	productID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(productID) == "" {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing product id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Get", "product_id", productID)

	product, err := h.service.GetProduct(r.Context(), principal, productID)
	if err != nil {
		logger.ErrorContext(r.Context(), "product fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, productResponse{Product: toProductDTO(product, principal.IsAdmin)})
}

// List serves the public catalog. Query parameters: category filters by
// category, q searches title, author and description.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	query := r.URL.Query()
	logger := h.log(r.Context(), "List")

	products, err := h.service.ListProducts(r.Context(), application.ListProductsParams{
		Principal: principal,
		Category:  strings.TrimSpace(query.Get("category")),
		Query:     strings.TrimSpace(query.Get("q")),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "product list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(products)).InfoContext(r.Context(), "products listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listProductsResponse{Products: toProductDTOs(products, principal.IsAdmin)})
}

type productRequest struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" validate:"gt=0"`
	Category    string `json:"category"`
	CoverURL    string `json:"cover_url" validate:"omitempty,url"`
	FileKey     string `json:"file_key" validate:"required"`
	Published   bool   `json:"published"`
}

func (r productRequest) toInput() application.ProductInput {
	return application.ProductInput{
		Title:       r.Title,
		Author:      r.Author,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		Category:    r.Category,
		CoverURL:    r.CoverURL,
		FileKey:     r.FileKey,
		Published:   r.Published,
	}
}

type productResponse struct {
	Product productDTO `json:"product"`
}

type listProductsResponse struct {
	Products []productDTO `json:"products"`
}

type productDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	Category    string `json:"category,omitempty"`
	CoverURL    string `json:"cover_url,omitempty"`
	FileKey     string `json:"file_key,omitempty"`
	Published   bool   `json:"published"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// toProductDTO hides the raw storage key from customers. Downloads go
// through signed links issued per paid order.
func toProductDTO(product application.Product, admin bool) productDTO {
	dto := productDTO{
		ID:          product.ID,
		Title:       product.Title,
		Author:      product.Author,
		Description: product.Description,
		PriceCents:  product.PriceCents,
		Category:    product.Category,
		CoverURL:    product.CoverURL,
		Published:   product.Published,
		CreatedAt:   formatTimestamp(product.CreatedAt),
		UpdatedAt:   formatTimestamp(product.UpdatedAt),
	}
	if admin {
		dto.FileKey = product.FileKey
	}
	return dto
}

func toProductDTOs(products []application.Product, admin bool) []productDTO {
	if len(products) == 0 {
		return nil
	}
	out := make([]productDTO, 0, len(products))
	for _, product := range products {
		out = append(out, toProductDTO(product, admin))
	}
	return out
}
