package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/application"
)

type orderService interface {
	Checkout(ctx context.Context, params application.CheckoutParams) (application.CheckoutResult, error)
	ConfirmPayment(ctx context.Context, principal application.Principal, orderID string) (application.Order, error)
	GetOrder(ctx context.Context, principal application.Principal, orderID string) (application.Order, error)
	ListOrders(ctx context.Context, principal application.Principal) ([]application.Order, error)
	ListAllOrders(ctx context.Context, principal application.Principal) ([]application.Order, error)
	Downloads(ctx context.Context, principal application.Principal, orderID string) ([]application.DownloadLink, error)
	SalesSummary(ctx context.Context, params application.SalesSummaryParams) (application.SalesSummary, error)
}

type OrderHandler struct {
	service   orderService
	responder responder
	logger    *slog.Logger
}

func NewOrderHandler(service orderService, logger *slog.Logger) *OrderHandler {
	base := defaultLogger(logger)
	return &OrderHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *OrderHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "OrderHandler", operation, attrs...)
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req checkoutRequest
	if err := decodeRequest(r, &req); err != nil {
		h.log(r.Context(), "Checkout", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode checkout request", "error", err)
		h.responder.handleBindError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Checkout", "principal_id", principal.UserID, "item_count", len(req.ProductIDs))

	result, err := h.service.Checkout(r.Context(), application.CheckoutParams{
		Principal:  principal,
		ProductIDs: req.ProductIDs,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "checkout failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("order_id", result.Order.ID, "total_cents", result.Order.TotalCents).InfoContext(r.Context(), "checkout started")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, checkoutResponse{
		Order:      toOrderDTO(result.Order),
		PaymentURL: result.PaymentURL,
	})
}

func (h *OrderHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	orderID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(orderID) == "" {
		h.log(r.Context(), "ConfirmPayment", "error_kind", "bad_request").ErrorContext(r.Context(), "missing order id for confirmation")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "ConfirmPayment", "principal_id", principal.UserID, "order_id", orderID)

	order, err := h.service.ConfirmPayment(r.Context(), principal, orderID)
	if err != nil {
		logger.ErrorContext(r.Context(), "payment confirmation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("status", string(order.Status)).InfoContext(r.Context(), "payment confirmed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, orderResponse{Order: toOrderDTO(order)})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	orderID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(orderID) == "" {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing order id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Get", "principal_id", principal.UserID, "order_id", orderID)

	order, err := h.service.GetOrder(r.Context(), principal, orderID)
	if err != nil {
		logger.ErrorContext(r.Context(), "order fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, orderResponse{Order: toOrderDTO(order)})
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	// ?all=true asks for the store wide listing instead of the caller's own orders.
	allOrders := r.URL.Query().Get("all") == "true"
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID, "all", allOrders)

	var (
		orders []application.Order
		err    error
	)
	if allOrders {
		orders, err = h.service.ListAllOrders(r.Context(), principal)
	} else {
		orders, err = h.service.ListOrders(r.Context(), principal)
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "order list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(orders)).InfoContext(r.Context(), "orders listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listOrdersResponse{Orders: toOrderDTOs(orders)})
}

func (h *OrderHandler) Downloads(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	orderID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(orderID) == "" {
		h.log(r.Context(), "Downloads", "error_kind", "bad_request").ErrorContext(r.Context(), "missing order id for downloads")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Downloads", "principal_id", principal.UserID, "order_id", orderID)

	links, err := h.service.Downloads(r.Context(), principal, orderID)
	if err != nil {
		logger.ErrorContext(r.Context(), "download links failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("link_count", len(links)).InfoContext(r.Context(), "download links issued")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, downloadsResponse{Downloads: toDownloadDTOs(links)})
}

// SalesSummary renders the admin revenue report. Query parameters: from and
// to (YYYY-MM-DD, both inclusive) bound the report range.
func (h *OrderHandler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	query := r.URL.Query()
	from, err := parseDateParam(query.Get("from"), "from")
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	to, err := parseDateParam(query.Get("to"), "to")
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if from == nil || to == nil {
		h.responder.handleServiceError(r.Context(), w, &application.ValidationError{FieldErrors: map[string]string{
			"from": "is required",
			"to":   "is required",
		}})
		return
	}

	logger := h.log(r.Context(), "SalesSummary", "principal_id", principal.UserID)

	summary, err := h.service.SalesSummary(r.Context(), application.SalesSummaryParams{
		Principal: principal,
		From:      *from,
		To:        *to,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "sales summary failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("order_count", summary.OrderCount, "total_cents", summary.TotalCents).InfoContext(r.Context(), "sales summary generated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSalesSummaryDTO(summary))
}

type checkoutRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,dive,required"`
}

type checkoutResponse struct {
	Order      orderDTO `json:"order"`
	PaymentURL string   `json:"payment_url"`
}

type orderResponse struct {
	Order orderDTO `json:"order"`
}

type listOrdersResponse struct {
	Orders []orderDTO `json:"orders"`
}

type orderItemDTO struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	UnitCents int64  `json:"unit_cents"`
}

type orderDTO struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Status     string         `json:"status"`
	Items      []orderItemDTO `json:"items"`
	TotalCents int64          `json:"total_cents"`
	PaidAt     string         `json:"paid_at,omitempty"`
	CreatedAt  string         `json:"created_at"`
	UpdatedAt  string         `json:"updated_at"`
}

func toOrderDTO(order application.Order) orderDTO {
	items := make([]orderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemDTO{
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitCents: item.UnitCents,
		})
	}

	dto := orderDTO{
		ID:         order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		Items:      items,
		TotalCents: order.TotalCents,
		CreatedAt:  formatTimestamp(order.CreatedAt),
		UpdatedAt:  formatTimestamp(order.UpdatedAt),
	}
	if order.PaidAt != nil {
		dto.PaidAt = formatTimestamp(*order.PaidAt)
	}
	return dto
}

func toOrderDTOs(orders []application.Order) []orderDTO {
	if len(orders) == 0 {
		return nil
	}
	out := make([]orderDTO, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderDTO(order))
	}
	return out
}

type downloadDTO struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}

type downloadsResponse struct {
	Downloads []downloadDTO `json:"downloads"`
}

func toDownloadDTOs(links []application.DownloadLink) []downloadDTO {
	if len(links) == 0 {
		return nil
	}
	out := make([]downloadDTO, 0, len(links))
	for _, link := range links {
		out = append(out, downloadDTO{
			ProductID: link.ProductID,
			Title:     link.Title,
			URL:       link.URL,
			ExpiresAt: formatTimestamp(link.ExpiresAt),
		})
	}
	return out
}

type dailySalesDTO struct {
	Date       string `json:"date"`
	OrderCount int    `json:"order_count"`
	TotalCents int64  `json:"total_cents"`
}

type productSalesDTO struct {
	ProductID  string `json:"product_id"`
	Title      string `json:"title"`
	UnitsSold  int    `json:"units_sold"`
	TotalCents int64  `json:"total_cents"`
}

type salesSummaryDTO struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	OrderCount int               `json:"order_count"`
	TotalCents int64             `json:"total_cents"`
	Days       []dailySalesDTO   `json:"days"`
	Products   []productSalesDTO `json:"products"`
}

func toSalesSummaryDTO(summary application.SalesSummary) salesSummaryDTO {
	days := make([]dailySalesDTO, 0, len(summary.Days))
	for _, day := range summary.Days {
		days = append(days, dailySalesDTO{
			Date:       formatDate(day.Date),
			OrderCount: day.OrderCount,
			TotalCents: day.TotalCents,
		})
	}
	products := make([]productSalesDTO, 0, len(summary.Products))
	for _, product := range summary.Products {
		products = append(products, productSalesDTO{
			ProductID:  product.ProductID,
			Title:      product.Title,
			UnitsSold:  product.UnitsSold,
			TotalCents: product.TotalCents,
		})
	}

	return salesSummaryDTO{
		From:       formatDate(summary.From),
		To:         formatDate(summary.To),
		OrderCount: summary.OrderCount,
		TotalCents: summary.TotalCents,
		Days:       days,
		Products:   products,
	}
}
