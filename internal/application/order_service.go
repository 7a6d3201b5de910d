package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/payment"
	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/recurrence"
)

// OrderRepository captures the persistence operations needed by the service.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order Order) (Order, error)
	GetOrder(ctx context.Context, id string) (Order, error)
	UpdateOrder(ctx context.Context, order Order) (Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]Order, error)
	ListPaidOrders(ctx context.Context, from, to time.Time) ([]Order, error)
	UserHasPaidProduct(ctx context.Context, userID, productID string) (bool, error)
}

// ProductCatalog exposes the product lookups the order workflow needs.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id string) (Product, error)
}

// DownloadLinker issues time-limited access links for purchased files.
type DownloadLinker interface {
	Link(ctx context.Context, userID string, product Product, now time.Time) (DownloadLink, error)
}

// OrderService orchestrates checkout, payment confirmation, and download
// access for purchases.
type OrderService struct {
	orders      OrderRepository
	products    ProductCatalog
	gateway     payment.Gateway
	linker      DownloadLinker
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewOrderService wires dependencies for the purchase workflow.
func NewOrderService(orders OrderRepository, products ProductCatalog, gateway payment.Gateway, linker DownloadLinker, idGenerator func() string, now func() time.Time) *OrderService {
	return NewOrderServiceWithLogger(orders, products, gateway, linker, idGenerator, now, nil)
}

// NewOrderServiceWithLogger constructs an order service with a specified logger.
func NewOrderServiceWithLogger(orders OrderRepository, products ProductCatalog, gateway payment.Gateway, linker DownloadLinker, idGenerator func() string, now func() time.Time, logger *slog.Logger) *OrderService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &OrderService{
		orders:      orders,
		products:    products,
		gateway:     gateway,
		linker:      linker,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *OrderService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "OrderService", operation, attrs...)
}

// Checkout opens a pending order for the requested products and returns the
// gateway URL the customer completes payment at. Prices are snapshotted into
// the order so later catalog edits do not change what was sold.
func (s *OrderService) Checkout(ctx context.Context, params CheckoutParams) (result CheckoutResult, err error) {
	if s == nil {
		err = fmt.Errorf("OrderService is nil")
		return
	}
	if s.orders == nil || s.products == nil || s.gateway == nil {
		err = fmt.Errorf("order service dependencies not configured")
		return
	}

	logger := s.loggerWith(ctx, "Checkout",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to check out", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("order_id", result.Order.ID).InfoContext(ctx, "checkout started")
	}()

	if params.Principal.UserID == "" {
		err = ErrUnauthorized
		return
	}

	productIDs := uniqueStrings(params.ProductIDs)
	if len(productIDs) == 0 {
		vErr := &ValidationError{}
		vErr.add("product_ids", "at least one product is required")
		err = vErr
		return
	}

	items := make([]OrderItem, 0, len(productIDs))
	var total int64
	for _, productID := range productIDs {
		var product Product
		product, err = s.products.GetProduct(ctx, productID)
		if err != nil {
			err = mapRepoError(err)
			return
		}
		if !product.Published && !params.Principal.IsAdmin {
			err = ErrNotFound
			return
		}

		var alreadyOwned bool
		alreadyOwned, err = s.orders.UserHasPaidProduct(ctx, params.Principal.UserID, productID)
		if err != nil {
			return
		}
		if alreadyOwned {
			vErr := &ValidationError{}
			vErr.add("product_ids", fmt.Sprintf("product %s was already purchased", productID))
			err = vErr
			return
		}

		items = append(items, OrderItem{
			ProductID: product.ID,
			Title:     product.Title,
			UnitCents: product.PriceCents,
		})
		total += product.PriceCents
	}

	createdAt := s.now()
	order := Order{
		ID:         s.idGenerator(),
		UserID:     params.Principal.UserID,
		Status:     OrderPending,
		Items:      items,
		TotalCents: total,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}

	var intent payment.Intent
	intent, err = s.gateway.CreateIntent(ctx, payment.IntentRequest{
		OrderID:     order.ID,
		AmountCents: order.TotalCents,
		Description: fmt.Sprintf("%d e-book(s)", len(order.Items)),
	})
	if err != nil {
		return
	}
	order.IntentID = intent.IntentID

	var persisted Order
	persisted, err = s.orders.CreateOrder(ctx, order)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	result = CheckoutResult{Order: persisted, PaymentURL: intent.RedirectURL}
	return
}

// ConfirmPayment asks the gateway for the intent's outcome and settles the
// order. A verified payment matching the order total marks it paid; anything
// else marks it failed.
func (s *OrderService) ConfirmPayment(ctx context.Context, principal Principal, orderID string) (order Order, err error) {
	if s == nil {
		err = fmt.Errorf("OrderService is nil")
		return
	}
	if s.orders == nil || s.gateway == nil {
		err = fmt.Errorf("order service dependencies not configured")
		return
	}

	logger := s.loggerWith(ctx, "ConfirmPayment",
		"principal_id", principal.UserID,
		"order_id", orderID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to confirm payment", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("status", string(order.Status)).InfoContext(ctx, "payment settled")
	}()

	var existing Order
	existing, err = s.orders.GetOrder(ctx, orderID)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	if existing.UserID != principal.UserID && !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if existing.Status != OrderPending {
		err = ErrOrderNotPayable
		return
	}

	var verdict payment.VerifyResult
	verdict, err = s.gateway.VerifyIntent(ctx, existing.IntentID)
	if err != nil {
		return
	}

	settled := existing
	settled.UpdatedAt = s.now()
	if verdict.Paid && verdict.AmountCents == existing.TotalCents {
		paidAt := settled.UpdatedAt
		settled.Status = OrderPaid
		settled.PaidAt = &paidAt
	} else {
		settled.Status = OrderFailed
	}

	order, err = s.orders.UpdateOrder(ctx, settled)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	return
}

// GetOrder returns one order to its owner or an administrator.
func (s *OrderService) GetOrder(ctx context.Context, principal Principal, orderID string) (Order, error) {
	if s == nil {
		return Order{}, fmt.Errorf("OrderService is nil")
	}
	if s.orders == nil {
		return Order{}, fmt.Errorf("order repository not configured")
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, mapRepoError(err)
	}
	if order.UserID != principal.UserID && !principal.IsAdmin {
		return Order{}, ErrNotFound
	}
	return order, nil
}

// ListOrders returns the caller's own orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, principal Principal) ([]Order, error) {
	if s == nil {
		return nil, fmt.Errorf("OrderService is nil")
	}
	if s.orders == nil {
		return nil, nil
	}
	if principal.UserID == "" {
		return nil, ErrUnauthorized
	}

	orders, err := s.orders.ListOrdersByUser(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return sortOrdersNewestFirst(orders), nil
}

// ListAllOrders returns every order for administrators, newest first.
func (s *OrderService) ListAllOrders(ctx context.Context, principal Principal) ([]Order, error) {
	if s == nil {
		return nil, fmt.Errorf("OrderService is nil")
	}
	if !principal.IsAdmin {
		return nil, ErrUnauthorized
	}
	if s.orders == nil {
		return nil, nil
	}

	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return sortOrdersNewestFirst(orders), nil
}

func sortOrdersNewestFirst(orders []Order) []Order {
	sorted := make([]Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// Downloads issues access links for every item of a paid order.
func (s *OrderService) Downloads(ctx context.Context, principal Principal, orderID string) (links []DownloadLink, err error) {
	if s == nil {
		err = fmt.Errorf("OrderService is nil")
		return
	}
	if s.orders == nil || s.products == nil || s.linker == nil {
		err = fmt.Errorf("order service dependencies not configured")
		return
	}

	logger := s.loggerWith(ctx, "Downloads",
		"principal_id", principal.UserID,
		"order_id", orderID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to issue download links", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(links)).InfoContext(ctx, "download links issued")
	}()

	var order Order
	order, err = s.orders.GetOrder(ctx, orderID)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	if order.UserID != principal.UserID && !principal.IsAdmin {
		err = ErrNotFound
		return
	}
	if order.Status != OrderPaid {
		err = ErrOrderNotPayable
		return
	}

	now := s.now()
	links = make([]DownloadLink, 0, len(order.Items))
	for _, item := range order.Items {
		var product Product
		product, err = s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			err = mapRepoError(err)
			return
		}
		var link DownloadLink
		link, err = s.linker.Link(ctx, order.UserID, product, now)
		if err != nil {
			return
		}
		links = append(links, link)
	}
	return
}

// HasPurchased reports whether the user holds a paid order containing the
// product. Review gating relies on it.
func (s *OrderService) HasPurchased(ctx context.Context, userID, productID string) (bool, error) {
	if s == nil || s.orders == nil {
		return false, nil
	}
	return s.orders.UserHasPaidProduct(ctx, userID, productID)
}

// SalesSummary builds the admin revenue report over an inclusive date range.
func (s *OrderService) SalesSummary(ctx context.Context, params SalesSummaryParams) (summary SalesSummary, err error) {
	if s == nil {
		err = fmt.Errorf("OrderService is nil")
		return
	}
	if s.orders == nil {
		err = fmt.Errorf("order repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "SalesSummary",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to build sales summary", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("order_count", summary.OrderCount).InfoContext(ctx, "sales summary built")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	from := recurrence.NormalizeDate(params.From)
	to := recurrence.NormalizeDate(params.To)
	if from.IsZero() || to.IsZero() || to.Before(from) {
		vErr := &ValidationError{}
		vErr.add("range", "from and to must form a valid date range")
		err = vErr
		return
	}

	var orders []Order
	orders, err = s.orders.ListPaidOrders(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return
	}

	summary = SalesSummary{From: from, To: to}
	byDay := make(map[time.Time]*DailySales)
	byProduct := make(map[string]*ProductSales)

	for _, order := range orders {
		if order.PaidAt == nil {
			continue
		}
		summary.OrderCount++
		summary.TotalCents += order.TotalCents

		day := recurrence.NormalizeDate(*order.PaidAt)
		daily, ok := byDay[day]
		if !ok {
			daily = &DailySales{Date: day}
			byDay[day] = daily
		}
		daily.OrderCount++
		daily.TotalCents += order.TotalCents

		for _, item := range order.Items {
			sales, ok := byProduct[item.ProductID]
			if !ok {
				sales = &ProductSales{ProductID: item.ProductID, Title: item.Title}
				byProduct[item.ProductID] = sales
			}
			sales.UnitsSold++
			sales.TotalCents += item.UnitCents
		}
	}

	for _, daily := range byDay {
		summary.Days = append(summary.Days, *daily)
	}
	sort.Slice(summary.Days, func(i, j int) bool {
		return summary.Days[i].Date.Before(summary.Days[j].Date)
	})

	for _, sales := range byProduct {
		summary.Products = append(summary.Products, *sales)
	}
	sort.Slice(summary.Products, func(i, j int) bool {
		if summary.Products[i].TotalCents == summary.Products[j].TotalCents {
			return summary.Products[i].ProductID < summary.Products[j].ProductID
		}
		return summary.Products[i].TotalCents > summary.Products[j].TotalCents
	})

	return
}
