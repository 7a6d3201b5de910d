package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/persistence"
)

// OrderRepository implements persistence.OrderRepository on SQLite. Item
// snapshots live in order_items and are written atomically with the order.
type OrderRepository struct {
	store *Store
}

// NewOrderRepository creates an order repository backed by the store.
func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

// CreateOrder inserts an order with its item snapshots.
func (r *OrderRepository) CreateOrder(ctx context.Context, order persistence.Order) error {
	if order.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO orders (id, user_id, status, total_cents, intent_id, paid_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			order.ID,
			order.UserID,
			order.Status,
			order.TotalCents,
			order.IntentID,
			nullTimeText(order.PaidAt),
			timeText(order.CreatedAt),
			timeText(order.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}
		for _, item := range order.Items {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, product_id, title, unit_cents) VALUES (?, ?, ?, ?)`,
				order.ID, item.ProductID, item.Title, item.UnitCents,
			); err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// UpdateOrder rewrites an order's mutable payment state. Item snapshots are
// immutable once written.
func (r *OrderRepository) UpdateOrder(ctx context.Context, order persistence.Order) error {
	if order.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.store.db.ExecContext(ctx, `
		UPDATE orders
		SET status = ?, intent_id = ?, paid_at = ?, updated_at = ?
		WHERE id = ?`,
		order.Status,
		order.IntentID,
		nullTimeText(order.PaidAt),
		timeText(order.UpdatedAt),
		order.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

// GetOrder retrieves one order with its items.
func (r *OrderRepository) GetOrder(ctx context.Context, id string) (persistence.Order, error) {
	if id == "" {
		return persistence.Order{}, persistence.ErrNotFound
	}

	row := r.store.db.QueryRowContext(ctx, orderSelect+` WHERE id = ?`, id)
	order, err := scanOrder(row)
	if err != nil {
		return persistence.Order{}, err
	}
	if err := r.attachItems(ctx, []*persistence.Order{&order}); err != nil {
		return persistence.Order{}, err
	}
	return order, nil
}

// ListOrders returns every order, newest first.
func (r *OrderRepository) ListOrders(ctx context.Context) ([]persistence.Order, error) {
	return r.list(ctx, orderSelect+` ORDER BY created_at DESC, id DESC`)
}

// ListOrdersByUser returns a user's orders, newest first.
func (r *OrderRepository) ListOrdersByUser(ctx context.Context, userID string) ([]persistence.Order, error) {
	return r.list(ctx, orderSelect+` WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

// ListPaidOrders returns paid orders whose settlement falls in [from, to).
func (r *OrderRepository) ListPaidOrders(ctx context.Context, from, to time.Time) ([]persistence.Order, error) {
	return r.list(ctx,
		orderSelect+` WHERE status = 'paid' AND paid_at >= ? AND paid_at < ? ORDER BY paid_at, id`,
		timeText(from), timeText(to),
	)
}

// UserHasPaidProduct reports whether any paid order of the user contains the product.
func (r *OrderRepository) UserHasPaidProduct(ctx context.Context, userID, productID string) (bool, error) {
	var count int
	err := r.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM orders o
		JOIN order_items i ON i.order_id = o.id
		WHERE o.user_id = ? AND o.status = 'paid' AND i.product_id = ?`,
		userID, productID,
	).Scan(&count)
	if err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]persistence.Order, error) {
	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var orders []persistence.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*persistence.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := r.attachItems(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) attachItems(ctx context.Context, orders []*persistence.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[string]*persistence.Order, len(orders))
	args := make([]any, len(orders))
	for i, order := range orders {
		byID[order.ID] = order
		args[i] = order.ID
	}

	query := `SELECT order_id, product_id, title, unit_cents FROM order_items WHERE order_id IN (?` +
		repeatPlaceholder(len(orders)-1) + `) ORDER BY product_id`

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item persistence.OrderItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.Title, &item.UnitCents); err != nil {
			return mapError(err)
		}
		if order, ok := byID[orderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	return rows.Err()
}

const orderSelect = `
	SELECT id, user_id, status, total_cents, intent_id, paid_at, created_at, updated_at
	FROM orders`

func scanOrder(row rowScanner) (persistence.Order, error) {
	var (
		order     persistence.Order
		paidAt    sql.NullString
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&order.ID, &order.UserID, &order.Status, &order.TotalCents,
		&order.IntentID, &paidAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return persistence.Order{}, mapError(err)
	}

	if order.PaidAt, err = scanNullTime(paidAt); err != nil {
		return persistence.Order{}, err
	}
	if order.CreatedAt, err = parseTimeText(createdAt); err != nil {
		return persistence.Order{}, err
	}
	if order.UpdatedAt, err = parseTimeText(updatedAt); err != nil {
		return persistence.Order{}, err
	}
	return order, nil
}
