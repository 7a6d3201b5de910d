package sqlite

import (
	"context"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/persistence"
)

// ProductRepository implements persistence.ProductRepository on SQLite.
type ProductRepository struct {
	store *Store
}

// NewProductRepository creates a product repository backed by the store.
func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

// CreateProduct inserts a new product.
func (r *ProductRepository) CreateProduct(ctx context.Context, product persistence.Product) error {
	if product.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO products (id, title, author, description, price_cents, category,
			cover_url, file_key, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.Title,
		product.Author,
		product.Description,
		product.PriceCents,
		product.Category,
		product.CoverURL,
		product.FileKey,
		boolInt(product.Published),
		timeText(product.CreatedAt),
		timeText(product.UpdatedAt),
	)
	return mapError(err)
}

// UpdateProduct updates an existing product.
func (r *ProductRepository) UpdateProduct(ctx context.Context, product persistence.Product) error {
	if product.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.store.db.ExecContext(ctx, `
		UPDATE products
		SET title = ?, author = ?, description = ?, price_cents = ?, category = ?,
			cover_url = ?, file_key = ?, published = ?, updated_at = ?
		WHERE id = ?`,
		product.Title,
		product.Author,
		product.Description,
		product.PriceCents,
		product.Category,
		product.CoverURL,
		product.FileKey,
		boolInt(product.Published),
		timeText(product.UpdatedAt),
		product.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

// GetProduct retrieves a product by ID.
func (r *ProductRepository) GetProduct(ctx context.Context, id string) (persistence.Product, error) {
	if id == "" {
		return persistence.Product{}, persistence.ErrNotFound
	}

	row := r.store.db.QueryRowContext(ctx, productSelect+` WHERE id = ?`, id)
	return scanProduct(row)
}

// ListProducts returns every product.
func (r *ProductRepository) ListProducts(ctx context.Context) ([]persistence.Product, error) {
	rows, err := r.store.db.QueryContext(ctx, productSelect+` ORDER BY title, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var products []persistence.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// DeleteProduct removes a product by ID.
func (r *ProductRepository) DeleteProduct(ctx context.Context, id string) error {
	result, err := r.store.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

const productSelect = `
	SELECT id, title, author, description, price_cents, category,
		cover_url, file_key, published, created_at, updated_at
	FROM products`

func scanProduct(row rowScanner) (persistence.Product, error) {
	var (
		product   persistence.Product
		published int
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&product.ID, &product.Title, &product.Author, &product.Description,
		&product.PriceCents, &product.Category, &product.CoverURL, &product.FileKey,
		&published, &createdAt, &updatedAt,
	)
	if err != nil {
		return persistence.Product{}, mapError(err)
	}

	product.Published = published != 0
	if product.CreatedAt, err = parseTimeText(createdAt); err != nil {
		return persistence.Product{}, err
	}
	if product.UpdatedAt, err = parseTimeText(updatedAt); err != nil {
		return persistence.Product{}, err
	}
	return product, nil
}
