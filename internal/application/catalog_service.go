package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"
)

// ProductRepository captures the persistence operations needed by the service.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product Product) (Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	UpdateProduct(ctx context.Context, product Product) (Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context) ([]Product, error)
}

// CatalogService orchestrates validation, authorization, and persistence for
// the e-book catalog.
type CatalogService struct {
	products    ProductRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCatalogService constructs a catalog service with the provided dependencies.
func NewCatalogService(products ProductRepository, idGenerator func() string, now func() time.Time) *CatalogService {
	return NewCatalogServiceWithLogger(products, idGenerator, now, nil)
}

// NewCatalogServiceWithLogger constructs a catalog service with a specified logger.
func NewCatalogServiceWithLogger(products ProductRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CatalogService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CatalogService{products: products, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *CatalogService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CatalogService", operation, attrs...)
}

// CreateProduct validates input and persists a new e-book for administrators.
func (s *CatalogService) CreateProduct(ctx context.Context, params CreateProductParams) (product Product, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateProduct",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create product", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("product_id", product.ID).InfoContext(ctx, "product created")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	input := normalizeProductInput(params.Input)
	vErr := validateProductInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	product = Product{
		ID:          s.idGenerator(),
		Title:       input.Title,
		Author:      input.Author,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Category:    input.Category,
		CoverURL:    input.CoverURL,
		FileKey:     input.FileKey,
		Published:   input.Published,
		CreatedAt:   s.now(),
	}
	product.UpdatedAt = product.CreatedAt

	if s.products == nil {
		return
	}

	var persisted Product
	persisted, err = s.products.CreateProduct(ctx, product)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	product = persisted
	return
}

// UpdateProduct validates input and updates an existing e-book for administrators.
func (s *CatalogService) UpdateProduct(ctx context.Context, params UpdateProductParams) (product Product, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}
	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if s.products == nil {
		err = fmt.Errorf("product repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateProduct",
		"principal_id", params.Principal.UserID,
		"product_id", params.ProductID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update product", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("product_id", product.ID).InfoContext(ctx, "product updated")
	}()

	var existing Product
	existing, err = s.products.GetProduct(ctx, params.ProductID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	input := normalizeProductInput(params.Input)
	vErr := validateProductInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Title = input.Title
	updated.Author = input.Author
	updated.Description = input.Description
	updated.PriceCents = input.PriceCents
	updated.Category = input.Category
	updated.CoverURL = input.CoverURL
	updated.FileKey = input.FileKey
	updated.Published = input.Published
	updated.UpdatedAt = s.now()

	product, err = s.products.UpdateProduct(ctx, updated)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	return
}

// DeleteProduct removes an e-book from the catalog for administrators.
func (s *CatalogService) DeleteProduct(ctx context.Context, principal Principal, productID string) error {
	if s == nil {
		return fmt.Errorf("CatalogService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.products == nil {
		return fmt.Errorf("product repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteProduct",
		"principal_id", principal.UserID,
		"product_id", productID,
	)

	if err := s.products.DeleteProduct(ctx, productID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete product", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "product deleted")
	return nil
}

// GetProduct returns one e-book. Unpublished products are visible to
// administrators only.
func (s *CatalogService) GetProduct(ctx context.Context, principal Principal, productID string) (Product, error) {
	if s == nil {
		return Product{}, fmt.Errorf("CatalogService is nil")
	}
	if s.products == nil {
		return Product{}, fmt.Errorf("product repository not configured")
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return Product{}, mapRepoError(err)
	}
	if !product.Published && !principal.IsAdmin {
		return Product{}, ErrNotFound
	}
	return product, nil
}

// ListProducts enumerates the catalog. Customers only see published
// products; category and query narrow the result.
func (s *CatalogService) ListProducts(ctx context.Context, params ListProductsParams) (products []Product, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}
	if s.products == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListProducts",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list products", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(products)).InfoContext(ctx, "products listed")
	}()

	var raw []Product
	raw, err = s.products.ListProducts(ctx)
	if err != nil {
		return
	}

	category := strings.TrimSpace(strings.ToLower(params.Category))
	query := strings.TrimSpace(strings.ToLower(params.Query))

	products = make([]Product, 0, len(raw))
	for _, product := range raw {
		if !product.Published && !params.Principal.IsAdmin {
			continue
		}
		if category != "" && strings.ToLower(product.Category) != category {
			continue
		}
		if query != "" && !matchesQuery(product, query) {
			continue
		}
		products = append(products, product)
	}

	sort.Slice(products, func(i, j int) bool {
		if strings.EqualFold(products[i].Title, products[j].Title) {
			return products[i].ID < products[j].ID
		}
		return strings.ToLower(products[i].Title) < strings.ToLower(products[j].Title)
	})

	return
}

func matchesQuery(product Product, query string) bool {
	return strings.Contains(strings.ToLower(product.Title), query) ||
		strings.Contains(strings.ToLower(product.Author), query) ||
		strings.Contains(strings.ToLower(product.Description), query)
}

func normalizeProductInput(input ProductInput) ProductInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Author = strings.TrimSpace(input.Author)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	input.CoverURL = strings.TrimSpace(input.CoverURL)
	input.FileKey = strings.TrimSpace(input.FileKey)
	return input
}

func validateProductInput(input ProductInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Title == "" {
		vErr.add("title", "title is required")
	}
	if input.Author == "" {
		vErr.add("author", "author is required")
	}
	if input.PriceCents <= 0 {
		vErr.add("price_cents", "price must be positive")
	}
	if input.FileKey == "" {
		vErr.add("file_key", "file key is required")
	}
	if input.CoverURL != "" {
		if _, err := url.ParseRequestURI(input.CoverURL); err != nil {
			vErr.add("cover_url", "must be a valid URL")
		}
	}

	return vErr
}
