package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type productRepoStub struct {
	product   Product
	created   Product
	updated   Product
	err       error
	deleteErr error
	list      []Product
}

func (s *productRepoStub) CreateProduct(ctx context.Context, product Product) (Product, error) {
	if s.err != nil {
		return Product{}, s.err
	}
	s.created = product
	return product, nil
}

func (s *productRepoStub) GetProduct(ctx context.Context, id string) (Product, error) {
	if s.err != nil {
		return Product{}, s.err
	}
	if s.product.ID == "" {
		return Product{}, ErrNotFound
	}
	return s.product, nil
}

func (s *productRepoStub) UpdateProduct(ctx context.Context, product Product) (Product, error) {
	if s.err != nil {
		return Product{}, s.err
	}
	s.updated = product
	return product, nil
}

func (s *productRepoStub) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteErr
}

func (s *productRepoStub) ListProducts(ctx context.Context) ([]Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]Product, len(s.list))
	copy(out, s.list)
	return out, nil
}

func newCatalogService(repo *productRepoStub) *CatalogService {
	return NewCatalogService(repo, func() string { return "prod-1" }, func() time.Time {
		return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	})
}

func validProductInput() ProductInput {
	return ProductInput{
		Title:      "Sight Reading for Beginners",
		Author:     "J. Moon",
		PriceCents: 1900,
		Category:   "piano",
		FileKey:    "books/sight-reading.epub",
		Published:  true,
	}
}

func TestCatalogService_CreateProduct_RequiresAdmin(t *testing.T) {
	t.Parallel()

	svc := newCatalogService(&productRepoStub{})

	_, err := svc.CreateProduct(context.Background(), CreateProductParams{
		Principal: Principal{UserID: "user-1"},
		Input:     validProductInput(),
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCatalogService_CreateProduct_ValidatesInput(t *testing.T) {
	t.Parallel()

	svc := newCatalogService(&productRepoStub{})

	_, err := svc.CreateProduct(context.Background(), CreateProductParams{
		Principal: admin(),
		Input:     ProductInput{PriceCents: -1, CoverURL: "::not-a-url"},
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"title", "author", "price_cents", "file_key", "cover_url"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Fatalf("expected %s field error, got %v", field, vErr.FieldErrors)
		}
	}
}

func TestCatalogService_CreateProduct_Persists(t *testing.T) {
	t.Parallel()

	repo := &productRepoStub{}
	svc := newCatalogService(repo)

	product, err := svc.CreateProduct(context.Background(), CreateProductParams{
		Principal: admin(),
		Input:     validProductInput(),
	})
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}
	if product.ID != "prod-1" {
		t.Fatalf("product ID = %q", product.ID)
	}
	if repo.created.PriceCents != 1900 {
		t.Fatalf("price not persisted: %d", repo.created.PriceCents)
	}
}

func TestCatalogService_GetProduct_HidesUnpublishedFromCustomers(t *testing.T) {
	t.Parallel()

	repo := &productRepoStub{product: Product{ID: "prod-1", Title: "Draft", Published: false}}
	svc := newCatalogService(repo)

	if _, err := svc.GetProduct(context.Background(), Principal{UserID: "user-1"}, "prod-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for customer, got %v", err)
	}

	if _, err := svc.GetProduct(context.Background(), admin(), "prod-1"); err != nil {
		t.Fatalf("admin should see unpublished product: %v", err)
	}
}

func TestCatalogService_ListProducts_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	repo := &productRepoStub{list: []Product{
		{ID: "p3", Title: "Violin Duets", Author: "A. Kim", Category: "violin", Published: true},
		{ID: "p1", Title: "Chord Theory", Author: "B. Lee", Category: "piano", Published: true},
		{ID: "p2", Title: "Unreleased Draft", Author: "B. Lee", Category: "piano", Published: false},
	}}
	svc := newCatalogService(repo)

	products, err := svc.ListProducts(context.Background(), ListProductsParams{
		Principal: Principal{UserID: "user-1"},
	})
	if err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("customer list length = %d, want 2", len(products))
	}
	if products[0].ID != "p1" || products[1].ID != "p3" {
		t.Fatalf("unexpected ordering: %+v", products)
	}

	products, err = svc.ListProducts(context.Background(), ListProductsParams{
		Principal: Principal{UserID: "user-1"},
		Category:  "Piano",
	})
	if err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if len(products) != 1 || products[0].ID != "p1" {
		t.Fatalf("category filter wrong: %+v", products)
	}

	products, err = svc.ListProducts(context.Background(), ListProductsParams{
		Principal: admin(),
		Query:     "draft",
	})
	if err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if len(products) != 1 || products[0].ID != "p2" {
		t.Fatalf("admin query filter wrong: %+v", products)
	}
}
