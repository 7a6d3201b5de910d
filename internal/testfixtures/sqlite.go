package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/persistence"
	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite store
// for integration-style persistence tests.
type SQLiteHarness struct {
	Users    persistence.UserRepository
	Rooms    persistence.RoomRepository
	Classes  persistence.ClassRepository
	Products persistence.ProductRepository
	Orders   persistence.OrderRepository
	Reviews  persistence.ReviewRepository
	Sessions persistence.SessionRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// will also register a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "storefront.db")

	store, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open store: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		tb.Fatalf("failed to migrate store: %v", err)
	}

	harness := &SQLiteHarness{
		Users:    sqlite.NewUserRepository(store),
		Rooms:    sqlite.NewRoomRepository(store),
		Classes:  sqlite.NewClassRepository(store),
		Products: sqlite.NewProductRepository(store),
		Orders:   sqlite.NewOrderRepository(store),
		Reviews:  sqlite.NewReviewRepository(store),
		Sessions: sqlite.NewSessionRepository(store),
		cleanup: func() {
			_ = store.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
