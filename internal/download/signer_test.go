package download

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/application"
)

func TestSigner_LinkRoundTrip(t *testing.T) {
	t.Parallel()

	signer := NewSigner("https://files.example/downloads", "secret-1", 30*time.Minute)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	product := application.Product{ID: "prod-1", Title: "Scales and Arpeggios", FileKey: "books/scales.epub"}

	link, err := signer.Link(context.Background(), "user-1", product, now)
	if err != nil {
		t.Fatalf("Link returned error: %v", err)
	}
	if !link.ExpiresAt.Equal(now.Add(30 * time.Minute)) {
		t.Fatalf("expiry = %v", link.ExpiresAt)
	}
	if !strings.HasPrefix(link.URL, "https://files.example/downloads/books/scales.epub?") {
		t.Fatalf("unexpected URL: %s", link.URL)
	}

	parsed, err := url.Parse(link.URL)
	if err != nil {
		t.Fatalf("parsing link: %v", err)
	}
	exp, err := strconv.ParseInt(parsed.Query().Get("exp"), 10, 64)
	if err != nil {
		t.Fatalf("parsing exp: %v", err)
	}

	if err := signer.Verify("books/scales.epub", "user-1", exp, parsed.Query().Get("sig"), now); err != nil {
		t.Fatalf("Verify rejected a fresh link: %v", err)
	}
	if err := signer.Verify("books/scales.epub", "user-2", exp, parsed.Query().Get("sig"), now); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature for wrong user, got %v", err)
	}
	if err := signer.Verify("books/scales.epub", "user-1", exp, parsed.Query().Get("sig"), now.Add(time.Hour)); !errors.Is(err, ErrLinkExpired) {
		t.Fatalf("expected ErrLinkExpired, got %v", err)
	}
}

func TestSigner_LinkRequiresFileKey(t *testing.T) {
	t.Parallel()

	signer := NewSigner("https://files.example", "secret-1", time.Hour)
	_, err := signer.Link(context.Background(), "user-1", application.Product{ID: "prod-1"}, time.Now())
	if err == nil {
		t.Fatalf("expected error for product without file")
	}
}
