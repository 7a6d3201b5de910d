// Package download issues time-limited signed URLs for purchased e-book
// files. The files themselves live behind a delivery host that checks the
// same signature.
package download

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/application"
)

var (
	// ErrBadSignature reports a link whose signature does not match.
	ErrBadSignature = errors.New("download: bad signature")
	// ErrLinkExpired reports a link past its expiry.
	ErrLinkExpired = errors.New("download: link expired")
)

// Signer mints and checks signed download links.
type Signer struct {
	baseURL string
	secret  []byte
	ttl     time.Duration
}

// NewSigner constructs a signer. ttl bounds link validity; non-positive
// values fall back to one hour.
func NewSigner(baseURL, secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Signer{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		ttl:     ttl,
	}
}

// Link issues a signed URL granting the user access to the product file
// until the TTL elapses.
func (s *Signer) Link(ctx context.Context, userID string, product application.Product, now time.Time) (application.DownloadLink, error) {
	if product.FileKey == "" {
		return application.DownloadLink{}, fmt.Errorf("product %s has no file", product.ID)
	}

	expiresAt := now.Add(s.ttl)
	sig := s.sign(product.FileKey, userID, expiresAt.Unix())

	values := url.Values{}
	values.Set("user", userID)
	values.Set("exp", strconv.FormatInt(expiresAt.Unix(), 10))
	values.Set("sig", sig)

	return application.DownloadLink{
		ProductID: product.ID,
		Title:     product.Title,
		URL:       s.baseURL + "/" + product.FileKey + "?" + values.Encode(),
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks a presented signature against the file key, user, and expiry.
func (s *Signer) Verify(fileKey, userID string, expiresUnix int64, sig string, now time.Time) error {
	expected := s.sign(fileKey, userID, expiresUnix)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrBadSignature
	}
	if now.Unix() > expiresUnix {
		return ErrLinkExpired
	}
	return nil
}

func (s *Signer) sign(fileKey, userID string, expiresUnix int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%s\n%d", fileKey, userID, expiresUnix)
	return hex.EncodeToString(mac.Sum(nil))
}
