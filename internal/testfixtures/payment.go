package testfixtures

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/payment"
)

var gatewayCounter uint64

// PaymentGatewayFake is an in-memory payment.Gateway that approves every
// intent by default. Tests can override either call to exercise failure
// paths, and inspect the requests the workflow issued.
type PaymentGatewayFake struct {
	mu sync.Mutex

	CreateIntentFn func(ctx context.Context, req payment.IntentRequest) (payment.Intent, error)
	VerifyIntentFn func(ctx context.Context, intentID string) (payment.VerifyResult, error)

	createdIntents []payment.IntentRequest
	verifiedIDs    []string
	amounts        map[string]int64
}

// NewPaymentGatewayFake constructs a fake gateway with approving defaults.
func NewPaymentGatewayFake() *PaymentGatewayFake {
	return &PaymentGatewayFake{amounts: map[string]int64{}}
}

// CreateIntent records the request and returns a deterministic intent.
func (g *PaymentGatewayFake) CreateIntent(ctx context.Context, req payment.IntentRequest) (payment.Intent, error) {
	g.mu.Lock()
	g.createdIntents = append(g.createdIntents, req)
	fn := g.CreateIntentFn
	g.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	idx := atomic.AddUint64(&gatewayCounter, 1)
	intentID := fmt.Sprintf("fake-intent-%03d", idx)
	g.mu.Lock()
	g.amounts[intentID] = req.AmountCents
	g.mu.Unlock()
	return payment.Intent{
		IntentID:    intentID,
		RedirectURL: "https://pay.example.com/" + intentID,
	}, nil
}

// VerifyIntent records the lookup and reports the intent as paid for the
// amount it was created with.
func (g *PaymentGatewayFake) VerifyIntent(ctx context.Context, intentID string) (payment.VerifyResult, error) {
	g.mu.Lock()
	g.verifiedIDs = append(g.verifiedIDs, intentID)
	fn := g.VerifyIntentFn
	amount := g.amounts[intentID]
	g.mu.Unlock()

	if fn != nil {
		return fn(ctx, intentID)
	}
	return payment.VerifyResult{IntentID: intentID, Paid: true, AmountCents: amount}, nil
}

// CreatedIntents returns the intent requests seen so far.
func (g *PaymentGatewayFake) CreatedIntents() []payment.IntentRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]payment.IntentRequest, len(g.createdIntents))
	copy(out, g.createdIntents)
	return out
}

// VerifiedIntentIDs returns the intent identifiers that were verified.
func (g *PaymentGatewayFake) VerifiedIntentIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.verifiedIDs))
	copy(out, g.verifiedIDs)
	return out
}
