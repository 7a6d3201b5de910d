package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_CreateIntent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/intents" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key-1" {
			t.Errorf("authorization header = %q", got)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		if payload["order_id"] != "order-1" {
			t.Errorf("order_id = %v", payload["order_id"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"intent_id":    "intent-1",
			"redirect_url": "https://pay.example/intent-1",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-1", nil)
	intent, err := client.CreateIntent(context.Background(), IntentRequest{OrderID: "order-1", AmountCents: 1500})
	if err != nil {
		t.Fatalf("CreateIntent returned error: %v", err)
	}
	if intent.IntentID != "intent-1" {
		t.Fatalf("intent ID = %q, want intent-1", intent.IntentID)
	}
	if intent.RedirectURL != "https://pay.example/intent-1" {
		t.Fatalf("redirect URL = %q", intent.RedirectURL)
	}
}

func TestClient_VerifyIntent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/intents/intent-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"intent_id":    "intent-1",
			"status":       "succeeded",
			"amount_cents": 1500,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-1", nil)
	result, err := client.VerifyIntent(context.Background(), "intent-1")
	if err != nil {
		t.Fatalf("VerifyIntent returned error: %v", err)
	}
	if !result.Paid {
		t.Fatalf("expected paid result")
	}
	if result.AmountCents != 1500 {
		t.Fatalf("amount = %d, want 1500", result.AmountCents)
	}
}

func TestClient_ErrorStatusMapsToUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-1", nil)
	_, err := client.VerifyIntent(context.Background(), "intent-1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
