package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/application"
)

func TestRequireSession(t *testing.T) {
	t.Parallel()

	t.Run("rejects requests without a token", func(t *testing.T) {
		t.Parallel()

		middleware := RequireSession(fixedValidator(application.Principal{}, nil), nil, nil)
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler must not run without authentication")
		}))

		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("maps session validation failures to 401", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			err  error
		}{
			{name: "expired", err: application.ErrSessionExpired},
			{name: "revoked", err: application.ErrSessionRevoked},
			{name: "unknown token", err: application.ErrNotFound},
		}

		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				middleware := RequireSession(fixedValidator(application.Principal{}, tc.err), nil, nil)
				handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					t.Fatal("next handler must not run for invalid sessions")
				}))

				req := httptest.NewRequest(http.MethodGet, "/orders", nil)
				req.Header.Set("Authorization", "Bearer bad-token")
				recorder := httptest.NewRecorder()
				handler.ServeHTTP(recorder, req)

				if recorder.Code != http.StatusUnauthorized {
					t.Fatalf("expected 401, got %d", recorder.Code)
				}
			})
		}
	})

	t.Run("attaches the principal to the request context", func(t *testing.T) {
		t.Parallel()

		principal := application.Principal{UserID: "user-1", IsAdmin: true}
		middleware := RequireSession(fixedValidator(principal, nil), nil, nil)

		var captured application.Principal
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, _ = PrincipalFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "token-1"})
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if captured != principal {
			t.Fatalf("expected principal in context, got %+v", captured)
		}
	})

	t.Run("public routes pass through without a token", func(t *testing.T) {
		t.Parallel()

		middleware := RequireSession(fixedValidator(application.Principal{}, application.ErrNotFound), nil, PublicRoutes())

		called := false
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if !called || recorder.Code != http.StatusOK {
			t.Fatalf("expected public passthrough, got %d", recorder.Code)
		}
	})

	t.Run("public routes still attach a valid principal", func(t *testing.T) {
		t.Parallel()

		principal := application.Principal{UserID: "admin-1", IsAdmin: true}
		middleware := RequireSession(fixedValidator(principal, nil), nil, PublicRoutes())

		var captured application.Principal
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, _ = PrincipalFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set("Authorization", "Bearer token-1")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if captured != principal {
			t.Fatalf("expected principal on public route, got %+v", captured)
		}
	})
}

func TestPublicRoutes(t *testing.T) {
	t.Parallel()

	isPublic := PublicRoutes()

	tests := []struct {
		method string
		path   string
		public bool
	}{
		{http.MethodPost, "/sessions", true},
		{http.MethodPost, "/register", true},
		{http.MethodGet, "/products", true},
		{http.MethodGet, "/products/prod-1", true},
		{http.MethodGet, "/products/prod-1/reviews", true},
		{http.MethodPost, "/products", false},
		{http.MethodPost, "/products/prod-1/reviews", false},
		{http.MethodGet, "/orders", false},
		{http.MethodGet, "/schedule", false},
		{http.MethodDelete, "/sessions/current", false},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		if got := isPublic(req); got != tc.public {
			t.Errorf("%s %s: expected public=%v, got %v", tc.method, tc.path, tc.public, got)
		}
	}
}
