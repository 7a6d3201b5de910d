package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/application"
)

type authServiceStub struct {
	result        application.AuthenticateResult
	refreshResult application.RefreshSessionResult
	err           error
	revoked       []string
}

func (s *authServiceStub) Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
	if s.err != nil {
		return application.AuthenticateResult{}, s.err
	}
	return s.result, nil
}

func (s *authServiceStub) RefreshSession(ctx context.Context, params application.RefreshSessionParams) (application.RefreshSessionResult, error) {
	if s.err != nil {
		return application.RefreshSessionResult{}, s.err
	}
	return s.refreshResult, nil
}

func (s *authServiceStub) RevokeSession(ctx context.Context, token string) error {
	if s.err != nil {
		return s.err
	}
	s.revoked = append(s.revoked, token)
	return nil
}

type scheduleServiceStub struct {
	class       application.Class
	occurrences []application.Occurrence
	createErr   error
	listErr     error
}

func (s *scheduleServiceStub) CreateClass(ctx context.Context, params application.CreateClassParams) (application.Class, error) {
	if s.createErr != nil {
		return application.Class{}, s.createErr
	}
	return s.class, nil
}

func (s *scheduleServiceStub) UpdateClass(ctx context.Context, params application.UpdateClassParams) (application.Class, error) {
	return s.class, s.createErr
}

func (s *scheduleServiceStub) GetClass(ctx context.Context, principal application.Principal, classID string) (application.Class, error) {
	return s.class, s.createErr
}

func (s *scheduleServiceStub) DeleteClass(ctx context.Context, principal application.Principal, classID string) error {
	return s.createErr
}

func (s *scheduleServiceStub) ListSchedule(ctx context.Context, params application.ListScheduleParams) ([]application.Occurrence, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.occurrences, nil
}

type catalogServiceStub struct {
	products []application.Product
	err      error
}

func (s *catalogServiceStub) CreateProduct(ctx context.Context, params application.CreateProductParams) (application.Product, error) {
	if s.err != nil {
		return application.Product{}, s.err
	}
	return s.products[0], nil
}

func (s *catalogServiceStub) UpdateProduct(ctx context.Context, params application.UpdateProductParams) (application.Product, error) {
	if s.err != nil {
		return application.Product{}, s.err
	}
	return s.products[0], nil
}

func (s *catalogServiceStub) DeleteProduct(ctx context.Context, principal application.Principal, productID string) error {
	return s.err
}

func (s *catalogServiceStub) GetProduct(ctx context.Context, principal application.Principal, productID string) (application.Product, error) {
	if s.err != nil {
		return application.Product{}, s.err
	}
	return s.products[0], nil
}

func (s *catalogServiceStub) ListProducts(ctx context.Context, params application.ListProductsParams) ([]application.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func fixedValidator(principal application.Principal, err error) SessionValidator {
	return sessionValidatorFunc(func(ctx context.Context, token string) (application.Principal, error) {
		if err != nil {
			return application.Principal{}, err
		}
		return principal, nil
	})
}

type sessionValidatorFunc func(ctx context.Context, token string) (application.Principal, error)

func (f sessionValidatorFunc) ValidateSession(ctx context.Context, token string) (application.Principal, error) {
	return f(ctx, token)
}

func testClass() application.Class {
	return application.Class{
		ID:          "class-1",
		Title:       "Jazz Harmony",
		RoomID:      "room-1",
		Date:        time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		EndTime:     "11:00",
		Teacher:     "Ms. Ahn",
		MaxStudents: 8,
	}
}

func TestAuthHandlers(t *testing.T) {
	t.Parallel()

	t.Run("login issues session token via cookie and header", func(t *testing.T) {
		t.Parallel()

		expires := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
		stub := &authServiceStub{result: application.AuthenticateResult{
			User:    application.User{ID: "user-1", IsAdmin: true},
			Session: application.Session{Token: "token-1", ExpiresAt: expires},
		}}
		router := NewRouter(RouterConfig{Auth: NewAuthHandler(stub, nil)})

		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"email":"admin@example.com","password":"secret-pw"}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if got := recorder.Header().Get("X-Session-Token"); got != "token-1" {
			t.Fatalf("expected token header, got %q", got)
		}
		cookieFound := false
		for _, cookie := range recorder.Result().Cookies() {
			if cookie.Name == "session_token" && cookie.Value == "token-1" {
				cookieFound = true
			}
		}
		if !cookieFound {
			t.Fatal("expected session cookie to be set")
		}

		var payload struct {
			Token     string `json:"token"`
			Principal struct {
				UserID  string `json:"user_id"`
				IsAdmin bool   `json:"is_admin"`
			} `json:"principal"`
		}
		if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if payload.Token != "token-1" || payload.Principal.UserID != "user-1" || !payload.Principal.IsAdmin {
			t.Fatalf("unexpected login payload: %+v", payload)
		}
	})

	t.Run("invalid credentials map to 401 with error code", func(t *testing.T) {
		t.Parallel()

		stub := &authServiceStub{err: application.ErrInvalidCredentials}
		router := NewRouter(RouterConfig{Auth: NewAuthHandler(stub, nil)})

		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"email":"admin@example.com","password":"wrong-pw"}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
		if !strings.Contains(recorder.Body.String(), "AUTH_INVALID_CREDENTIALS") {
			t.Fatalf("expected error code in body: %s", recorder.Body.String())
		}
	})

	t.Run("login body is validated before the service runs", func(t *testing.T) {
		t.Parallel()

		stub := &authServiceStub{err: application.ErrInvalidCredentials}
		router := NewRouter(RouterConfig{Auth: NewAuthHandler(stub, nil)})

		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"email":"not-an-email","password":""}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", recorder.Code, recorder.Body.String())
		}

		var payload struct {
			Errors map[string]string `json:"errors"`
		}
		if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if payload.Errors["email"] == "" || payload.Errors["password"] == "" {
			t.Fatalf("expected email and password field errors, got %v", payload.Errors)
		}
	})

	t.Run("logout revokes the session and clears the cookie", func(t *testing.T) {
		t.Parallel()

		stub := &authServiceStub{}
		router := NewRouter(RouterConfig{Auth: NewAuthHandler(stub, nil)})

		req := httptest.NewRequest(http.MethodDelete, "/sessions/current", nil)
		req.Header.Set("Authorization", "Bearer token-1")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", recorder.Code)
		}
		if len(stub.revoked) != 1 || stub.revoked[0] != "token-1" {
			t.Fatalf("expected token revocation, got %v", stub.revoked)
		}
	})
}

func TestClassHandlers(t *testing.T) {
	t.Parallel()

	t.Run("scheduling conflicts render 409 with the clashing slot", func(t *testing.T) {
		t.Parallel()

		stub := &scheduleServiceStub{createErr: &application.ConflictError{
			ClassID:   "class-7",
			RoomID:    "room-1",
			Date:      time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC),
			StartTime: "10:00",
			EndTime:   "11:30",
			Virtual:   true,
		}}
		router := NewRouter(RouterConfig{Classes: NewClassHandler(stub, nil)})

		body := `{"title":"Jazz Harmony","room_id":"room-1","date":"2024-03-04","start_time":"10:30","end_time":"11:30","teacher":"Ms. Ahn","max_students":8}`
		req := httptest.NewRequest(http.MethodPost, "/classes", strings.NewReader(body))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", recorder.Code, recorder.Body.String())
		}

		var payload struct {
			ErrorCode string       `json:"error_code"`
			Conflict  *conflictDTO `json:"conflict"`
		}
		if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if payload.ErrorCode != "SCHEDULE_CONFLICT" {
			t.Fatalf("unexpected error code %q", payload.ErrorCode)
		}
		if payload.Conflict == nil || payload.Conflict.ClassID != "class-7" || !payload.Conflict.Virtual {
			t.Fatalf("unexpected conflict payload: %+v", payload.Conflict)
		}
	})

	t.Run("schedule listing expands derived occurrences", func(t *testing.T) {
		t.Parallel()

		class := testClass()
		derived := class
		derived.Date = time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)
		stub := &scheduleServiceStub{occurrences: []application.Occurrence{
			{Key: application.OccurrenceKey{ClassID: class.ID, Date: class.Date}, Class: class},
			{Key: application.OccurrenceKey{ClassID: class.ID, Date: derived.Date}, Class: derived, Virtual: true},
		}}
		router := NewRouter(RouterConfig{Classes: NewClassHandler(stub, nil)})

		req := httptest.NewRequest(http.MethodGet, "/schedule?room_id=room-1&from=2024-03-01&to=2024-03-31", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}

		var payload struct {
			Occurrences []occurrenceDTO `json:"occurrences"`
		}
		if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(payload.Occurrences) != 2 {
			t.Fatalf("expected 2 occurrences, got %d", len(payload.Occurrences))
		}
		if payload.Occurrences[1].Date != "2024-03-11" || !payload.Occurrences[1].Virtual {
			t.Fatalf("unexpected derived occurrence: %+v", payload.Occurrences[1])
		}
	})

	t.Run("malformed window parameters render 422", func(t *testing.T) {
		t.Parallel()

		router := NewRouter(RouterConfig{Classes: NewClassHandler(&scheduleServiceStub{}, nil)})

		req := httptest.NewRequest(http.MethodGet, "/schedule?from=March+1st", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", recorder.Code)
		}
	})

	t.Run("service sentinel errors map to status codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			err    error
			status int
		}{
			{name: "forbidden", err: application.ErrUnauthorized, status: http.StatusForbidden},
			{name: "missing", err: application.ErrNotFound, status: http.StatusNotFound},
		}

		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				router := NewRouter(RouterConfig{Classes: NewClassHandler(&scheduleServiceStub{createErr: tc.err}, nil)})

				req := httptest.NewRequest(http.MethodDelete, "/classes/class-1", nil)
				recorder := httptest.NewRecorder()
				router.ServeHTTP(recorder, req)

				if recorder.Code != tc.status {
					t.Fatalf("expected %d, got %d", tc.status, recorder.Code)
				}
			})
		}
	})
}

func TestProductHandlers(t *testing.T) {
	t.Parallel()

	t.Run("catalog listing hides file keys from customers", func(t *testing.T) {
		t.Parallel()

		stub := &catalogServiceStub{products: []application.Product{{
			ID:         "prod-1",
			Title:      "Jazz Piano Basics",
			Author:     "L. Reyes",
			PriceCents: 1500,
			FileKey:    "books/prod-1.epub",
			Published:  true,
		}}}
		router := NewRouter(RouterConfig{Products: NewProductHandler(stub, nil)})

		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if strings.Contains(recorder.Body.String(), "file_key") {
			t.Fatalf("file key must not leak to customers: %s", recorder.Body.String())
		}
	})

	t.Run("product payloads are validated", func(t *testing.T) {
		t.Parallel()

		stub := &catalogServiceStub{products: []application.Product{{}}}
		router := NewRouter(RouterConfig{Products: NewProductHandler(stub, nil)})

		req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"title":"","author":"","price_cents":0}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", recorder.Code, recorder.Body.String())
		}

		var payload struct {
			Errors map[string]string `json:"errors"`
		}
		if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		for _, field := range []string{"title", "author", "price_cents", "file_key"} {
			if payload.Errors[field] == "" {
				t.Fatalf("expected %s field error, got %v", field, payload.Errors)
			}
		}
	})
}

func TestRouterMethodHandling(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{
		Auth:     NewAuthHandler(&authServiceStub{}, nil),
		Products: NewProductHandler(&catalogServiceStub{}, nil),
	})

	req := httptest.NewRequest(http.MethodPatch, "/products", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", recorder.Code)
	}
	if allow := recorder.Header().Get("Allow"); !strings.Contains(allow, http.MethodGet) {
		t.Fatalf("expected Allow header, got %q", allow)
	}
}
