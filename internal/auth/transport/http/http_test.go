package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/corray333/bookstore/internal/auth/service/models/user"
	"github.com/corray333/bookstore/internal/auth/service/services/authsvc"
)

type fakeService struct {
	user        *user.User
	token       string
	users       []user.User
	err         error
	listErr     error
	getUserCall int
	listCaller  *user.User
}

func (s *fakeService) Register(_ context.Context, name, email, _ string, isAdmin bool) (*user.User, error) {
	if s.err != nil {
		return nil, s.err
	}

	return &user.User{ID: 1, Name: name, Email: email, IsAdmin: isAdmin}, nil
}

func (s *fakeService) Login(context.Context, string, string) (string, *user.User, error) {
	return s.token, s.user, s.err
}

func (s *fakeService) Validate(context.Context, string) (*user.User, error) {
	return s.user, s.err
}

func (s *fakeService) GetUser(context.Context, int64) (*user.User, error) {
	s.getUserCall++

	return s.user, s.err
}

func (s *fakeService) ListUsers(_ context.Context, caller *user.User) ([]user.User, error) {
	s.listCaller = caller

	return s.users, s.listErr
}

func newTestTransport(svc *fakeService) *HTTPTransport {
	h := NewHTTPTransport(svc)
	h.RegisterRoutes()

	return h
}

func doRequest(t *testing.T, h *HTTPTransport, method, target, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}

	return body["error"]
}

func TestValidateOK(t *testing.T) {
	svc := &fakeService{user: &user.User{ID: 7, Name: "Ana", Email: "ana@example.com"}}
	h := newTestTransport(svc)

	rec := doRequest(t, h, http.MethodGet, "/validate", "token")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Valid bool `json:"valid"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if !body.Valid || body.User.ID != 7 {
		t.Errorf("body = %+v, want valid=true user.id=7", body)
	}
}

func TestValidateMissingToken(t *testing.T) {
	h := newTestTransport(&fakeService{})

	rec := doRequest(t, h, http.MethodGet, "/validate", "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestValidateInvalidToken(t *testing.T) {
	h := newTestTransport(&fakeService{err: authsvc.ErrInvalidToken})

	rec := doRequest(t, h, http.MethodGet, "/validate", "garbage")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if got := errorOf(t, rec); got != "Invalid token" {
		t.Errorf("error = %q, want %q", got, "Invalid token")
	}
}

func TestValidateDeletedUser(t *testing.T) {
	h := newTestTransport(&fakeService{err: authsvc.ErrUserNotFound})

	rec := doRequest(t, h, http.MethodGet, "/validate", "token")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if got := errorOf(t, rec); got != "User not found" {
		t.Errorf("error = %q, want %q", got, "User not found")
	}
}

func TestListUsersUsesCallerFromContext(t *testing.T) {
	svc := &fakeService{
		user:  &user.User{ID: 1, Name: "Root", Email: "root@example.com", IsAdmin: true},
		users: []user.User{{ID: 1, Name: "Root", Email: "root@example.com", IsAdmin: true}},
	}
	h := newTestTransport(svc)

	rec := doRequest(t, h, http.MethodGet, "/users", "token")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if svc.getUserCall != 0 {
		t.Errorf("GetUser called %d times, want 0", svc.getUserCall)
	}
	if svc.listCaller == nil || svc.listCaller.ID != 1 || !svc.listCaller.IsAdmin {
		t.Errorf("ListUsers caller = %+v, want id=1 admin", svc.listCaller)
	}
}

func TestListUsersForbidden(t *testing.T) {
	svc := &fakeService{
		user:    &user.User{ID: 2, Name: "Ana", Email: "ana@example.com"},
		listErr: authsvc.ErrForbidden,
	}
	h := newTestTransport(svc)

	rec := doRequest(t, h, http.MethodGet, "/users", "token")

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if got := errorOf(t, rec); got != "Unauthorized" {
		t.Errorf("error = %q, want %q", got, "Unauthorized")
	}
}
