package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/validate" {
			t.Errorf("path = %q, want /validate", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": "Invalid token"}`))

			return
		}
		_, _ = w.Write([]byte(`{"valid": true, "user": {"id": 7, "name": "Reader", "email": "reader@example.com", "is_admin": false}}`))
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL, time.Second)

	p, err := v.VerifyIdentity(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("VerifyIdentity: %v", err)
	}
	if p.ID != 7 || p.Email != "reader@example.com" {
		t.Errorf("unexpected principal: %+v", p)
	}

	if _, err := v.VerifyIdentity(context.Background(), "bad-token"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("bad token: err = %v, want ErrUnauthenticated", err)
	}
}

func TestHTTPVerifierUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	v := NewHTTPVerifier(srv.URL, time.Second)

	if _, err := v.VerifyIdentity(context.Background(), "any"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

type staticVerifier struct {
	principal *Principal
	err       error
}

func (v *staticVerifier) VerifyIdentity(context.Context, string) (*Principal, error) {
	return v.principal, v.err
}

func TestAuthMiddleware(t *testing.T) {
	verifier := &staticVerifier{principal: &Principal{ID: 7, Name: "Reader"}}

	var seen *Principal
	handler := NewAuthMiddleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/purchases", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		assertErrorBody(t, rec, "Missing or invalid token")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/purchases", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		assertErrorBody(t, rec, "Missing or invalid token")
	})

	t.Run("rejected token", func(t *testing.T) {
		rejecting := NewAuthMiddleware(&staticVerifier{err: ErrUnauthenticated})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Error("handler reached with rejected token")
		}))

		req := httptest.NewRequest(http.MethodGet, "/purchases", nil)
		req.Header.Set("Authorization", "Bearer expired")
		rec := httptest.NewRecorder()
		rejecting.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		assertErrorBody(t, rec, "Invalid token")
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/purchases", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if seen == nil || seen.ID != 7 {
			t.Errorf("principal in context = %+v, want id 7", seen)
		}
	})
}

func assertErrorBody(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body["error"] != want {
		t.Errorf("error = %q, want %q", body["error"], want)
	}
}
