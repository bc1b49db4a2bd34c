package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestGuard() *Guard {
	return NewGuard("auth-token", []string{"/dashboard"}, []string{"/auth"}, "/auth/login", "/dashboard")
}

func guardedRequest(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	passed := false
	handler := newTestGuard().Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		passed = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code == http.StatusOK && !passed {
		t.Fatal("handler reported OK without being invoked")
	}
	return rec
}

func sessionCookie() *http.Cookie {
	return &http.Cookie{Name: "mrcars-auth-token", Value: "opaque"}
}

func TestGuard_RedirectsSignedOutFromProtectedPath(t *testing.T) {
	rec := guardedRequest(t, "/dashboard/users")

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/login" {
		t.Errorf("Location = %q, want /auth/login", loc)
	}
}

func TestGuard_RedirectsSignedInFromAuthPath(t *testing.T) {
	rec := guardedRequest(t, "/auth/login", sessionCookie())

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location = %q, want /dashboard", loc)
	}
}

func TestGuard_PassesSignedInOnProtectedPath(t *testing.T) {
	rec := guardedRequest(t, "/dashboard", sessionCookie())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestGuard_PassesSignedOutOnAuthPath(t *testing.T) {
	rec := guardedRequest(t, "/auth/login")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestGuard_IgnoresUnrelatedPaths(t *testing.T) {
	for _, path := range []string{"/", "/health", "/api/v1/listings"} {
		if rec := guardedRequest(t, path); rec.Code != http.StatusOK {
			t.Errorf("path %s: status = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}

func TestGuard_CookieMatchedBySubstring(t *testing.T) {
	// Any cookie whose name contains the marker counts as a session. The
	// guard never inspects the value.
	rec := guardedRequest(t, "/dashboard", &http.Cookie{Name: "sb-auth-token-v2", Value: "x"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = guardedRequest(t, "/dashboard", &http.Cookie{Name: "theme", Value: "dark"})
	if rec.Code != http.StatusFound {
		t.Fatalf("unrelated cookie: status = %d, want redirect", rec.Code)
	}
}
