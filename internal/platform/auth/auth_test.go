package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	token, err := issuer.Issue("USR-1001", "jdoe", RolePatient)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "USR-1001" {
		t.Errorf("subject = %s, want USR-1001", claims.Subject)
	}
	if claims.Username != "jdoe" {
		t.Errorf("username = %s, want jdoe", claims.Username)
	}
	if claims.Role != RolePatient {
		t.Errorf("role = %s, want %s", claims.Role, RolePatient)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)
	other := NewIssuer([]byte("another-secret-another-secret-00"), time.Hour)

	token, err := issuer.Issue("USR-1", "jdoe", RolePatient)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := other.Parse(token); err == nil {
		t.Error("expected error for token signed with different secret")
	}
}

func TestParse_Expired(t *testing.T) {
	issuer := NewIssuer(testSecret, -time.Minute)
	token, err := issuer.Issue("USR-1", "jdoe", RolePatient)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Parse(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestMiddleware_SetsIdentity(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)
	token, _ := issuer.Issue("USR-7", "processor", RoleClaimsProcessor)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Middleware(issuer, nil)(func(c echo.Context) error {
		called = true
		if UserID(c) != "USR-7" {
			t.Errorf("user id = %s, want USR-7", UserID(c))
		}
		if Role(c) != RoleClaimsProcessor {
			t.Errorf("role = %s, want %s", Role(c), RoleClaimsProcessor)
		}
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("handler was not called")
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Middleware(issuer, nil)(func(c echo.Context) error { return nil })
	err := h(c)
	if err == nil {
		t.Fatal("expected error for missing header")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestMiddleware_Skipper(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/health")

	called := false
	h := Middleware(issuer, DefaultSkipper)(func(c echo.Context) error {
		called = true
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("skipped path should reach the handler without auth")
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(role string) error {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != "" {
			c.Set(UserRoleKey, role)
		}
		h := RequireRole(RoleSystemAdmin, RoleClaimsProcessor)(func(c echo.Context) error { return nil })
		return h(c)
	}

	if err := run(RoleClaimsProcessor); err != nil {
		t.Errorf("claims processor should pass, got %v", err)
	}
	if err := run(RolePatient); err == nil {
		t.Error("patient should be forbidden")
	} else if httpErr, ok := err.(*echo.HTTPError); !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
	if err := run(""); err == nil {
		t.Error("missing role should be unauthorized")
	}
}
