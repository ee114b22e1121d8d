package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/comrade-prep/comrade-backend/internal/rbac"
)

func TestIssueAndParseJWT(t *testing.T) {
	a := NewAuthService("test-secret", time.Hour)

	tok, err := a.IssueJWT("user-1", RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := a.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Sub != "user-1" || claims.Role != RoleUser {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := NewAuthService("other-secret", time.Hour).Parse(tok); err == nil {
		t.Fatalf("expected parse failure with wrong secret")
	}
	if _, err := a.Parse("not.a.token"); err == nil {
		t.Fatalf("expected parse failure for garbage token")
	}
}

func TestJWTMiddlewareAttachesIdentity(t *testing.T) {
	a := NewAuthService("test-secret", time.Hour)
	tok, _ := a.IssueJWT("user-1", RoleAdmin)

	var gotSub, gotRole string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = rbac.SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if gotSub != "user-1" || gotRole != RoleAdmin {
		t.Fatalf("identity not attached: sub=%q role=%q", gotSub, gotRole)
	}

	// Missing and malformed tokens are rejected before the handler runs.
	for _, header := range []string{"", "Bearer bogus", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, rr.Code)
		}
	}
}

func TestOptionalJWTAllowsAnonymous(t *testing.T) {
	a := NewAuthService("test-secret", time.Hour)

	var gotSub string
	h := OptionalJWT(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = rbac.SubjectFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK || gotSub != "" {
		t.Fatalf("anonymous: code=%d sub=%q", rr.Code, gotSub)
	}

	tok, _ := a.IssueJWT("user-2", RoleUser)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if gotSub != "user-2" {
		t.Fatalf("expected identity attached, got %q", gotSub)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	users := NewUsers(NewMemoryStore())
	ctx := context.Background()

	u, err := users.Register(ctx, "Arjun", "Arjun@Example.com", "", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "arjun@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.Role != RoleUser {
		t.Fatalf("role = %q", u.Role)
	}
	if u.PasswordHash == "secret123" {
		t.Fatalf("password stored in the clear")
	}

	if _, err := users.Register(ctx, "Dup", "arjun@example.com", "", "x"); err != ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	got, err := users.Login(ctx, "arjun@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("logged in as %q, want %q", got.ID, u.ID)
	}
	if got.LastLoginAt == nil {
		t.Fatalf("last login not recorded")
	}

	if _, err := users.Login(ctx, "arjun@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := users.Login(ctx, "nobody@example.com", "secret123"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestLoginByPhone(t *testing.T) {
	users := NewUsers(NewMemoryStore())
	ctx := context.Background()

	u, err := users.Register(ctx, "Priya", "", "+919876543210", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	got, err := users.Login(ctx, "+919876543210", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("logged in as %q, want %q", got.ID, u.ID)
	}

	if _, err := users.Register(ctx, "Blank", "", "", "x"); err != ErrInvalidCredentials {
		t.Fatalf("expected rejection without identifier, got %v", err)
	}
}
