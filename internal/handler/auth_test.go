package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bithab/bithab/internal/database"
	"github.com/bithab/bithab/internal/middleware"
	"github.com/bithab/bithab/internal/store"
)

func setupAuthHandler(t *testing.T) (*AuthHandler, *store.SessionStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	us := store.NewUserStore(db)
	ss := store.NewSessionStore(db)
	return NewAuthHandler(us, ss, slog.Default(), false), ss
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	h, ss := setupAuthHandler(t)

	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(
		`{"email":"alice@example.com","password":"hunter2hunter2"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}

	cookie := sessionCookie(t, rec)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected session cookie after register")
	}
	sess, err := ss.GetByToken(cookie.Value)
	if err != nil || sess == nil {
		t.Fatalf("session for cookie = %v, err %v", sess, err)
	}

	var user struct {
		Email        string `json:"email"`
		PasswordHash string `json:"password_hash"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q", user.Email)
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked in response")
	}

	// Login with the same credentials
	req = httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(
		`{"email":"alice@example.com","password":"hunter2hunter2"}`))
	rec = httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	if sessionCookie(t, rec) == nil {
		t.Error("expected session cookie after login")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h, _ := setupAuthHandler(t)

	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(
		`{"email":"alice@example.com","password":"hunter2hunter2"}`))
	h.Register(httptest.NewRecorder(), req)

	req = httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(
		`{"email":"alice@example.com","password":"wrong password"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	h, _ := setupAuthHandler(t)

	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(
		`{"email":"nobody@example.com","password":"whatever123"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, _ := setupAuthHandler(t)

	body := `{"email":"alice@example.com","password":"hunter2hunter2"}`
	h.Register(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body)))

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body)))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	h, _ := setupAuthHandler(t)

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(
		`{"email":"alice@example.com","password":"short"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	h, ss := setupAuthHandler(t)

	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(
		`{"email":"alice@example.com","password":"hunter2hunter2"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	cookie := sessionCookie(t, rec)
	if cookie == nil {
		t.Fatal("expected session cookie")
	}

	req = httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	sess, err := ss.GetByToken(cookie.Value)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess != nil {
		t.Error("session survived logout")
	}
}
