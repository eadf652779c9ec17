package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/robalobadob/dq1password/internal/spellbook"
)

func signup(t *testing.T, s *Server, username string) string {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/auth/signup", map[string]string{"username": username, "password": "correct horse"}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d body=%s", rec.Code, rec.Body)
	}
	tok, _ := decodeBody[map[string]any](t, rec)["token"].(string)
	if tok == "" {
		t.Fatal("signup returned no token")
	}
	return tok
}

func TestSignupLoginMe(t *testing.T) {
	s := newTestServer(t)
	signup(t, s, "erdrick")

	rec := do(t, s, http.MethodPost, "/auth/signup", map[string]string{"username": "ERDRICK", "password": "another one"}, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d", rec.Code)
	}
	rec = do(t, s, http.MethodPost, "/auth/signup", map[string]string{"username": "x", "password": "short"}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid signup status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/auth/login", map[string]string{"username": "erdrick", "password": "wrong password"}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", rec.Code)
	}
	rec = do(t, s, http.MethodPost, "/auth/login", map[string]string{"username": "erdrick", "password": "correct horse"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "dq1_token" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
		t.Fatalf("auth cookie = %+v", cookie)
	}

	// cookie auth
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(cookie)
	me := httptest.NewRecorder()
	s.Router().ServeHTTP(me, req)
	if me.Code != http.StatusOK {
		t.Fatalf("me status = %d", me.Code)
	}
	if got := decodeBody[authUser](t, me); got.Username != "erdrick" {
		t.Fatalf("me = %+v", got)
	}
}

func TestRequireAuth(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not.a.jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/spellbook", nil, tc.token)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d", rec.Code)
			}
		})
	}

	other := *s
	other.cfg.JWTSecret = "someone else"
	tok, _, err := other.signJWT("u1", "mallory")
	if err != nil {
		t.Fatalf("signJWT: %v", err)
	}
	if rec := do(t, s, http.MethodGet, "/auth/me", nil, tok); rec.Code != http.StatusUnauthorized {
		t.Fatalf("foreign token status = %d", rec.Code)
	}
}

func TestSpellbookRoutes(t *testing.T) {
	s := newTestServer(t)
	alice := signup(t, s, "alice")
	bob := signup(t, s, "bob")

	rec := do(t, s, http.MethodPost, "/spellbook", map[string]string{"password": heroPassword, "label": "castle"}, alice)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d body=%s", rec.Code, rec.Body)
	}
	entry := decodeBody[spellbook.Entry](t, rec)
	if entry.Label != "castle" || entry.XP != 1234 {
		t.Fatalf("entry = %+v", entry)
	}

	rec = do(t, s, http.MethodPost, "/spellbook", map[string]string{"password": "ざぼちずどぢぎきつたうずせれえむるのぢお"}, alice)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad password status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/spellbook", nil, alice)
	if list := decodeBody[[]spellbook.Entry](t, rec); len(list) != 1 || list[0].ID != entry.ID {
		t.Fatalf("alice list = %+v", list)
	}
	rec = do(t, s, http.MethodGet, "/spellbook", nil, bob)
	if list := decodeBody[[]spellbook.Entry](t, rec); len(list) != 0 {
		t.Fatalf("bob list = %+v", list)
	}
	if rec := do(t, s, http.MethodGet, "/spellbook?limit=zero", nil, alice); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit status = %d", rec.Code)
	}

	if rec := do(t, s, http.MethodDelete, "/spellbook/"+entry.ID, nil, bob); rec.Code != http.StatusNotFound {
		t.Fatalf("bob delete status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/spellbook/"+entry.ID, nil, alice); rec.Code != http.StatusNoContent {
		t.Fatalf("alice delete status = %d", rec.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/auth/logout", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	cs := rec.Result().Cookies()
	if len(cs) != 1 || cs[0].MaxAge >= 0 {
		t.Fatalf("cookies = %+v", cs)
	}
}

func TestDuplicateInsertMapsToUsernameTaken(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	if _, err := s.createUser(ctx, "loto", "correct horse"); err != nil {
		t.Fatalf("createUser: %v", err)
	}

	// a second signup that passed the lookup before the first insert landed
	late := &userRow{ID: "u-2", Username: "LOTO", PasswordHash: "x", CreatedAt: time.Now().UTC()}
	if err := s.insertUser(ctx, late); !errors.Is(err, errUsernameTaken) {
		t.Fatalf("insertUser duplicate = %v, want errUsernameTaken", err)
	}
	if isUniqueViolation(errors.New("disk I/O error")) || isUniqueViolation(nil) {
		t.Fatal("non-constraint errors must not count as unique violations")
	}

	rec := do(t, s, http.MethodPost, "/auth/signup", map[string]string{"username": "Loto", "password": "another one"}, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d", rec.Code)
	}
}
