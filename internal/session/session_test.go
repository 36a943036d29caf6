package session_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/nikbrunner/skim/internal/api"
	"github.com/nikbrunner/skim/internal/session"
)

func newServer(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL)
}

func sessionPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestCheckAuth_NoToken_NoNetworkCall(t *testing.T) {
	calls := 0
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	store := session.Load(sessionPath(t), client)
	if store.CheckAuth() {
		t.Error("expected no session without a persisted token")
	}
	if calls != 0 {
		t.Errorf("expected no network call, got %d", calls)
	}
}

func TestLogin_PersistsToken(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("username") != "nik" {
			t.Errorf("expected form-encoded username, got %q", r.PostForm.Get("username"))
		}
		w.Write([]byte(`{"access_token": "tok-1", "token_type": "bearer", "user": {"id": "u1", "username": "nik"}}`))
	})

	path := sessionPath(t)
	store := session.Load(path, client)
	if err := store.Login("nik", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if store.Token() != "tok-1" {
		t.Errorf("expected stored token, got %q", store.Token())
	}
	if store.User() == nil || store.User().Username != "nik" {
		t.Errorf("expected resolved user, got %+v", store.User())
	}

	// A fresh store must hydrate the token from disk.
	rehydrated := session.Load(path, client)
	if rehydrated.Token() != "tok-1" {
		t.Errorf("expected persisted token after reload, got %q", rehydrated.Token())
	}
}

func TestLogin_FailureLeavesStateUntouched(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "invalid credentials"}`))
	})

	store := session.Load(sessionPath(t), client)
	err := store.Login("nik", "wrong")
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if store.Token() != "" || store.User() != nil {
		t.Error("failed login must not mutate stored state")
	}
}

func TestCheckAuth_FailureDiscardsCredential(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	path := sessionPath(t)
	if err := os.WriteFile(path, []byte(`{"token": "stale"}`), 0600); err != nil {
		t.Fatal(err)
	}

	store := session.Load(path, client)
	client.SetTokenSource(store)
	client.SetAuthFailureHandler(store.Clear)

	if store.CheckAuth() {
		t.Error("expected auth check to fail")
	}
	if store.Token() != "" {
		t.Error("expected credential discarded after failed check")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("expected session file removed")
	}
}

func TestLogout_ClearsEvenWhenServerFails(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	path := sessionPath(t)
	if err := os.WriteFile(path, []byte(`{"token": "tok-9"}`), 0600); err != nil {
		t.Fatal(err)
	}

	store := session.Load(path, client)
	client.SetTokenSource(store)
	store.Logout()

	if store.Token() != "" || store.User() != nil {
		t.Error("logout must discard local state regardless of server outcome")
	}
}
