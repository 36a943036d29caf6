// Package session owns the client's single piece of cross-component
// mutable state: the persisted bearer credential and the user resolved
// from it. Only Login, Logout, CheckAuth and Clear write the credential;
// the gateway's 401 handler routes through Clear.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/nikbrunner/skim/internal/api"
)

// Store holds the live session for this process.
type Store struct {
	path   string
	client *api.Client
	token  string
	user   *api.User
}

// persisted is the on-disk shape of the credential slot.
type persisted struct {
	Token string `json:"token"`
}

// Load creates a Store hydrated from the session file, if one exists.
// A missing or unreadable file simply means no session.
func Load(path string, client *api.Client) *Store {
	s := &Store{path: path, client: client}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return s
	}
	s.token = p.Token
	return s
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	return s.token
}

// User returns the resolved user, or nil when not logged in.
func (s *Store) User() *api.User {
	return s.user
}

// LoggedIn reports whether a resolved session is present.
func (s *Store) LoggedIn() bool {
	return s.user != nil
}

// UserID returns the resolved user's id, or "" when not logged in. The
// telemetry sink uses it for event attribution.
func (s *Store) UserID() string {
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// CheckAuth resolves the persisted credential against the server. Without
// a persisted credential it reports false with no network call. On any
// failure the credential is discarded. Never returns an error.
func (s *Store) CheckAuth() bool {
	if s.token == "" {
		return false
	}

	user, err := s.client.Me()
	if err != nil {
		// The gateway's 401 hook may already have cleared us; clearing
		// twice is harmless and covers non-auth failures too.
		s.Clear()
		return false
	}
	s.user = user
	return true
}

// Login submits credentials and, on success, stores the returned token and
// user. On failure existing state is left untouched and the reason is
// propagated (invalid credentials vs unreachable vs malformed response).
func (s *Store) Login(username, password string) error {
	resp, err := s.client.Login(username, password)
	if err != nil {
		return err
	}
	if resp.AccessToken == "" {
		return errors.New("login response missing token")
	}

	s.token = resp.AccessToken
	s.user = &resp.User
	s.save()
	return nil
}

// Logout invalidates the server-side session best-effort, then
// unconditionally discards the local credential. A stale credential is
// never retained after Logout returns.
func (s *Store) Logout() {
	_ = s.client.Logout()
	s.Clear()
}

// Clear discards the credential and resolved user, in memory and on disk.
// It is the single clearing path shared with the gateway's 401 handler.
func (s *Store) Clear() {
	s.token = ""
	s.user = nil
	_ = os.Remove(s.path)
}

// save persists the token. Failures are non-fatal: the session still works
// for this process, it just won't survive a restart.
func (s *Store) save() {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return
	}
	data, err := json.Marshal(persisted{Token: s.token})
	if err != nil {
		return
	}
	_ = os.WriteFile(s.path, data, 0600)
}
