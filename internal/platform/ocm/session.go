package ocm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"golang.org/x/oauth2"
)

// DefaultScopes are requested when a session does not list any.
var DefaultScopes = []string{"openid"}

// SessionConfig is the on-disk session format, compatible with the ocm CLI config file.
type SessionConfig struct {
	ClientID     string   `json:"client_id"`
	RefreshToken string   `json:"refresh_token"`
	AccessToken  string   `json:"access_token,omitempty"`
	Scopes       []string `json:"scopes"`
	TokenURL     string   `json:"token_url"`
	URL          string   `json:"url"`

	// SeedRefreshToken is the configured refresh token the session last
	// started from. Rotated tokens replace RefreshToken only.
	SeedRefreshToken string `json:"seed_refresh_token,omitempty"`
}

// Session is a SessionConfig bound to the file it is persisted to.
type Session struct {
	SessionConfig

	path string
	mu   sync.Mutex
}

// LoadOrCreateSession reads the session at path. When the file does not exist
// it is created from defaults with owner-only permissions.
//
// A configured refresh token other than the one the stored session started
// from replaces the stored tokens. Tokens rotated from the same seed are kept.
func LoadOrCreateSession(path string, defaults SessionConfig) (*Session, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is inside the run directory
	switch {
	case errors.Is(err, fs.ErrNotExist):
		defaults.AccessToken = ""
		defaults.SeedRefreshToken = defaults.RefreshToken
		s := &Session{SessionConfig: defaults, path: path}
		if len(s.Scopes) == 0 {
			s.Scopes = DefaultScopes
		}
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read session %s: %w", path, err)
	}

	s := &Session{path: path}
	if err := json.Unmarshal(data, &s.SessionConfig); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", path, err)
	}
	if defaults.RefreshToken != "" && defaults.RefreshToken != s.SeedRefreshToken {
		s.RefreshToken = defaults.RefreshToken
		s.SeedRefreshToken = defaults.RefreshToken
		s.AccessToken = ""
		if err := s.save(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Path returns the file the session is persisted to.
func (s *Session) Path() string { return s.path }

// TokenSource returns a token source that refreshes access tokens with the
// session refresh token and writes rotated tokens back to the session file.
func (s *Session) TokenSource(ctx context.Context) oauth2.TokenSource {
	cfg := &oauth2.Config{
		ClientID: s.ClientID,
		Endpoint: oauth2.Endpoint{
			TokenURL:  s.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: s.Scopes,
	}
	base := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: s.RefreshToken})
	return oauth2.ReuseTokenSource(nil, &persistingTokenSource{base: base, session: s})
}

type persistingTokenSource struct {
	base    oauth2.TokenSource
	session *Session
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := p.base.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh access token: %w", err)
	}
	if err := p.session.update(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func (s *Session) update(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		s.RefreshToken = tok.RefreshToken
	}
	return s.saveLocked()
}

func (s *Session) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Session) saveLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.SessionConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session %s: %w", s.path, err)
	}
	return nil
}
