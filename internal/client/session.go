package client

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/iliyamo/cinebook/internal/model"
)

// Keys under which the session is kept in the local store.
const (
	KeyToken   = "userToken"
	KeyUser    = "userData"
	KeyRefresh = "refreshToken"
)

// ErrNotSignedIn is returned by operations that need a session.
var ErrNotSignedIn = errors.New("not signed in")

// Session signs the user in and out and mirrors the session into a
// KVStore so later runs start signed in.
type Session struct {
	api   *Client
	store KVStore
}

func NewSession(api *Client, store KVStore) *Session {
	return &Session{api: api, store: store}
}

// Register creates an account and signs it in.
func (s *Session) Register(ctx context.Context, email, password, name, phone string) (model.Profile, string, error) {
	resp, err := s.api.Register(ctx, RegisterRequest{
		Email: strings.TrimSpace(email), Password: password, Name: name, Phone: phone,
	})
	if err != nil {
		return model.Profile{}, "", err
	}
	return resp.User, resp.Token, s.keep(resp)
}

// Login signs an existing account in.
func (s *Session) Login(ctx context.Context, email, password string) (model.Profile, string, error) {
	resp, err := s.api.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return model.Profile{}, "", err
	}
	return resp.User, resp.Token, s.keep(resp)
}

// Logout revokes the refresh token on the server and forgets the local
// session.  The local session is cleared even when the server call fails;
// the server error is returned.
func (s *Session) Logout(ctx context.Context) error {
	refresh, _, _ := s.store.Get(KeyRefresh)
	var apiErr error
	if refresh != "" {
		apiErr = s.api.Logout(ctx, refresh)
	}
	s.api.SetToken("")
	if err := s.store.Delete(KeyToken, KeyUser, KeyRefresh); err != nil {
		return err
	}
	return apiErr
}

// CurrentUser returns the stored profile and token, or nil when nobody is
// signed in.  It also arms the API client with the token.
func (s *Session) CurrentUser() (*model.Profile, string, error) {
	token, ok, err := s.store.Get(KeyToken)
	if err != nil || !ok || token == "" {
		return nil, "", err
	}
	raw, ok, err := s.store.Get(KeyUser)
	if err != nil || !ok {
		return nil, "", err
	}
	var p model.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, "", err
	}
	s.api.SetToken(token)
	return &p, token, nil
}

// Require is CurrentUser that fails with ErrNotSignedIn.
func (s *Session) Require() (model.Profile, error) {
	p, _, err := s.CurrentUser()
	if err != nil {
		return model.Profile{}, err
	}
	if p == nil {
		return model.Profile{}, ErrNotSignedIn
	}
	return *p, nil
}

func (s *Session) keep(resp AuthResponse) error {
	user, err := json.Marshal(resp.User)
	if err != nil {
		return err
	}
	if err := s.store.Set(KeyToken, resp.Token); err != nil {
		return err
	}
	if err := s.store.Set(KeyUser, string(user)); err != nil {
		return err
	}
	if err := s.store.Set(KeyRefresh, resp.Refresh.Token); err != nil {
		return err
	}
	s.api.SetToken(resp.Token)
	return nil
}
