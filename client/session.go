package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/model"
	"github.com/yakir1992/todoapp/planner"
	"golang.org/x/oauth2"
)

// TokenFileName is the session file kept in the config directory.
const TokenFileName = "token.json"

// Session is a signed-in account and its token pair.
type Session struct {
	Token   *oauth2.Token `json:"token"`
	Account model.Account `json:"account"`
}

// TokenFile persists a Session as JSON readable only by the owner.
type TokenFile struct {
	Path string
}

// Load returns nil when no session was saved.
func (f TokenFile) Load() (*Session, error) {
	if f.Path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(f.Path), err)
	}
	if sess.Token == nil || sess.Token.RefreshToken == "" {
		return nil, fmt.Errorf("invalid %s: no refresh token", filepath.Base(f.Path))
	}
	return &sess, nil
}

func (f TokenFile) Save(sess *Session) error {
	if f.Path == "" {
		return nil
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(f.Path, data, 0o600); err != nil {
		return err
	}
	return os.Chmod(f.Path, 0o600)
}

func (f TokenFile) Remove() error {
	if f.Path == "" {
		return nil
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// newToken wraps a pair as an oauth2 token, taking the expiry from the
// access token's exp claim so it is refreshed before the server rejects it.
func newToken(pair dto.TokenPair) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  pair.Token,
		RefreshToken: pair.Refresh,
		TokenType:    "Bearer",
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(pair.Token, &claims); err == nil && claims.ExpiresAt != nil {
		tok.Expiry = claims.ExpiresAt.Time
	}
	return tok
}

// refresher is the oauth2.TokenSource that rotates the pair through the API.
type refresher struct {
	c    *Client
	seen *Session
}

// Token only runs when the access token lapses between authed's expiry check
// and the send. oauth2 hands a TokenSource no request context, so this
// refresh is bounded by the client timeout rather than the caller.
func (r refresher) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.c.http.Timeout)
	defer cancel()
	return r.c.refresh(ctx, r.seen)
}

func (c *Client) tokenSource(sess *Session) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(sess.Token, refresher{c: c, seen: sess})
}

// currentAuth returns the session and the token source built for it.
func (c *Client) currentAuth() (*Session, oauth2.TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, c.source
}

func (c *Client) currentSession() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// refresh trades seen's refresh token for a new pair. Refreshes run one at a
// time, and a caller whose session was already rotated gets the current
// token without another round trip. A rejected refresh token ends the
// session.
func (c *Client) refresh(ctx context.Context, seen *Session) (*oauth2.Token, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	sess := c.currentSession()
	if sess == nil || sess.Token == nil || sess.Token.RefreshToken == "" {
		return nil, planner.ErrNotAuthenticated
	}
	if sess != seen {
		return sess.Token, nil
	}

	var pair dto.TokenPair
	err := c.public(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/refresh",
		body:   dto.RefreshRequest{Refresh: sess.Token.RefreshToken},
	}, &pair)
	if err != nil {
		switch planner.KindOf(err) {
		case planner.KindNotAuthenticated, planner.KindAuthFailure:
			if c.currentSession() == sess {
				c.logger.Info("session expired, signing out", "error", err)
				c.setSession(nil)
			}
			return nil, &planner.Error{Kind: planner.KindNotAuthenticated, Message: "session expired", Err: err}
		}
		return nil, err
	}

	next := &Session{Token: newToken(pair), Account: sess.Account}
	c.mu.Lock()
	if c.session != sess {
		c.mu.Unlock()
		return nil, planner.ErrNotAuthenticated
	}
	c.session = next
	c.source = c.tokenSource(next)
	c.mu.Unlock()

	if err := c.tokens.Save(next); err != nil {
		c.logger.Warn("failed to save session", "error", err)
	}
	return next.Token, nil
}

// setSession replaces the session, persists it and tells subscribers.
func (c *Client) setSession(sess *Session) {
	c.mu.Lock()
	c.session = sess
	c.source = nil
	if sess != nil {
		c.source = c.tokenSource(sess)
	}
	subs := make([]func(*model.Account), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	var err error
	var account *model.Account
	if sess != nil {
		err = c.tokens.Save(sess)
		acct := sess.Account
		account = &acct
	} else {
		err = c.tokens.Remove()
	}
	if err != nil {
		c.logger.Warn("failed to persist session", "error", err)
	}

	for _, fn := range subs {
		fn(copyAccount(account))
	}
}

// Account returns the signed-in account, or nil.
func (c *Client) Account() *model.Account {
	sess := c.currentSession()
	if sess == nil {
		return nil
	}
	acct := sess.Account
	return &acct
}

func (c *Client) Login(ctx context.Context, email, password string) (model.Account, error) {
	return c.authenticate(ctx, "/api/auth/login", email, password)
}

func (c *Client) Register(ctx context.Context, email, password string) (model.Account, error) {
	return c.authenticate(ctx, "/api/auth/register", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (model.Account, error) {
	var resp dto.AuthResponse
	err := c.public(ctx, call{
		method: http.MethodPost,
		path:   path,
		body:   model.Credentials{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return model.Account{}, err
	}

	c.setSession(&Session{
		Token:   newToken(dto.TokenPair{Token: resp.Token, Refresh: resp.Refresh}),
		Account: resp.User,
	})
	return resp.User, nil
}

// Logout revokes both tokens on the server and forgets the session. The
// local session is dropped even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	sess := c.currentSession()
	if sess == nil {
		return nil
	}

	err := c.authed(ctx, call{
		method: http.MethodPost,
		path:   "/api/user/logout",
		header: http.Header{"Refresh-Token": []string{sess.Token.RefreshToken}},
	}, nil)
	c.setSession(nil)

	if err != nil && planner.KindOf(err) != planner.KindNotAuthenticated {
		return err
	}
	return nil
}

func (c *Client) OnAuthChange(fn func(*model.Account)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	fn(c.Account())
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func copyAccount(a *model.Account) *model.Account {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}
