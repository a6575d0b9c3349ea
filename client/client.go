// Package client talks to the todo API over HTTP. It implements the planner's
// RemoteStore and IdentityProvider.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/model"
	"github.com/yakir1992/todoapp/planner"
	"golang.org/x/oauth2"
)

const DefaultTimeout = 10 * time.Second

var (
	_ planner.RemoteStore      = (*Client)(nil)
	_ planner.IdentityProvider = (*Client)(nil)
)

type Config struct {
	BaseURL string
	Timeout time.Duration
	// TokenPath is where the session is kept between runs. Empty keeps it
	// in memory only.
	TokenPath string
	UserAgent string
	Logger    *slog.Logger
	// Transport overrides the HTTP transport, mostly for tests.
	Transport http.RoundTripper
}

type Client struct {
	baseURL   string
	http      *http.Client
	tokens    TokenFile
	userAgent string
	logger    *slog.Logger

	// refreshMu serializes token rotation.
	refreshMu sync.Mutex

	mu      sync.Mutex
	session *Session
	source  oauth2.TokenSource
	subs    map[int]func(*model.Account)
	nextSub int
}

// New builds a client and resumes the saved session, if any. An unreadable
// token file leaves the client signed out.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("client: base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("client: invalid base URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "lessismore-cli"
	}

	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		http:      &http.Client{Timeout: cfg.Timeout, Transport: cfg.Transport},
		tokens:    TokenFile{Path: cfg.TokenPath},
		userAgent: cfg.UserAgent,
		logger:    cfg.Logger,
		subs:      map[int]func(*model.Account){},
	}

	sess, err := c.tokens.Load()
	if err != nil {
		c.logger.Warn("ignoring saved session", "path", cfg.TokenPath, "error", err)
	}
	if sess != nil {
		c.session = sess
		c.source = c.tokenSource(sess)
	}
	return c, nil
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	header http.Header
}

// envelope is the server's response wrapper.
type envelope struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    dto.ErrorCode   `json:"code"`
	Hint    string          `json:"hint"`
	Data    json.RawMessage `json:"data"`
}

// public sends a call that needs no session.
func (c *Client) public(ctx context.Context, cl call, out any) error {
	return c.do(ctx, c.http, cl, out)
}

// authed sends a call with the session's bearer token. An expired token is
// refreshed first, under ctx; a 401 triggers one refresh and retry. Writes
// without a session fail before any I/O.
func (c *Client) authed(ctx context.Context, cl call, out any) error {
	sess, src := c.currentAuth()
	if src == nil {
		return planner.ErrNotAuthenticated
	}

	if !sess.Token.Valid() {
		c.logger.Debug("access token expired, refreshing", "path", cl.path)
		if _, err := c.refresh(ctx, sess); err != nil {
			return err
		}
		if sess, src = c.currentAuth(); src == nil {
			return planner.ErrNotAuthenticated
		}
	}

	err := c.do(ctx, c.authClient(src), cl, out)
	if planner.KindOf(err) != planner.KindNotAuthenticated {
		return err
	}

	c.logger.Debug("access token rejected, refreshing", "path", cl.path)
	tok, rerr := c.refresh(ctx, sess)
	if rerr != nil {
		return rerr
	}
	return c.do(ctx, c.authClient(oauth2.StaticTokenSource(tok)), cl, out)
}

func (c *Client) do(ctx context.Context, hc *http.Client, cl call, out any) error {
	var payload []byte
	if cl.body != nil {
		var err error
		if payload, err = json.Marshal(cl.body); err != nil {
			return fmt.Errorf("encode %s: %w", cl.path, err)
		}
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, target, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range cl.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		var perr *planner.Error
		if errors.As(err, &perr) {
			return perr
		}
		return planner.NewRemoteUnknown(cl.method+" "+cl.path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api call",
		"method", cl.method,
		"path", cl.path,
		"status", resp.StatusCode,
		"latency", time.Since(start),
	)

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		if resp.StatusCode >= http.StatusBadRequest {
			return decodeError(resp.StatusCode, envelope{})
		}
		return planner.NewRemoteUnknown("invalid response from "+cl.path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, env)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return planner.NewRemoteUnknown("invalid response from "+cl.path, err)
	}
	return nil
}

// decodeError turns an error envelope into a tagged planner error.
func decodeError(status int, env envelope) error {
	msg := env.Error
	if msg == "" {
		msg = env.Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch env.Code {
	case dto.CodeIndexMissing:
		return planner.NewIndexMissing(msg, env.Hint)
	case dto.CodeNotAuthenticated:
		return &planner.Error{Kind: planner.KindNotAuthenticated, Message: msg}
	case dto.CodeInvalidCredentials:
		return planner.NewAuthFailure(planner.ReasonInvalidCredentials, msg)
	case dto.CodeWeakPassword:
		return planner.NewAuthFailure(planner.ReasonWeakPassword, msg)
	case dto.CodeEmailInUse:
		return planner.NewAuthFailure(planner.ReasonEmailInUse, msg)
	case dto.CodeInvalidEmail:
		return planner.NewAuthFailure(planner.ReasonInvalidEmail, msg)
	}

	if status == http.StatusUnauthorized {
		return &planner.Error{Kind: planner.KindNotAuthenticated, Message: msg}
	}
	return planner.NewRemoteUnknown(msg, nil)
}

func (c *Client) authClient(src oauth2.TokenSource) *http.Client {
	return &http.Client{
		Timeout:   c.http.Timeout,
		Transport: &oauth2.Transport{Source: src, Base: c.http.Transport},
	}
}
