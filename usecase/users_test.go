package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yakir1992/todoapp/config"
	"github.com/yakir1992/todoapp/model"
	"github.com/yakir1992/todoapp/services"
)

type userServiceFixture struct {
	svc       *UserService
	users     *fakeUsersRepo
	sessions  *fakeSessionRepo
	blacklist *fakeBlacklist
	tokens    *services.TokenService
}

func newUserServiceFixture() userServiceFixture {
	f := userServiceFixture{
		users:     newFakeUsersRepo(),
		sessions:  newFakeSessionRepo(),
		blacklist: newFakeBlacklist(),
		tokens: services.NewTokenService(config.JWTConfig{
			Secret:            "test_secret_key",
			Issuer:            "lessismore",
			Expiration:        time.Hour,
			RefreshExpiration: 24 * time.Hour,
		}),
	}
	f.svc = NewUserService(f.users, f.sessions, f.tokens, f.blacklist, 48*time.Hour, nil)
	return f
}

const testUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name    string
		creds   model.Credentials
		wantErr error
	}{
		{"valid", model.Credentials{Email: "a@example.com", Password: "secret1"}, nil},
		{"invalid email", model.Credentials{Email: "not-an-email", Password: "secret1"}, ErrInvalidEmail},
		{"weak password", model.Credentials{Email: "a@example.com", Password: "12345"}, ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserServiceFixture()
			resp, err := f.svc.Register(context.Background(), tt.creds, ClientMeta{UserAgent: testUA})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.creds.Email, resp.User.Email)
			assert.NotEmpty(t, resp.Token)
			assert.NotEmpty(t, resp.Refresh)
			require.Len(t, f.sessions.sessions, 1)
			for _, s := range f.sessions.sessions {
				assert.Equal(t, "Chrome on macOS", s.DisplayName)
			}
		})
	}
}

func TestUserService_RegisterEmailInUse(t *testing.T) {
	f := newUserServiceFixture()
	ctx := context.Background()
	creds := model.Credentials{Email: "a@example.com", Password: "secret1"}

	_, err := f.svc.Register(ctx, creds, ClientMeta{})
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, creds, ClientMeta{})
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestUserService_Login(t *testing.T) {
	f := newUserServiceFixture()
	ctx := context.Background()
	creds := model.Credentials{Email: "a@example.com", Password: "secret1"}
	registered, err := f.svc.Register(ctx, creds, ClientMeta{})
	require.NoError(t, err)

	resp, err := f.svc.Login(ctx, creds, ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, registered.User, resp.User)

	_, err = f.svc.Login(ctx, model.Credentials{Email: "a@example.com", Password: "wrong!!"}, ClientMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, model.Credentials{Email: "b@example.com", Password: "secret1"}, ClientMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_RefreshRotates(t *testing.T) {
	f := newUserServiceFixture()
	ctx := context.Background()
	resp, err := f.svc.Register(ctx, model.Credentials{Email: "a@example.com", Password: "secret1"}, ClientMeta{})
	require.NoError(t, err)

	pair, err := f.svc.Refresh(ctx, resp.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Token)

	_, err = f.svc.Refresh(ctx, resp.Refresh)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "a rotated refresh token is single use")

	_, err = f.svc.Refresh(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "access tokens cannot refresh")
}

func TestUserService_ConcurrentRefreshIsSingleUse(t *testing.T) {
	f := newUserServiceFixture()
	ctx := context.Background()
	resp, err := f.svc.Register(ctx, model.Credentials{Email: "a@example.com", Password: "secret1"}, ClientMeta{})
	require.NoError(t, err)

	// Hold every caller that gets past the revocation check so they overlap.
	f.sessions.onGet = func() { time.Sleep(20 * time.Millisecond) }

	const callers = 4
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, callers)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.svc.Refresh(ctx, resp.Refresh)
		}(i)
	}
	close(start)
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.Equal(t, 1, ok, "one refresh token yields one pair")
}

func TestUserService_Logout(t *testing.T) {
	f := newUserServiceFixture()
	ctx := context.Background()
	resp, err := f.svc.Register(ctx, model.Credentials{Email: "a@example.com", Password: "secret1"}, ClientMeta{})
	require.NoError(t, err)

	claims, err := f.svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, resp.Token, claims, resp.Refresh))

	_, err = f.svc.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = f.svc.Refresh(ctx, resp.Refresh)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	active, err := f.svc.ActiveSessions(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestUserService_RefreshAfterSessionEnded(t *testing.T) {
	f := newUserServiceFixture()
	ctx := context.Background()
	resp, err := f.svc.Register(ctx, model.Credentials{Email: "a@example.com", Password: "secret1"}, ClientMeta{})
	require.NoError(t, err)

	for _, s := range f.sessions.sessions {
		s.IsActive = false
	}
	_, err = f.svc.Refresh(ctx, resp.Refresh)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestUserService_Profile(t *testing.T) {
	f := newUserServiceFixture()
	ctx := context.Background()
	resp, err := f.svc.Register(ctx, model.Credentials{Email: "a@example.com", Password: "secret1"}, ClientMeta{})
	require.NoError(t, err)

	account, err := f.svc.Profile(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", account.Email)

	_, err = f.svc.Profile(ctx, "ghost")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
