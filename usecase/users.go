package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/model"
	"github.com/yakir1992/todoapp/repository"
	"github.com/yakir1992/todoapp/services"
	"github.com/yakir1992/todoapp/utils"
)

type UsersRepository interface {
	AddUser(ctx context.Context, user *model.User) error
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUser(ctx context.Context, userID string) (*model.User, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	TouchSession(ctx context.Context, sessionID string) error
	EndSession(ctx context.Context, sessionID, userID string) error
	GetUserActiveSessions(ctx context.Context, userID string) ([]*model.Session, error)
}

type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, token string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	RevokeIfNew(ctx context.Context, token string, expiresAt time.Time) (bool, error)
}

// ClientMeta describes the device a session is opened from.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

type UserService struct {
	users      UsersRepository
	sessions   SessionRepository
	tokens     *services.TokenService
	blacklist  TokenBlacklist
	sessionTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

func NewUserService(
	users UsersRepository,
	sessions SessionRepository,
	tokens *services.TokenService,
	blacklist TokenBlacklist,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *UserService {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &UserService{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		blacklist:  blacklist,
		sessionTTL: sessionTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates an account and signs it in.
func (s *UserService) Register(ctx context.Context, creds model.Credentials, meta ClientMeta) (dto.AuthResponse, error) {
	if !utils.ValidEmail(creds.Email) {
		utils.TrackAuthAttempt("failure", "register")
		return dto.AuthResponse{}, ErrInvalidEmail
	}
	if !utils.ValidatePassword(creds.Password) {
		utils.TrackAuthAttempt("failure", "register")
		return dto.AuthResponse{}, ErrWeakPassword
	}

	existing, err := s.users.FindUserByEmail(ctx, creds.Email)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	if existing != nil {
		utils.TrackAuthAttempt("failure", "register")
		return dto.AuthResponse{}, ErrEmailInUse
	}

	hash, err := services.HashPassword(creds.Password)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	userID, err := utils.GenerateUserID()
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("failed to generate user id: %w", err)
	}

	user := &model.User{
		UserID:    userID,
		Email:     creds.Email,
		Password:  hash,
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.AddUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return dto.AuthResponse{}, ErrEmailInUse
		}
		return dto.AuthResponse{}, err
	}

	utils.TrackAuthAttempt("success", "register")
	s.logger.Info("user registered", "user_id", user.UserID)
	return s.startSession(ctx, user, meta)
}

// Login checks credentials and opens a new session.
func (s *UserService) Login(ctx context.Context, creds model.Credentials, meta ClientMeta) (dto.AuthResponse, error) {
	user, err := s.users.FindUserByEmail(ctx, creds.Email)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	if user == nil || !services.ComparePasswords(user.Password, creds.Password) {
		utils.TrackAuthAttempt("failure", "login")
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	utils.TrackAuthAttempt("success", "login")
	return s.startSession(ctx, user, meta)
}

// Refresh rotates a refresh token. The presented token is revoked so it
// cannot be replayed.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (dto.TokenPair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		return dto.TokenPair{}, ErrInvalidCredentials
	}

	// Claiming the token revokes it; a replay loses the claim.
	claimed, err := s.blacklist.RevokeIfNew(ctx, refreshToken, expiry(claims))
	if err != nil {
		return dto.TokenPair{}, err
	}
	if !claimed {
		utils.TrackAuthAttempt("failure", "refresh")
		return dto.TokenPair{}, ErrInvalidCredentials
	}

	session, err := s.sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		return dto.TokenPair{}, err
	}
	if session == nil || !session.IsActive || session.ExpiresAt.Before(s.now()) {
		return dto.TokenPair{}, ErrSessionExpired
	}

	utils.TrackAuthAttempt("success", "refresh")
	return s.tokens.GeneratePair(claims.UserID, claims.SessionID)
}

// Logout revokes the access token and, when given, the refresh token, then
// ends the session both belong to.
func (s *UserService) Logout(ctx context.Context, accessToken string, claims *services.Claims, refreshToken string) error {
	if err := s.blacklist.BlacklistToken(ctx, accessToken, expiry(claims)); err != nil {
		return err
	}

	if refreshToken != "" {
		refreshClaims, err := s.tokens.ParseRefresh(refreshToken)
		if err == nil && refreshClaims.UserID == claims.UserID {
			if err := s.blacklist.BlacklistToken(ctx, refreshToken, expiry(refreshClaims)); err != nil {
				return err
			}
		} else {
			s.logger.Warn("ignoring unusable refresh token on logout", "user_id", claims.UserID)
		}
	}

	if claims.SessionID != "" {
		err := s.sessions.EndSession(ctx, claims.SessionID, claims.UserID)
		if err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
			return err
		}
	}

	s.logger.Info("user logged out", "user_id", claims.UserID, "session_id", claims.SessionID)
	return nil
}

// Authenticate validates an access token for middleware use.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*services.Claims, error) {
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrSessionExpired
	}
	return claims, nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (model.Account, error) {
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return model.Account{}, err
	}
	if user == nil {
		return model.Account{}, ErrInvalidCredentials
	}
	return user.Account(), nil
}

func (s *UserService) ActiveSessions(ctx context.Context, userID string) ([]*model.Session, error) {
	return s.sessions.GetUserActiveSessions(ctx, userID)
}

// TouchSession records activity; a missing session is not an error here.
func (s *UserService) TouchSession(ctx context.Context, sessionID string) error {
	err := s.sessions.TouchSession(ctx, sessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil
	}
	return err
}

func (s *UserService) startSession(ctx context.Context, user *model.User, meta ClientMeta) (dto.AuthResponse, error) {
	now := s.now().UTC()
	session := &model.Session{
		SessionID:      utils.GenerateID(),
		UserID:         user.UserID,
		DisplayName:    utils.GenerateSessionName(meta.UserAgent),
		DeviceInfo:     utils.DeviceInfo(meta.UserAgent),
		IPAddress:      meta.IPAddress,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.sessionTTL),
		LastActivityAt: now,
		IsActive:       true,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return dto.AuthResponse{}, err
	}

	pair, err := s.tokens.GeneratePair(user.UserID, session.SessionID)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{
		Token:   pair.Token,
		Refresh: pair.Refresh,
		User:    user.Account(),
	}, nil
}

func expiry(claims *services.Claims) time.Time {
	if claims == nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
