package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yakir1992/todoapp/config"
	"github.com/yakir1992/todoapp/dto"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims carried by both access and refresh tokens.
type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"sid"`
	Type      string `json:"type"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.Expiration,
		refreshTTL: cfg.RefreshExpiration,
		now:        time.Now,
	}
}

// GenerateToken signs an access token for the user's session.
func (s *TokenService) GenerateToken(userID, sessionID string) (string, error) {
	return s.sign(userID, sessionID, TokenTypeAccess, s.accessTTL)
}

func (s *TokenService) GenerateRefreshToken(userID, sessionID string) (string, error) {
	return s.sign(userID, sessionID, TokenTypeRefresh, s.refreshTTL)
}

// GeneratePair issues a fresh access and refresh token for one session.
func (s *TokenService) GeneratePair(userID, sessionID string) (dto.TokenPair, error) {
	access, err := s.GenerateToken(userID, sessionID)
	if err != nil {
		return dto.TokenPair{}, err
	}
	refresh, err := s.GenerateRefreshToken(userID, sessionID)
	if err != nil {
		return dto.TokenPair{}, err
	}
	return dto.TokenPair{Token: access, Refresh: refresh}, nil
}

func (s *TokenService) ParseAccess(token string) (*Claims, error) {
	return s.parse(token, TokenTypeAccess)
}

func (s *TokenService) ParseRefresh(token string) (*Claims, error) {
	return s.parse(token, TokenTypeRefresh)
}

func (s *TokenService) sign(userID, sessionID, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		Type:      tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (s *TokenService) parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Type != wantType {
		return nil, ErrWrongTokenType
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return claims, nil
}
