package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/assignment-champs-api/internal/dto"
)

// ErrInvalidToken indicates a token failed signature or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Registered names that callers cannot override through extra claims.
var reservedClaims = map[string]struct{}{
	"email": {}, "name": {}, "sub": {}, "iat": {}, "exp": {},
	"nbf": {}, "iss": {}, "aud": {}, "jti": {},
}

// Claims is the payload carried by session tokens.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies session tokens.
type TokenService interface {
	Issue(payload dto.TokenRequest) (string, time.Time, error)
	Verify(token string) (*Claims, error)
}

type tokenService struct {
	secret    []byte
	ttl       time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTokenService builds an HMAC-SHA256 token service.
func NewTokenService(secret string, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &tokenService{
		secret:    []byte(secret),
		ttl:       ttl,
		validator: validate,
		logger:    logger.With().Str("component", "token_service").Logger(),
		now:       time.Now,
	}
}

func (s *tokenService) Issue(payload dto.TokenRequest) (string, time.Time, error) {
	if err := s.validator.Struct(payload); err != nil {
		return "", time.Time{}, err
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	email := strings.TrimSpace(payload.Email)

	claims := jwt.MapClaims{}
	for key, value := range payload.Extra {
		if _, reserved := reservedClaims[key]; reserved {
			continue
		}
		claims[key] = value
	}
	claims["email"] = email
	if name := strings.TrimSpace(payload.Name); name != "" {
		claims["name"] = name
	}
	claims["sub"] = email
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(expiresAt)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info().Str("email", email).Int("extra_claims", len(payload.Extra)).Time("expires_at", expiresAt).Msg("token issued")
	return signed, expiresAt, nil
}

func (s *tokenService) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	keyFunc := func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}
	parsed, err := jwt.ParseWithClaims(token, claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Email == "" {
		claims.Email = claims.Subject
	}

	return claims, nil
}
