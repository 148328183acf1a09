package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/huwdunnit/snookerup/internal/adapters/repository"
	"github.com/huwdunnit/snookerup/internal/domain/model"
	"github.com/huwdunnit/snookerup/pkg/logger"
)

// tokenClaims is the JWT payload for access tokens.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// Authenticate checks an email and password pair against the store.
// Unknown emails and wrong passwords are indistinguishable to the
// caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn a comparable amount of time so response timing does
			// not leak whether the email exists.
			_ = bcrypt.CompareHashAndPassword(
				[]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
				[]byte(password),
			)
			return model.User{}, ErrBadCredentials
		}
		return model.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return model.User{}, ErrBadCredentials
	}
	return u, nil
}

// IssueToken mints a signed access token for the user.
func (s *Service) IssueToken(user model.User) (token string, expiresAt time.Time, err error) {
	if len(s.tokenSecret) == 0 {
		return "", time.Time{}, errors.New("token secret not configured")
	}

	now := s.now()
	expiresAt = now.Add(s.tokenTTL)

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: user.ID,
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.tokenSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Debug(context.Background(), "issued token",
		logger.String("userId", user.ID),
		logger.Any("expiresAt", expiresAt),
	)
	return token, expiresAt, nil
}

// VerifyToken parses and validates an access token, returning the user
// it was issued to. Tokens for since-deleted users are rejected.
func (s *Service) VerifyToken(ctx context.Context, token string) (model.User, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.tokenSecret, nil
	})
	if err != nil || !parsed.Valid {
		return model.User{}, ErrInvalidToken
	}

	u, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrInvalidToken
		}
		return model.User{}, err
	}
	return u, nil
}
