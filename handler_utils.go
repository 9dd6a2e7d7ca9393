package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	errValidatingJWT = errors.New("failed to validate session token")
	errMissingRole   = errors.New("role is not present in token")
)

// session is what the follow-up view receives after a successful login.
type session struct {
	user      User
	token     string
	expiresAt time.Time
}

type sessionClaims struct {
	Role Role   `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type sessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newSessionIssuer(secret string, ttl time.Duration) sessionIssuer {
	return sessionIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (si sessionIssuer) issue(u User) (session, error) {
	now := si.now()
	exp := now.Add(si.ttl)

	claims := sessionClaims{
		Role: u.Role(),
		Name: u.Name(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(si.secret)
	if err != nil {
		return session{}, fmt.Errorf("sign token: %w", err)
	}

	return session{user: u, token: token, expiresAt: exp}, nil
}

func (si sessionIssuer) verify(tokenString string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return si.secret, nil
	})

	switch {
	case err == nil && token.Valid:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, fmt.Errorf("%w: that's not even a token", errValidatingJWT)
	case errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, fmt.Errorf("%w: token is either expired or not active yet", errValidatingJWT)
	default:
		return nil, fmt.Errorf("%w: %v", errValidatingJWT, err)
	}

	if !claims.Role.valid() {
		return nil, errMissingRole
	}
	return claims, nil
}
