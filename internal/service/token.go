package service

import (
	"errors"
	"fmt"
	"time"

	"volunteer-connect/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	AccountID int    `json:"uid"`
	Email     string `json:"email"`
	UserType  string `json:"user_type"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the HS256 tokens handed out by the auth API.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(a *model.Account) (string, error) {
	return t.sign(a.ID, a.Email, a.UserType)
}

func (t *TokenIssuer) Renew(c *Claims) (string, error) {
	return t.sign(c.AccountID, c.Email, c.UserType)
}

func (t *TokenIssuer) sign(id int, email, userType string) (string, error) {
	now := t.now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AccountID: id,
		Email:     email,
		UserType:  userType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (t *TokenIssuer) Parse(raw string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("parse token: invalid")
	}
	return &claims, nil
}
