// Package utils provides helpers for minting and checking API tokens.
package utils

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed JWT and its expiry.
type AccessToken struct {
    Token string    `json:"token"`
    Exp   time.Time `json:"expires_at"`
}

// Claims are the fields the API reads from a token.
type Claims struct {
    Role string `json:"role"`
    jwt.RegisteredClaims
}

// NewAccessToken signs an HS256 token for subject with the given role.
// Operators mint these from the CLI; there are no user accounts.
func NewAccessToken(secret, subject, role string, ttl time.Duration) (AccessToken, error) {
    if secret == "" {
        return AccessToken{}, errors.New("empty signing secret")
    }
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := Claims{
        Role: role,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   subject,
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw against secret and returns its claims.
// Only HS256 is accepted and an expiry is required.
func ParseAccessToken(secret, raw string) (*Claims, error) {
    var claims Claims
    _, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
    if err != nil {
        return nil, err
    }
    return &claims, nil
}
