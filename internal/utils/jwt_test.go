package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
    tok, err := NewAccessToken("s3cret", "ops", "editor", time.Hour)
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, 5*time.Second)

    claims, err := ParseAccessToken("s3cret", tok.Token)
    require.NoError(t, err)
    assert.Equal(t, "ops", claims.Subject)
    assert.Equal(t, "editor", claims.Role)
}

func TestParseAccessTokenRejects(t *testing.T) {
    good, err := NewAccessToken("s3cret", "ops", "editor", time.Hour)
    require.NoError(t, err)
    expired, err := NewAccessToken("s3cret", "ops", "editor", -time.Minute)
    require.NoError(t, err)
    noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ops", "role": "admin"}).SignedString([]byte("s3cret"))
    require.NoError(t, err)
    hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"sub": "ops", "exp": time.Now().Add(time.Hour).Unix()}).SignedString([]byte("s3cret"))
    require.NoError(t, err)

    tests := map[string]struct{ secret, raw string }{
        "wrong secret": {"other", good.Token},
        "expired":      {"s3cret", expired.Token},
        "no expiry":    {"s3cret", noExp},
        "wrong alg":    {"s3cret", hs512},
        "garbage":      {"s3cret", "not.a.jwt"},
    }
    for name, tt := range tests {
        t.Run(name, func(t *testing.T) {
            _, err := ParseAccessToken(tt.secret, tt.raw)
            assert.Error(t, err)
        })
    }
}

func TestNewAccessTokenNeedsSecret(t *testing.T) {
    _, err := NewAccessToken("", "ops", "admin", time.Hour)
    assert.Error(t, err)
}
