package auth

import (
	"testing"
	"time"

	"korus/config"

	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret: "test-secret",
		Expiry: time.Hour,
		Issuer: "korus",
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateToken(cfg, "6xKq9z1PcdoD7nTwAKXYZ8fWPYuDoQvXzABkQp9Wallet", "premium")
	require.NoError(t, err)

	claims, err := ParseToken(cfg, token)
	require.NoError(t, err)
	require.Equal(t, "6xKq9z1PcdoD7nTwAKXYZ8fWPYuDoQvXzABkQp9Wallet", claims.WalletAddress)
	require.Equal(t, "premium", claims.Tier)
	require.Equal(t, "korus", claims.Issuer)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testJWTConfig(), "wallet", "standard")
	require.NoError(t, err)

	other := testJWTConfig()
	other.Secret = "different-secret"
	_, err = ParseToken(other, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Expiry = -time.Minute
	token, err := GenerateToken(cfg, "wallet", "standard")
	require.NoError(t, err)

	_, err = ParseToken(cfg, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken(testJWTConfig(), "not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
