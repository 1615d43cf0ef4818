package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
)

func signedMessage(t *testing.T, message string) (walletAddress, signature string) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	sig := ed25519.Sign(priv, []byte(message))
	return base58.Encode(pub), base58.Encode(sig)
}

func TestVerifyWalletSignature(t *testing.T) {
	msg := "korus login 2026-08-28T12:00:00Z"
	wallet, sig := signedMessage(t, msg)
	require.NoError(t, VerifyWalletSignature(wallet, msg, sig))
}

func TestVerifyWalletSignatureRejectsTamperedMessage(t *testing.T) {
	wallet, sig := signedMessage(t, "original message")
	require.ErrorIs(t, VerifyWalletSignature(wallet, "tampered message", sig), ErrBadSignature)
}

func TestVerifyWalletSignatureRejectsWrongWallet(t *testing.T) {
	msg := "korus login"
	_, sig := signedMessage(t, msg)
	otherWallet, _ := signedMessage(t, msg)
	require.ErrorIs(t, VerifyWalletSignature(otherWallet, msg, sig), ErrBadSignature)
}

func TestVerifyWalletSignatureRejectsMalformedInputs(t *testing.T) {
	msg := "korus login"
	wallet, sig := signedMessage(t, msg)
	require.ErrorIs(t, VerifyWalletSignature("not-base58-0OIl", msg, sig), ErrBadSignature)
	require.ErrorIs(t, VerifyWalletSignature(wallet, msg, "too-short"), ErrBadSignature)
	require.ErrorIs(t, VerifyWalletSignature(wallet, msg, ""), ErrBadSignature)
}
