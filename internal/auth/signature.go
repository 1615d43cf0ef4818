package auth

import (
	"crypto/ed25519"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

var ErrBadSignature = errors.New("signature verification failed")

// VerifyWalletSignature checks that signature (base58) is a valid ed25519
// signature of message by the wallet's key. Solana wallet addresses are the
// ed25519 public key in base58.
func VerifyWalletSignature(walletAddress, message, signature string) error {
	pub, err := solana.PublicKeyFromBase58(walletAddress)
	if err != nil {
		return ErrBadSignature
	}
	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return ErrBadSignature
	}
	if !ed25519.Verify(ed25519.PublicKey(pub.Bytes()), []byte(message), sig) {
		return ErrBadSignature
	}
	return nil
}
