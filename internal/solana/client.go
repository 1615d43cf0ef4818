// Package solana wraps the RPC calls the platform needs: listing recent
// activity on the platform wallet, measuring ALLY credits per transaction,
// and sending SPL token transfers with a tracking memo.
package solana

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"korus/config"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
)

var memoProgramID = solanago.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")

var ErrNoSigner = errors.New("platform wallet private key not configured")

// SignatureInfo is one entry from the platform wallet's signature history.
type SignatureInfo struct {
	Signature string
	Memo      string
	BlockTime time.Time
	Failed    bool
}

type Client struct {
	rpc      *solanarpc.Client
	platform solanago.PublicKey
	mint     solanago.PublicKey
	decimals uint8
	signer   solanago.PrivateKey // zero-length when payouts are disabled
}

func NewClient(cfg *config.SolanaConfig) (*Client, error) {
	platform, err := solanago.PublicKeyFromBase58(cfg.PlatformWalletAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid platform wallet address: %w", err)
	}
	mint, err := solanago.PublicKeyFromBase58(cfg.TokenMint)
	if err != nil {
		return nil, fmt.Errorf("invalid token mint: %w", err)
	}
	c := &Client{
		rpc:      solanarpc.New(cfg.RPCURL),
		platform: platform,
		mint:     mint,
		decimals: cfg.TokenDecimals,
	}
	if cfg.PlatformWalletPrivateKey != "" {
		signer, err := solanago.PrivateKeyFromBase58(cfg.PlatformWalletPrivateKey)
		if err != nil {
			return nil, fmt.Errorf("invalid platform wallet private key: %w", err)
		}
		if !signer.PublicKey().Equals(platform) {
			return nil, errors.New("platform private key does not match wallet address")
		}
		c.signer = signer
	}
	return c, nil
}

// CanSign reports whether the client holds the platform keypair.
func (c *Client) CanSign() bool { return len(c.signer) > 0 }

// RecentSignatures returns up to limit recent signatures touching the
// platform wallet, newest first.
func (c *Client) RecentSignatures(ctx context.Context, limit int) ([]SignatureInfo, error) {
	res, err := c.rpc.GetSignaturesForAddressWithOpts(ctx, c.platform, &solanarpc.GetSignaturesForAddressOpts{
		Limit:      &limit,
		Commitment: solanarpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("getSignaturesForAddress: %w", err)
	}
	out := make([]SignatureInfo, 0, len(res))
	for _, sig := range res {
		info := SignatureInfo{
			Signature: sig.Signature.String(),
			Failed:    sig.Err != nil,
		}
		if sig.Memo != nil {
			info.Memo = *sig.Memo
		}
		if sig.BlockTime != nil {
			info.BlockTime = sig.BlockTime.Time()
		}
		out = append(out, info)
	}
	return out, nil
}

// TokenCredit returns how many ALLY the platform wallet received in the given
// transaction, derived from the pre/post token balance delta. Outgoing
// transfers and unrelated mints yield zero.
func (c *Client) TokenCredit(ctx context.Context, signature string) (float64, error) {
	sig, err := solanago.SignatureFromBase58(signature)
	if err != nil {
		return 0, fmt.Errorf("invalid signature %s: %w", signature, err)
	}
	maxVersion := uint64(0)
	res, err := c.rpc.GetTransaction(ctx, sig, &solanarpc.GetTransactionOpts{
		Encoding:                       solanago.EncodingBase64,
		Commitment:                     solanarpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		return 0, fmt.Errorf("getTransaction %s: %w", signature, err)
	}
	if res == nil || res.Meta == nil {
		return 0, nil
	}

	pre := make(map[uint16]float64)
	for _, b := range res.Meta.PreTokenBalances {
		if c.isPlatformBalance(b) {
			pre[b.AccountIndex] = uiAmount(b)
		}
	}
	var credit float64
	for _, b := range res.Meta.PostTokenBalances {
		if c.isPlatformBalance(b) {
			if delta := uiAmount(b) - pre[b.AccountIndex]; delta > 0 {
				credit += delta
			}
		}
	}
	return credit, nil
}

func (c *Client) isPlatformBalance(b solanarpc.TokenBalance) bool {
	return b.Mint.Equals(c.mint) && b.Owner != nil && b.Owner.Equals(c.platform)
}

func uiAmount(b solanarpc.TokenBalance) float64 {
	if b.UiTokenAmount == nil || b.UiTokenAmount.UiAmount == nil {
		return 0
	}
	return *b.UiTokenAmount.UiAmount
}

// SendTokens transfers whole ALLY tokens from the platform wallet to dest,
// attaching memoText for downstream reconciliation. Returns the transaction
// signature.
func (c *Client) SendTokens(ctx context.Context, dest string, amount int64, memoText string) (string, error) {
	if !c.CanSign() {
		return "", ErrNoSigner
	}
	destPub, err := solanago.PublicKeyFromBase58(dest)
	if err != nil {
		return "", fmt.Errorf("invalid destination wallet %s: %w", dest, err)
	}

	sourceATA, _, err := solanago.FindAssociatedTokenAddress(c.platform, c.mint)
	if err != nil {
		return "", fmt.Errorf("derive source token account: %w", err)
	}
	destATA, _, err := solanago.FindAssociatedTokenAddress(destPub, c.mint)
	if err != nil {
		return "", fmt.Errorf("derive destination token account: %w", err)
	}

	raw := uint64(amount) * uint64(math.Pow10(int(c.decimals)))
	transferIx := token.NewTransferCheckedInstruction(
		raw,
		c.decimals,
		sourceATA,
		c.mint,
		destATA,
		c.platform,
		nil,
	).Build()
	memoIx := solanago.NewInstruction(memoProgramID, solanago.AccountMetaSlice{}, []byte(memoText))

	blockhash, err := c.rpc.GetLatestBlockhash(ctx, solanarpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("getLatestBlockhash: %w", err)
	}
	tx, err := solanago.NewTransaction(
		[]solanago.Instruction{transferIx, memoIx},
		blockhash.Value.Blockhash,
		solanago.TransactionPayer(c.platform),
	)
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}
	if _, err := tx.Sign(func(key solanago.PublicKey) *solanago.PrivateKey {
		if key.Equals(c.platform) {
			return &c.signer
		}
		return nil
	}); err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, solanarpc.TransactionOpts{
		PreflightCommitment: solanarpc.CommitmentConfirmed,
	})
	if err != nil {
		return "", fmt.Errorf("sendTransaction: %w", err)
	}
	return sig.String(), nil
}

// OwnsToken reports whether owner holds any token account for the given
// mint. Used to detect Seeker genesis token holders at signup.
func (c *Client) OwnsToken(ctx context.Context, owner, mint string) (bool, error) {
	ownerPub, err := solanago.PublicKeyFromBase58(owner)
	if err != nil {
		return false, fmt.Errorf("invalid owner wallet %s: %w", owner, err)
	}
	mintPub, err := solanago.PublicKeyFromBase58(mint)
	if err != nil {
		return false, fmt.Errorf("invalid mint %s: %w", mint, err)
	}
	res, err := c.rpc.GetTokenAccountsByOwner(ctx, ownerPub,
		&solanarpc.GetTokenAccountsConfig{Mint: &mintPub},
		&solanarpc.GetTokenAccountsOpts{Commitment: solanarpc.CommitmentConfirmed},
	)
	if err != nil {
		return false, fmt.Errorf("getTokenAccountsByOwner: %w", err)
	}
	return res != nil && len(res.Value) > 0, nil
}
