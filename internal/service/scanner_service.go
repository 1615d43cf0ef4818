package service

import (
	"context"
	"log"
	"strings"

	"korus/internal/domain"
	"korus/internal/solana"
	"korus/pkg/week"
)

// ChainReader is the slice of the Solana client the scanner needs.
type ChainReader interface {
	RecentSignatures(ctx context.Context, limit int) ([]solana.SignatureInfo, error)
	TokenCredit(ctx context.Context, signature string) (float64, error)
}

// ScanTotals holds per-category ALLY credited to the platform wallet over one
// accounting window, as observed on chain.
type ScanTotals struct {
	Sponsored float64
	Game      float64
	Event     float64
	TxCount   int
	Skipped   int
}

func (t ScanTotals) ForCategory(category string) float64 {
	switch category {
	case domain.RevenueGame:
		return t.Game
	case domain.RevenueEvent:
		return t.Event
	default:
		return t.Sponsored
	}
}

// ScannerService reads the platform wallet's recent history and totals the
// ALLY credits that fall inside an accounting week.
type ScannerService struct {
	chain          ChainReader
	signatureLimit int
}

func NewScannerService(chain ChainReader, signatureLimit int) *ScannerService {
	if signatureLimit <= 0 {
		signatureLimit = 1000
	}
	return &ScannerService{chain: chain, signatureLimit: signatureLimit}
}

// ScanWindow totals on-chain ALLY credits inside w. Failures on a single
// transaction are logged and skipped; a failure listing signatures is fatal
// because the scan would be silently incomplete.
func (s *ScannerService) ScanWindow(ctx context.Context, w week.Window) (ScanTotals, error) {
	var totals ScanTotals

	sigs, err := s.chain.RecentSignatures(ctx, s.signatureLimit)
	if err != nil {
		return totals, err
	}

	for _, sig := range sigs {
		if sig.Failed {
			continue
		}
		// History is newest first; once we pass the window start the rest
		// of the list is older still.
		if !sig.BlockTime.IsZero() && sig.BlockTime.Before(w.Start) {
			break
		}
		if sig.BlockTime.IsZero() || !w.Contains(sig.BlockTime) {
			continue
		}

		credit, err := s.chain.TokenCredit(ctx, sig.Signature)
		if err != nil {
			log.Printf("[scanner] skipping tx %s: %v", sig.Signature, err)
			totals.Skipped++
			continue
		}
		if credit <= 0 {
			continue
		}

		totals.TxCount++
		switch CategorizeMemo(sig.Memo) {
		case domain.RevenueGame:
			totals.Game += credit
		case domain.RevenueEvent:
			totals.Event += credit
		default:
			totals.Sponsored += credit
		}
	}
	return totals, nil
}

// CategorizeMemo maps a transaction memo onto a revenue category. The
// sponsored match wins when a memo matches several categories; unlabeled
// credits also count as sponsored revenue.
func CategorizeMemo(memo string) string {
	m := strings.ToLower(memo)
	switch {
	case strings.Contains(m, "sponsored") || strings.Contains(m, "ad"):
		return domain.RevenueSponsored
	case strings.Contains(m, "game") || strings.Contains(m, "wager"):
		return domain.RevenueGame
	case strings.Contains(m, "event") || strings.Contains(m, "ticket"):
		return domain.RevenueEvent
	default:
		return domain.RevenueSponsored
	}
}
