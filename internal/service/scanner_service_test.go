package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"korus/internal/domain"
	"korus/internal/solana"
	"korus/pkg/week"

	"github.com/stretchr/testify/require"
)

type fakeChain struct {
	sigs    []solana.SignatureInfo
	sigErr  error
	credits map[string]float64
	txErrs  map[string]error
}

func (f *fakeChain) RecentSignatures(ctx context.Context, limit int) ([]solana.SignatureInfo, error) {
	if f.sigErr != nil {
		return nil, f.sigErr
	}
	if limit < len(f.sigs) {
		return f.sigs[:limit], nil
	}
	return f.sigs, nil
}

func (f *fakeChain) TokenCredit(ctx context.Context, signature string) (float64, error) {
	if err, ok := f.txErrs[signature]; ok {
		return 0, err
	}
	return f.credits[signature], nil
}

func TestScanWindowCategorizesByMemo(t *testing.T) {
	w := week.Of(time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), 20)
	inWeek := w.Start.Add(48 * time.Hour)

	chain := &fakeChain{
		sigs: []solana.SignatureInfo{
			{Signature: "s1", Memo: "sponsored post #42", BlockTime: inWeek},
			{Signature: "s2", Memo: "game wager escrow", BlockTime: inWeek},
			{Signature: "s3", Memo: "event ticket: meetup", BlockTime: inWeek},
			{Signature: "s4", Memo: "", BlockTime: inWeek}, // unlabeled -> sponsored
		},
		credits: map[string]float64{"s1": 100, "s2": 50, "s3": 25, "s4": 10},
	}

	totals, err := NewScannerService(chain, 100).ScanWindow(context.Background(), w)
	require.NoError(t, err)
	require.Equal(t, 110.0, totals.Sponsored)
	require.Equal(t, 50.0, totals.Game)
	require.Equal(t, 25.0, totals.Event)
	require.Equal(t, 4, totals.TxCount)
	require.Equal(t, 0, totals.Skipped)
}

func TestScanWindowFiltersOutsideAndFailed(t *testing.T) {
	w := week.Of(time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), 20)
	chain := &fakeChain{
		sigs: []solana.SignatureInfo{
			{Signature: "next", BlockTime: w.End.Add(time.Hour)},           // after window
			{Signature: "bad", BlockTime: w.Start.Add(time.Hour), Failed: true},
			{Signature: "ok", BlockTime: w.Start.Add(time.Hour)},
			{Signature: "old", BlockTime: w.Start.Add(-time.Hour)},         // stops the scan
			{Signature: "older", BlockTime: w.Start.Add(-48 * time.Hour)},
		},
		credits: map[string]float64{"next": 99, "ok": 40, "old": 99, "older": 99},
	}

	totals, err := NewScannerService(chain, 100).ScanWindow(context.Background(), w)
	require.NoError(t, err)
	require.Equal(t, 40.0, totals.Sponsored)
	require.Equal(t, 1, totals.TxCount)
}

func TestScanWindowSkipsPerTxFailures(t *testing.T) {
	w := week.Of(time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), 20)
	inWeek := w.Start.Add(time.Hour)
	chain := &fakeChain{
		sigs: []solana.SignatureInfo{
			{Signature: "s1", BlockTime: inWeek},
			{Signature: "s2", BlockTime: inWeek},
		},
		credits: map[string]float64{"s2": 30},
		txErrs:  map[string]error{"s1": errors.New("getTransaction: timeout")},
	}

	totals, err := NewScannerService(chain, 100).ScanWindow(context.Background(), w)
	require.NoError(t, err)
	require.Equal(t, 30.0, totals.Sponsored)
	require.Equal(t, 1, totals.Skipped)
}

func TestScanWindowListingFailureIsFatal(t *testing.T) {
	chain := &fakeChain{sigErr: errors.New("rpc unavailable")}
	w := week.Of(time.Now(), 20)
	_, err := NewScannerService(chain, 100).ScanWindow(context.Background(), w)
	require.Error(t, err)
}

func TestCategorizeMemo(t *testing.T) {
	tests := []struct {
		memo string
		want string
	}{
		{"Sponsored post purchase", domain.RevenueSponsored},
		{"ad campaign week 35", domain.RevenueSponsored},
		{"GAME wager", domain.RevenueGame},
		{"chess wager escrow", domain.RevenueGame},
		{"Event ticket #9", domain.RevenueEvent},
		{"", domain.RevenueSponsored},
		{"random transfer", domain.RevenueSponsored},
		// sponsored/ad wins over the other categories
		{"sponsored game promo", domain.RevenueSponsored},
		{"ad for event tickets", domain.RevenueSponsored},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, CategorizeMemo(tt.memo), "memo %q", tt.memo)
	}
}
