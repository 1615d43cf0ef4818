package service

import (
	"context"
	"log"
	"time"

	"korus/config"
	"korus/internal/domain"
	"korus/internal/models"
	"korus/internal/repository"
	"korus/pkg/week"

	"github.com/jonboulle/clockwork"
)

// PoolService accumulates revenue into the weekly pool. Application actions
// record their revenue at the moment it happens; the pre-distribution chain
// scan tops up anything the app-side records missed.
type PoolService struct {
	poolRepo *repository.PoolRepository
	scanner  *ScannerService
	cfg      *config.DistributionConfig
	clock    clockwork.Clock
}

func NewPoolService(
	poolRepo *repository.PoolRepository,
	scanner *ScannerService,
	cfg *config.DistributionConfig,
	clock clockwork.Clock,
) *PoolService {
	return &PoolService{poolRepo: poolRepo, scanner: scanner, cfg: cfg, clock: clock}
}

func (s *PoolService) currentWindow() week.Window {
	return week.Of(s.clock.Now(), s.cfg.HourUTC)
}

// RecordRevenue adds amount to the current week's pool under category and
// writes the typed audit row. Called by the actions that actually take the
// money, not inferred later.
func (s *PoolService) RecordRevenue(category string, amount float64, sourceWallet, reference string) error {
	if amount <= 0 {
		return nil
	}
	w := s.currentWindow()
	return s.poolRepo.AddCategoryRevenue(w.Start, w.End, w.Distribution, category, amount, sourceWallet, reference)
}

// Reconcile compares the app-recorded pool against the on-chain totals for
// the window and adds any positive shortfall per category. On-chain credits
// the app never saw (direct wallet transfers) enter the pool here. The pool
// is never decremented: an app record exceeding the chain total is logged
// for operator review only.
func (s *PoolService) Reconcile(ctx context.Context, w week.Window) error {
	totals, err := s.scanner.ScanWindow(ctx, w)
	if err != nil {
		return err
	}

	pool, err := s.poolRepo.GetByWeekStart(w.Start)
	if err != nil {
		return err
	}
	var recorded models.WeeklyPool
	if pool != nil {
		recorded = *pool
	}

	checks := []struct {
		category string
		onChain  float64
		inPool   float64
	}{
		{domain.RevenueSponsored, totals.Sponsored, recorded.SponsoredRevenue},
		{domain.RevenueGame, totals.Game, recorded.GameFees},
		{domain.RevenueEvent, totals.Event, recorded.EventFees},
	}
	for _, c := range checks {
		diff := c.onChain - c.inPool
		if diff > 0.000001 {
			log.Printf("[pool] week %s: %s short by %.6f ALLY against chain, topping up",
				w.Start.Format("2006-01-02"), c.category, diff)
			if err := s.poolRepo.AddCategoryRevenue(w.Start, w.End, w.Distribution,
				c.category, diff, "", "chain-scan"); err != nil {
				return err
			}
		} else if diff < -0.000001 {
			log.Printf("[pool] week %s: %s recorded %.6f ALLY above chain total",
				w.Start.Format("2006-01-02"), c.category, -diff)
		}
	}
	log.Printf("[pool] week %s reconciled: %d chain txs counted, %d skipped",
		w.Start.Format("2006-01-02"), totals.TxCount, totals.Skipped)
	return nil
}

// PoolForWeek returns the pool row for the week containing t, or a zeroed
// window when no revenue has been recorded yet.
func (s *PoolService) PoolForWeek(t time.Time) (*models.WeeklyPool, error) {
	w := week.Of(t, s.cfg.HourUTC)
	pool, err := s.poolRepo.GetByWeekStart(w.Start)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		pool = &models.WeeklyPool{
			WeekStartDate:    w.Start,
			WeekEndDate:      w.End,
			DistributionDate: w.Distribution,
		}
	}
	return pool, nil
}

// RevenueEvents returns the audit trail for the week containing t.
func (s *PoolService) RevenueEvents(t time.Time) ([]models.RevenueEvent, error) {
	return s.poolRepo.RevenueEventsForWeek(week.StartOf(t))
}
