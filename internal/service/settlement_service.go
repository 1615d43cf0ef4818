package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"sync"
	"time"

	"korus/config"
	"korus/internal/models"
	"korus/pkg/retry"
	"korus/pkg/week"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// Guard failures that abort a run before anything is claimed or paid.
var (
	ErrNotDistributionDay = errors.New("today is not the distribution day")
	ErrNoPool             = errors.New("no revenue pool exists for the week")
	ErrPoolTooSmall       = errors.New("pool below minimum size")
	ErrNoParticipants     = errors.New("no eligible participants this week")
	ErrAlreadyDistributed = errors.New("week already distributed")
	ErrPayoutsDisabled    = errors.New("payouts disabled: no signing key")
)

// TokenSender is the slice of the Solana client settlement needs, separated
// so tests can run the full pipeline against a fake.
type TokenSender interface {
	SendTokens(ctx context.Context, dest string, amount int64, memoText string) (string, error)
	CanSign() bool
}

// Store interfaces cut to exactly what settlement touches; the repositories
// satisfy them.
type SettlementUserStore interface {
	EligibleForWeek(weekStart time.Time) ([]models.User, error)
	ResetWeeklyRep(weekStart time.Time) error
	AddAllyBalance(wallet string, amount float64) error
}

type SettlementPoolStore interface {
	GetByWeekStart(weekStart time.Time) (*models.WeeklyPool, error)
	ClaimForDistribution(weekStart, now time.Time, poolSize float64, totalRep, participants int) (bool, error)
}

type SettlementIntentStore interface {
	CreateIntents(intents []models.PayoutIntent) error
	UnsettledIntents(weekStart time.Time) ([]models.PayoutIntent, error)
	MarkIntentSent(id uint, txSignature string, sentAt time.Time) error
	MarkIntentFailed(id uint, cause string) error
	CreateDistribution(d *models.TokenDistribution) error
}

// PoolReconciler runs the pre-distribution chain rescan.
type PoolReconciler interface {
	Reconcile(ctx context.Context, w week.Window) error
}

// RunResult summarizes one settlement run.
type RunResult struct {
	WeekStart       time.Time `json:"week_start"`
	PoolSize        float64   `json:"pool_size"`
	TotalRevenue    float64   `json:"total_revenue"`
	TeamAmount      int64     `json:"team_amount"`
	TeamTxSignature string    `json:"team_tx_signature,omitempty"`
	Participants    int       `json:"participants"`
	TotalRep        int       `json:"total_rep"`
	Queued          int       `json:"queued"`
	Sent            int       `json:"sent"`
	Failed          int       `json:"failed"`
	BelowMinimum    int       `json:"below_minimum"`
	Resumed         bool      `json:"resumed"`
}

// SettlementService runs the weekly distribution: reconcile the pool against
// the chain, claim the week, queue payout intents, and drain the queue with
// a bounded worker pool. Every transfer is recorded before it is attempted.
type SettlementService struct {
	userRepo   SettlementUserStore
	poolRepo   SettlementPoolStore
	distRepo   SettlementIntentStore
	pools      PoolReconciler
	sender     TokenSender
	cfg        *config.DistributionConfig
	teamWallet string
	clock      clockwork.Clock
	retryCfg   retry.Config

	mu      sync.Mutex
	running bool
}

func NewSettlementService(
	userRepo SettlementUserStore,
	poolRepo SettlementPoolStore,
	distRepo SettlementIntentStore,
	pools PoolReconciler,
	sender TokenSender,
	cfg *config.DistributionConfig,
	teamWallet string,
	clock clockwork.Clock,
) *SettlementService {
	return &SettlementService{
		userRepo:   userRepo,
		poolRepo:   poolRepo,
		distRepo:   distRepo,
		pools:      pools,
		sender:     sender,
		cfg:        cfg,
		teamWallet: teamWallet,
		clock:      clock,
		retryCfg:   retry.DefaultConfig(),
	}
}

// Run executes the weekly distribution for the current week. force skips the
// weekday guard for operator-triggered runs. All fatal guards fire before the
// week is claimed, so an aborted run leaves the pool untouched.
func (s *SettlementService) Run(ctx context.Context, force bool) (*RunResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, errors.New("a settlement run is already in progress")
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	now := s.clock.Now().UTC()
	if !force && now.Weekday() != s.cfg.Weekday {
		return nil, ErrNotDistributionDay
	}
	if !s.sender.CanSign() {
		return nil, ErrPayoutsDisabled
	}

	w := week.Of(now, s.cfg.HourUTC)
	log.Printf("[settlement] starting run for week %s", w.Start.Format("2006-01-02"))

	// Final rescan so direct wallet credits the app never saw still count.
	if err := s.pools.Reconcile(ctx, w); err != nil {
		return nil, fmt.Errorf("reconcile pool against chain: %w", err)
	}

	pool, err := s.poolRepo.GetByWeekStart(w.Start)
	if err != nil {
		return nil, fmt.Errorf("load pool: %w", err)
	}
	if pool == nil || pool.TotalRevenue() <= 0 {
		return nil, ErrNoPool
	}
	if pool.Distributed {
		return nil, ErrAlreadyDistributed
	}

	totalRevenue := pool.TotalRevenue()
	distributionPool := totalRevenue * s.cfg.DistributionPct / 100
	teamAmount := int64(math.Floor(totalRevenue * s.cfg.TeamFeePct / 100))
	if distributionPool < s.cfg.MinPoolSize {
		log.Printf("[settlement] pool %.2f below minimum %.2f, rolling over", distributionPool, s.cfg.MinPoolSize)
		return nil, ErrPoolTooSmall
	}

	users, err := s.userRepo.EligibleForWeek(w.Start)
	if err != nil {
		return nil, fmt.Errorf("load eligible users: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrNoParticipants
	}
	totalRep := 0
	for _, u := range users {
		totalRep += u.WeeklyRepEarned
	}
	if totalRep <= 0 {
		return nil, ErrNoParticipants
	}

	// Claim the week. Losing the race here means another instance is (or
	// was) running this exact distribution.
	claimed, err := s.poolRepo.ClaimForDistribution(w.Start, now, distributionPool, totalRep, len(users))
	if err != nil {
		return nil, fmt.Errorf("claim week: %w", err)
	}
	if !claimed {
		return nil, ErrAlreadyDistributed
	}

	result := &RunResult{
		WeekStart:    w.Start,
		PoolSize:     distributionPool,
		TotalRevenue: totalRevenue,
		TeamAmount:   teamAmount,
		Participants: len(users),
		TotalRep:     totalRep,
	}

	// Team share. A failure here is logged and the run continues: user
	// payouts must not hinge on the team wallet transfer.
	if teamAmount > 0 && s.teamWallet != "" {
		memo := fmt.Sprintf("korus team share week %s", w.Start.Format("2006-01-02"))
		var sig string
		err := retry.Do(ctx, s.retryCfg, func() error {
			var sendErr error
			sig, sendErr = s.sender.SendTokens(ctx, s.teamWallet, teamAmount, memo)
			return sendErr
		})
		if err != nil {
			log.Printf("[settlement] team transfer of %d ALLY failed: %v", teamAmount, err)
		} else {
			result.TeamTxSignature = sig
			log.Printf("[settlement] sent %d ALLY team share, tx %s", teamAmount, sig)
		}
	}

	// Queue intents before any user transfer so a crash mid-run leaves a
	// complete record of what is owed.
	intents := make([]models.PayoutIntent, 0, len(users))
	for _, u := range users {
		share := float64(u.WeeklyRepEarned) / float64(totalRep)
		tokens := int64(math.Floor(distributionPool * share))
		if tokens < s.cfg.MinUserEarning {
			result.BelowMinimum++
			continue
		}
		intents = append(intents, models.PayoutIntent{
			Reference:     uuid.NewString(),
			UserWallet:    u.WalletAddress,
			WeekStartDate: w.Start,
			RepEarned:     u.WeeklyRepEarned,
			SharePct:      share * 100,
			Tokens:        tokens,
		})
	}
	if err := s.distRepo.CreateIntents(intents); err != nil {
		return nil, fmt.Errorf("persist payout intents: %w", err)
	}
	result.Queued = len(intents)
	log.Printf("[settlement] queued %d payouts (%d below %d ALLY minimum)",
		result.Queued, result.BelowMinimum, s.cfg.MinUserEarning)

	sent, failed := s.drainIntents(ctx, w, intents, distributionPool, len(users))
	result.Sent, result.Failed = sent, failed

	// Weekly counters reset regardless of individual payout outcomes; failed
	// intents stay in the queue and are retried by Resume.
	if err := s.userRepo.ResetWeeklyRep(w.Start); err != nil {
		log.Printf("[settlement] weekly rep reset: %v", err)
	}

	log.Printf("[settlement] week %s done: %d sent, %d failed", w.Start.Format("2006-01-02"), sent, failed)
	return result, nil
}

// Resume retries the pending and failed payout intents of an already claimed
// week. Used after a crash or an RPC outage left part of the queue unsent.
func (s *SettlementService) Resume(ctx context.Context, weekStart time.Time) (*RunResult, error) {
	if !s.sender.CanSign() {
		return nil, ErrPayoutsDisabled
	}
	pool, err := s.poolRepo.GetByWeekStart(weekStart)
	if err != nil {
		return nil, fmt.Errorf("load pool: %w", err)
	}
	if pool == nil || !pool.Distributed {
		return nil, errors.New("week was never claimed for distribution")
	}

	w := week.Of(weekStart, s.cfg.HourUTC)
	intents, err := s.distRepo.UnsettledIntents(weekStart)
	if err != nil {
		return nil, fmt.Errorf("load unsettled intents: %w", err)
	}
	result := &RunResult{
		WeekStart: weekStart,
		PoolSize:  pool.TotalPoolSize,
		Queued:    len(intents),
		Resumed:   true,
	}
	if len(intents) == 0 {
		return result, nil
	}
	log.Printf("[settlement] resuming week %s: %d unsettled payouts", weekStart.Format("2006-01-02"), len(intents))
	result.Sent, result.Failed = s.drainIntents(ctx, w, intents, pool.TotalPoolSize, pool.ParticipantCount)
	return result, nil
}

// drainIntents pushes the queue through a bounded worker pool. Each intent
// gets its own timeout and retry budget; one failing transfer never stops
// the others.
func (s *SettlementService) drainIntents(ctx context.Context, w week.Window, intents []models.PayoutIntent, poolSize float64, participants int) (sent, failed int) {
	workers := s.cfg.PayoutWorkers
	if workers <= 0 {
		workers = 1
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range intents {
		intent := intents[i]
		g.Go(func() error {
			if err := s.settleIntent(gctx, w, &intent, poolSize, participants); err != nil {
				log.Printf("[settlement] payout %s to %s: %v", intent.Reference, intent.UserWallet, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil // keep draining
			}
			mu.Lock()
			sent++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return sent, failed
}

// settleIntent sends one payout and records the outcome. The intent row is
// marked failed before returning an error so the queue always reflects
// reality.
func (s *SettlementService) settleIntent(ctx context.Context, w week.Window, intent *models.PayoutIntent, poolSize float64, participants int) error {
	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.PayoutTimeout)
	defer cancel()

	memo := fmt.Sprintf("korus payout %s", intent.Reference)
	var sig string
	err := retry.Do(sendCtx, s.retryCfg, func() error {
		var sendErr error
		sig, sendErr = s.sender.SendTokens(sendCtx, intent.UserWallet, intent.Tokens, memo)
		return sendErr
	})
	if err != nil {
		if markErr := s.distRepo.MarkIntentFailed(intent.ID, err.Error()); markErr != nil {
			log.Printf("[settlement] mark intent %s failed: %v", intent.Reference, markErr)
		}
		return err
	}

	now := s.clock.Now().UTC()
	if err := s.distRepo.MarkIntentSent(intent.ID, sig, now); err != nil {
		// The transfer went through; losing the status update must not
		// trigger a second transfer, so log and continue.
		log.Printf("[settlement] mark intent %s sent (tx %s): %v", intent.Reference, sig, err)
	}
	// Tokens were pushed to the wallet directly, so the record is born
	// claimed.
	if err := s.distRepo.CreateDistribution(&models.TokenDistribution{
		UserWallet:        intent.UserWallet,
		WeekStartDate:     intent.WeekStartDate,
		WeekEndDate:       w.End,
		DistributionDate:  w.Distribution,
		RepEarned:         intent.RepEarned,
		SharePercentage:   intent.SharePct,
		TokensEarned:      intent.Tokens,
		WeeklyPoolSize:    poolSize,
		TotalParticipants: participants,
		Claimed:           true,
		ClaimedAt:         &now,
		TxSignature:       sig,
	}); err != nil {
		log.Printf("[settlement] record distribution for %s: %v", intent.UserWallet, err)
	}
	if err := s.userRepo.AddAllyBalance(intent.UserWallet, float64(intent.Tokens)); err != nil {
		log.Printf("[settlement] credit balance for %s: %v", intent.UserWallet, err)
	}
	return nil
}

// Holder returns a stable-ish identity for lease ownership.
func Holder() string {
	host, err := os.Hostname()
	if err != nil {
		host = "korus"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
