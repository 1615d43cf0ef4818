package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"korus/config"
	"korus/internal/models"
	"korus/pkg/week"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

// Friday 2026-08-28 20:00 UTC; the week runs from Monday 2026-08-24.
var (
	testNow       = time.Date(2026, 8, 28, 20, 0, 0, 0, time.UTC)
	testWeekStart = time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
)

type fakeUserStore struct {
	mu       sync.Mutex
	users    []models.User
	resets   []time.Time
	balances map[string]float64
}

// EligibleForWeek applies the same predicate the repository's SQL does.
func (f *fakeUserStore) EligibleForWeek(weekStart time.Time) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.EligibleForDistribution(weekStart) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) ResetWeeklyRep(weekStart time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, weekStart)
	return nil
}

func (f *fakeUserStore) AddAllyBalance(wallet string, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balances == nil {
		f.balances = map[string]float64{}
	}
	f.balances[wallet] += amount
	return nil
}

type fakePoolStore struct {
	mu         sync.Mutex
	pool       *models.WeeklyPool
	claimCalls int
	denyClaim  bool
}

func (f *fakePoolStore) GetByWeekStart(weekStart time.Time) (*models.WeeklyPool, error) {
	return f.pool, nil
}

func (f *fakePoolStore) ClaimForDistribution(weekStart, now time.Time, poolSize float64, totalRep, participants int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claimCalls++
	if f.denyClaim || f.pool.Distributed {
		return false, nil
	}
	f.pool.Distributed = true
	f.pool.TotalPoolSize = poolSize
	f.pool.TotalRepEarned = totalRep
	f.pool.ParticipantCount = participants
	return true, nil
}

type fakeIntentStore struct {
	mu      sync.Mutex
	nextID  uint
	intents []models.PayoutIntent
	sent    map[uint]string
	failed  map[uint]string
	dists   []models.TokenDistribution
}

func (f *fakeIntentStore) CreateIntents(intents []models.PayoutIntent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range intents {
		f.nextID++
		intents[i].ID = f.nextID
		intents[i].Status = "pending"
	}
	f.intents = append(f.intents, intents...)
	return nil
}

func (f *fakeIntentStore) UnsettledIntents(weekStart time.Time) ([]models.PayoutIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PayoutIntent
	for _, in := range f.intents {
		if _, ok := f.sent[in.ID]; !ok {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeIntentStore) MarkIntentSent(id uint, txSignature string, sentAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sent == nil {
		f.sent = map[uint]string{}
	}
	f.sent[id] = txSignature
	return nil
}

func (f *fakeIntentStore) MarkIntentFailed(id uint, cause string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed == nil {
		f.failed = map[uint]string{}
	}
	f.failed[id] = cause
	return nil
}

func (f *fakeIntentStore) CreateDistribution(d *models.TokenDistribution) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dists = append(f.dists, *d)
	return nil
}

type fakeSender struct {
	mu       sync.Mutex
	noSigner bool
	failFor  map[string]error
	sends    map[string]int64 // wallet -> amount
	memos    map[string]string
	nextSig  int
}

func (f *fakeSender) CanSign() bool { return !f.noSigner }

func (f *fakeSender) SendTokens(ctx context.Context, dest string, amount int64, memoText string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[dest]; ok {
		return "", err
	}
	if f.sends == nil {
		f.sends = map[string]int64{}
		f.memos = map[string]string{}
	}
	f.sends[dest] = amount
	f.memos[dest] = memoText
	f.nextSig++
	return fmt.Sprintf("sig-%d", f.nextSig), nil
}

type fakeReconciler struct{ err error }

func (f *fakeReconciler) Reconcile(ctx context.Context, w week.Window) error { return f.err }

func testDistConfig() *config.DistributionConfig {
	return &config.DistributionConfig{
		Enabled:         true,
		Weekday:         time.Friday,
		HourUTC:         20,
		DistributionPct: 50,
		TeamFeePct:      45,
		OpsFeePct:       5,
		MinPoolSize:     100,
		MinUserEarning:  10,
		PayoutWorkers:   2,
		PayoutTimeout:   time.Second,
		LeaseTTL:        time.Minute,
	}
}

func eligibleUser(wallet string, rep int) models.User {
	ws := testWeekStart
	return models.User{WalletAddress: wallet, WeeklyRepEarned: rep, WeekStartDate: &ws}
}

func testPool(revenue float64) *models.WeeklyPool {
	return &models.WeeklyPool{
		WeekStartDate:    testWeekStart,
		SponsoredRevenue: revenue,
	}
}

func newTestSettlement(users *fakeUserStore, pools *fakePoolStore, intents *fakeIntentStore, sender *fakeSender) *SettlementService {
	return NewSettlementService(
		users, pools, intents, &fakeReconciler{}, sender,
		testDistConfig(), "team-wallet",
		clockwork.NewFakeClockAt(testNow),
	)
}

func TestRunDistributesProportionally(t *testing.T) {
	users := &fakeUserStore{users: []models.User{
		eligibleUser("alice", 300),
		eligibleUser("bob", 100),
	}}
	pools := &fakePoolStore{pool: testPool(1000)}
	intents := &fakeIntentStore{}
	sender := &fakeSender{}

	svc := newTestSettlement(users, pools, intents, sender)
	result, err := svc.Run(context.Background(), false)
	require.NoError(t, err)

	require.Equal(t, testWeekStart, result.WeekStart)
	require.Equal(t, 500.0, result.PoolSize)
	require.Equal(t, int64(450), result.TeamAmount)
	require.Equal(t, 2, result.Queued)
	require.Equal(t, 2, result.Sent)
	require.Equal(t, 0, result.Failed)

	// 500 ALLY split 300:100 -> 375 and 125, floored.
	require.Equal(t, int64(375), sender.sends["alice"])
	require.Equal(t, int64(125), sender.sends["bob"])
	require.Equal(t, int64(450), sender.sends["team-wallet"])
	require.Contains(t, sender.memos["alice"], "korus payout ")

	require.Equal(t, 375.0, users.balances["alice"])
	require.Equal(t, 125.0, users.balances["bob"])
	require.Equal(t, []time.Time{testWeekStart}, users.resets)
	require.Len(t, intents.dists, 2)
	require.Len(t, intents.sent, 2)
	require.Empty(t, intents.failed)
	require.Equal(t, 1, pools.claimCalls)
}

func TestRunWeekdayGuard(t *testing.T) {
	users := &fakeUserStore{users: []models.User{eligibleUser("alice", 100)}}
	pools := &fakePoolStore{pool: testPool(1000)}
	svc := NewSettlementService(
		users, pools, &fakeIntentStore{}, &fakeReconciler{}, &fakeSender{},
		testDistConfig(), "team-wallet",
		clockwork.NewFakeClockAt(testNow.AddDate(0, 0, 1)), // Saturday
	)

	_, err := svc.Run(context.Background(), false)
	require.ErrorIs(t, err, ErrNotDistributionDay)
	require.Equal(t, 0, pools.claimCalls)
}

func TestRunAbortsBeforeClaim(t *testing.T) {
	tests := []struct {
		name    string
		pool    *models.WeeklyPool
		users   []models.User
		wantErr error
	}{
		{
			name:    "no pool",
			pool:    nil,
			users:   []models.User{eligibleUser("alice", 100)},
			wantErr: ErrNoPool,
		},
		{
			name:    "pool below minimum rolls over",
			pool:    testPool(150), // distribution share 75, minimum 100
			users:   []models.User{eligibleUser("alice", 100)},
			wantErr: ErrPoolTooSmall,
		},
		{
			name:    "no participants",
			pool:    testPool(1000),
			users:   nil,
			wantErr: ErrNoParticipants,
		},
		{
			name: "already distributed",
			pool: &models.WeeklyPool{
				WeekStartDate:    testWeekStart,
				SponsoredRevenue: 1000,
				Distributed:      true,
			},
			users:   []models.User{eligibleUser("alice", 100)},
			wantErr: ErrAlreadyDistributed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUserStore{users: tt.users}
			pools := &fakePoolStore{pool: tt.pool}
			intents := &fakeIntentStore{}
			sender := &fakeSender{}

			svc := newTestSettlement(users, pools, intents, sender)
			_, err := svc.Run(context.Background(), true)
			require.ErrorIs(t, err, tt.wantErr)
			require.Empty(t, sender.sends)
			require.Empty(t, intents.intents)
			if tt.pool != nil && !tt.pool.Distributed {
				require.Equal(t, 0, pools.claimCalls)
			}
		})
	}
}

func TestRunLosingClaimRaceAborts(t *testing.T) {
	users := &fakeUserStore{users: []models.User{eligibleUser("alice", 100)}}
	pools := &fakePoolStore{pool: testPool(1000), denyClaim: true}
	sender := &fakeSender{}

	svc := newTestSettlement(users, pools, &fakeIntentStore{}, sender)
	_, err := svc.Run(context.Background(), true)
	require.ErrorIs(t, err, ErrAlreadyDistributed)
	require.Empty(t, sender.sends)
}

func TestRunTeamTransferFailureIsNotFatal(t *testing.T) {
	users := &fakeUserStore{users: []models.User{eligibleUser("alice", 100)}}
	pools := &fakePoolStore{pool: testPool(1000)}
	sender := &fakeSender{failFor: map[string]error{"team-wallet": errors.New("invalid destination wallet")}}

	svc := newTestSettlement(users, pools, &fakeIntentStore{}, sender)
	result, err := svc.Run(context.Background(), true)
	require.NoError(t, err)
	require.Empty(t, result.TeamTxSignature)
	require.Equal(t, 1, result.Sent)
	require.Equal(t, int64(500), sender.sends["alice"])
}

func TestRunSkipsBelowMinimumEarners(t *testing.T) {
	// carol's share of 500 is floor(500*1/101) = 4 ALLY, under the 10 floor.
	users := &fakeUserStore{users: []models.User{
		eligibleUser("alice", 100),
		eligibleUser("carol", 1),
	}}
	pools := &fakePoolStore{pool: testPool(1000)}
	intents := &fakeIntentStore{}
	sender := &fakeSender{}

	svc := newTestSettlement(users, pools, intents, sender)
	result, err := svc.Run(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, 1, result.Queued)
	require.Equal(t, 1, result.BelowMinimum)
	require.NotContains(t, sender.sends, "carol")
}

func TestRunExcludesSuspendedAndStaleUsers(t *testing.T) {
	suspended := eligibleUser("mallory", 500)
	suspended.IsSuspended = true
	staleWeek := testWeekStart.AddDate(0, 0, -7)
	stale := models.User{WalletAddress: "dan", WeeklyRepEarned: 200, WeekStartDate: &staleWeek}

	users := &fakeUserStore{users: []models.User{
		eligibleUser("alice", 100),
		suspended, // nonzero rep, still excluded
		stale,     // rep from a previous week
	}}
	pools := &fakePoolStore{pool: testPool(1000)}
	intents := &fakeIntentStore{}
	sender := &fakeSender{}

	svc := newTestSettlement(users, pools, intents, sender)
	result, err := svc.Run(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, 1, result.Participants)
	require.Equal(t, 100, result.TotalRep)
	require.Equal(t, 1, result.Queued)

	// alice gets the whole user pool; the excluded wallets get nothing.
	require.Equal(t, int64(500), sender.sends["alice"])
	require.NotContains(t, sender.sends, "mallory")
	require.NotContains(t, sender.sends, "dan")
	for _, in := range intents.intents {
		require.Equal(t, "alice", in.UserWallet)
	}
}

func TestResumeRetriesFailedPayouts(t *testing.T) {
	users := &fakeUserStore{users: []models.User{
		eligibleUser("alice", 100),
		eligibleUser("bob", 100),
	}}
	pools := &fakePoolStore{pool: testPool(1000)}
	intents := &fakeIntentStore{}
	sender := &fakeSender{failFor: map[string]error{"bob": errors.New("invalid destination wallet")}}

	svc := newTestSettlement(users, pools, intents, sender)
	result, err := svc.Run(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, 1, result.Sent)
	require.Equal(t, 1, result.Failed)
	require.Len(t, intents.failed, 1)

	// bob's wallet comes back; resume drains the remaining intent.
	sender.mu.Lock()
	delete(sender.failFor, "bob")
	sender.mu.Unlock()

	resumed, err := svc.Resume(context.Background(), testWeekStart)
	require.NoError(t, err)
	require.True(t, resumed.Resumed)
	require.Equal(t, 1, resumed.Queued)
	require.Equal(t, 1, resumed.Sent)
	require.Equal(t, 0, resumed.Failed)
	require.Equal(t, int64(250), sender.sends["bob"])
	require.Len(t, intents.sent, 2)
}

func TestResumeRequiresClaimedWeek(t *testing.T) {
	pools := &fakePoolStore{pool: testPool(1000)}
	svc := newTestSettlement(&fakeUserStore{}, pools, &fakeIntentStore{}, &fakeSender{})
	_, err := svc.Resume(context.Background(), testWeekStart)
	require.Error(t, err)
}

func TestRunWithoutSigner(t *testing.T) {
	svc := newTestSettlement(&fakeUserStore{}, &fakePoolStore{pool: testPool(1000)}, &fakeIntentStore{}, &fakeSender{noSigner: true})
	_, err := svc.Run(context.Background(), true)
	require.ErrorIs(t, err, ErrPayoutsDisabled)
}
