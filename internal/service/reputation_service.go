package service

import (
	"fmt"
	"log"
	"math"
	"time"

	"korus/internal/domain"
	"korus/internal/models"
	"korus/internal/repository"
	"korus/pkg/week"

	"github.com/jonboulle/clockwork"
)

// ReputationService awards points for user actions, applies tier multipliers
// and maintains the weekly bucket the distribution reads from.
type ReputationService struct {
	userRepo *repository.UserRepository
	repRepo  *repository.RepEventRepository
	postRepo *repository.PostRepository
	clock    clockwork.Clock
}

func NewReputationService(
	userRepo *repository.UserRepository,
	repRepo *repository.RepEventRepository,
	postRepo *repository.PostRepository,
	clock clockwork.Clock,
) *ReputationService {
	return &ReputationService{
		userRepo: userRepo,
		repRepo:  repRepo,
		postRepo: postRepo,
		clock:    clock,
	}
}

// Award applies basePoints for eventType to the user, multiplied by the tier
// multiplier and rounded down. Failures are logged, not returned: reputation
// must never break the action that earned it.
func (s *ReputationService) Award(wallet, eventType, category string, basePoints int, description string) {
	if basePoints <= 0 {
		return
	}
	user, err := s.userRepo.GetByWallet(wallet)
	if err != nil {
		log.Printf("[reputation] award %s to %s: load user: %v", eventType, wallet, err)
		return
	}
	if user.IsSuspended {
		return
	}

	now := s.clock.Now().UTC()
	weekStart := week.StartOf(now)
	mult := user.RepMultiplier()
	points := int(math.Floor(float64(basePoints) * mult))
	if points <= 0 {
		return
	}

	// A week marker from a previous week means the weekly counter is stale
	// and must be replaced for the new week rather than added to.
	replaceWeekly := user.WeekStartDate == nil || !user.WeekStartDate.Equal(weekStart)

	if err := s.userRepo.ApplyReputation(wallet, category, points, weekStart, replaceWeekly, now); err != nil {
		log.Printf("[reputation] award %s to %s: %v", eventType, wallet, err)
		return
	}
	if err := s.repRepo.Create(&models.RepEvent{
		UserWallet:  wallet,
		EventType:   eventType,
		Category:    category,
		Points:      points,
		Multiplier:  mult,
		Description: description,
	}); err != nil {
		log.Printf("[reputation] record event %s for %s: %v", eventType, wallet, err)
	}
}

// OnPostCreated awards content points for a new post; posts carrying media
// earn the higher rate, and the author's first post of the day earns a bonus.
func (s *ReputationService) OnPostCreated(wallet string, hasMedia bool) {
	points := domain.PointsPostCreated
	if hasMedia {
		points = domain.PointsPostWithMedia
	}
	s.Award(wallet, domain.RepEventPostCreated, domain.RepCategoryContent, points, "post created")

	dayStart := s.clock.Now().UTC().Truncate(24 * time.Hour)
	n, err := s.postRepo.CountByAuthorSince(wallet, dayStart)
	if err != nil {
		log.Printf("[reputation] first-post check for %s: %v", wallet, err)
		return
	}
	// The post that triggered this call is already counted.
	if n == 1 {
		s.Award(wallet, domain.RepEventFirstPostOfDay, domain.RepCategoryContent,
			domain.PointsFirstPostOfDay, "first post of the day")
	}
}

// OnLike awards engagement points to both sides of a like.
func (s *ReputationService) OnLike(likerWallet, authorWallet string) {
	s.Award(likerWallet, domain.RepEventLikeGiven, domain.RepCategoryEngagement,
		domain.PointsLikeGiven, "liked a post")
	if authorWallet != likerWallet {
		s.Award(authorWallet, domain.RepEventLikeReceived, domain.RepCategoryEngagement,
			domain.PointsLikeReceived, "post was liked")
	}
}

// OnComment awards engagement points to the commenter and the post author.
func (s *ReputationService) OnComment(commenterWallet, authorWallet string) {
	s.Award(commenterWallet, domain.RepEventCommentMade, domain.RepCategoryEngagement,
		domain.PointsCommentMade, "commented on a post")
	if authorWallet != commenterWallet {
		s.Award(authorWallet, domain.RepEventCommentReceived, domain.RepCategoryEngagement,
			domain.PointsCommentReceived, "post was commented on")
	}
}

// tipUnits is the count of whole 100-ALLY units in a tip amount.
func tipUnits(amount float64) int {
	return int(amount / 100)
}

// streakBonus is the per-day login streak bonus, capped.
func streakBonus(streak int) int {
	if streak > domain.MaxStreakBonusDays {
		return domain.MaxStreakBonusDays
	}
	return streak
}

// OnTip awards community points to sender and recipient, scaled per 100 ALLY.
// Tips under 100 ALLY earn nothing; the unit count is floored, not rounded.
func (s *ReputationService) OnTip(senderWallet, recipientWallet string, amount float64) {
	units := tipUnits(amount)
	if units < 1 {
		return
	}
	s.Award(senderWallet, domain.RepEventTipSent, domain.RepCategoryCommunity,
		units*domain.PointsTipSentPer100, fmt.Sprintf("tipped %.2f ALLY", amount))
	s.Award(recipientWallet, domain.RepEventTipReceived, domain.RepCategoryCommunity,
		units*domain.PointsTipRecvPer100, fmt.Sprintf("received %.2f ALLY tip", amount))
}

// OnGameFinished awards community points to winner and loser. The winner gets
// a wager bonus per 100 ALLY staked.
func (s *ReputationService) OnGameFinished(winnerWallet, loserWallet string, wager float64) {
	bonus := int(wager/100) * domain.PointsWagerBonusPer100
	s.Award(winnerWallet, domain.RepEventGameWon, domain.RepCategoryCommunity,
		domain.PointsGameWon+bonus, fmt.Sprintf("won game, %.2f ALLY wager", wager))
	s.Award(loserWallet, domain.RepEventGameLost, domain.RepCategoryCommunity,
		domain.PointsGameLost, "completed a game")
}

// OnLogin awards loyalty points once per UTC day and maintains the login
// streak. The streak bonus grows one point per consecutive day, capped.
func (s *ReputationService) OnLogin(wallet string) {
	user, err := s.userRepo.GetByWallet(wallet)
	if err != nil {
		log.Printf("[reputation] login for %s: load user: %v", wallet, err)
		return
	}

	now := s.clock.Now().UTC()
	today := now.Truncate(24 * time.Hour)
	if user.LastLoginDate != nil && !user.LastLoginDate.UTC().Truncate(24*time.Hour).Before(today) {
		return // already credited today
	}

	streak := 1
	if user.LastLoginDate != nil &&
		user.LastLoginDate.UTC().Truncate(24*time.Hour).Equal(today.AddDate(0, 0, -1)) {
		streak = user.LoginStreak + 1
	}

	user.LoginStreak = streak
	user.LastLoginDate = &now
	if err := s.userRepo.Update(user); err != nil {
		log.Printf("[reputation] login streak for %s: %v", wallet, err)
		return
	}

	s.Award(wallet, domain.RepEventDailyLogin, domain.RepCategoryLoyalty,
		domain.PointsDailyLogin+streakBonus(streak)*domain.PointsStreakPerDay,
		fmt.Sprintf("daily login, %d day streak", streak))
}

// History returns the recent reputation events for a wallet.
func (s *ReputationService) History(wallet string, limit, offset int) ([]models.RepEvent, error) {
	return s.repRepo.ListByWallet(wallet, limit, offset)
}
