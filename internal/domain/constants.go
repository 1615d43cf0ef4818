package domain

const (
	TierStandard = "standard"
	TierPremium  = "premium"
)

const (
	WalletSourceApp    = "app"
	WalletSourceSeeker = "seeker"
)

// Revenue categories tracked per weekly pool.
const (
	RevenueSponsored = "sponsored"
	RevenueGame      = "game"
	RevenueEvent     = "event"
)

// Reputation categories.
const (
	RepCategoryContent    = "content"
	RepCategoryEngagement = "engagement"
	RepCategoryCommunity  = "community"
	RepCategoryLoyalty    = "loyalty"
)

// Reputation event types.
const (
	RepEventPostCreated     = "post_created"
	RepEventFirstPostOfDay  = "first_post_of_day"
	RepEventLikeGiven       = "like_given"
	RepEventLikeReceived    = "like_received"
	RepEventCommentMade     = "comment_made"
	RepEventCommentReceived = "comment_received"
	RepEventTipSent         = "tip_sent"
	RepEventTipReceived     = "tip_received"
	RepEventGameWon         = "game_won"
	RepEventGameLost        = "game_lost"
	RepEventDailyLogin      = "daily_login"
)

// Point values per action. Tip and wager bonuses accrue per 100 ALLY.
const (
	PointsPostCreated      = 10
	PointsPostWithMedia    = 15
	PointsLikeGiven        = 1
	PointsLikeReceived     = 2
	PointsCommentMade      = 5
	PointsCommentReceived  = 3
	PointsTipSentPer100    = 10
	PointsTipRecvPer100    = 15
	PointsGameWon          = 20
	PointsGameLost         = 5
	PointsWagerBonusPer100 = 5
	PointsDailyLogin       = 5
	PointsStreakPerDay     = 1
	PointsFirstPostOfDay   = 10
	MaxStreakBonusDays     = 30
)

// Tier multipliers applied to earned points.
const (
	MultiplierPremium = 1.2
	MultiplierGenesis = 1.5
)

const (
	InteractionLike = "like"
	InteractionTip  = "tip"
)

const (
	GameStatusWaiting   = "waiting"
	GameStatusActive    = "active"
	GameStatusCompleted = "completed"
	GameStatusCancelled = "cancelled"
)

// Payout intent lifecycle.
const (
	PayoutPending = "pending"
	PayoutSent    = "sent"
	PayoutFailed  = "failed"
)

// LeaseWeeklyDistribution is the job lease name guarding settlement runs.
const LeaseWeeklyDistribution = "weekly_distribution"
