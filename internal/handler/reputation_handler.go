package handler

import (
	"net/http"
	"strconv"

	"korus/internal/middleware"
	"korus/internal/repository"
	"korus/internal/service"

	"github.com/gin-gonic/gin"
)

type ReputationHandler struct {
	userRepo   *repository.UserRepository
	reputation *service.ReputationService
}

func NewReputationHandler(userRepo *repository.UserRepository, reputation *service.ReputationService) *ReputationHandler {
	return &ReputationHandler{userRepo: userRepo, reputation: reputation}
}

// Me returns the caller's reputation summary and category breakdown.
func (h *ReputationHandler) Me(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	user, err := h.userRepo.GetByWallet(wallet)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wallet_address":   user.WalletAddress,
		"tier":             user.Tier,
		"genesis_verified": user.GenesisVerified,
		"multiplier":       user.RepMultiplier(),
		"reputation_score": user.ReputationScore,
		"weekly_rep":       user.WeeklyRepEarned,
		"login_streak":     user.LoginStreak,
		"categories": gin.H{
			"content":    user.ContentScore,
			"engagement": user.EngagementScore,
			"community":  user.CommunityScore,
			"loyalty":    user.LoyaltyScore,
		},
	})
}

// History returns the caller's recent reputation events.
func (h *ReputationHandler) History(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	events, err := h.reputation.History(wallet, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Leaderboard returns the top lifetime reputation holders.
func (h *ReputationHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if limit < 1 || limit > 100 {
		limit = 25
	}
	users, err := h.userRepo.Leaderboard(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard failed"})
		return
	}
	out := make([]gin.H, len(users))
	for i, u := range users {
		out[i] = gin.H{
			"rank":             i + 1,
			"wallet_address":   u.WalletAddress,
			"tier":             u.Tier,
			"reputation_score": u.ReputationScore,
		}
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": out})
}
