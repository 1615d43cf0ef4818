package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"korus/config"
	"korus/internal/domain"
	"korus/internal/middleware"
	"korus/internal/models"
	"korus/internal/repository"
	"korus/internal/service"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameRepo   *repository.GameRepository
	pools      *service.PoolService
	reputation *service.ReputationService
	cfg        *config.DistributionConfig
}

func NewGameHandler(
	gameRepo *repository.GameRepository,
	pools *service.PoolService,
	reputation *service.ReputationService,
	cfg *config.DistributionConfig,
) *GameHandler {
	return &GameHandler{gameRepo: gameRepo, pools: pools, reputation: reputation, cfg: cfg}
}

type createGameRequest struct {
	GameType string  `json:"game_type" binding:"required"`
	Wager    float64 `json:"wager" binding:"gte=0"`
}

func (h *GameHandler) Create(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game_type is required"})
		return
	}
	game := &models.Game{
		GameType: req.GameType,
		Player1:  wallet,
		Wager:    req.Wager,
		Status:   domain.GameStatusWaiting,
	}
	if err := h.gameRepo.Create(game); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create game"})
		return
	}
	c.JSON(http.StatusCreated, game)
}

func (h *GameHandler) Join(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}
	game, err := h.gameRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	if game.Status != domain.GameStatusWaiting {
		c.JSON(http.StatusConflict, gin.H{"error": "game is not open"})
		return
	}
	if game.Player1 == wallet {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot join your own game"})
		return
	}
	game.Player2 = &wallet
	game.Status = domain.GameStatusActive
	if err := h.gameRepo.Update(game); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join game"})
		return
	}
	c.JSON(http.StatusOK, game)
}

type completeGameRequest struct {
	Winner string `json:"winner" binding:"required"`
}

// Complete settles a finished game: the platform fee comes off the pot and
// goes into the weekly pool, and both players earn reputation. Move
// validation lives in the on-chain game program, not here.
func (h *GameHandler) Complete(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}
	var req completeGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "winner is required"})
		return
	}
	game, err := h.gameRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	if game.Status != domain.GameStatusActive || game.Player2 == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "game is not active"})
		return
	}
	if wallet != game.Player1 && wallet != *game.Player2 {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
		return
	}
	if req.Winner != game.Player1 && req.Winner != *game.Player2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "winner must be a participant"})
		return
	}

	now := time.Now().UTC()
	pot := game.Wager * 2
	fee := pot * h.cfg.GameFeePct / 100
	game.Status = domain.GameStatusCompleted
	game.Winner = &req.Winner
	game.FeeCollected = fee
	game.CompletedAt = &now
	if err := h.gameRepo.Update(game); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete game"})
		return
	}

	if fee > 0 {
		if err := h.pools.RecordRevenue(domain.RevenueGame, fee, game.Player1,
			fmt.Sprintf("game:%d", game.ID)); err != nil {
			c.JSON(http.StatusOK, gin.H{"game": game, "warning": "fee record deferred to chain scan"})
			return
		}
	}

	loser := game.Player1
	if req.Winner == game.Player1 {
		loser = *game.Player2
	}
	h.reputation.OnGameFinished(req.Winner, loser, game.Wager)
	c.JSON(http.StatusOK, gin.H{"game": game})
}

func (h *GameHandler) ListOpen(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	games, err := h.gameRepo.ListOpen(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}
