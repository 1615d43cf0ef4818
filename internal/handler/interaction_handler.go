package handler

import (
	"net/http"
	"strconv"

	"korus/internal/domain"
	"korus/internal/middleware"
	"korus/internal/models"
	"korus/internal/repository"
	"korus/internal/service"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	interactionRepo *repository.InteractionRepository
	postRepo        *repository.PostRepository
	reputation      *service.ReputationService
}

func NewInteractionHandler(
	interactionRepo *repository.InteractionRepository,
	postRepo *repository.PostRepository,
	reputation *service.ReputationService,
) *InteractionHandler {
	return &InteractionHandler{
		interactionRepo: interactionRepo,
		postRepo:        postRepo,
		reputation:      reputation,
	}
}

// Like is idempotent: liking an already liked post is a no-op.
func (h *InteractionHandler) Like(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	post, err := h.postRepo.GetByID(uint(postID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	existing, err := h.interactionRepo.FindLike(wallet, post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "like failed"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	if err := h.interactionRepo.Create(&models.Interaction{
		UserWallet: wallet,
		PostID:     post.ID,
		Type:       domain.InteractionLike,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "like failed"})
		return
	}
	if err := h.postRepo.IncrementLikes(post.ID, 1); err == nil {
		h.reputation.OnLike(wallet, post.AuthorWallet)
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

// Unlike removes the like row and decrements the counter. Reputation already
// awarded is not clawed back.
func (h *InteractionHandler) Unlike(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	existing, err := h.interactionRepo.FindLike(wallet, uint(postID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unlike failed"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	if err := h.interactionRepo.Delete(existing.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unlike failed"})
		return
	}
	_ = h.postRepo.IncrementLikes(uint(postID), -1)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type tipRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	TxSignature string  `json:"tx_signature"`
}

// Tip records an on-chain tip against a post. The transfer itself happens
// wallet-to-wallet on chain; the backend records it and awards reputation.
func (h *InteractionHandler) Tip(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	var req tipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a positive amount is required"})
		return
	}
	post, err := h.postRepo.GetByID(uint(postID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	if post.AuthorWallet == wallet {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot tip your own post"})
		return
	}

	if err := h.interactionRepo.Create(&models.Interaction{
		UserWallet: wallet,
		PostID:     post.ID,
		Type:       domain.InteractionTip,
		Amount:     req.Amount,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tip failed"})
		return
	}
	_ = h.postRepo.IncrementTips(post.ID)
	h.reputation.OnTip(wallet, post.AuthorWallet, req.Amount)
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func (h *InteractionHandler) ListForPost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	list, err := h.interactionRepo.ListForPost(uint(postID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"interactions": list})
}
