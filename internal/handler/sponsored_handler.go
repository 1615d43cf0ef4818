package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"korus/internal/domain"
	"korus/internal/middleware"
	"korus/internal/models"
	"korus/internal/repository"
	"korus/internal/service"
	"korus/pkg/week"

	"github.com/gin-gonic/gin"
)

type SponsoredHandler struct {
	sponsoredRepo *repository.SponsoredRepository
	postRepo      *repository.PostRepository
	pools         *service.PoolService
}

func NewSponsoredHandler(
	sponsoredRepo *repository.SponsoredRepository,
	postRepo *repository.PostRepository,
	pools *service.PoolService,
) *SponsoredHandler {
	return &SponsoredHandler{
		sponsoredRepo: sponsoredRepo,
		postRepo:      postRepo,
		pools:         pools,
	}
}

type createSponsoredRequest struct {
	PostID       uint    `json:"post_id" binding:"required"`
	CampaignName string  `json:"campaign_name"`
	PricePaid    float64 `json:"price_paid" binding:"required,gt=0"`
	DurationDays int     `json:"duration_days"`
	TargetViews  int     `json:"target_views"`
}

// Create records a sponsorship purchase. The ALLY payment lands on the
// platform wallet on chain; the revenue is credited to the weekly pool here,
// at the moment of sale.
func (h *SponsoredHandler) Create(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	var req createSponsoredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post_id and a positive price_paid are required"})
		return
	}
	post, err := h.postRepo.GetByID(req.PostID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	if existing, err := h.sponsoredRepo.GetByPostID(post.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sponsorship failed"})
		return
	} else if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "post is already sponsored"})
		return
	}

	days := req.DurationDays
	if days < 1 {
		days = 7
	}
	now := time.Now().UTC()
	sp := &models.SponsoredPost{
		PostID:        post.ID,
		SponsorWallet: wallet,
		CampaignName:  req.CampaignName,
		PricePaid:     req.PricePaid,
		StartDate:     now,
		EndDate:       now.AddDate(0, 0, days),
		TargetViews:   req.TargetViews,
		WeekNumber:    week.Number(now),
		YearNumber:    now.Year(),
	}
	if err := h.sponsoredRepo.Create(sp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sponsorship failed"})
		return
	}

	if err := h.pools.RecordRevenue(domain.RevenueSponsored, req.PricePaid, wallet,
		fmt.Sprintf("sponsored:%d", sp.ID)); err != nil {
		// The sale stands; the pre-distribution chain scan will pick the
		// payment up if this record never lands.
		c.JSON(http.StatusCreated, gin.H{"sponsorship": sp, "warning": "revenue record deferred to chain scan"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sponsorship": sp})
}

func (h *SponsoredHandler) ListActive(c *gin.Context) {
	list, err := h.sponsoredRepo.ListActive(time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sponsored": list})
}

func (h *SponsoredHandler) TrackView(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sponsorship id"})
		return
	}
	if err := h.sponsoredRepo.TrackView(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "track failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *SponsoredHandler) TrackClick(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sponsorship id"})
		return
	}
	if err := h.sponsoredRepo.TrackClick(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "track failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
