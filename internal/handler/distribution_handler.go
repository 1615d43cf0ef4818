package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"korus/internal/middleware"
	"korus/internal/repository"
	"korus/internal/service"
	"korus/pkg/week"

	"github.com/gin-gonic/gin"
)

type DistributionHandler struct {
	distRepo   *repository.DistributionRepository
	pools      *service.PoolService
	settlement *service.SettlementService
}

func NewDistributionHandler(
	distRepo *repository.DistributionRepository,
	pools *service.PoolService,
	settlement *service.SettlementService,
) *DistributionHandler {
	return &DistributionHandler{distRepo: distRepo, pools: pools, settlement: settlement}
}

// CurrentPool returns the running totals of the week in progress.
func (h *DistributionHandler) CurrentPool(c *gin.Context) {
	pool, err := h.pools.PoolForWeek(time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pool"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pool":          pool,
		"total_revenue": pool.TotalRevenue(),
	})
}

// RevenueEvents returns the current week's typed revenue trail.
func (h *DistributionHandler) RevenueEvents(c *gin.Context) {
	events, err := h.pools.RevenueEvents(time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load revenue events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// MyDistributions returns the caller's payout history and lifetime total.
func (h *DistributionHandler) MyDistributions(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	list, err := h.distRepo.ListByWallet(wallet, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load distributions"})
		return
	}
	total, err := h.distRepo.TotalEarned(wallet)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load totals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"distributions": list,
		"total_earned":  total,
	})
}

// WeekDistributions lists every payout of one settled week.
func (h *DistributionHandler) WeekDistributions(c *gin.Context) {
	weekStart, err := parseWeekStart(c.Param("week"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week must be a date, e.g. 2026-08-24"})
		return
	}
	list, err := h.distRepo.ListByWeek(weekStart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load distributions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"week_start": weekStart, "distributions": list})
}

// MyWeek returns the caller's payout for one settled week.
func (h *DistributionHandler) MyWeek(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	weekStart, err := parseWeekStart(c.Param("week"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week must be a date, e.g. 2026-08-24"})
		return
	}
	d, err := h.distRepo.GetByUserWeek(wallet, weekStart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load distribution"})
		return
	}
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no distribution for that week"})
		return
	}
	c.JSON(http.StatusOK, d)
}

// Trigger runs the distribution immediately, skipping the weekday guard.
// Operator-only.
func (h *DistributionHandler) Trigger(c *gin.Context) {
	result, err := h.settlement.Run(c.Request.Context(), true)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrAlreadyDistributed):
			status = http.StatusConflict
		case errors.Is(err, service.ErrNoPool),
			errors.Is(err, service.ErrPoolTooSmall),
			errors.Is(err, service.ErrNoParticipants):
			status = http.StatusPreconditionFailed
		case errors.Is(err, service.ErrPayoutsDisabled):
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Resume retries the unsent payouts of an already claimed week.
// Operator-only.
func (h *DistributionHandler) Resume(c *gin.Context) {
	weekStart, err := parseWeekStart(c.Param("week"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week must be a date, e.g. 2026-08-24"})
		return
	}
	result, err := h.settlement.Resume(c.Request.Context(), weekStart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// parseWeekStart accepts any date and snaps it to that week's Monday.
func parseWeekStart(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return week.StartOf(t), nil
}
