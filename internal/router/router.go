package router

import (
	"net/http"

	"korus/config"
	"korus/internal/handler"
	"korus/internal/middleware"
	"korus/internal/repository"
	"korus/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries the shared services the router wires handlers to.
type Deps struct {
	Reputation *service.ReputationService
	Pools      *service.PoolService
	Settlement *service.SettlementService
	Auth       *service.AuthService
}

func Setup(cfg *config.Config, db *gorm.DB, deps Deps) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	sponsoredRepo := repository.NewSponsoredRepository(db)
	gameRepo := repository.NewGameRepository(db)
	distRepo := repository.NewDistributionRepository(db)

	// Handlers
	authHandler := handler.NewAuthHandler(deps.Auth)
	postHandler := handler.NewPostHandler(postRepo, deps.Reputation)
	interactionHandler := handler.NewInteractionHandler(interactionRepo, postRepo, deps.Reputation)
	sponsoredHandler := handler.NewSponsoredHandler(sponsoredRepo, postRepo, deps.Pools)
	gameHandler := handler.NewGameHandler(gameRepo, deps.Pools, deps.Reputation, &cfg.Distribution)
	reputationHandler := handler.NewReputationHandler(userRepo, deps.Reputation)
	distributionHandler := handler.NewDistributionHandler(distRepo, deps.Pools, deps.Settlement)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	api.POST("/auth/login", authHandler.Login)

	// Public reads
	api.GET("/posts", postHandler.List)
	api.GET("/posts/:id", postHandler.Get)
	api.GET("/posts/:id/replies", postHandler.ListReplies)
	api.GET("/sponsored", sponsoredHandler.ListActive)
	api.POST("/sponsored/:id/view", sponsoredHandler.TrackView)
	api.POST("/sponsored/:id/click", sponsoredHandler.TrackClick)
	api.GET("/games", gameHandler.ListOpen)
	api.GET("/reputation/leaderboard", reputationHandler.Leaderboard)
	api.GET("/distribution/pool", distributionHandler.CurrentPool)
	api.GET("/distribution/weeks/:week", distributionHandler.WeekDistributions)

	// Authenticated
	authed := api.Group("")
	authed.Use(middleware.AuthRequired(&cfg.JWT))
	{
		authed.POST("/posts", postHandler.Create)
		authed.POST("/posts/:id/replies", postHandler.CreateReply)
		authed.POST("/posts/:id/like", interactionHandler.Like)
		authed.DELETE("/posts/:id/like", interactionHandler.Unlike)
		authed.POST("/posts/:id/tip", interactionHandler.Tip)
		authed.GET("/posts/:id/interactions", interactionHandler.ListForPost)

		authed.POST("/sponsored", sponsoredHandler.Create)

		authed.POST("/games", gameHandler.Create)
		authed.POST("/games/:id/join", gameHandler.Join)
		authed.POST("/games/:id/complete", gameHandler.Complete)

		authed.GET("/reputation/me", reputationHandler.Me)
		authed.GET("/reputation/history", reputationHandler.History)

		authed.GET("/distribution/me", distributionHandler.MyDistributions)
		authed.GET("/distribution/me/:week", distributionHandler.MyWeek)
	}

	// Operator endpoints
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(&cfg.JWT), middleware.AdminRequired(cfg.Distribution.AdminWallets))
	{
		admin.GET("/distribution/revenue", distributionHandler.RevenueEvents)
		admin.POST("/distribution/trigger", distributionHandler.Trigger)
		admin.POST("/distribution/weeks/:week/resume", distributionHandler.Resume)
	}

	return r
}
