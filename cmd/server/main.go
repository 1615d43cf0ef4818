package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"korus/config"
	"korus/internal/database"
	"korus/internal/repository"
	"korus/internal/router"
	"korus/internal/service"
	"korus/internal/solana"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	chain, err := solana.NewClient(&cfg.Solana)
	if err != nil {
		log.Fatalf("solana: %v", err)
	}
	if !chain.CanSign() {
		log.Println("[main] no platform signing key configured, payouts disabled")
	}

	clock := clockwork.NewRealClock()
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	poolRepo := repository.NewPoolRepository(db)
	distRepo := repository.NewDistributionRepository(db)
	repRepo := repository.NewRepEventRepository(db)
	leaseRepo := repository.NewLeaseRepository(db)

	reputation := service.NewReputationService(userRepo, repRepo, postRepo, clock)
	scanner := service.NewScannerService(chain, cfg.Solana.ScanSignatureLimit)
	pools := service.NewPoolService(poolRepo, scanner, &cfg.Distribution, clock)
	settlement := service.NewSettlementService(
		userRepo, poolRepo, distRepo, pools, chain,
		&cfg.Distribution, cfg.Solana.TeamWalletAddress, clock,
	)
	authSvc := service.NewAuthService(cfg, userRepo, reputation, chain)

	scheduler, err := service.NewScheduler(settlement, leaseRepo, &cfg.Distribution)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	defer scheduler.Stop()

	engine := router.Setup(cfg, db, router.Deps{
		Reputation: reputation,
		Pools:      pools,
		Settlement: settlement,
		Auth:       authSvc,
	})
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
