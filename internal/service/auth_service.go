package service

import (
	"context"
	"errors"
	"log"
	"time"

	"korus/config"
	"korus/internal/auth"
	"korus/internal/domain"
	"korus/internal/models"
	"korus/internal/repository"

	"gorm.io/gorm"
)

var ErrSuspended = errors.New("account suspended")

// GenesisChecker answers whether a wallet holds the Seeker genesis token.
type GenesisChecker interface {
	OwnsToken(ctx context.Context, owner, mint string) (bool, error)
}

// AuthService signs users in by wallet signature. There are no passwords:
// proving control of the wallet's key is the whole credential.
type AuthService struct {
	cfg        *config.Config
	userRepo   *repository.UserRepository
	reputation *ReputationService
	genesis    GenesisChecker
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository, reputation *ReputationService, genesis GenesisChecker) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, reputation: reputation, genesis: genesis}
}

// Login verifies the signed message, creates the user on first sight, and
// returns a JWT. Genesis token detection upgrades the tier once and is never
// fatal; an RPC hiccup just leaves the user standard until the next login.
func (s *AuthService) Login(ctx context.Context, walletAddress, message, signature, walletSource string) (*models.User, string, error) {
	if err := auth.VerifyWalletSignature(walletAddress, message, signature); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.GetByWallet(walletAddress)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &models.User{
			WalletAddress: walletAddress,
			Tier:          domain.TierStandard,
			WalletSource:  walletSource,
		}
		if walletSource == "" {
			user.WalletSource = domain.WalletSourceApp
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, "", err
		}
	} else if err != nil {
		return nil, "", err
	}
	if user.IsSuspended {
		return nil, "", ErrSuspended
	}

	if !user.GenesisVerified && s.cfg.Solana.GenesisTokenMint != "" && s.genesis != nil {
		checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		owns, err := s.genesis.OwnsToken(checkCtx, walletAddress, s.cfg.Solana.GenesisTokenMint)
		cancel()
		if err != nil {
			log.Printf("[auth] genesis check for %s: %v", walletAddress, err)
		} else if owns {
			user.GenesisVerified = true
			user.Tier = domain.TierPremium
			if err := s.userRepo.Update(user); err != nil {
				log.Printf("[auth] persist genesis tier for %s: %v", walletAddress, err)
			}
		}
	}

	s.reputation.OnLogin(walletAddress)

	token, err := auth.GenerateToken(&s.cfg.JWT, user.WalletAddress, user.Tier)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
