package services

import (
	"context"
	"time"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/repositories"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

// Retention windows for the nightly cleanup job.
const (
	revokedTokenRetention = 30 * 24 * time.Hour
	loginAttemptRetention = 24 * time.Hour
)

type TokenCleanupService interface {
	CleanupDaily(ctx context.Context)
}

type tokenCleanupService struct {
	tokenRepo    repositories.RefreshTokenRepository
	attemptsRepo repositories.LoginAttemptsRepository
}

func NewTokenCleanupService(
	tokenRepo repositories.RefreshTokenRepository,
	attemptsRepo repositories.LoginAttemptsRepository,
) TokenCleanupService {
	return &tokenCleanupService{tokenRepo: tokenRepo, attemptsRepo: attemptsRepo}
}

// CleanupDaily purges expired refresh tokens and stale login attempts.
// Wired to the cron scheduler in main.
func (s *tokenCleanupService) CleanupDaily(ctx context.Context) {
	tokens, err := s.tokenRepo.DeleteExpired(ctx, revokedTokenRetention)
	if err != nil {
		utils.Logger.WithError(err).Error("Refresh token cleanup failed")
	} else if tokens > 0 {
		utils.Logger.WithField("removed", tokens).Info("Expired refresh tokens removed")
	}

	attempts, err := s.attemptsRepo.DeleteOld(ctx, loginAttemptRetention)
	if err != nil {
		utils.Logger.WithError(err).Error("Login attempt cleanup failed")
	} else if attempts > 0 {
		utils.Logger.WithField("removed", attempts).Info("Stale login attempts removed")
	}
}
