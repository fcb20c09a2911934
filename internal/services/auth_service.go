package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/config"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/repositories"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

const refreshTokenLength = 64

// TokenPair is what a successful login or refresh hands back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	Register(ctx context.Context, email, password, fullName, phone string) (*models.AppUser, error)
	Login(ctx context.Context, email, password string) (*models.AppUser, *TokenPair, error)
	// Refresh rotates the refresh token: the presented token is revoked
	// and a new pair is issued.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	// Logout revokes the refresh token. Already-revoked and unknown
	// tokens succeed, so logout is idempotent.
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	GetUser(ctx context.Context, userID uuid.UUID) (*models.AppUser, error)
	ListOrganisations(ctx context.Context, userID uuid.UUID) ([]*repositories.MembershipWithOrg, error)
}

type authService struct {
	cfg            *config.Config
	userRepo       repositories.UserRepository
	tokenRepo      repositories.RefreshTokenRepository
	attemptsRepo   repositories.LoginAttemptsRepository
	membershipRepo repositories.MembershipRepository
	jwtService     JWTService
}

func NewAuthService(
	cfg *config.Config,
	userRepo repositories.UserRepository,
	tokenRepo repositories.RefreshTokenRepository,
	attemptsRepo repositories.LoginAttemptsRepository,
	membershipRepo repositories.MembershipRepository,
	jwtService JWTService,
) AuthService {
	return &authService{
		cfg:            cfg,
		userRepo:       userRepo,
		tokenRepo:      tokenRepo,
		attemptsRepo:   attemptsRepo,
		membershipRepo: membershipRepo,
		jwtService:     jwtService,
	}
}

func (s *authService) Register(ctx context.Context, email, password, fullName, phone string) (*models.AppUser, error) {
	email = normalizeEmail(email)

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.AppUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Phone:        phone,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, utils.ErrEmailExists
		}
		return nil, err
	}

	utils.Logger.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.AppUser, *TokenPair, error) {
	email = normalizeEmail(email)
	now := time.Now()

	until, err := s.attemptsRepo.LockedUntil(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if until != nil && until.After(now) {
		utils.Logger.WithField("email", email).Warn("Login locked out")
		return nil, nil, utils.ErrAccountLocked
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Record the miss so unknown emails lock out too.
			return nil, nil, s.failLogin(ctx, email, now)
		}
		return nil, nil, err
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, s.failLogin(ctx, email, now)
	}

	if !user.IsActive {
		return nil, nil, utils.ErrAccountDisabled
	}

	if err := s.attemptsRepo.Clear(ctx, email); err != nil {
		utils.Logger.WithError(err).Error("Failed to clear login attempts")
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// failLogin records a failed attempt and, when the sliding window
// reaches the limit, locks the account for cfg.LockDuration. The lock
// holds even after the attempts age out of the window.
func (s *authService) failLogin(ctx context.Context, email string, now time.Time) error {
	if err := s.attemptsRepo.RecordFailure(ctx, email); err != nil {
		utils.Logger.WithError(err).Error("Failed to record login attempt")
		return utils.ErrInvalidCredentials
	}

	recent, err := s.attemptsRepo.CountRecent(ctx, email, s.cfg.AttemptWindow)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to count login attempts")
		return utils.ErrInvalidCredentials
	}
	if recent < s.cfg.MaxLoginAttempts {
		return utils.ErrInvalidCredentials
	}

	if err := s.attemptsRepo.Lock(ctx, email, now.Add(s.cfg.LockDuration)); err != nil {
		utils.Logger.WithError(err).Error("Failed to lock account")
		return utils.ErrInvalidCredentials
	}
	utils.Logger.WithField("email", email).Warn("Account locked after repeated login failures")
	return utils.ErrAccountLocked
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.tokenRepo.GetByHash(ctx, utils.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.ErrInvalidToken
		}
		return nil, err
	}
	if stored.Revoked() || stored.Expired(time.Now()) {
		return nil, utils.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, utils.ErrAccountDisabled
	}

	if err := s.tokenRepo.Revoke(ctx, stored.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the rotation race to a concurrent refresh.
			return nil, utils.ErrInvalidToken
		}
		return nil, err
	}

	return s.issueTokens(ctx, user.ID)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	stored, err := s.tokenRepo.GetByHash(ctx, utils.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if stored.Revoked() {
		return nil
	}
	if err := s.tokenRepo.Revoke(ctx, stored.ID); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.ErrNotFound
		}
		return err
	}
	if !utils.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return utils.ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	// Every other session must log in again.
	if err := s.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		utils.Logger.WithError(err).Error("Failed to revoke refresh tokens after password change")
	}
	return nil
}

func (s *authService) GetUser(ctx context.Context, userID uuid.UUID) (*models.AppUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) ListOrganisations(ctx context.Context, userID uuid.UUID) ([]*repositories.MembershipWithOrg, error) {
	return s.membershipRepo.ListForUser(ctx, userID)
}

func (s *authService) issueTokens(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	access, err := s.jwtService.GenerateAccessToken(userID, s.cfg.AccessTokenExpiry)
	if err != nil {
		return nil, err
	}

	refresh := utils.RandomToken(refreshTokenLength)
	record := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: utils.HashToken(refresh),
		ExpiresAt: time.Now().Add(s.cfg.RefreshTokenExpiry),
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
