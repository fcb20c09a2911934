package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/require"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/config"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/repositories"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

// ---------------------------------------------------------------------
// In-memory fakes
// ---------------------------------------------------------------------

type fakeUserRepo struct {
	byEmail map[string]*models.AppUser
	failDup bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*models.AppUser{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.AppUser) error {
	if _, exists := f.byEmail[u.Email]; exists || f.failDup {
		return &pgconn.PgError{Code: "23505"}
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.AppUser, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.AppUser, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	for _, u := range f.byEmail {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeTokenRepo struct {
	byHash map[string]*models.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byHash: map[string]*models.RefreshToken{}}
}

func (f *fakeTokenRepo) Create(_ context.Context, t *models.RefreshToken) error {
	f.byHash[t.TokenHash] = t
	return nil
}

func (f *fakeTokenRepo) GetByHash(_ context.Context, hash string) (*models.RefreshToken, error) {
	t, ok := f.byHash[hash]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return t, nil
}

func (f *fakeTokenRepo) Revoke(_ context.Context, id uuid.UUID) error {
	for _, t := range f.byHash {
		if t.ID == id && t.RevokedAt == nil {
			now := time.Now()
			t.RevokedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeTokenRepo) RevokeAllForUser(_ context.Context, userID uuid.UUID) error {
	now := time.Now()
	for _, t := range f.byHash {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeTokenRepo) DeleteExpired(_ context.Context, _ time.Duration) (int64, error) {
	return 0, nil
}

func (f *fakeTokenRepo) activeCount(userID uuid.UUID) int {
	n := 0
	for _, t := range f.byHash {
		if t.UserID == userID && t.RevokedAt == nil {
			n++
		}
	}
	return n
}

type fakeAttemptsRepo struct {
	counts map[string]int
	locks  map[string]time.Time
}

func newFakeAttemptsRepo() *fakeAttemptsRepo {
	return &fakeAttemptsRepo{
		counts: map[string]int{},
		locks:  map[string]time.Time{},
	}
}

func (f *fakeAttemptsRepo) RecordFailure(_ context.Context, email string) error {
	f.counts[email]++
	return nil
}

func (f *fakeAttemptsRepo) CountRecent(_ context.Context, email string, _ time.Duration) (int, error) {
	return f.counts[email], nil
}

func (f *fakeAttemptsRepo) Lock(_ context.Context, email string, until time.Time) error {
	f.locks[email] = until
	return nil
}

func (f *fakeAttemptsRepo) LockedUntil(_ context.Context, email string) (*time.Time, error) {
	until, ok := f.locks[email]
	if !ok {
		return nil, nil
	}
	return &until, nil
}

func (f *fakeAttemptsRepo) Clear(_ context.Context, email string) error {
	delete(f.counts, email)
	delete(f.locks, email)
	return nil
}

func (f *fakeAttemptsRepo) DeleteOld(_ context.Context, _ time.Duration) (int64, error) {
	return 0, nil
}

type fakeMembershipRepo struct {
	memberships []*repositories.MembershipWithOrg
}

func (f *fakeMembershipRepo) AddMember(_ context.Context, _ *models.UserOrganisation) error {
	return nil
}

func (f *fakeMembershipRepo) IsMember(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return true, nil
}

func (f *fakeMembershipRepo) GetRole(_ context.Context, _, _ uuid.UUID) (models.RoleType, error) {
	return models.RoleOwner, nil
}

func (f *fakeMembershipRepo) ListForUser(_ context.Context, _ uuid.UUID) ([]*repositories.MembershipWithOrg, error) {
	return f.memberships, nil
}

type stubJWT struct{}

func (stubJWT) GenerateAccessToken(userID uuid.UUID, _ time.Duration) (string, error) {
	return "access-" + userID.String(), nil
}

// ---------------------------------------------------------------------

type authFixture struct {
	svc      AuthService
	users    *fakeUserRepo
	tokens   *fakeTokenRepo
	attempts *fakeAttemptsRepo
	cfg      *config.Config
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:    newFakeUserRepo(),
		tokens:   newFakeTokenRepo(),
		attempts: newFakeAttemptsRepo(),
		cfg: &config.Config{
			AccessTokenExpiry:  time.Minute,
			RefreshTokenExpiry: time.Hour,
			MaxLoginAttempts:   3,
			AttemptWindow:      time.Minute,
			LockDuration:       time.Hour,
		},
	}
	f.svc = NewAuthService(f.cfg, f.users, f.tokens, f.attempts, &fakeMembershipRepo{}, stubJWT{})
	return f
}

func (f *authFixture) register(t *testing.T, email, password string) *models.AppUser {
	t.Helper()
	user, err := f.svc.Register(context.Background(), email, password, "Test User", "")
	require.NoError(t, err)
	return user
}

const testPassword = "correct horse battery"

func TestRegisterNormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)

	user := f.register(t, "  Alice@Example.COM ", testPassword)
	require.Equal(t, "alice@example.com", user.Email)
	require.True(t, user.IsActive)
	require.NotEqual(t, testPassword, user.PasswordHash)
	require.True(t, utils.CheckPasswordHash(testPassword, user.PasswordHash))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", testPassword)

	_, err := f.svc.Register(context.Background(), "alice@example.com", testPassword, "Other", "")
	require.ErrorIs(t, err, utils.ErrEmailExists)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "alice@example.com", testPassword)

	got, pair, err := f.svc.Login(context.Background(), "Alice@Example.com", testPassword)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// The refresh token is stored hashed, never in the clear.
	_, plainStored := f.tokens.byHash[pair.RefreshToken]
	require.False(t, plainStored)
	_, hashStored := f.tokens.byHash[utils.HashToken(pair.RefreshToken)]
	require.True(t, hashStored)
}

func TestLoginWrongPasswordRecordsFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", testPassword)

	_, _, err := f.svc.Login(context.Background(), "alice@example.com", "wrong password!")
	require.ErrorIs(t, err, utils.ErrInvalidCredentials)
	require.Equal(t, 1, f.attempts.counts["alice@example.com"])
}

func TestLoginUnknownEmailRecordsFailure(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.svc.Login(context.Background(), "nobody@example.com", testPassword)
	require.ErrorIs(t, err, utils.ErrInvalidCredentials)
	require.Equal(t, 1, f.attempts.counts["nobody@example.com"])
}

func TestLoginLockout(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", testPassword)

	for i := 0; i < f.cfg.MaxLoginAttempts-1; i++ {
		_, _, err := f.svc.Login(context.Background(), "alice@example.com", "wrong password!")
		require.ErrorIs(t, err, utils.ErrInvalidCredentials)
	}

	// The attempt that reaches the limit engages the lock.
	_, _, err := f.svc.Login(context.Background(), "alice@example.com", "wrong password!")
	require.ErrorIs(t, err, utils.ErrAccountLocked)

	// Even the correct password is rejected while locked.
	_, _, err = f.svc.Login(context.Background(), "alice@example.com", testPassword)
	require.ErrorIs(t, err, utils.ErrAccountLocked)

	// The lock is held for the configured duration, not the window.
	until, ok := f.attempts.locks["alice@example.com"]
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(f.cfg.LockDuration), until, time.Minute)
}

func TestLockOutlivesAttemptWindow(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", testPassword)

	for i := 0; i < f.cfg.MaxLoginAttempts; i++ {
		f.svc.Login(context.Background(), "alice@example.com", "wrong password!")
	}

	// The recorded attempts aging out of the sliding window must not
	// release the lock early.
	f.attempts.counts = map[string]int{}

	_, _, err := f.svc.Login(context.Background(), "alice@example.com", testPassword)
	require.ErrorIs(t, err, utils.ErrAccountLocked)
}

func TestExpiredLockAllowsLogin(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", testPassword)
	f.attempts.locks["alice@example.com"] = time.Now().Add(-time.Minute)

	_, _, err := f.svc.Login(context.Background(), "alice@example.com", testPassword)
	require.NoError(t, err)

	// Success clears the stale lock along with the attempts.
	_, ok := f.attempts.locks["alice@example.com"]
	require.False(t, ok)
}

func TestLoginClearsAttemptsOnSuccess(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", testPassword)
	f.attempts.counts["alice@example.com"] = 2

	_, _, err := f.svc.Login(context.Background(), "alice@example.com", testPassword)
	require.NoError(t, err)
	require.Zero(t, f.attempts.counts["alice@example.com"])
}

func TestLoginDisabledAccount(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "alice@example.com", testPassword)
	user.IsActive = false

	_, _, err := f.svc.Login(context.Background(), "alice@example.com", testPassword)
	require.ErrorIs(t, err, utils.ErrAccountDisabled)
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "alice@example.com", testPassword)

	_, pair, err := f.svc.Login(context.Background(), "alice@example.com", testPassword)
	require.NoError(t, err)

	rotated, err := f.svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The old token is revoked by the rotation.
	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, utils.ErrInvalidToken)

	// The new one still works.
	_, err = f.svc.Refresh(context.Background(), rotated.RefreshToken)
	require.NoError(t, err)

	require.Equal(t, 1, f.tokens.activeCount(user.ID))
}

func TestRefreshExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", testPassword)
	f.cfg.RefreshTokenExpiry = -time.Minute

	_, pair, err := f.svc.Login(context.Background(), "alice@example.com", testPassword)
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestRefreshGarbageToken(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Refresh(context.Background(), "not-a-real-token")
	require.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "alice@example.com", testPassword)

	_, pair, err := f.svc.Login(context.Background(), "alice@example.com", testPassword)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), pair.RefreshToken))
	require.Zero(t, f.tokens.activeCount(user.ID))

	// A second logout with the same token, and one with garbage, both succeed.
	require.NoError(t, f.svc.Logout(context.Background(), pair.RefreshToken))
	require.NoError(t, f.svc.Logout(context.Background(), "unknown-token"))
}

func TestLogoutRevokesRefresh(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", testPassword)

	_, pair, err := f.svc.Login(context.Background(), "alice@example.com", testPassword)
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(context.Background(), pair.RefreshToken))

	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestChangePasswordRevokesAllSessions(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "alice@example.com", testPassword)

	_, pair, err := f.svc.Login(context.Background(), "alice@example.com", testPassword)
	require.NoError(t, err)

	const newPassword = "even better passphrase"
	require.NoError(t, f.svc.ChangePassword(context.Background(), user.ID, testPassword, newPassword))

	require.Zero(t, f.tokens.activeCount(user.ID))
	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, utils.ErrInvalidToken)

	_, _, err = f.svc.Login(context.Background(), "alice@example.com", testPassword)
	require.ErrorIs(t, err, utils.ErrInvalidCredentials)
	_, _, err = f.svc.Login(context.Background(), "alice@example.com", newPassword)
	require.NoError(t, err)
}

func TestChangePasswordWrongOld(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "alice@example.com", testPassword)

	err := f.svc.ChangePassword(context.Background(), user.ID, "wrong old", "a new passphrase!")
	require.ErrorIs(t, err, utils.ErrInvalidCredentials)
}
