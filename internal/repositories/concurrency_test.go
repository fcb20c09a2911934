package repositories

import (
	"context"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/require"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

type versionedRow struct {
	id      string
	version int64
	value   string
}

func (r *versionedRow) GetID() string         { return r.id }
func (r *versionedRow) GetRowVersion() int64  { return r.version }
func (r *versionedRow) SetRowVersion(n int64) { r.version = n }

func TestWithRetryExhaustionReportsVersionConflict(t *testing.T) {
	reads := 0
	getByID := func(_ context.Context, id string) (*versionedRow, error) {
		reads++
		return &versionedRow{id: id, version: 7}, nil
	}
	// Every update loses the race.
	updateIfVersion := func(_ context.Context, _ *versionedRow, _ int64) (pgconn.CommandTag, error) {
		return pgconn.CommandTag("UPDATE 0"), nil
	}

	err := WithRetry(context.Background(), 3, "row-1", getByID, updateIfVersion,
		func(r *versionedRow) error { r.value = "x"; return nil })

	require.ErrorIs(t, err, utils.ErrRowVersionConflict)
	require.Equal(t, 3, reads, "one fresh read per attempt")
}

func TestWithRetrySucceedsAfterLostRace(t *testing.T) {
	attempts := 0
	getByID := func(_ context.Context, id string) (*versionedRow, error) {
		return &versionedRow{id: id, version: int64(attempts)}, nil
	}
	updateIfVersion := func(_ context.Context, _ *versionedRow, _ int64) (pgconn.CommandTag, error) {
		attempts++
		if attempts < 2 {
			return pgconn.CommandTag("UPDATE 0"), nil
		}
		return pgconn.CommandTag("UPDATE 1"), nil
	}

	var mutated *versionedRow
	err := WithRetry(context.Background(), 3, "row-1", getByID, updateIfVersion,
		func(r *versionedRow) error { r.value = "x"; mutated = r; return nil })

	require.NoError(t, err)
	require.Equal(t, 2, attempts)
	require.Equal(t, "x", mutated.value)
}

func TestWithRetryMissingRow(t *testing.T) {
	getByID := func(_ context.Context, _ string) (*versionedRow, error) {
		return nil, nil
	}
	updateIfVersion := func(_ context.Context, _ *versionedRow, _ int64) (pgconn.CommandTag, error) {
		t.Fatal("update must not run for a missing row")
		return nil, nil
	}

	err := WithRetry(context.Background(), 3, "gone", getByID, updateIfVersion,
		func(_ *versionedRow) error { return nil })

	require.ErrorIs(t, err, pgx.ErrNoRows)
}
