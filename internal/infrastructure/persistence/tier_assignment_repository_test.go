package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/domain/tier"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMockTierAssignmentRepository(t *testing.T) (*GormTierAssignmentRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormTierAssignmentRepository(gormDB), mock, mockDB
}

func TestGormTierAssignmentRepository_FindByUser(t *testing.T) {
	t.Run("finds current assignment", func(t *testing.T) {
		repo, mock, mockDB := newMockTierAssignmentRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		assignmentID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "user_id", "tier", "source", "reason", "interaction_count", "assigned_at",
		}).AddRow(assignmentID, userID, tier.TierPro, tier.SourceAutomatic, "", 6, time.Now())

		mock.ExpectQuery(`SELECT \* FROM "tier_assignments" WHERE user_id = \$1`).
			WithArgs(userID, 1).
			WillReturnRows(rows)

		assignment, err := repo.FindByUser(context.Background(), userID)

		assert.NoError(t, err)
		require.NotNil(t, assignment)
		assert.Equal(t, tier.TierPro, assignment.Tier)
		assert.Equal(t, int64(6), assignment.InteractionCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for never-classified user", func(t *testing.T) {
		repo, mock, mockDB := newMockTierAssignmentRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "tier_assignments" WHERE user_id = \$1`).
			WithArgs(userID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		assignment, err := repo.FindByUser(context.Background(), userID)

		assert.Error(t, err)
		assert.Nil(t, assignment)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTierAssignmentRepository_Save(t *testing.T) {
	t.Run("upserts keyed on user_id", func(t *testing.T) {
		repo, mock, mockDB := newMockTierAssignmentRepository(t)
		defer mockDB.Close()

		assignment, err := tier.NewAutomaticAssignment(uuid.New(), tier.TierVip, 12)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "tier_assignments" .* ON CONFLICT \("user_id"\) DO UPDATE SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), assignment)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTierAssignmentRepository_AppendHistory(t *testing.T) {
	t.Run("inserts a history row", func(t *testing.T) {
		repo, mock, mockDB := newMockTierAssignmentRepository(t)
		defer mockDB.Close()

		assignment, err := tier.NewAutomaticAssignment(uuid.New(), tier.TierPro, 5)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "tier_assignment_history"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.AppendHistory(context.Background(), assignment.ToHistoryEntry())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTierAssignmentRepository_HistoryByUser(t *testing.T) {
	t.Run("returns history newest first", func(t *testing.T) {
		repo, mock, mockDB := newMockTierAssignmentRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "tier_assignment_history" WHERE user_id = \$1`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		rows := sqlmock.NewRows([]string{
			"id", "user_id", "tier", "source", "reason", "created_at",
		}).
			AddRow(uuid.New(), userID, tier.TierPro, tier.SourceAutomatic, "", time.Now()).
			AddRow(uuid.New(), userID, tier.TierRegular, tier.SourceAutomatic, "", time.Now().Add(-time.Hour))

		mock.ExpectQuery(`SELECT \* FROM "tier_assignment_history" WHERE user_id = \$1 ORDER BY created_at DESC`).
			WithArgs(userID, 20).
			WillReturnRows(rows)

		page, err := repo.HistoryByUser(context.Background(), userID, shared.DefaultFilter())

		assert.NoError(t, err)
		require.NotNil(t, page)
		assert.Equal(t, int64(2), page.Total)
		require.Len(t, page.Items, 2)
		assert.Equal(t, tier.TierPro, page.Items[0].Tier)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
