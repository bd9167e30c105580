package leave_test

import (
	"context"
	"testing"
	"time"

	"github.com/mdvohra/LMS-app/internal/leave"
	"github.com/mdvohra/LMS-app/internal/shared/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepoTest(t *testing.T) (leave.Repository, *gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	assert.NoError(t, err)

	return leave.NewRepository(gdb), gdb, mock
}

func TestLeaveRepository_DecrementRemainingDays(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("existing record is updated in place", func(t *testing.T) {
		repo, _, mock := setupRepoTest(t)

		mock.ExpectExec(`UPDATE leave_records`).
			WithArgs(3, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.DecrementRemainingDays(ctx, userID, 3)

		assert.NoError(t, err)
		assert.True(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing record reports no update", func(t *testing.T) {
		repo, _, mock := setupRepoTest(t)

		mock.ExpectExec(`UPDATE leave_records`).
			WithArgs(5, userID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		updated, err := repo.DecrementRemainingDays(ctx, userID, 5)

		assert.NoError(t, err)
		assert.False(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLeaveRepository_FindApplicationByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo, _, mock := setupRepoTest(t)
		id := uuid.New()
		userID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "user_id", "leave_type", "reason", "start_date", "end_date", "status"}).
			AddRow(id.String(), userID.String(), "casual", "Family event",
				time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
				"pending")
		mock.ExpectQuery(`SELECT .+ FROM "leave_applications"`).
			WithArgs(id.String(), 1).
			WillReturnRows(rows)

		l, err := repo.FindApplicationByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id, l.ID)
		assert.Equal(t, "casual", l.LeaveType)
		assert.Equal(t, leave.StatusPending, l.Status)
	})

	t.Run("not found maps to gorm sentinel", func(t *testing.T) {
		repo, _, mock := setupRepoTest(t)
		id := uuid.New().String()

		mock.ExpectQuery(`SELECT .+ FROM "leave_applications"`).
			WithArgs(id, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindApplicationByID(ctx, id)

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestLeaveRepository_TransactionRouting(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("operations inside RunInTx share one transaction", func(t *testing.T) {
		repo, gdb, mock := setupRepoTest(t)
		txm := database.NewTransactionManager(gdb)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE leave_records`).
			WithArgs(2, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := txm.RunInTx(ctx, func(txCtx context.Context) error {
			_, err := repo.DecrementRemainingDays(txCtx, userID, 2)
			return err
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("callback error rolls the transaction back", func(t *testing.T) {
		repo, gdb, mock := setupRepoTest(t)
		txm := database.NewTransactionManager(gdb)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE leave_records`).
			WithArgs(2, userID).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := txm.RunInTx(ctx, func(txCtx context.Context) error {
			_, err := repo.DecrementRemainingDays(txCtx, userID, 2)
			return err
		})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
