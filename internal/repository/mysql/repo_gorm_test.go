package mysql

import (
	"context"
	"errors"
	"testing"

	"dealer-console/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestCommandRepo_FindOpen(t *testing.T) {
	const query = "SELECT \\* FROM `commands` WHERE \\(?fingerprint = \\? AND status <> \\?\\)? ORDER BY id DESC"

	t.Run("returns the newest unfinished command", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(query).
			WillReturnRows(sqlmock.NewRows([]string{"id", "idempotency_key", "fingerprint", "status", "attempts"}).
				AddRow(7, "key-7", "fp-1", "failed", 2))

		cmd, err := NewCommandRepository(db).FindOpen(context.Background(), "fp-1")
		require.NoError(t, err)
		require.NotNil(t, cmd)
		assert.Equal(t, "key-7", cmd.IdempotencyKey)
		assert.Equal(t, domain.CommandFailed, cmd.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing open", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"id"}))

		cmd, err := NewCommandRepository(db).FindOpen(context.Background(), "fp-1")
		assert.NoError(t, err)
		assert.Nil(t, cmd)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database errors are returned", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(query).WillReturnError(errors.New("connection reset"))

		_, err := NewCommandRepository(db).FindOpen(context.Background(), "fp-1")
		assert.EqualError(t, err, "connection reset")
	})
}

func TestCommandRepo_RecordAttempt(t *testing.T) {
	const update = "UPDATE `commands` SET .*`attempts`=attempts \\+ 1.* WHERE idempotency_key = \\?"

	t.Run("updates the command", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewCommandRepository(db).RecordAttempt(context.Background(), "key-7", domain.CommandFailed, "timeout")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown key", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewCommandRepository(db).RecordAttempt(context.Background(), "missing", domain.CommandSucceeded, "")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestCommandRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO `commands`").WillReturnResult(sqlmock.NewResult(12, 1))

	cmd := &domain.Command{IdempotencyKey: "key-12", Name: "approve-order", Resource: "sales-orders/1", Fingerprint: "fp", Status: domain.CommandPending}
	require.NoError(t, NewCommandRepository(db).Create(context.Background(), cmd))
	assert.Equal(t, uint64(12), cmd.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepo_Save(t *testing.T) {
	t.Run("assigns the id", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO `notifications`").WillReturnResult(sqlmock.NewResult(55, 1))

		n := &domain.Notification{UserID: 22, Title: "Order approved"}
		require.NoError(t, NewNotificationRepository(db).Save(context.Background(), n))
		assert.Equal(t, uint64(55), n.ID)
	})

	t.Run("missing id is an error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO `notifications`").WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewNotificationRepository(db).Save(context.Background(), &domain.Notification{UserID: 22, Title: "x"})
		assert.Error(t, err)
	})
}

func TestNotificationRepo_MarkRead(t *testing.T) {
	const update = "UPDATE `notifications` SET `read`=\\? WHERE id = \\? AND user_id = \\?"

	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"own notification", 1, true},
		{"someone else's or unknown", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectExec(update).WithArgs(true, 9, 22).WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := NewNotificationRepository(db).MarkRead(context.Background(), 22, 9)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNotificationRepo_UnreadCounts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectExec("UPDATE `notifications` SET `read`=\\? WHERE user_id = \\? AND `read` = \\?").
		WithArgs(true, 22, false).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `notifications` WHERE user_id = \\? AND `read` = \\?").
		WithArgs(22, false).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	n, err := repo.MarkAllRead(context.Background(), 22)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	unread, err := repo.CountUnread(context.Background(), 22)
	require.NoError(t, err)
	assert.Zero(t, unread)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepo_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `notifications` WHERE user_id = \\? AND `read` = \\? ORDER BY received_at DESC,id DESC LIMIT").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "read"}).
			AddRow(3, 22, "newest", false).
			AddRow(1, 22, "older", false))

	list, err := NewNotificationRepository(db).ListByUser(context.Background(), 22, true, 20)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newest", list[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
