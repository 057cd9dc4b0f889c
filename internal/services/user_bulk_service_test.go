package services

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"dealer-console/internal/domain"
	"dealer-console/internal/infra"
	"dealer-console/internal/mocks"
	"dealer-console/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func adminCaps() session.Capabilities {
	return session.Capabilities{UserID: 1, Role: domain.RoleAdmin}
}

// fakeUserBackend applies status changes to an in-memory list so the
// re-fetch shows what really changed.
type fakeUserBackend struct {
	mocks.MockUserClient
	mu    sync.Mutex
	users map[uint64]domain.User
	fail  map[uint64]error
}

func (f *fakeUserBackend) UpdateUserStatus(ctx context.Context, id uint64, status domain.UserStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[id]; err != nil {
		return err
	}
	u := f.users[id]
	u.Status = status
	f.users[id] = u
	return nil
}

func (f *fakeUserBackend) ListUsers(ctx context.Context, filter infra.UserFilter) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.users))
	for _, id := range []uint64{1, 2, 3} {
		out = append(out, f.users[id])
	}
	return out, nil
}

func TestUserBulkService_BulkUpdateStatus_PartialFailure(t *testing.T) {
	backend := &fakeUserBackend{
		users: map[uint64]domain.User{
			1: {UserID: 1, Status: domain.UserActive},
			2: {UserID: 2, Status: domain.UserActive},
			3: {UserID: 3, Status: domain.UserActive},
		},
		fail: map[uint64]error{
			2: &infra.APIError{Service: "user", HTTPStatus: 409, Code: "3001", Message: "user is an owner"},
		},
	}
	pub := new(mocks.MockPublisher)
	pub.On("Publish", mock.Anything, domain.EventUserStatusChanged, mock.Anything).Return(nil)

	s := NewUserBulkService(backend, nil, pub, 2, zap.NewNop())
	res, err := s.BulkUpdateStatus(context.Background(), adminCaps(), []uint64{1, 2, 3}, domain.UserLocked)

	assert.ErrorIs(t, err, ErrBulkPartialFailure)
	require.NotNil(t, res)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.False(t, res.Results[1].OK)
	assert.Contains(t, res.Results[1].Error, "user is an owner")

	changed := 0
	for _, u := range res.Users {
		if u.Status == domain.UserLocked {
			changed++
		}
	}
	assert.Equal(t, 2, changed, "the other requests are not rolled back")
	assert.Equal(t, domain.UserActive, res.Users[1].Status)
	pub.AssertNumberOfCalls(t, "Publish", 2)
}

func TestUserBulkService_BulkUpdateStatus_AllSucceed(t *testing.T) {
	backend := &fakeUserBackend{
		users: map[uint64]domain.User{1: {UserID: 1}, 2: {UserID: 2}, 3: {UserID: 3}},
	}
	s := NewUserBulkService(backend, nil, nil, 8, zap.NewNop())

	res, err := s.BulkUpdateStatus(context.Background(), adminCaps(), []uint64{3, 1, 3, 0}, domain.UserInactive)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, []uint64{3, 1}, []uint64{res.Results[0].UserID, res.Results[1].UserID})
}

func TestUserBulkService_BulkUpdateStatus_Rejected(t *testing.T) {
	users := new(mocks.MockUserClient)
	s := NewUserBulkService(users, nil, nil, 2, zap.NewNop())

	_, err := s.BulkUpdateStatus(context.Background(), staffCaps(), []uint64{1}, domain.UserLocked)
	assert.ErrorIs(t, err, domain.ErrNotPermitted)

	_, err = s.BulkUpdateStatus(context.Background(), adminCaps(), []uint64{1}, domain.UserStatus("BANNED"))
	assert.True(t, domain.IsValidation(err))

	_, err = s.BulkUpdateStatus(context.Background(), adminCaps(), nil, domain.UserLocked)
	assert.True(t, domain.IsValidation(err))

	users.AssertNotCalled(t, "UpdateUserStatus", mock.Anything, mock.Anything, mock.Anything)
}

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestValidateUserWorkbook(t *testing.T) {
	header := []any{"Username", "Full name", "Email", "Role"}

	tests := []struct {
		name   string
		rows   [][]any
		fields []string
	}{
		{
			name: "valid",
			rows: [][]any{header, {"an.nguyen", "Nguyen An", "an@dealer.vn", "DEALER_STAFF"}, {"", "", "", ""}},
		},
		{
			name:   "missing column",
			rows:   [][]any{{"Username", "Email"}, {"an", "an@dealer.vn"}},
			fields: []string{"header"},
		},
		{
			name:   "bad rows",
			rows:   [][]any{header, {"", "No Name", "not-an-email", "OWNER"}},
			fields: []string{"row 2"},
		},
		{
			name:   "no data",
			rows:   [][]any{header},
			fields: []string{"file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserWorkbook(workbook(t, tt.rows))
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			got := domain.ValidationErrorsOf(err).Fields()
			for _, f := range tt.fields {
				assert.Contains(t, got, f)
			}
		})
	}

	assert.True(t, domain.IsValidation(ValidateUserWorkbook([]byte("plain text"))))
}

func TestUserBulkService_ImportUsers(t *testing.T) {
	content := workbook(t, [][]any{
		{"Username", "Full name", "Email", "Role"},
		{"an.nguyen", "Nguyen An", "an@dealer.vn", "DEALER_STAFF"},
	})
	users := new(mocks.MockUserClient)
	users.On("ImportUsers", mock.Anything, "users.xlsx", mock.Anything).Return(&infra.ImportResult{Imported: 1}, nil)
	s := NewUserBulkService(users, nil, nil, 2, zap.NewNop())

	res, err := s.ImportUsers(context.Background(), adminCaps(), "users.xlsx", content)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)

	_, err = s.ImportUsers(context.Background(), adminCaps(), "bad.xlsx", []byte("nope"))
	assert.True(t, domain.IsValidation(err))
	users.AssertNumberOfCalls(t, "ImportUsers", 1)
}

func TestUserBulkService_ExportUsers(t *testing.T) {
	t.Run("backend blob is passed through", func(t *testing.T) {
		users := new(mocks.MockUserClient)
		users.On("ExportUsers", mock.Anything).Return([]byte("blob"), nil)
		s := NewUserBulkService(users, nil, nil, 2, zap.NewNop())

		blob, err := s.ExportUsers(context.Background(), adminCaps())
		require.NoError(t, err)
		assert.Equal(t, []byte("blob"), blob)
	})

	t.Run("built locally when the backend has no export", func(t *testing.T) {
		users := new(mocks.MockUserClient)
		users.On("ExportUsers", mock.Anything).Return(nil, &infra.APIError{HTTPStatus: 404})
		users.On("ListUsers", mock.Anything, infra.UserFilter{}).Return([]domain.User{
			{UserID: 5, Username: "minh", Email: "minh@dealer.vn", Role: domain.RoleDealerStaff, Status: domain.UserActive},
		}, nil)
		s := NewUserBulkService(users, nil, nil, 2, zap.NewNop())

		blob, err := s.ExportUsers(context.Background(), adminCaps())
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(blob))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(userSheet)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "User ID", rows[0][0])
		assert.Equal(t, "minh", rows[1][1])
	})

	t.Run("transport errors are returned", func(t *testing.T) {
		users := new(mocks.MockUserClient)
		users.On("ExportUsers", mock.Anything).Return(nil, infra.ErrTransport)
		s := NewUserBulkService(users, nil, nil, 2, zap.NewNop())

		_, err := s.ExportUsers(context.Background(), adminCaps())
		assert.ErrorIs(t, err, infra.ErrTransport)
	})
}
