package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"dealer-console/internal/domain"
	"dealer-console/internal/infra"
	rabbit "dealer-console/internal/infra/rabbitmq"
	"dealer-console/internal/session"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type BulkItemResult struct {
	UserID uint64 `json:"userId"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

type BulkResult struct {
	Results   []BulkItemResult `json:"results"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	// Users is the list re-fetched after the batch, showing what actually
	// changed.
	Users []domain.User `json:"users"`
}

type UserBulkService struct {
	users       infra.UserClientInterface
	commands    *CommandService
	publisher   rabbit.PublisherInterface
	concurrency int
	logger      *zap.Logger
}

func NewUserBulkService(users infra.UserClientInterface, commands *CommandService, publisher rabbit.PublisherInterface, concurrency int, logger *zap.Logger) *UserBulkService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &UserBulkService{
		users:       users,
		commands:    commands,
		publisher:   publisher,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (s *UserBulkService) scopedFilter(caps session.Capabilities, filter infra.UserFilter) infra.UserFilter {
	if scope := caps.DealerScope(); scope != 0 {
		filter.DealerID = scope
	}
	return filter
}

func (s *UserBulkService) List(ctx context.Context, caps session.Capabilities, filter infra.UserFilter) ([]domain.User, error) {
	return s.users.ListUsers(ctx, s.scopedFilter(caps, filter))
}

// BulkUpdateStatus sends one request per user with bounded concurrency. The
// requests are independent: a failure does not stop or undo the others. Any
// failure is reported as ErrBulkPartialFailure alongside the full result.
func (s *UserBulkService) BulkUpdateStatus(ctx context.Context, caps session.Capabilities, userIDs []uint64, status domain.UserStatus) (*BulkResult, error) {
	if !caps.CanManageUsers() {
		return nil, fmt.Errorf("%w: managing users", domain.ErrNotPermitted)
	}
	if !status.Valid() {
		return nil, domain.ValidationError{Field: "status", Message: "unknown user status"}
	}
	ids := dedupe(userIDs)
	if len(ids) == 0 {
		return nil, domain.ValidationError{Field: "userIds", Message: "select at least one user"}
	}

	results := make([]BulkItemResult, len(ids))
	var failed int32
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			payload := map[string]domain.UserStatus{"status": status}
			err := s.commands.Run(ctx, "update-user-status", fmt.Sprintf("users/%d", id), caps.UserID, payload, func(ctx context.Context) error {
				return s.users.UpdateUserStatus(ctx, id, status)
			})
			results[i] = BulkItemResult{UserID: id, OK: err == nil}
			if err != nil {
				atomic.AddInt32(&failed, 1)
				results[i].Error = err.Error()
				s.logger.Warn("bulk user status update failed", zap.Uint64("userId", id), zap.Error(err))
				return nil
			}
			s.publish(ctx, caps, id, status)
			return nil
		})
	}
	_ = g.Wait()

	out := &BulkResult{Results: results, Failed: int(failed), Succeeded: len(ids) - int(failed)}
	users, err := s.List(ctx, caps, infra.UserFilter{})
	if err != nil {
		s.logger.Warn("re-fetch after bulk update failed", zap.Error(err))
	} else {
		out.Users = users
	}

	if out.Failed > 0 {
		return out, fmt.Errorf("%w: %d of %d", ErrBulkPartialFailure, out.Failed, len(ids))
	}
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	return out, nil
}

func (s *UserBulkService) publish(ctx context.Context, caps session.Capabilities, userID uint64, status domain.UserStatus) {
	if s.publisher == nil {
		return
	}
	evt := domain.WorkflowEvent{
		DealerID:   caps.DealerID,
		ActorID:    caps.UserID,
		ResourceID: userID,
		Status:     string(status),
		OccurredAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, domain.EventUserStatusChanged, evt); err != nil {
		s.logger.Warn("failed to publish user event", zap.Uint64("userId", userID), zap.Error(err))
	}
}

func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ImportUsers validates the workbook locally and uploads it unchanged.
func (s *UserBulkService) ImportUsers(ctx context.Context, caps session.Capabilities, fileName string, content []byte) (*infra.ImportResult, error) {
	if !caps.CanManageUsers() {
		return nil, fmt.Errorf("%w: importing users", domain.ErrNotPermitted)
	}
	if err := ValidateUserWorkbook(content); err != nil {
		return nil, err
	}
	var res *infra.ImportResult
	err := s.commands.Run(ctx, "import-users", "users", caps.UserID, Fingerprint("file", fileName, 0, content), func(ctx context.Context) error {
		var err error
		res, err = s.users.ImportUsers(ctx, fileName, bytes.NewReader(content))
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ExportUsers returns the user service's export. When the service has no
// export endpoint the workbook is built from the user list.
func (s *UserBulkService) ExportUsers(ctx context.Context, caps session.Capabilities) ([]byte, error) {
	blob, err := s.users.ExportUsers(ctx)
	if err == nil && len(blob) > 0 {
		return blob, nil
	}
	if err != nil && !errors.Is(err, infra.ErrNotFound) {
		return nil, err
	}
	users, err := s.List(ctx, caps, infra.UserFilter{})
	if err != nil {
		return nil, err
	}
	return BuildUserWorkbook(users)
}
