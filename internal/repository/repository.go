package repository

import (
	"context"

	"dealer-console/internal/domain"
)

type NotificationRepository interface {
	Save(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, id uint64) (bool, error)
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
	CountUnread(ctx context.Context, userID uint64) (int64, error)
}

type CommandRepository interface {
	// FindOpen returns the latest command with this fingerprint that has not
	// succeeded, or nil.
	FindOpen(ctx context.Context, fingerprint string) (*domain.Command, error)
	Create(ctx context.Context, cmd *domain.Command) error
	RecordAttempt(ctx context.Context, key string, status domain.CommandStatus, lastError string) error
}
