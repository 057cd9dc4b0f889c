package mysql

import (
	"context"
	"errors"

	"dealer-console/internal/domain"
	"dealer-console/internal/repository"

	"gorm.io/gorm"
)

type commandRepo struct {
	db *gorm.DB
}

func NewCommandRepository(db *gorm.DB) repository.CommandRepository {
	return &commandRepo{db: db}
}

func (r *commandRepo) FindOpen(ctx context.Context, fingerprint string) (*domain.Command, error) {
	var c domain.Command
	err := r.db.WithContext(ctx).
		Where("fingerprint = ? AND status <> ?", fingerprint, domain.CommandSucceeded).
		Order("id DESC").
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *commandRepo) Create(ctx context.Context, cmd *domain.Command) error {
	return r.db.WithContext(ctx).Create(cmd).Error
}

func (r *commandRepo) RecordAttempt(ctx context.Context, key string, status domain.CommandStatus, lastError string) error {
	res := r.db.WithContext(ctx).Model(&domain.Command{}).
		Where("idempotency_key = ?", key).
		Updates(map[string]any{
			"status":     status,
			"last_error": lastError,
			"attempts":   gorm.Expr("attempts + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
