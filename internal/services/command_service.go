package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"dealer-console/internal/domain"
	"dealer-console/internal/infra"
	"dealer-console/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommandService hands out idempotency keys for mutations. A command that has
// not succeeded yet keeps its key, so resubmitting the same payload lets the
// backend deduplicate it.
type CommandService struct {
	repo   repository.CommandRepository
	logger *zap.Logger
}

func NewCommandService(repo repository.CommandRepository, logger *zap.Logger) *CommandService {
	return &CommandService{repo: repo, logger: logger}
}

func Fingerprint(name, resource string, actorID uint64, payload any) string {
	raw, _ := json.Marshal(payload)
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|", name, resource, actorID)
	h.Write(raw)
	return hex.EncodeToString(h.Sum(nil))
}

// Begin returns the command to send. If the log is unavailable a fresh key is
// used and the command is not recorded.
func (s *CommandService) Begin(ctx context.Context, name, resource string, actorID uint64, payload any) *domain.Command {
	fp := Fingerprint(name, resource, actorID, payload)
	if s == nil || s.repo == nil {
		return &domain.Command{IdempotencyKey: uuid.NewString(), Name: name, Resource: resource, Fingerprint: fp}
	}

	open, err := s.repo.FindOpen(ctx, fp)
	if err != nil {
		s.logger.Warn("command log lookup failed", zap.String("command", name), zap.Error(err))
	} else if open != nil {
		s.logger.Info("reusing idempotency key",
			zap.String("command", name),
			zap.String("resource", resource),
			zap.String("key", open.IdempotencyKey),
			zap.Int("attempts", open.Attempts))
		return open
	}

	cmd := &domain.Command{
		IdempotencyKey: uuid.NewString(),
		Name:           name,
		Resource:       resource,
		Fingerprint:    fp,
		Status:         domain.CommandPending,
	}
	if err := s.repo.Create(ctx, cmd); err != nil {
		s.logger.Warn("command log write failed", zap.String("command", name), zap.Error(err))
	}
	return cmd
}

func (s *CommandService) Complete(ctx context.Context, cmd *domain.Command, cmdErr error) {
	if s == nil || s.repo == nil {
		return
	}
	status, lastError := domain.CommandSucceeded, ""
	if cmdErr != nil {
		status, lastError = domain.CommandFailed, cmdErr.Error()
	}
	if err := s.repo.RecordAttempt(ctx, cmd.IdempotencyKey, status, lastError); err != nil {
		s.logger.Warn("command log update failed", zap.String("key", cmd.IdempotencyKey), zap.Error(err))
	}
}

// Run sends fn with the command's idempotency key attached to ctx and records
// the outcome.
func (s *CommandService) Run(ctx context.Context, name, resource string, actorID uint64, payload any, fn func(ctx context.Context) error) error {
	cmd := s.Begin(ctx, name, resource, actorID, payload)
	err := fn(infra.WithIdempotencyKey(ctx, cmd.IdempotencyKey))
	s.Complete(ctx, cmd, err)
	return err
}
