package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dealer-console/internal/cache"
	"dealer-console/internal/domain"
	"dealer-console/internal/repository"
	"dealer-console/internal/session"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// EventToast is the SSE event type used for push notifications.
const EventToast = "toast"

// Push handling results reported to PushObserver.
const (
	PushStored    = "stored"
	PushBroadcast = "broadcast"
	PushRejected  = "rejected"
	PushFailed    = "failed"
)

type Broadcaster interface {
	Broadcast(userID uint64, event string, payload any)
}

type PushObserver interface {
	ObservePush(result string)
}

var errMalformedPush = errors.New("malformed push message")

type NotificationService struct {
	repo        repository.NotificationRepository
	cache       *cache.Cache
	broadcaster Broadcaster
	observer    PushObserver
	logger      *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, c *cache.Cache, b Broadcaster, observer PushObserver, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, cache: c, broadcaster: b, observer: observer, logger: logger}
}

// HandlePush stores a push message in the recipient's inbox, drops cached
// listings it refers to and shows it as a toast. Messages without a recipient
// are only broadcast.
func (s *NotificationService) HandlePush(ctx context.Context, routingKey string, body []byte) error {
	var msg domain.PushMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		s.observe(PushRejected)
		return fmt.Errorf("%w: %w", errMalformedPush, err)
	}
	if strings.TrimSpace(msg.Notification.Title) == "" {
		s.observe(PushRejected)
		return fmt.Errorf("%w: missing title", errMalformedPush)
	}

	s.invalidate(ctx, msg.Data)

	recipient := parseID(msg.Data[domain.PushKeyRecipient])
	if recipient == 0 {
		s.broadcast(0, msg, nil)
		s.observe(PushBroadcast)
		return nil
	}

	data, _ := json.Marshal(msg.Data)
	n := &domain.Notification{
		UserID: recipient,
		Title:  msg.Notification.Title,
		Body:   msg.Notification.Body,
		Icon:   msg.Notification.Icon,
		Data:   datatypes.JSON(data),
	}
	if err := s.repo.Save(ctx, n); err != nil {
		s.observe(PushFailed)
		s.logger.Error("failed to store notification", zap.Uint64("userId", recipient), zap.String("routingKey", routingKey), zap.Error(err))
		// the toast still goes out; only the inbox entry is lost
		s.broadcast(recipient, msg, nil)
		return err
	}
	s.broadcast(recipient, msg, n)
	s.observe(PushStored)
	return nil
}

func (s *NotificationService) invalidate(ctx context.Context, data map[string]string) {
	dealerID := parseID(data[domain.PushKeyDealerID])
	if dealerID != 0 || data[domain.PushKeyOrderID] != "" {
		InvalidateOrders(ctx, s.cache, dealerID)
	}
	if strings.HasPrefix(data[domain.PushKeyType], "order") && dealerID == 0 {
		InvalidateOrders(ctx, s.cache, 0)
	}
}

type toast struct {
	ID    uint64            `json:"id,omitempty"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Icon  string            `json:"icon,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

func (s *NotificationService) broadcast(userID uint64, msg domain.PushMessage, stored *domain.Notification) {
	if s.broadcaster == nil {
		return
	}
	t := toast{Title: msg.Notification.Title, Body: msg.Notification.Body, Icon: msg.Notification.Icon, Data: msg.Data}
	if stored != nil {
		t.ID = stored.ID
	}
	s.broadcaster.Broadcast(userID, EventToast, t)
}

func (s *NotificationService) observe(result string) {
	if s.observer != nil {
		s.observer.ObservePush(result)
	}
}

func parseID(raw string) uint64 {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (s *NotificationService) List(ctx context.Context, caps session.Capabilities, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUser(ctx, caps.UserID, unreadOnly, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, caps session.Capabilities, id uint64) error {
	ok, err := s.repo.MarkRead(ctx, caps.UserID, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotificationNotFound, id)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, caps session.Capabilities) (int64, error) {
	return s.repo.MarkAllRead(ctx, caps.UserID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, caps session.Capabilities) (int64, error) {
	return s.repo.CountUnread(ctx, caps.UserID)
}
