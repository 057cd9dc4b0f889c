package domain

import (
	"time"

	"gorm.io/datatypes"
)

// PushMessage is the payload the notification transport delivers.
type PushMessage struct {
	Notification struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		Icon  string `json:"icon,omitempty"`
	} `json:"notification"`
	Data map[string]string `json:"data,omitempty"`
}

// Well-known keys inside PushMessage.Data.
const (
	PushKeyType      = "type"
	PushKeyOrderID   = "orderId"
	PushKeyDealerID  = "dealerId"
	PushKeyRecipient = "userId"
)

type Notification struct {
	ID         uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     uint64         `json:"userId" gorm:"not null;index:idx_notifications_user_read"`
	Title      string         `json:"title" gorm:"size:255;not null"`
	Body       string         `json:"body" gorm:"type:text"`
	Icon       string         `json:"icon,omitempty" gorm:"size:512"`
	Data       datatypes.JSON `json:"data,omitempty"`
	Read       bool           `json:"read" gorm:"not null;default:false;index:idx_notifications_user_read"`
	ReceivedAt time.Time      `json:"receivedAt" gorm:"autoCreateTime"`
}
