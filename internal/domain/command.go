package domain

import "time"

type CommandStatus string

const (
	CommandPending   CommandStatus = "pending"
	CommandSucceeded CommandStatus = "succeeded"
	CommandFailed    CommandStatus = "failed"
)

// Command is one mutation sent to a backend service. The idempotency key is
// generated once per fingerprint and reused until the command succeeds, so a
// retried request can be deduplicated by the server.
type Command struct {
	ID             uint64        `json:"id" gorm:"primaryKey;autoIncrement"`
	IdempotencyKey string        `json:"idempotencyKey" gorm:"size:36;not null;uniqueIndex"`
	Name           string        `json:"name" gorm:"size:64;not null"`
	Resource       string        `json:"resource" gorm:"size:128;not null"`
	Fingerprint    string        `json:"fingerprint" gorm:"size:64;not null;index"`
	Status         CommandStatus `json:"status" gorm:"type:enum('pending','succeeded','failed');default:'pending'"`
	LastError      string        `json:"lastError,omitempty" gorm:"type:text"`
	Attempts       int           `json:"attempts" gorm:"not null;default:0"`
	CreatedAt      time.Time     `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt      time.Time     `json:"updatedAt" gorm:"autoUpdateTime"`
}
