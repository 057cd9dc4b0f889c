package domain

import "time"

// Routing keys for workflow events published after a successful command.
const (
	EventOrderApproved      = "order.approved"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderItemCreated   = "order_item.created"
	EventOrderItemUpdated   = "order_item.updated"
	EventOrderItemDeleted   = "order_item.deleted"
	EventTrackingAdded      = "order_tracking.added"
	EventContractSigned     = "contract.signed"
	EventUserStatusChanged  = "user.status_changed"
)

type WorkflowEvent struct {
	OrderID    uint64    `json:"orderId,omitempty"`
	DealerID   uint64    `json:"dealerId,omitempty"`
	ActorID    uint64    `json:"actorId"`
	Status     string    `json:"status,omitempty"`
	ResourceID uint64    `json:"resourceId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
