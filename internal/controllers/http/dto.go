package http

import (
	"dealer-console/internal/domain"
)

type ChangeStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

type AddTrackingRequest struct {
	Status    domain.TrackingStatus `json:"status" binding:"required"`
	Notes     string                `json:"notes"`
	UpdatedBy string                `json:"updatedBy"`
}

type SignContractRequest struct {
	DigitalSignature string `json:"digitalSignature"`
}

type BulkStatusRequest struct {
	UserIDs []uint64          `json:"userIds" binding:"required"`
	Status  domain.UserStatus `json:"status" binding:"required"`
}

type UserListQuery struct {
	Role   domain.Role       `form:"role"`
	Status domain.UserStatus `form:"status"`
}

type NotificationListQuery struct {
	UnreadOnly bool `form:"unread"`
	Limit      int  `form:"limit"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
