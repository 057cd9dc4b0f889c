package domain

import (
	"sort"
	"time"
)

type TrackingStatus string

const (
	TrackingCreated          TrackingStatus = "CREATED"
	TrackingConfirmed        TrackingStatus = "CONFIRMED"
	TrackingRejected         TrackingStatus = "REJECTED"
	TrackingOnHold           TrackingStatus = "ON_HOLD"
	TrackingIssueDetected    TrackingStatus = "ISSUE_DETECTED"
	TrackingInProduction     TrackingStatus = "IN_PRODUCTION"
	TrackingReadyForDelivery TrackingStatus = "READY_FOR_DELIVERY"
	TrackingDelivered        TrackingStatus = "DELIVERED"
	TrackingCancelled        TrackingStatus = "CANCELLED"
)

type OrderTracking struct {
	TrackID    uint64         `json:"trackId"`
	OrderID    uint64         `json:"orderId"`
	Status     TrackingStatus `json:"status"`
	Notes      string         `json:"notes,omitempty"`
	UpdatedBy  string         `json:"updatedBy,omitempty"`
	UpdateDate time.Time      `json:"updateDate"`
}

type TrackingInput struct {
	OrderID   uint64         `json:"orderId" validate:"required"`
	Status    TrackingStatus `json:"status" validate:"required,oneof=CREATED CONFIRMED REJECTED ON_HOLD ISSUE_DETECTED IN_PRODUCTION READY_FOR_DELIVERY DELIVERED CANCELLED"`
	Notes     string         `json:"notes,omitempty" validate:"max=1000"`
	UpdatedBy string         `json:"updatedBy,omitempty"`
}

func (in TrackingInput) Validate() error {
	return structErrors(in).OrNil()
}

// Timeline orders tracking records newest first. Records with equal
// updateDate keep their input order. The input slice is not modified.
func Timeline(records []OrderTracking) []OrderTracking {
	out := make([]OrderTracking, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdateDate.After(out[j].UpdateDate)
	})
	return out
}

// CurrentTracking returns the most recent record, if any.
func CurrentTracking(records []OrderTracking) (OrderTracking, bool) {
	timeline := Timeline(records)
	if len(timeline) == 0 {
		return OrderTracking{}, false
	}
	return timeline[0], true
}
