package domain

// Stage is the canonical lifecycle position shared by the order status and
// the tracking status vocabularies. Both are mapped onto it explicitly.
type Stage string

const (
	StageSubmitted  Stage = "SUBMITTED"
	StageApproval   Stage = "APPROVAL"
	StageProduction Stage = "PRODUCTION"
	StageDelivery   Stage = "DELIVERY"
	StageCompleted  Stage = "COMPLETED"
	StageHalted     Stage = "HALTED"
	StageClosed     Stage = "CLOSED"
	StageUnknown    Stage = "UNKNOWN"
)

var orderStages = map[OrderStatus]Stage{
	StatusPending:          StageSubmitted,
	StatusEdited:           StageSubmitted,
	StatusApproved:         StageApproval,
	StatusConfirmed:        StageApproval,
	StatusInProduction:     StageProduction,
	StatusReadyForDelivery: StageDelivery,
	StatusDelivered:        StageCompleted,
	StatusCancelled:        StageClosed,
}

var trackingStages = map[TrackingStatus]Stage{
	TrackingCreated:          StageSubmitted,
	TrackingConfirmed:        StageApproval,
	TrackingRejected:         StageClosed,
	TrackingOnHold:           StageHalted,
	TrackingIssueDetected:    StageHalted,
	TrackingInProduction:     StageProduction,
	TrackingReadyForDelivery: StageDelivery,
	TrackingDelivered:        StageCompleted,
	TrackingCancelled:        StageClosed,
}

func (s OrderStatus) Stage() Stage {
	if st, ok := orderStages[s]; ok {
		return st
	}
	return StageUnknown
}

func (s TrackingStatus) Stage() Stage {
	if st, ok := trackingStages[s]; ok {
		return st
	}
	return StageUnknown
}

// StageDrift describes a disagreement between an order's status and its latest
// tracking record. HALTED tracking never counts as drift: a hold or an issue
// can sit on top of any order status.
type StageDrift struct {
	OrderStatus    OrderStatus    `json:"orderStatus"`
	OrderStage     Stage          `json:"orderStage"`
	TrackingStatus TrackingStatus `json:"trackingStatus"`
	TrackingStage  Stage          `json:"trackingStage"`
}

func DetectDrift(order SalesOrder, tracking []OrderTracking) *StageDrift {
	current, ok := CurrentTracking(tracking)
	if !ok {
		return nil
	}
	orderStage := order.Status.Stage()
	trackingStage := current.Status.Stage()
	if trackingStage == StageHalted || orderStage == trackingStage {
		return nil
	}
	return &StageDrift{
		OrderStatus:    order.Status,
		OrderStage:     orderStage,
		TrackingStatus: current.Status,
		TrackingStage:  trackingStage,
	}
}
