package domain

type Badge struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Color string `json:"color"`
}

const neutralColor = "default"

var orderBadges = map[OrderStatus]Badge{
	StatusPending:          {Label: "Pending", Color: "orange"},
	StatusEdited:           {Label: "Edited", Color: "gold"},
	StatusApproved:         {Label: "Approved", Color: "green"},
	StatusConfirmed:        {Label: "Confirmed", Color: "cyan"},
	StatusInProduction:     {Label: "In production", Color: "blue"},
	StatusReadyForDelivery: {Label: "Ready for delivery", Color: "geekblue"},
	StatusDelivered:        {Label: "Delivered", Color: "purple"},
	StatusCancelled:        {Label: "Cancelled", Color: "red"},
}

var trackingBadges = map[TrackingStatus]Badge{
	TrackingCreated:          {Label: "Created", Color: "default"},
	TrackingConfirmed:        {Label: "Confirmed", Color: "cyan"},
	TrackingRejected:         {Label: "Rejected", Color: "red"},
	TrackingOnHold:           {Label: "On hold", Color: "orange"},
	TrackingIssueDetected:    {Label: "Issue detected", Color: "volcano"},
	TrackingInProduction:     {Label: "In production", Color: "blue"},
	TrackingReadyForDelivery: {Label: "Ready for delivery", Color: "geekblue"},
	TrackingDelivered:        {Label: "Delivered", Color: "purple"},
	TrackingCancelled:        {Label: "Cancelled", Color: "red"},
}

var contractBadges = map[ContractStatus]Badge{
	ContractDraft:            {Label: "Draft", Color: "default"},
	ContractPendingSignature: {Label: "Pending signature", Color: "orange"},
	ContractSigned:           {Label: "Signed", Color: "green"},
	ContractExpired:          {Label: "Expired", Color: "gray"},
	ContractCancelled:        {Label: "Cancelled", Color: "red"},
}

func OrderBadge(s OrderStatus) Badge {
	return lookupBadge(orderBadges, s)
}

func TrackingBadge(s TrackingStatus) Badge {
	return lookupBadge(trackingBadges, s)
}

func ContractBadge(s ContractStatus) Badge {
	return lookupBadge(contractBadges, s)
}

func lookupBadge[K ~string](table map[K]Badge, code K) Badge {
	b, ok := table[code]
	if !ok {
		return Badge{Code: string(code), Label: string(code), Color: neutralColor}
	}
	b.Code = string(code)
	return b
}
