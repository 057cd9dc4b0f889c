package services

import (
	"dealer-console/internal/domain"
)

type OrderPanel struct {
	Order domain.SalesOrder `json:"order"`
	Badge domain.Badge      `json:"badge"`
	Stage domain.Stage      `json:"stage"`
}

type ItemLine struct {
	Item domain.OrderItem `json:"item"`
	// Preview is the locally computed price; nil when the item's inputs are
	// out of range. The server's finalPrice is shown as-is either way.
	Preview *domain.PricePreview `json:"preview,omitempty"`
}

type ItemsPanel struct {
	Items []ItemLine `json:"items"`
	Error string     `json:"error,omitempty"`
}

type TrackingLine struct {
	Record domain.OrderTracking `json:"record"`
	Badge  domain.Badge         `json:"badge"`
}

type TrackingPanel struct {
	Timeline []TrackingLine `json:"timeline"`
	Current  *TrackingLine  `json:"current,omitempty"`
	Error    string         `json:"error,omitempty"`
}

type ContractPanel struct {
	Contract *domain.SalesContract `json:"contract,omitempty"`
	Badge    *domain.Badge         `json:"badge,omitempty"`
	CanSign  bool                  `json:"canSign"`
	Error    string                `json:"error,omitempty"`
}

type StatusOption struct {
	Status domain.OrderStatus `json:"status"`
	Badge  domain.Badge       `json:"badge"`
}

type OrderActions struct {
	CanApprove bool           `json:"canApprove"`
	StatusMenu []StatusOption `json:"statusMenu"`
}

// OrderWorkflowView is everything the order detail screen renders.
type OrderWorkflowView struct {
	Order    OrderPanel         `json:"order"`
	Customer *domain.Customer   `json:"customer,omitempty"`
	Items    ItemsPanel         `json:"items"`
	Tracking TrackingPanel      `json:"tracking"`
	Contract ContractPanel      `json:"contract"`
	Actions  OrderActions       `json:"actions"`
	Drift    *domain.StageDrift `json:"drift,omitempty"`
}

// CanApprove reports whether the approval action is offered for order.
func CanApprove(order domain.SalesOrder, canApproveRole bool) bool {
	if !canApproveRole || order.ManagerApproval {
		return false
	}
	return order.Status == domain.StatusPending || order.Status == domain.StatusEdited
}

// StatusMenu lists the statuses the change-status action offers. Approval has
// its own action and is never in the menu.
func StatusMenu(status domain.OrderStatus) []domain.OrderStatus {
	available := domain.AvailableStatuses(status)
	out := make([]domain.OrderStatus, 0, len(available))
	for _, s := range available {
		if s != domain.StatusApproved {
			out = append(out, s)
		}
	}
	return out
}

func newItemsPanel(items []domain.OrderItem) ItemsPanel {
	lines := make([]ItemLine, 0, len(items))
	for _, it := range items {
		line := ItemLine{Item: it}
		if p, ok := domain.PreviewItem(it); ok {
			line.Preview = &p
		}
		lines = append(lines, line)
	}
	return ItemsPanel{Items: lines}
}

func newTrackingPanel(records []domain.OrderTracking) TrackingPanel {
	timeline := domain.Timeline(records)
	lines := make([]TrackingLine, 0, len(timeline))
	for _, r := range timeline {
		lines = append(lines, TrackingLine{Record: r, Badge: domain.TrackingBadge(r.Status)})
	}
	panel := TrackingPanel{Timeline: lines}
	if len(lines) > 0 {
		current := lines[0]
		panel.Current = &current
	}
	return panel
}

func newContractPanel(c *domain.SalesContract) ContractPanel {
	if c == nil {
		return ContractPanel{}
	}
	badge := domain.ContractBadge(c.Status)
	return ContractPanel{Contract: c, Badge: &badge, CanSign: c.CanSign()}
}

func newOrderActions(order domain.SalesOrder, canApproveRole bool) OrderActions {
	menu := StatusMenu(order.Status)
	options := make([]StatusOption, 0, len(menu))
	for _, s := range menu {
		options = append(options, StatusOption{Status: s, Badge: domain.OrderBadge(s)})
	}
	return OrderActions{
		CanApprove: CanApprove(order, canApproveRole),
		StatusMenu: options,
	}
}
