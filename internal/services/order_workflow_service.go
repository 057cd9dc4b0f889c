package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dealer-console/internal/cache"
	"dealer-console/internal/domain"
	"dealer-console/internal/infra"
	rabbit "dealer-console/internal/infra/rabbitmq"
	"dealer-console/internal/session"
	"dealer-console/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type OrderWorkflowService struct {
	orders    infra.OrderClientInterface
	items     infra.OrderItemClientInterface
	tracking  infra.TrackingClientInterface
	contracts infra.ContractClientInterface
	refs      infra.ReferenceClientInterface
	forms     *ItemFormBuilder
	commands  *CommandService
	publisher rabbit.PublisherInterface
	cache     *cache.Cache
	queryTTL  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

type OrderWorkflowDeps struct {
	Orders    infra.OrderClientInterface
	Items     infra.OrderItemClientInterface
	Tracking  infra.TrackingClientInterface
	Contracts infra.ContractClientInterface
	Refs      infra.ReferenceClientInterface
	Commands  *CommandService
	Publisher rabbit.PublisherInterface
	Cache     *cache.Cache
	QueryTTL  time.Duration
	Logger    *zap.Logger
}

func NewOrderWorkflowService(d OrderWorkflowDeps) *OrderWorkflowService {
	return &OrderWorkflowService{
		orders:    d.Orders,
		items:     d.Items,
		tracking:  d.Tracking,
		contracts: d.Contracts,
		refs:      d.Refs,
		forms:     NewItemFormBuilder(d.Refs),
		commands:  d.Commands,
		publisher: d.Publisher,
		cache:     d.Cache,
		queryTTL:  d.QueryTTL,
		logger:    d.Logger,
		now:       time.Now,
	}
}

func (s *OrderWorkflowService) Forms() *ItemFormBuilder {
	return s.forms
}

// Load fetches the order and its items, tracking and contract concurrently.
// Only a failed order fetch fails the view; the other panels carry their own
// error and do not hide each other.
func (s *OrderWorkflowService) Load(ctx context.Context, caps session.Capabilities, orderID uint64) (*OrderWorkflowView, error) {
	var (
		order    *domain.SalesOrder
		items    []domain.OrderItem
		records  []domain.OrderTracking
		contract *domain.SalesContract
		itemsErr error
		trackErr error
		contrErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		order, err = s.getOrder(gctx, orderID)
		return err
	})
	g.Go(func() error {
		items, itemsErr = s.items.ListItems(gctx, orderID)
		return nil
	})
	g.Go(func() error {
		records, trackErr = s.tracking.ListTracking(gctx, orderID)
		return nil
	})
	g.Go(func() error {
		contract, contrErr = s.contracts.GetContractByOrder(gctx, orderID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &OrderWorkflowView{
		Order: OrderPanel{
			Order: *order,
			Badge: domain.OrderBadge(order.Status),
			Stage: order.Status.Stage(),
		},
		Actions: newOrderActions(*order, caps.CanApprove()),
	}

	if itemsErr != nil {
		s.panelFailed("items", orderID, itemsErr)
		view.Items = ItemsPanel{Items: []ItemLine{}, Error: itemsErr.Error()}
	} else {
		view.Items = newItemsPanel(items)
	}

	if trackErr != nil {
		s.panelFailed("tracking", orderID, trackErr)
		view.Tracking = TrackingPanel{Timeline: []TrackingLine{}, Error: trackErr.Error()}
	} else {
		view.Tracking = newTrackingPanel(records)
		view.Drift = domain.DetectDrift(*order, records)
		if view.Drift != nil {
			s.logger.Info("order stage drift",
				zap.Uint64("orderId", orderID),
				zap.String("orderStage", string(view.Drift.OrderStage)),
				zap.String("trackingStage", string(view.Drift.TrackingStage)))
		}
	}

	if contrErr != nil {
		s.panelFailed("contract", orderID, contrErr)
		view.Contract = ContractPanel{Error: contrErr.Error()}
	} else {
		view.Contract = newContractPanel(contract)
	}

	if order.CustomerID != 0 && s.refs != nil {
		customer, err := s.refs.GetCustomer(ctx, order.CustomerID)
		if err != nil {
			s.logger.Warn("customer lookup failed", zap.Uint64("customerId", order.CustomerID), zap.Error(err))
		}
		view.Customer = customer
	}
	return view, nil
}

func (s *OrderWorkflowService) panelFailed(panel string, orderID uint64, err error) {
	s.logger.Warn("order panel unavailable", zap.String("panel", panel), zap.Uint64("orderId", orderID), zap.Error(err))
}

func (s *OrderWorkflowService) getOrder(ctx context.Context, orderID uint64) (*domain.SalesOrder, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, infra.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
		}
		return nil, err
	}
	return order, nil
}

// orderQuery keys a cached listing. Listings are cached per caller and per
// token so every session's first request reaches the sales service.
type orderQuery struct {
	Filter domain.OrderFilter
	UserID uint64
	Role   domain.Role
	Token  string
}

// ListOrders restricts dealer roles to their own dealer and serves the same
// caller's repeated listings from the query cache.
func (s *OrderWorkflowService) ListOrders(ctx context.Context, caps session.Capabilities, filter domain.OrderFilter) ([]domain.SalesOrder, error) {
	if scope := caps.DealerScope(); scope != 0 {
		filter.DealerID = scope
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ValidationError{Field: "status", Message: "unknown order status"}
	}
	key := cache.QueryKey(orderScope(filter.DealerID), orderQuery{
		Filter: filter,
		UserID: caps.UserID,
		Role:   caps.Role,
		Token:  caps.Token,
	})
	return cache.GetOrLoad(ctx, s.cache, key, s.queryTTL, func(ctx context.Context) ([]domain.SalesOrder, error) {
		return s.orders.ListOrders(ctx, filter)
	})
}

func orderScope(dealerID uint64) string {
	return fmt.Sprintf("orders:dealer:%d", dealerID)
}

// InvalidateOrders drops cached listings that can contain orders of dealerID.
// A zero dealerID drops every order listing.
func InvalidateOrders(ctx context.Context, c *cache.Cache, dealerID uint64) {
	if dealerID == 0 {
		c.InvalidatePattern(ctx, cache.QueryPattern("orders:*"))
		return
	}
	c.InvalidatePattern(ctx, cache.QueryPattern(orderScope(dealerID)))
	c.InvalidatePattern(ctx, cache.QueryPattern(orderScope(0)))
}

// Approve sends the manager approval and returns the re-fetched order.
func (s *OrderWorkflowService) Approve(ctx context.Context, caps session.Capabilities, orderID uint64) (*domain.SalesOrder, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !caps.CanApprove() {
		return nil, fmt.Errorf("%w: approval requires %s", domain.ErrNotPermitted, domain.RoleDealerManager)
	}
	if !CanApprove(*order, true) {
		return nil, fmt.Errorf("%w: order %d is %s (managerApproval=%t)",
			domain.ErrInvalidTransition, orderID, order.Status, order.ManagerApproval)
	}

	res := store.NewResource(func(ctx context.Context) (*domain.SalesOrder, error) {
		return s.getOrder(ctx, orderID)
	})
	snap, err := res.Mutate(ctx, func(ctx context.Context) error {
		return s.commands.Run(ctx, "approve-order", orderResource(orderID), caps.UserID, nil, func(ctx context.Context) error {
			_, err := s.orders.ApproveOrder(ctx, orderID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	s.afterOrderChange(ctx, caps, order.DealerID, domain.EventOrderApproved, domain.WorkflowEvent{
		OrderID: orderID,
		Status:  string(domain.StatusApproved),
	})
	return refreshed(snap)
}

// ChangeStatus rejects targets outside the status menu before sending
// anything to the sales service.
func (s *OrderWorkflowService) ChangeStatus(ctx context.Context, caps session.Capabilities, orderID uint64, target domain.OrderStatus) (*domain.SalesOrder, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !inMenu(StatusMenu(order.Status), target) {
		return nil, domain.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("cannot change %s to %s", order.Status, target),
		}
	}
	if err := domain.CheckTransition(ctx, order.Status, target); err != nil {
		return nil, err
	}

	res := store.NewResource(func(ctx context.Context) (*domain.SalesOrder, error) {
		return s.getOrder(ctx, orderID)
	})
	snap, err := res.Mutate(ctx, func(ctx context.Context) error {
		payload := map[string]domain.OrderStatus{"status": target}
		return s.commands.Run(ctx, "change-order-status", orderResource(orderID), caps.UserID, payload, func(ctx context.Context) error {
			_, err := s.orders.UpdateOrderStatus(ctx, orderID, target)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	s.afterOrderChange(ctx, caps, order.DealerID, domain.EventOrderStatusChanged, domain.WorkflowEvent{
		OrderID: orderID,
		Status:  string(target),
	})
	return refreshed(snap)
}

func inMenu(menu []domain.OrderStatus, s domain.OrderStatus) bool {
	for _, m := range menu {
		if m == s {
			return true
		}
	}
	return false
}

// CreateItem builds the item from its draft, validates it locally and returns
// the re-fetched item list.
func (s *OrderWorkflowService) CreateItem(ctx context.Context, caps session.Capabilities, req ItemDraftRequest) ([]domain.OrderItem, error) {
	form, errs, err := s.forms.Build(ctx, nil, req)
	if err != nil {
		return nil, err
	}
	in := form.Input()
	if err := validateItem(in, errs); err != nil {
		return nil, err
	}
	return s.mutateItems(ctx, caps, in.OrderID, domain.EventOrderItemCreated, 0, func(ctx context.Context) (uint64, error) {
		var created *domain.OrderItem
		err := s.commands.Run(ctx, "create-order-item", orderResource(in.OrderID), caps.UserID, in, func(ctx context.Context) error {
			var err error
			created, err = s.items.CreateItem(ctx, in)
			return err
		})
		if err != nil || created == nil {
			return 0, err
		}
		return created.OrderItemID, nil
	})
}

// UpdateItem applies req on top of the stored item; variant-derived fields
// stay locked.
func (s *OrderWorkflowService) UpdateItem(ctx context.Context, caps session.Capabilities, orderID, itemID uint64, req ItemDraftRequest) ([]domain.OrderItem, error) {
	current, err := s.findItem(ctx, orderID, itemID)
	if err != nil {
		return nil, err
	}
	req.OrderID = orderID
	form, errs, err := s.forms.Build(ctx, EditItemForm(*current), req)
	if err != nil {
		return nil, err
	}
	in := form.Input()
	if err := validateItem(in, errs); err != nil {
		return nil, err
	}
	return s.mutateItems(ctx, caps, orderID, domain.EventOrderItemUpdated, itemID, func(ctx context.Context) (uint64, error) {
		return itemID, s.commands.Run(ctx, "update-order-item", itemResource(itemID), caps.UserID, in, func(ctx context.Context) error {
			_, err := s.items.UpdateItem(ctx, itemID, in)
			return err
		})
	})
}

func (s *OrderWorkflowService) DeleteItem(ctx context.Context, caps session.Capabilities, orderID, itemID uint64) ([]domain.OrderItem, error) {
	if _, err := s.findItem(ctx, orderID, itemID); err != nil {
		return nil, err
	}
	return s.mutateItems(ctx, caps, orderID, domain.EventOrderItemDeleted, itemID, func(ctx context.Context) (uint64, error) {
		return itemID, s.commands.Run(ctx, "delete-order-item", itemResource(itemID), caps.UserID, nil, func(ctx context.Context) error {
			return s.items.DeleteItem(ctx, itemID)
		})
	})
}

func (s *OrderWorkflowService) findItem(ctx context.Context, orderID, itemID uint64) (*domain.OrderItem, error) {
	items, err := s.items.ListItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].OrderItemID == itemID {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("%w: item %d in order %d", infra.ErrNotFound, itemID, orderID)
}

func validateItem(in domain.OrderItemInput, errs domain.ValidationErrors) error {
	if err := in.Validate(); err != nil {
		errs = append(errs, domain.ValidationErrorsOf(err)...)
	}
	return errs.OrNil()
}

func (s *OrderWorkflowService) mutateItems(ctx context.Context, caps session.Capabilities, orderID uint64, event string, itemID uint64, send func(ctx context.Context) (uint64, error)) ([]domain.OrderItem, error) {
	res := store.NewResource(func(ctx context.Context) ([]domain.OrderItem, error) {
		return s.items.ListItems(ctx, orderID)
	})
	snap, err := res.Mutate(ctx, func(ctx context.Context) error {
		id, err := send(ctx)
		if id != 0 {
			itemID = id
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	s.afterOrderChange(ctx, caps, caps.DealerID, event, domain.WorkflowEvent{OrderID: orderID, ResourceID: itemID})
	return refreshed(snap)
}

// AddTracking appends a tracking record and returns the re-fetched timeline,
// newest first.
func (s *OrderWorkflowService) AddTracking(ctx context.Context, caps session.Capabilities, in domain.TrackingInput) ([]domain.OrderTracking, error) {
	if in.UpdatedBy == "" {
		in.UpdatedBy = caps.FullName
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	res := store.NewResource(func(ctx context.Context) ([]domain.OrderTracking, error) {
		records, err := s.tracking.ListTracking(ctx, in.OrderID)
		if err != nil {
			return nil, err
		}
		return domain.Timeline(records), nil
	})
	snap, err := res.Mutate(ctx, func(ctx context.Context) error {
		return s.commands.Run(ctx, "add-tracking", orderResource(in.OrderID), caps.UserID, in, func(ctx context.Context) error {
			_, err := s.tracking.AddTracking(ctx, in)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	s.afterOrderChange(ctx, caps, caps.DealerID, domain.EventTrackingAdded, domain.WorkflowEvent{
		OrderID: in.OrderID,
		Status:  string(in.Status),
	})
	return refreshed(snap)
}

// SignContract is only offered while the contract awaits a signature. The
// server sets SIGNED and the signing date.
func (s *OrderWorkflowService) SignContract(ctx context.Context, caps session.Capabilities, orderID uint64, signature string) (*domain.SalesContract, error) {
	if err := domain.ValidateSignature(signature); err != nil {
		return nil, err
	}
	contract, err := s.contracts.GetContractByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, fmt.Errorf("%w: order %d", ErrContractNotFound, orderID)
	}
	if !contract.CanSign() {
		return nil, fmt.Errorf("%w: contract %d is %s", domain.ErrInvalidTransition, contract.ContractID, contract.Status)
	}

	res := store.NewResource(func(ctx context.Context) (*domain.SalesContract, error) {
		return s.contracts.GetContractByOrder(ctx, orderID)
	})
	snap, err := res.Mutate(ctx, func(ctx context.Context) error {
		payload := map[string]string{"digitalSignature": signature}
		return s.commands.Run(ctx, "sign-contract", contractResource(contract.ContractID), caps.UserID, payload, func(ctx context.Context) error {
			_, err := s.contracts.SignContract(ctx, contract.ContractID, signature)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	s.afterOrderChange(ctx, caps, caps.DealerID, domain.EventContractSigned, domain.WorkflowEvent{
		OrderID:    orderID,
		ResourceID: contract.ContractID,
		Status:     string(domain.ContractSigned),
	})
	return refreshed(snap)
}

func (s *OrderWorkflowService) afterOrderChange(ctx context.Context, caps session.Capabilities, dealerID uint64, event string, evt domain.WorkflowEvent) {
	InvalidateOrders(ctx, s.cache, dealerID)
	if s.publisher == nil {
		return
	}
	evt.ActorID = caps.UserID
	if evt.DealerID == 0 {
		evt.DealerID = dealerID
	}
	evt.OccurredAt = s.now()
	if err := s.publisher.Publish(ctx, event, evt); err != nil {
		s.logger.Warn("failed to publish workflow event", zap.String("event", event), zap.Uint64("orderId", evt.OrderID), zap.Error(err))
	}
}

func refreshed[T any](snap store.Snapshot[T]) (T, error) {
	if snap.Err != nil {
		return snap.Data, fmt.Errorf("%w: %w", ErrRefreshFailed, snap.Err)
	}
	return snap.Data, nil
}

func orderResource(id uint64) string { return fmt.Sprintf("sales-orders/%d", id) }
func itemResource(id uint64) string { return fmt.Sprintf("order-items/%d", id) }
func contractResource(id uint64) string { return fmt.Sprintf("sales-contracts/%d", id) }
