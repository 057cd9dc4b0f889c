package http

import (
	"net/http"

	"dealer-console/internal/domain"
	"dealer-console/internal/services"
	"dealer-console/internal/session"
	"dealer-console/internal/sse"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	workflow      *services.OrderWorkflowService
	users         *services.UserBulkService
	notifications *services.NotificationService
	hub           *sse.Hub
	parser        *session.Parser
	logger        *zap.Logger
}

func NewHandler(workflow *services.OrderWorkflowService, users *services.UserBulkService, notifications *services.NotificationService, hub *sse.Hub, parser *session.Parser, logger *zap.Logger) *Handler {
	return &Handler{
		workflow:      workflow,
		users:         users,
		notifications: notifications,
		hub:           hub,
		parser:        parser,
		logger:        logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api", Auth(h.parser))

	orders := api.Group("/orders")
	orders.GET("", h.ListOrders)
	orders.GET("/:orderId", h.GetOrder)
	orders.POST("/:orderId/approve", h.ApproveOrder)
	orders.PUT("/:orderId/status", h.ChangeStatus)
	orders.POST("/:orderId/items", h.CreateItem)
	orders.POST("/:orderId/items/draft", h.DraftItem)
	orders.PUT("/:orderId/items/:itemId", h.UpdateItem)
	orders.DELETE("/:orderId/items/:itemId", h.DeleteItem)
	orders.POST("/:orderId/tracking", h.AddTracking)
	orders.POST("/:orderId/contract/sign", h.SignContract)

	users := api.Group("/users")
	users.GET("", h.ListUsers)
	users.PUT("/status", h.BulkUpdateUserStatus)
	users.POST("/import", h.ImportUsers)
	users.GET("/export", h.ExportUsers)

	notifications := api.Group("/notifications")
	notifications.GET("", h.ListNotifications)
	notifications.GET("/unread-count", h.UnreadCount)
	notifications.PUT("/read-all", h.MarkAllRead)
	notifications.PUT("/:notificationId/read", h.MarkRead)
	notifications.GET("/stream", h.Stream)
}

func (h *Handler) ListOrders(c *gin.Context) {
	var filter domain.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}
	orders, err := h.workflow.ListOrders(c.Request.Context(), capabilities(c), filter)
	if orders == nil && err == nil {
		orders = []domain.SalesOrder{}
	}
	respond(c, http.StatusOK, orders, err)
}

// GetOrder returns the workflow screen: order, items, timeline, contract and
// the actions the caller may take.
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}
	view, err := h.workflow.Load(c.Request.Context(), capabilities(c), orderID)
	respond(c, http.StatusOK, view, err)
}

func (h *Handler) ApproveOrder(c *gin.Context) {
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}
	order, err := h.workflow.Approve(c.Request.Context(), capabilities(c), orderID)
	respond(c, http.StatusOK, order, err)
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.workflow.ChangeStatus(c.Request.Context(), capabilities(c), orderID, req.Status)
	respond(c, http.StatusOK, order, err)
}

func (h *Handler) bindItem(c *gin.Context) (services.ItemDraftRequest, bool) {
	var req services.ItemDraftRequest
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return req, false
	}
	req.OrderID = orderID
	return req, true
}

func (h *Handler) CreateItem(c *gin.Context) {
	req, ok := h.bindItem(c)
	if !ok {
		return
	}
	items, err := h.workflow.CreateItem(c.Request.Context(), capabilities(c), req)
	respond(c, http.StatusCreated, items, err)
}

// DraftItem resolves the variant and promotion of an unsaved item and returns
// the prefilled fields, the locked fields and the price preview.
func (h *Handler) DraftItem(c *gin.Context) {
	req, ok := h.bindItem(c)
	if !ok {
		return
	}
	draft, err := h.workflow.Forms().Draft(c.Request.Context(), req)
	respond(c, http.StatusOK, draft, err)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	req, ok := h.bindItem(c)
	if !ok {
		return
	}
	itemID, ok := idParam(c, "itemId")
	if !ok {
		return
	}
	items, err := h.workflow.UpdateItem(c.Request.Context(), capabilities(c), req.OrderID, itemID, req)
	respond(c, http.StatusOK, items, err)
}

func (h *Handler) DeleteItem(c *gin.Context) {
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}
	itemID, ok := idParam(c, "itemId")
	if !ok {
		return
	}
	items, err := h.workflow.DeleteItem(c.Request.Context(), capabilities(c), orderID, itemID)
	respond(c, http.StatusOK, items, err)
}

func (h *Handler) AddTracking(c *gin.Context) {
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}
	var req AddTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	timeline, err := h.workflow.AddTracking(c.Request.Context(), capabilities(c), domain.TrackingInput{
		OrderID:   orderID,
		Status:    req.Status,
		Notes:     req.Notes,
		UpdatedBy: req.UpdatedBy,
	})
	respond(c, http.StatusCreated, timeline, err)
}

func (h *Handler) SignContract(c *gin.Context) {
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}
	var req SignContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	contract, err := h.workflow.SignContract(c.Request.Context(), capabilities(c), orderID, req.DigitalSignature)
	respond(c, http.StatusOK, contract, err)
}
